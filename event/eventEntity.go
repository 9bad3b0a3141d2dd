package event

import (
	"time"

	"github.com/fundwit/go-commons/types"
)

const StatusDraft = "draft"
const StatusOpen = "open"
const StatusCompleted = "completed"
const StatusCancelled = "cancelled"

// Event is a single or recurring volunteer event. The recurrence rule is
// carried as opaque data, expansion happens elsewhere.
type Event struct {
	ID             types.ID  `json:"id" gorm:"primary_key"`
	Name           string    `json:"name" gorm:"size:128"`
	Description    string    `json:"description" gorm:"type:text"`
	Location       string    `json:"location" gorm:"size:256"`
	StartTime      time.Time `json:"startTime"`
	EndTime        time.Time `json:"endTime"`
	RecurrenceRule string    `json:"recurrenceRule" gorm:"size:256"`
	OrganizerUID   string    `json:"organizerUid" gorm:"size:128;index"`
	Status         string    `json:"status" gorm:"size:32"`
	CreateTime     time.Time `json:"createTime"`
	UpdateTime     time.Time `json:"updateTime"`
}

type EventCreation struct {
	Name           string    `json:"name" validate:"required,lte=128"`
	Description    string    `json:"description"`
	Location       string    `json:"location" validate:"omitempty,lte=256"`
	StartTime      time.Time `json:"startTime" validate:"required"`
	EndTime        time.Time `json:"endTime"`
	RecurrenceRule string    `json:"recurrenceRule" validate:"omitempty,lte=256"`
	Status         string    `json:"status" validate:"omitempty,oneof=draft open completed cancelled"`
}

type EventUpdating struct {
	Name           string    `json:"name" validate:"required,lte=128"`
	Description    string    `json:"description"`
	Location       string    `json:"location" validate:"omitempty,lte=256"`
	StartTime      time.Time `json:"startTime" validate:"required"`
	EndTime        time.Time `json:"endTime"`
	RecurrenceRule string    `json:"recurrenceRule" validate:"omitempty,lte=256"`
	Status         string    `json:"status" validate:"omitempty,oneof=draft open completed cancelled"`
}

type EventQuery struct {
	Status string `form:"status"`
}
