package workgroup

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/fundwit/go-commons/types"
)

// MemberList is stored as a JSON array in a text column.
type MemberList []string

func (l MemberList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *MemberList) Scan(v interface{}) error {
	switch raw := v.(type) {
	case []byte:
		return json.Unmarshal(raw, l)
	case string:
		return json.Unmarshal([]byte(raw), l)
	default:
		return errors.New("unsupported source type of MemberList")
	}
}

func (l MemberList) Contains(uid string) bool {
	for _, m := range l {
		if m == uid {
			return true
		}
	}
	return false
}

type WorkingGroup struct {
	ID          types.ID   `json:"id" gorm:"primary_key"`
	Name        string     `json:"name" gorm:"size:128"`
	Description string     `json:"description" gorm:"type:text"`
	LeadUID     string     `json:"leadUid" gorm:"size:128;index"`
	MemberUids  MemberList `json:"memberUids" gorm:"type:text"`
	CreateTime  time.Time  `json:"createTime"`
	UpdateTime  time.Time  `json:"updateTime"`
}

type WorkingGroupCreation struct {
	Name        string   `json:"name" validate:"required,lte=128"`
	Description string   `json:"description"`
	LeadUID     string   `json:"leadUid" validate:"omitempty,lte=128"`
	MemberUids  []string `json:"memberUids"`
}

type WorkingGroupUpdating struct {
	Name        string   `json:"name" validate:"required,lte=128"`
	Description string   `json:"description"`
	LeadUID     string   `json:"leadUid" validate:"omitempty,lte=128"`
	MemberUids  []string `json:"memberUids"`
}
