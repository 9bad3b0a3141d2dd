package invitation

import (
	"fiji/authority"
	"time"

	"github.com/fundwit/go-commons/types"
)

const StatusPending = "pending"
const StatusAccepted = "accepted"
const StatusExpired = "expired"
const StatusRevoked = "revoked"

type Invitation struct {
	ID              types.ID            `json:"id" gorm:"primary_key"`
	Email           string              `json:"email" gorm:"size:256;index"`
	Token           string              `json:"-" gorm:"size:64;unique_index"`
	AssignedRoleIds authority.RoleNames `json:"assignedRoleIds" gorm:"type:text"`
	Status          string              `json:"status" gorm:"size:32"`
	CreatedByUID    string              `json:"createdByUid" gorm:"size:128"`
	CreateTime      time.Time           `json:"createTime"`
	ExpireTime      time.Time           `json:"expireTime"`
	AcceptedAt      *time.Time          `json:"acceptedAt"`
	AcceptedUID     string              `json:"acceptedUid" gorm:"size:128"`
}

type InvitationCreation struct {
	Email           string   `json:"email" validate:"required,email"`
	AssignedRoleIds []string `json:"assignedRoleIds"`
}

// InvitationCreationResult carries the raw token once, at creation time only.
type InvitationCreationResult struct {
	Invitation
	Token string `json:"token"`
}

type InvitationAcceptance struct {
	Token     string `json:"token" validate:"required"`
	UID       string `json:"uid" validate:"required,lte=128"`
	FirstName string `json:"firstName" validate:"omitempty,lte=128"`
	LastName  string `json:"lastName" validate:"omitempty,lte=128"`
}
