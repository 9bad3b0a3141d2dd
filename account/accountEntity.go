package account

import (
	"fiji/authority"
	"time"
)

const StatusActive = "active"
const StatusDisabled = "disabled"

// User is the authorization view of a volunteer account. The UID is the
// subject identifier issued by the external identity provider.
type User struct {
	UID             string              `json:"uid" gorm:"primary_key;size:128"`
	Email           string              `json:"email" gorm:"size:128"`
	FirstName       string              `json:"firstName" gorm:"size:64"`
	LastName        string              `json:"lastName" gorm:"size:64"`
	AssignedRoleIds authority.RoleNames `json:"assignedRoleIds" gorm:"type:text"`
	Status          string              `json:"status" gorm:"size:32"`
	LastLoginAt     *time.Time          `json:"lastLoginAt"`
	CreateTime      time.Time           `json:"createTime"`
}

type UserInfo struct {
	UID             string              `json:"uid"`
	Email           string              `json:"email"`
	FirstName       string              `json:"firstName"`
	LastName        string              `json:"lastName"`
	AssignedRoleIds authority.RoleNames `json:"assignedRoleIds"`
	Status          string              `json:"status"`
	LastLoginAt     *time.Time          `json:"lastLoginAt"`
}

type UserCreation struct {
	UID             string   `json:"uid" validate:"required,lte=128"`
	Email           string   `json:"email" validate:"required,email"`
	FirstName       string   `json:"firstName" validate:"omitempty,lte=64"`
	LastName        string   `json:"lastName" validate:"omitempty,lte=64"`
	AssignedRoleIds []string `json:"assignedRoleIds"`
}

type UserUpdation struct {
	FirstName string `json:"firstName" validate:"omitempty,lte=64"`
	LastName  string `json:"lastName" validate:"omitempty,lte=64"`
}

type UserRolesUpdation struct {
	AssignedRoleIds []string `json:"assignedRoleIds"`
}

func (u User) DisplayName() string {
	if u.FirstName == "" && u.LastName == "" {
		return u.Email
	}
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
