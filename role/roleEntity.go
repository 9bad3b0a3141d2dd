package role

import (
	"fiji/authority"
	"time"
)

// Role is identified by its name, which is also its storage key.
type Role struct {
	Name         string               `json:"name" gorm:"primary_key;size:64"`
	Description  string               `json:"description" gorm:"size:256"`
	Privileges   authority.Privileges `json:"privileges" gorm:"type:text"`
	IsSystemRole bool                 `json:"isSystemRole"`
	CreateTime   time.Time            `json:"createTime"`
	UpdateTime   time.Time            `json:"updateTime"`
}

type RoleCreation struct {
	Name        string               `json:"name" validate:"required,lte=64"`
	Description string               `json:"description" validate:"omitempty,lte=256"`
	Privileges  authority.Privileges `json:"privileges"`
}

type RoleUpdating struct {
	Description string               `json:"description" validate:"omitempty,lte=256"`
	Privileges  authority.Privileges `json:"privileges"`
}
