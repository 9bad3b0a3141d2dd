package role

import (
	"context"
	"errors"
	"fiji/authority"
	"fiji/bizerror"
	"fiji/persistence"
	"fiji/session"
	"regexp"
	"time"

	"github.com/jinzhu/gorm"
)

var roleNamePattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

var (
	QueryRolesFunc = queryRoles
	DetailRoleFunc = detailRole
	CreateRoleFunc = createRole
	UpdateRoleFunc = updateRole
	DeleteRoleFunc = deleteRole
)

// ValidateRoleName rejects names outside the safe identifier charset and the
// path-sensitive names "." and "..".
func ValidateRoleName(name string) error {
	if name == "" || name == "." || name == ".." || !roleNamePattern.MatchString(name) {
		return errors.New("invalid role name '" + name + "'")
	}
	return nil
}

func queryRoles(sec *session.Context) (*[]Role, error) {
	var roles []Role
	db := persistence.ActiveDataSourceManager.GormDB(context.Background())
	if err := db.Model(&Role{}).Order("name").Scan(&roles).Error; err != nil {
		return nil, err
	}
	return &roles, nil
}

func detailRole(name string, sec *session.Context) (*Role, error) {
	db := persistence.ActiveDataSourceManager.GormDB(context.Background())
	record := Role{}
	if err := db.Where(&Role{Name: name}).First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func createRole(c *RoleCreation, sec *session.Context) (*Role, error) {
	if err := ValidateRoleName(c.Name); err != nil {
		return nil, &bizerror.ErrBadParam{Cause: err}
	}
	if c.Name == authority.SysadminRoleName {
		return nil, &bizerror.ErrBadParam{Cause: errors.New("role name '" + authority.SysadminRoleName + "' is reserved")}
	}

	now := time.Now()
	record := Role{Name: c.Name, Description: c.Description, Privileges: c.Privileges,
		IsSystemRole: false, CreateTime: now, UpdateTime: now}
	if record.Privileges == nil {
		record.Privileges = authority.Privileges{}
	}

	db := persistence.ActiveDataSourceManager.GormDB(context.Background())
	err := db.Transaction(func(tx *gorm.DB) error {
		existed := Role{}
		if err := tx.Where(&Role{Name: c.Name}).First(&existed).Error; err == nil {
			return &bizerror.ErrBadParam{Cause: errors.New("role " + c.Name + " is already existed")}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return tx.Create(&record).Error
	})
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func updateRole(name string, u *RoleUpdating, sec *session.Context) (*Role, error) {
	db := persistence.ActiveDataSourceManager.GormDB(context.Background())
	record := Role{}
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(&Role{Name: name}).First(&record).Error; err != nil {
			return err
		}
		if record.IsSystemRole {
			return bizerror.ErrForbidden
		}
		privileges := u.Privileges
		if privileges == nil {
			privileges = authority.Privileges{}
		}
		updates := map[string]interface{}{
			"description": u.Description,
			"privileges":  privileges,
			"update_time": time.Now(),
		}
		if err := tx.Model(&Role{Name: name}).Updates(updates).Error; err != nil {
			return err
		}
		return tx.Where(&Role{Name: name}).First(&record).Error
	})
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func deleteRole(name string, sec *session.Context) error {
	db := persistence.ActiveDataSourceManager.GormDB(context.Background())
	return db.Transaction(func(tx *gorm.DB) error {
		record := Role{}
		if err := tx.Where(&Role{Name: name}).First(&record).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		if record.IsSystemRole {
			return bizerror.ErrForbidden
		}
		// users referencing the deleted role keep the dangling assignment,
		// the resolver skips it
		return tx.Where(&Role{Name: name}).Delete(&Role{}).Error
	})
}
