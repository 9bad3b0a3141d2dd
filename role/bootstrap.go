package role

import (
	"context"
	"fiji/authority"
	"fiji/persistence"
	"time"

	"github.com/jinzhu/gorm"
)

// DefaultSecurityConfiguration seeds the built-in sysadmin role. The role
// record exists only so assignments have something to reference, its grant
// comes from the resolver short-circuit rather than stored privileges.
func DefaultSecurityConfiguration() error {
	db := persistence.ActiveDataSourceManager.GormDB(context.Background())

	return db.Transaction(func(tx *gorm.DB) error {
		existing := Role{Name: authority.SysadminRoleName}
		err := tx.First(&existing, &existing).Error
		if err == nil {
			return nil
		}
		if !gorm.IsRecordNotFoundError(err) {
			return err
		}

		now := time.Now().Round(time.Millisecond)
		seed := Role{
			Name:         authority.SysadminRoleName,
			Description:  "built-in system administrator",
			Privileges:   authority.Privileges{},
			IsSystemRole: true,
			CreateTime:   now,
			UpdateTime:   now,
		}
		return tx.Create(&seed).Error
	})
}
