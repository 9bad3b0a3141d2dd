package account

import (
	"context"
	"errors"
	"fiji/authority"
	"fiji/bizerror"
	"fiji/persistence"
	"fiji/role"
	"fiji/session"

	"github.com/jinzhu/gorm"
	"github.com/sirupsen/logrus"
)

// LoadAuthority resolves the consolidated authorization view of uid. A valid
// provider identity without a backend profile is an authorization failure,
// not an authentication one.
func LoadAuthority(ctx context.Context, uid string) (*authority.Authority, session.Identity, error) {
	db := persistence.ActiveDataSourceManager.GormDB(ctx)

	user := User{}
	if err := db.Where(&User{UID: uid}).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, session.Identity{}, bizerror.ErrUserProfileNotFound
		}
		return nil, session.Identity{}, err
	}
	ident := session.Identity{UID: uid, Email: user.Email, DisplayName: user.DisplayName()}

	roleNames := user.AssignedRoleIds
	if roleNames == nil {
		roleNames = authority.RoleNames{}
	}

	// sysadmin's grant set is implicit and total, never loaded as data
	if roleNames.Contains(authority.SysadminRoleName) {
		return &authority.Authority{Roles: roleNames, Privileges: authority.Privileges{}, Sysadmin: true}, ident, nil
	}

	consolidated := authority.Privileges{}
	for _, name := range roleNames {
		assigned := role.Role{}
		if err := db.Where(&role.Role{Name: name}).First(&assigned).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// a dangling role assignment contributes nothing
				logrus.Warnf("role %s assigned to user %s is not found, skipped", name, uid)
				continue
			}
			return nil, ident, err
		}
		consolidated.Merge(assigned.Privileges)
	}
	return &authority.Authority{Roles: roleNames, Privileges: consolidated, Sysadmin: false}, ident, nil
}
