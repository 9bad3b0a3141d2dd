package account

import (
	"context"
	"errors"
	"fiji/authority"
	"fiji/bizerror"
	"fiji/persistence"
	"fiji/session"
	"time"

	"github.com/jinzhu/gorm"
)

var (
	QueryUsersFunc        = queryUsers
	DetailUserFunc        = detailUser
	CreateUserFunc        = createUser
	UpdateUserProfileFunc = updateUserProfile
	UpdateUserRolesFunc   = updateUserRoles
)

func queryUsers(sec *session.Context) (*[]UserInfo, error) {
	if !sec.HasPermission("users", "view") {
		return nil, bizerror.ErrForbidden
	}
	var users []UserInfo
	db := persistence.ActiveDataSourceManager.GormDB(context.Background())
	if err := db.Model(&User{}).Scan(&users).Error; err != nil {
		return nil, err
	}
	return &users, nil
}

func detailUser(uid string, sec *session.Context) (*UserInfo, error) {
	if uid != sec.Identity.UID && !sec.HasPermission("users", "view") {
		return nil, bizerror.ErrForbidden
	}
	db := persistence.ActiveDataSourceManager.GormDB(context.Background())
	user := User{}
	if err := db.Where(&User{UID: uid}).First(&user).Error; err != nil {
		return nil, err
	}
	return &UserInfo{UID: user.UID, Email: user.Email, FirstName: user.FirstName, LastName: user.LastName,
		AssignedRoleIds: user.AssignedRoleIds, Status: user.Status, LastLoginAt: user.LastLoginAt}, nil
}

func createUser(c *UserCreation, sec *session.Context) (*UserInfo, error) {
	if !sec.HasPermission("users", "create") {
		return nil, bizerror.ErrForbidden
	}
	user := User{UID: c.UID, Email: c.Email, FirstName: c.FirstName, LastName: c.LastName,
		AssignedRoleIds: authority.RoleNames(c.AssignedRoleIds), Status: StatusActive, CreateTime: time.Now()}
	if user.AssignedRoleIds == nil {
		user.AssignedRoleIds = authority.RoleNames{}
	}
	db := persistence.ActiveDataSourceManager.GormDB(context.Background())
	existed := User{}
	if err := db.Where(&User{UID: c.UID}).First(&existed).Error; err == nil {
		return nil, &bizerror.ErrBadParam{Cause: errors.New("user " + c.UID + " is already existed")}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if err := db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &UserInfo{UID: user.UID, Email: user.Email, FirstName: user.FirstName, LastName: user.LastName,
		AssignedRoleIds: user.AssignedRoleIds, Status: user.Status}, nil
}

func updateUserProfile(uid string, u *UserUpdation, sec *session.Context) error {
	if uid != sec.Identity.UID && !sec.HasPermission("users", "edit") {
		return bizerror.ErrForbidden
	}
	db := persistence.ActiveDataSourceManager.GormDB(context.Background())
	return db.Transaction(func(tx *gorm.DB) error {
		user := User{}
		if err := tx.Where(&User{UID: uid}).First(&user).Error; err != nil {
			return err
		}
		return tx.Model(&User{UID: uid}).Updates(map[string]interface{}{
			"first_name": u.FirstName, "last_name": u.LastName}).Error
	})
}

func updateUserRoles(uid string, u *UserRolesUpdation, sec *session.Context) error {
	if !sec.HasPermission("users", "edit") {
		return bizerror.ErrForbidden
	}
	roleIds := u.AssignedRoleIds
	if roleIds == nil {
		roleIds = []string{}
	}
	db := persistence.ActiveDataSourceManager.GormDB(context.Background())
	return db.Transaction(func(tx *gorm.DB) error {
		user := User{}
		if err := tx.Where(&User{UID: uid}).First(&user).Error; err != nil {
			return err
		}
		return tx.Model(&User{UID: uid}).Update("assigned_role_ids", authority.RoleNames(roleIds)).Error
	})
}

// StampLastLogin records the login time of uid. Callers treat a failure as
// non-fatal bookkeeping.
func StampLastLogin(ctx context.Context, uid string) error {
	db := persistence.ActiveDataSourceManager.GormDB(ctx)
	now := time.Now()
	return db.Model(&User{UID: uid}).Update("last_login_at", &now).Error
}
