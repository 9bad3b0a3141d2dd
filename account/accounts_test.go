package account_test

import (
	"context"
	"fiji/account"
	"fiji/authority"
	"fiji/bizerror"
	"fiji/persistence"
	"fiji/role"
	"fiji/testinfra"
	"testing"

	. "github.com/onsi/gomega"
)

func TestUserManage(t *testing.T) {
	RegisterTestingT(t)

	var testDatabase *testinfra.TestDatabase
	adminCtx := testinfra.BuildSecCtx("admin-user", "users:view", "users:create", "users:edit")

	t.Run("should create and query users", func(t *testing.T) {
		defer afterEachAccountCase(t, testDatabase)
		testDatabase = beforeEachAccountCase(t)

		created, err := account.CreateUserFunc(&account.UserCreation{UID: "user-1", Email: "ann@test.local",
			FirstName: "Ann", AssignedRoleIds: []string{"coordinator"}}, adminCtx)
		Expect(err).To(BeNil())
		Expect(created.Status).To(Equal(account.StatusActive))
		Expect(created.AssignedRoleIds).To(Equal(authority.RoleNames{"coordinator"}))

		_, err = account.CreateUserFunc(&account.UserCreation{UID: "user-1", Email: "ann@test.local"}, adminCtx)
		Expect(err).ToNot(BeNil())

		users, err := account.QueryUsersFunc(adminCtx)
		Expect(err).To(BeNil())
		Expect(len(*users)).To(Equal(1))
	})

	t.Run("detail is self-or-admin", func(t *testing.T) {
		defer afterEachAccountCase(t, testDatabase)
		testDatabase = beforeEachAccountCase(t)

		_, err := account.CreateUserFunc(&account.UserCreation{UID: "user-1", Email: "ann@test.local"}, adminCtx)
		Expect(err).To(BeNil())

		selfCtx := testinfra.BuildSecCtx("user-1")
		detail, err := account.DetailUserFunc("user-1", selfCtx)
		Expect(err).To(BeNil())
		Expect(detail.Email).To(Equal("ann@test.local"))

		strangerCtx := testinfra.BuildSecCtx("somebody-else")
		_, err = account.DetailUserFunc("user-1", strangerCtx)
		Expect(err).To(Equal(bizerror.ErrForbidden))

		_, err = account.DetailUserFunc("user-1", adminCtx)
		Expect(err).To(BeNil())
	})

	t.Run("service level checks refuse missing grants", func(t *testing.T) {
		defer afterEachAccountCase(t, testDatabase)
		testDatabase = beforeEachAccountCase(t)

		plainCtx := testinfra.BuildSecCtx("user-1")
		_, err := account.QueryUsersFunc(plainCtx)
		Expect(err).To(Equal(bizerror.ErrForbidden))

		_, err = account.CreateUserFunc(&account.UserCreation{UID: "x", Email: "x@test.local"}, plainCtx)
		Expect(err).To(Equal(bizerror.ErrForbidden))

		Expect(account.UpdateUserRolesFunc("user-1", &account.UserRolesUpdation{}, plainCtx)).
			To(Equal(bizerror.ErrForbidden))
	})

	t.Run("profile updates are self-or-admin, role updates admin only", func(t *testing.T) {
		defer afterEachAccountCase(t, testDatabase)
		testDatabase = beforeEachAccountCase(t)

		_, err := account.CreateUserFunc(&account.UserCreation{UID: "user-1", Email: "ann@test.local"}, adminCtx)
		Expect(err).To(BeNil())

		selfCtx := testinfra.BuildSecCtx("user-1")
		Expect(account.UpdateUserProfileFunc("user-1",
			&account.UserUpdation{FirstName: "Ann", LastName: "Lee"}, selfCtx)).To(BeNil())

		// changing one's own roles still needs the users edit grant
		Expect(account.UpdateUserRolesFunc("user-1",
			&account.UserRolesUpdation{AssignedRoleIds: []string{"sysadmin"}}, selfCtx)).
			To(Equal(bizerror.ErrForbidden))

		Expect(account.UpdateUserRolesFunc("user-1",
			&account.UserRolesUpdation{AssignedRoleIds: []string{"coordinator"}}, adminCtx)).To(BeNil())

		detail, err := account.DetailUserFunc("user-1", adminCtx)
		Expect(err).To(BeNil())
		Expect(detail.FirstName).To(Equal("Ann"))
		Expect(detail.AssignedRoleIds).To(Equal(authority.RoleNames{"coordinator"}))
	})

	t.Run("stamp last login is visible on the profile", func(t *testing.T) {
		defer afterEachAccountCase(t, testDatabase)
		testDatabase = beforeEachAccountCase(t)

		_, err := account.CreateUserFunc(&account.UserCreation{UID: "user-1", Email: "ann@test.local"}, adminCtx)
		Expect(err).To(BeNil())

		Expect(account.StampLastLogin(context.Background(), "user-1")).To(BeNil())

		detail, err := account.DetailUserFunc("user-1", adminCtx)
		Expect(err).To(BeNil())
		Expect(detail.LastLoginAt).ToNot(BeNil())
	})
}

func beforeEachAccountCase(t *testing.T) *testinfra.TestDatabase {
	testDatabase := testinfra.StartMysqlTestDatabase("fiji")
	persistence.ActiveDataSourceManager = testDatabase.DS
	Expect(testDatabase.DS.GormDB(context.Background()).
		AutoMigrate(&account.User{}, &role.Role{}).Error).To(BeNil())
	return testDatabase
}

func afterEachAccountCase(t *testing.T, testDatabase *testinfra.TestDatabase) {
	if testDatabase != nil {
		testinfra.StopMysqlTestDatabase(testDatabase)
	}
}
