package account_test

import (
	"bytes"
	"fiji/account"
	"fiji/authority"
	"fiji/bizerror"
	"fiji/session"
	"fiji/testinfra"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
)

func TestUsersRestApi(t *testing.T) {
	RegisterTestingT(t)
	gin.SetMode(gin.ReleaseMode)

	buildRouter := func(secCtx *session.Context) *gin.Engine {
		router := gin.New()
		router.Use(bizerror.ErrorHandling())
		if secCtx != nil {
			account.RegisterUsersHandler(router, testinfra.InjectSecCtx(secCtx))
		} else {
			account.RegisterUsersHandler(router)
		}
		return router
	}

	t.Run("should return 401 without a security context", func(t *testing.T) {
		defer resetUsersRestMocks()

		req := httptest.NewRequest(http.MethodGet, "/v1/users", nil)
		status, body, _ := testinfra.ExecuteRequest(req, buildRouter(nil))
		Expect(status).To(Equal(http.StatusUnauthorized))
		Expect(body).To(MatchJSON(`{"code":"common.unauthenticated","message":"unauthenticated","data":null}`))
	})

	t.Run("should render the service result", func(t *testing.T) {
		defer resetUsersRestMocks()
		account.QueryUsersFunc = func(sec *session.Context) (*[]account.UserInfo, error) {
			Expect(sec.Identity.UID).To(Equal("admin-user"))
			return &[]account.UserInfo{{UID: "user-1", Email: "ann@test.local",
				AssignedRoleIds: authority.RoleNames{"coordinator"}, Status: account.StatusActive}}, nil
		}

		req := httptest.NewRequest(http.MethodGet, "/v1/users", nil)
		status, body, _ := testinfra.ExecuteRequest(req, buildRouter(testinfra.BuildSecCtx("admin-user", "users:view")))
		Expect(status).To(Equal(http.StatusOK))
		Expect(body).To(MatchJSON(`[{"uid":"user-1","email":"ann@test.local","firstName":"","lastName":"",
			"assignedRoleIds":["coordinator"],"status":"active","lastLoginAt":null}]`))
	})

	t.Run("a forbidden service call maps to 403", func(t *testing.T) {
		defer resetUsersRestMocks()
		account.QueryUsersFunc = func(sec *session.Context) (*[]account.UserInfo, error) {
			return nil, bizerror.ErrForbidden
		}

		req := httptest.NewRequest(http.MethodGet, "/v1/users", nil)
		status, body, _ := testinfra.ExecuteRequest(req, buildRouter(testinfra.BuildSecCtx("user-1")))
		Expect(status).To(Equal(http.StatusForbidden))
		Expect(body).To(MatchJSON(`{"code":"security.forbidden","message":"access forbidden","data":null}`))
	})

	t.Run("creation validates the payload before the service runs", func(t *testing.T) {
		defer resetUsersRestMocks()
		called := false
		account.CreateUserFunc = func(c *account.UserCreation, sec *session.Context) (*account.UserInfo, error) {
			called = true
			return &account.UserInfo{UID: c.UID, Email: c.Email, Status: account.StatusActive}, nil
		}

		router := buildRouter(testinfra.BuildSecCtx("admin-user", "users:create"))

		req := httptest.NewRequest(http.MethodPost, "/v1/users",
			bytes.NewReader([]byte(`{"uid":"user-1","email":"not-an-email"}`)))
		status, _, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusBadRequest))
		Expect(called).To(BeFalse())

		req = httptest.NewRequest(http.MethodPost, "/v1/users",
			bytes.NewReader([]byte(`{"uid":"user-1","email":"ann@test.local"}`)))
		status, _, _ = testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusCreated))
		Expect(called).To(BeTrue())
	})
}

var (
	originalQueryUsersFunc = account.QueryUsersFunc
	originalCreateUserFunc = account.CreateUserFunc
)

func resetUsersRestMocks() {
	account.QueryUsersFunc = originalQueryUsersFunc
	account.CreateUserFunc = originalCreateUserFunc
}
