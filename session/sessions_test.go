package session_test

import (
	"context"
	"fiji/authority"
	"fiji/bizerror"
	"fiji/identity"
	"fiji/session"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
)

func TestBuildSecurityContext(t *testing.T) {
	RegisterTestingT(t)

	t.Run("should accept a backend session token without calling the provider", func(t *testing.T) {
		defer resetSessionFuncs()
		session.Configure("test-secret", time.Hour)
		providerCalled := false
		identity.VerifyIdentityFunc = func(ctx context.Context, bearerToken string) (*identity.Claims, error) {
			providerCalled = true
			return nil, identity.ErrTokenInvalid
		}
		session.LoadAuthorityFunc = func(ctx context.Context, uid string) (*authority.Authority, session.Identity, error) {
			return &authority.Authority{Roles: authority.RoleNames{"coordinator"},
					Privileges: authority.Privileges{"events": {"view"}}},
				session.Identity{UID: uid, Email: "ann@test.local", DisplayName: "Ann"}, nil
		}

		token, _, err := session.CreateSessionToken(context.Background(), "user-1")
		Expect(err).To(BeNil())

		secCtx, err := session.BuildSecurityContext(context.Background(), token)
		Expect(err).To(BeNil())
		Expect(providerCalled).To(BeFalse())
		Expect(secCtx.Identity).To(Equal(session.Identity{UID: "user-1", Email: "ann@test.local", DisplayName: "Ann"}))
		Expect(secCtx.HasPermission("events", "view")).To(BeTrue())
		Expect(secCtx.HasPermission("events", "edit")).To(BeFalse())
	})

	t.Run("should fall back to provider verification for foreign tokens", func(t *testing.T) {
		defer resetSessionFuncs()
		session.Configure("test-secret", time.Hour)
		identity.VerifyIdentityFunc = func(ctx context.Context, bearerToken string) (*identity.Claims, error) {
			Expect(bearerToken).To(Equal("provider-token"))
			return &identity.Claims{UID: "user-2", Email: "bob@test.local", DisplayName: "Bob"}, nil
		}
		session.LoadAuthorityFunc = func(ctx context.Context, uid string) (*authority.Authority, session.Identity, error) {
			return &authority.Authority{Sysadmin: true, Roles: authority.RoleNames{authority.SysadminRoleName}},
				session.Identity{UID: uid}, nil
		}

		secCtx, err := session.BuildSecurityContext(context.Background(), "provider-token")
		Expect(err).To(BeNil())
		Expect(secCtx.Identity.UID).To(Equal("user-2"))
		Expect(secCtx.Identity.Email).To(Equal("bob@test.local"))
		Expect(secCtx.Sysadmin).To(BeTrue())
		// sysadmin is granted everything without stored privileges
		Expect(secCtx.HasPermission("anything", "at_all")).To(BeTrue())
	})

	t.Run("should translate provider rejections to unauthenticated", func(t *testing.T) {
		defer resetSessionFuncs()
		session.Configure("test-secret", time.Hour)
		for _, cause := range []error{identity.ErrTokenInvalid, identity.ErrTokenRevoked, identity.ErrAccountDisabled} {
			failure := cause
			identity.VerifyIdentityFunc = func(ctx context.Context, bearerToken string) (*identity.Claims, error) {
				return nil, failure
			}
			_, err := session.BuildSecurityContext(context.Background(), "bad-token")
			Expect(err).To(Equal(bizerror.ErrUnauthenticated), "for cause %v", failure)
		}
	})

	t.Run("should surface provider outage as service unavailable", func(t *testing.T) {
		defer resetSessionFuncs()
		session.Configure("test-secret", time.Hour)
		identity.VerifyIdentityFunc = func(ctx context.Context, bearerToken string) (*identity.Claims, error) {
			return nil, identity.ErrServiceUnavailable
		}
		_, err := session.BuildSecurityContext(context.Background(), "any-token")
		Expect(err).To(Equal(bizerror.ErrServiceUnavailable))
	})

	t.Run("should reject provider claims without a uid", func(t *testing.T) {
		defer resetSessionFuncs()
		session.Configure("test-secret", time.Hour)
		identity.VerifyIdentityFunc = func(ctx context.Context, bearerToken string) (*identity.Claims, error) {
			return &identity.Claims{}, nil
		}
		_, err := session.BuildSecurityContext(context.Background(), "empty-claims")
		Expect(err).To(Equal(bizerror.ErrUnauthenticated))
	})

	t.Run("should propagate a missing user profile", func(t *testing.T) {
		defer resetSessionFuncs()
		session.Configure("test-secret", time.Hour)
		identity.VerifyIdentityFunc = func(ctx context.Context, bearerToken string) (*identity.Claims, error) {
			return &identity.Claims{UID: "ghost"}, nil
		}
		session.LoadAuthorityFunc = func(ctx context.Context, uid string) (*authority.Authority, session.Identity, error) {
			return nil, session.Identity{}, bizerror.ErrUserProfileNotFound
		}
		_, err := session.BuildSecurityContext(context.Background(), "any-token")
		Expect(err).To(Equal(bizerror.ErrUserProfileNotFound))
	})
}

func TestRequirePermission(t *testing.T) {
	RegisterTestingT(t)
	gin.SetMode(gin.ReleaseMode)

	buildRouter := func(secCtx *session.Context) *gin.Engine {
		router := gin.New()
		router.Use(bizerror.ErrorHandling())
		router.Use(func(c *gin.Context) {
			if secCtx != nil {
				session.SaveSecurityContext(c, secCtx)
			}
			c.Next()
		})
		router.GET("/probe", session.RequirePermission("events", "edit"), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})
		return router
	}

	t.Run("should return 401 without a security context", func(t *testing.T) {
		router := buildRouter(nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/probe", nil))
		Expect(w.Code).To(Equal(http.StatusUnauthorized))
	})

	t.Run("should return 403 without the exact grant", func(t *testing.T) {
		router := buildRouter(&session.Context{Token: "t", Identity: session.Identity{UID: "user-1"},
			Privileges: authority.Privileges{"events": {"view"}}})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/probe", nil))
		Expect(w.Code).To(Equal(http.StatusForbidden))
	})

	t.Run("should pass with the grant or with sysadmin", func(t *testing.T) {
		router := buildRouter(&session.Context{Token: "t", Identity: session.Identity{UID: "user-1"},
			Privileges: authority.Privileges{"events": {"view", "edit"}}})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/probe", nil))
		Expect(w.Code).To(Equal(http.StatusOK))

		router = buildRouter(&session.Context{Token: "t", Identity: session.Identity{UID: "root"}, Sysadmin: true})
		w = httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/probe", nil))
		Expect(w.Code).To(Equal(http.StatusOK))
	})
}

func TestBearerToken(t *testing.T) {
	RegisterTestingT(t)
	gin.SetMode(gin.ReleaseMode)

	extract := func(header string) string {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			c.Request.Header.Set("Authorization", header)
		}
		return session.BearerToken(c)
	}

	t.Run("should extract the bearer credential", func(t *testing.T) {
		Expect(extract("Bearer abc123")).To(Equal("abc123"))
		Expect(extract("Bearer   abc123  ")).To(Equal("abc123"))
	})

	t.Run("should ignore other schemes and absent headers", func(t *testing.T) {
		Expect(extract("")).To(BeEmpty())
		Expect(extract("Basic abc123")).To(BeEmpty())
		Expect(extract("bearer abc123")).To(BeEmpty())
	})
}

func resetSessionFuncs() {
	session.Configure("", session.DefaultTokenExpiration)
	session.LoadAuthorityFunc = nil
	identity.VerifyIdentityFunc = func(ctx context.Context, bearerToken string) (*identity.Claims, error) {
		return nil, identity.ErrServiceUnavailable
	}
	session.StampLastLoginFunc = func(ctx context.Context, uid string) error { return nil }
}
