package testinfra

import (
	"fiji/authority"
	"fiji/session"
	"io/ioutil"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
)

// BuildSecCtx builds a security context carrying the given consolidated
// privileges, as grants of the form "resource:action".
func BuildSecCtx(uid string, grants ...string) *session.Context {
	privileges := authority.Privileges{}
	for _, grant := range grants {
		for i := 0; i < len(grant); i++ {
			if grant[i] == ':' {
				resource, action := grant[:i], grant[i+1:]
				privileges[resource] = append(privileges[resource], action)
				break
			}
		}
	}
	return &session.Context{
		Token:      "test-token-" + uid,
		Identity:   session.Identity{UID: uid, Email: uid + "@test.local"},
		Privileges: privileges,
	}
}

// BuildSysadminSecCtx builds a security context with the sysadmin grant-all.
func BuildSysadminSecCtx(uid string) *session.Context {
	ctx := BuildSecCtx(uid)
	ctx.Roles = authority.RoleNames{authority.SysadminRoleName}
	ctx.Sysadmin = true
	return ctx
}

// ExecuteRequest drives the engine with an in-memory request and returns
// the response status, body and raw response.
func ExecuteRequest(req *http.Request, engine *gin.Engine) (int, string, *http.Response) {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	resp := w.Result()
	defer func() {
		_ = resp.Body.Close()
	}()
	body, _ := ioutil.ReadAll(resp.Body)
	return resp.StatusCode, string(body), resp
}

// InjectSecCtx returns a middleware placing the given security context into
// the request, standing in for the auth filter in handler tests.
func InjectSecCtx(sec *session.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		session.SaveSecurityContext(c, sec)
		c.Next()
	}
}
