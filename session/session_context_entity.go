package session

import (
	"fiji/authority"
	"time"
)

type Identity struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
}

// Context is the authorized user view of one request. It is rebuilt from the
// user and role documents on every request and never persisted.
type Context struct {
	Token      string               `json:"token"`
	Identity   Identity             `json:"identity"`
	Roles      authority.RoleNames  `json:"roles"`
	Privileges authority.Privileges `json:"privileges"`
	Sysadmin   bool                 `json:"sysadmin"`

	SigningTime time.Time `json:"-"`
}

// HasPermission is true unconditionally for a sysadmin, otherwise iff action is
// among the consolidated actions of resource.
func (c *Context) HasPermission(resource, action string) bool {
	if c == nil {
		return false
	}
	if c.Sysadmin {
		return true
	}
	return c.Privileges.HasPermission(resource, action)
}
