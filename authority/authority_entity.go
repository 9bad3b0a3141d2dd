package authority

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"github.com/sirupsen/logrus"
)

// SysadminRoleName is the reserved role granting every permission unconditionally.
// Its grant set is implicit and never materialized as data.
const SysadminRoleName = "sysadmin"

// Privileges is the consolidated permission set of a user: resource name to allowed actions.
type Privileges map[string][]string

func (p Privileges) HasPermission(resource, action string) bool {
	actions, found := p[resource]
	if !found {
		return false
	}
	for _, v := range actions {
		if v == action {
			return true
		}
	}
	return false
}

// Merge unions the actions of other into the receiver, per resource.
func (p Privileges) Merge(other Privileges) {
	for resource, actions := range other {
		existed := p[resource]
	next:
		for _, action := range actions {
			for _, v := range existed {
				if v == action {
					continue next
				}
			}
			existed = append(existed, action)
		}
		p[resource] = existed
	}
}

func (p Privileges) Value() (driver.Value, error) {
	if p == nil {
		return "{}", nil
	}
	bytes, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return string(bytes), nil
}

func (p *Privileges) Scan(src interface{}) error {
	var bytes []byte
	switch v := src.(type) {
	case nil:
		*p = Privileges{}
		return nil
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("unsupported source type of privileges")
	}

	// a non-list action value for a resource is skipped, never fatal
	raw := map[string]interface{}{}
	if err := json.Unmarshal(bytes, &raw); err != nil {
		return err
	}
	result := Privileges{}
	for resource, value := range raw {
		list, ok := value.([]interface{})
		if !ok {
			logrus.Warnf("privileges of resource %s is not a list, skipped", resource)
			continue
		}
		actions := []string{}
		for _, item := range list {
			action, ok := item.(string)
			if !ok {
				logrus.Warnf("action %v of resource %s is not a string, skipped", item, resource)
				continue
			}
			actions = append(actions, action)
		}
		result[resource] = actions
	}
	*p = result
	return nil
}

// RoleNames is an embedded list of role names, persisted as a JSON column.
type RoleNames []string

func (r RoleNames) Contains(name string) bool {
	for _, v := range r {
		if v == name {
			return true
		}
	}
	return false
}

func (r RoleNames) Value() (driver.Value, error) {
	if r == nil {
		return "[]", nil
	}
	bytes, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	return string(bytes), nil
}

func (r *RoleNames) Scan(src interface{}) error {
	if src == nil {
		*r = RoleNames{}
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, r)
	case string:
		return json.Unmarshal([]byte(v), r)
	default:
		return errors.New("unsupported source type of role names")
	}
}

// Authority is the resolved authorization view of a user, rebuilt on every request.
type Authority struct {
	Roles      RoleNames  `json:"roles"`
	Privileges Privileges `json:"privileges"`
	Sysadmin   bool       `json:"sysadmin"`
}

func (a *Authority) HasPermission(resource, action string) bool {
	if a == nil {
		return false
	}
	if a.Sysadmin {
		return true
	}
	return a.Privileges.HasPermission(resource, action)
}
