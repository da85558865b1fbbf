package authz

import (
	"sort"
	"strings"
)

// RoleSet is a set of roles allowed on a route.
//
// A nil RoleSet means "no restriction" (any authenticated session) and is distinct from
// an empty, non-nil RoleSet, which allows nobody. NewRoleSet always returns a non-nil set.
type RoleSet map[Role]struct{}

// NewRoleSet builds a set from the given roles. With no arguments it returns an empty
// set that denies every role.
func NewRoleSet(roles ...Role) RoleSet {
	set := make(RoleSet, len(roles))
	for _, r := range roles {
		set[r] = struct{}{}
	}
	return set
}

// AtLeast returns the set of roles that include min.
func AtLeast(min Role) RoleSet {
	set := NewRoleSet()
	for _, r := range AllRoles {
		if r.Includes(min) {
			set[r] = struct{}{}
		}
	}
	return set
}

// ParseRoleSet normalizes each raw role string; an empty input yields an empty set.
func ParseRoleSet(raw ...string) RoleSet {
	set := NewRoleSet()
	for _, s := range raw {
		set[Normalize(s)] = struct{}{}
	}
	return set
}

// Restricted reports whether the set imposes a restriction at all.
func (s RoleSet) Restricted() bool {
	return s != nil
}

// Allows reports whether role passes the set. A nil set allows every role.
func (s RoleSet) Allows(role Role) bool {
	if s == nil {
		return true
	}
	_, ok := s[role]
	return ok
}

// Roles returns the members ordered by privilege.
func (s RoleSet) Roles() []Role {
	out := make([]Role, 0, len(s))
	for r := range s {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].level() < out[j].level() })
	return out
}

// String renders the set for logs, e.g. "{admin,superadmin}" or "any".
func (s RoleSet) String() string {
	if s == nil {
		return "any"
	}
	names := make([]string, 0, len(s))
	for _, r := range s.Roles() {
		names = append(names, string(r))
	}
	return "{" + strings.Join(names, ",") + "}"
}
