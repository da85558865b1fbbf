// Package authz models the platform's roles and the role sets that gate navigation.
//
// Role strings arriving from the backend are untrusted: they are normalized into the
// closed Role type at the boundary and nothing downstream branches on raw strings.
package authz

import (
	"strings"
	"unicode"
)

// Role represents one of the three platform roles.
type Role string

const (
	RoleUser       Role = "user"       // Personal library, search, chat
	RoleAdmin      Role = "admin"      // Adds the general library
	RoleSuperAdmin Role = "superadmin" // Adds document approval and user management
)

// AllRoles lists the roles from least to most privileged.
var AllRoles = []Role{RoleUser, RoleAdmin, RoleSuperAdmin}

// stripSeparators drops whitespace, '_' and '-' so "Super Admin", "super_admin",
// "super-admin" and "SuperAdmin" all collapse to "superadmin".
func stripSeparators(r rune) rune {
	if unicode.IsSpace(r) || r == '_' || r == '-' {
		return -1
	}
	return r
}

// Normalize converts a backend role string to a Role.
// Unknown or empty values map to RoleUser (least privilege).
func Normalize(raw string) Role {
	cleaned := strings.Map(stripSeparators, strings.ToLower(raw))
	switch cleaned {
	case "superadmin":
		return RoleSuperAdmin
	case "admin":
		return RoleAdmin
	default:
		return RoleUser
	}
}

// Valid reports whether r is one of the canonical roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// level orders roles by privilege. It is only used for Includes.
func (r Role) level() int {
	switch r {
	case RoleSuperAdmin:
		return 3
	case RoleAdmin:
		return 2
	case RoleUser:
		return 1
	default:
		return 0
	}
}

// Includes reports whether r carries every capability of other
// (superadmin ⊇ admin ⊇ user).
func (r Role) Includes(other Role) bool {
	return r.Valid() && other.Valid() && r.level() >= other.level()
}

// APIValue is the string the backend expects when a role is sent back to it.
func (r Role) APIValue() string {
	if r == RoleSuperAdmin {
		return "super_admin"
	}
	if !r.Valid() {
		return string(RoleUser)
	}
	return string(r)
}

// Label is the human-facing role name shown in headers and tables.
func (r Role) Label() string {
	switch r {
	case RoleSuperAdmin:
		return "Super Administrateur"
	case RoleAdmin:
		return "Administrateur"
	default:
		return "Utilisateur"
	}
}

// String implements fmt.Stringer
func (r Role) String() string {
	return string(r)
}
