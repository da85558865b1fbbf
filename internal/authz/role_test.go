package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		raw  string
		want Role
	}{
		{"superadmin", RoleSuperAdmin},
		{"SuperAdmin", RoleSuperAdmin},
		{"super_admin", RoleSuperAdmin},
		{"Super Admin", RoleSuperAdmin},
		{"SUPER-ADMIN", RoleSuperAdmin},
		{"  super admin  ", RoleSuperAdmin},
		{"Super\u00a0Admin", RoleSuperAdmin},
		{"super\n_\radmin", RoleSuperAdmin},
		{"Admin\v\f", RoleAdmin},
		{"admin", RoleAdmin},
		{"Admin", RoleAdmin},
		{"ADMIN", RoleAdmin},
		{"user", RoleUser},
		{"", RoleUser},
		{"owner", RoleUser},
		{"administrator", RoleUser},
		{"super", RoleUser},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.raw))
		})
	}
}

func TestRole_Includes(t *testing.T) {
	assert.True(t, RoleSuperAdmin.Includes(RoleAdmin))
	assert.True(t, RoleSuperAdmin.Includes(RoleUser))
	assert.True(t, RoleAdmin.Includes(RoleUser))
	assert.True(t, RoleAdmin.Includes(RoleAdmin))
	assert.False(t, RoleAdmin.Includes(RoleSuperAdmin))
	assert.False(t, RoleUser.Includes(RoleAdmin))
	assert.False(t, Role("owner").Includes(RoleUser))
}

func TestRole_APIValue(t *testing.T) {
	assert.Equal(t, "super_admin", RoleSuperAdmin.APIValue())
	assert.Equal(t, "admin", RoleAdmin.APIValue())
	assert.Equal(t, "user", RoleUser.APIValue())
	assert.Equal(t, "user", Role("weird").APIValue())

	// The wire value normalizes back to the same role.
	for _, r := range AllRoles {
		assert.Equal(t, r, Normalize(r.APIValue()))
	}
}

func TestRole_Label(t *testing.T) {
	assert.Equal(t, "Super Administrateur", RoleSuperAdmin.Label())
	assert.Equal(t, "Administrateur", RoleAdmin.Label())
	assert.Equal(t, "Utilisateur", RoleUser.Label())
}
