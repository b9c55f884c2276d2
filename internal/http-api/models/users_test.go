package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleUser.Valid())
	assert.True(t, RoleModerator.Valid())
	assert.True(t, RoleAdmin.Valid())
	assert.False(t, Role("superuser").Valid())
	assert.False(t, Role("").Valid())
}

func TestRoleCapabilities(t *testing.T) {
	assert.False(t, RoleUser.IsAdmin())
	assert.False(t, RoleModerator.IsAdmin())
	assert.True(t, RoleAdmin.IsAdmin())

	assert.False(t, RoleUser.CanModerate())
	assert.True(t, RoleModerator.CanModerate())
	assert.True(t, RoleAdmin.CanModerate())
}

func TestEffectiveRole_StaffActsAsAdmin(t *testing.T) {
	staff := &User{Username: "staffer", Role: RoleUser, IsStaff: true}
	assert.Equal(t, RoleAdmin, staff.EffectiveRole())

	plain := &User{Username: "plain", Role: RoleModerator}
	assert.Equal(t, RoleModerator, plain.EffectiveRole())
}
