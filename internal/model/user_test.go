package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleAtLeast(t *testing.T) {
	tests := []struct {
		role, minimum string
		want          bool
	}{
		{RoleAdmin, RoleAdmin, true},
		{RoleAdmin, RoleMember, true},
		{RoleMember, RoleMember, true},
		{RoleMember, RoleAdmin, false},
		{"manager", RoleMember, false},
		{RoleAdmin, "manager", false},
		{"", "", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RoleAtLeast(tt.role, tt.minimum), "%q >= %q", tt.role, tt.minimum)
	}

	assert.True(t, ValidRole(RoleMember))
	assert.False(t, ValidRole("owner"))
}

func TestValidatePassword(t *testing.T) {
	assert.ErrorIs(t, ValidatePassword(""), ErrPasswordTooShort)
	assert.ErrorIs(t, ValidatePassword("1234567"), ErrPasswordTooShort)
	assert.NoError(t, ValidatePassword("12345678"))
	assert.NoError(t, ValidatePassword(strings.Repeat("x", MaxPasswordLength)))
	assert.ErrorIs(t, ValidatePassword(strings.Repeat("x", MaxPasswordLength+1)), ErrPasswordTooLong)
}

func TestNormalizeUsername(t *testing.T) {
	tests := []struct {
		in, want string
		ok       bool
	}{
		{"  mama ", "mama", true},
		{"Špela", "Špela", true},
		{"", "", false},
		{"   ", "", false},
		{"ana marija", "", false},
		{strings.Repeat("ž", MaxUsernameLength), strings.Repeat("ž", MaxUsernameLength), true},
		{strings.Repeat("a", MaxUsernameLength+1), "", false},
	}
	for _, tt := range tests {
		got, err := NormalizeUsername(tt.in)
		if !tt.ok {
			assert.ErrorIs(t, err, ErrInvalidUsername, tt.in)
			continue
		}
		assert.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}
