package model

import (
	"errors"
	"strings"
	"time"
	"unicode"
)

// User is a household member who can sign in.
type User struct {
	ID           int64      `json:"id"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"`
	Role         string     `json:"role"`
	CreatedAt    time.Time  `json:"created_at"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
}

// Roles. Admins manage members, locations, preferences and backups;
// members manage the pantry itself.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// Password length limits. bcrypt ignores everything past 72 bytes.
const (
	MinPasswordLength = 8
	MaxPasswordLength = 72
)

// MaxUsernameLength is the longest accepted username in runes.
const MaxUsernameLength = 32

var (
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
	ErrPasswordTooLong  = errors.New("password must be at most 72 bytes")
	ErrInvalidUsername  = errors.New("username must be 1-32 characters without spaces")
)

func roleRank(role string) int {
	switch role {
	case RoleAdmin:
		return 2
	case RoleMember:
		return 1
	}
	return 0
}

// ValidRole reports whether role is known.
func ValidRole(role string) bool {
	return roleRank(role) > 0
}

// RoleAtLeast reports whether role meets minimum. Unknown roles never pass.
func RoleAtLeast(role, minimum string) bool {
	return ValidRole(minimum) && roleRank(role) >= roleRank(minimum)
}

// ValidatePassword checks password length rules.
func ValidatePassword(password string) error {
	switch {
	case len(password) < MinPasswordLength:
		return ErrPasswordTooShort
	case len(password) > MaxPasswordLength:
		return ErrPasswordTooLong
	}
	return nil
}

// NormalizeUsername trims surrounding space and rejects empty, overlong or
// space-containing names.
func NormalizeUsername(name string) (string, error) {
	name = strings.TrimSpace(name)
	n := 0
	for _, r := range name {
		if unicode.IsSpace(r) {
			return "", ErrInvalidUsername
		}
		n++
	}
	if n == 0 || n > MaxUsernameLength {
		return "", ErrInvalidUsername
	}
	return name, nil
}
