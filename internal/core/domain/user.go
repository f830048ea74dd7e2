package domain

import (
	"errors"
	"time"
)

const (
	RoleDeveloper = "developer"
	RoleAdmin     = "admin"
)

// UserStatus represents the lifecycle state of an account.
type UserStatus string

const (
	StatusActive    UserStatus = "active"
	StatusInactive  UserStatus = "inactive"
	StatusSuspended UserStatus = "suspended"
	StatusDeleted   UserStatus = "deleted"
)

var ErrEmailTaken = errors.New("email already registered")
var ErrInvalidRegistration = errors.New("invalid role or status")
var ErrUserNotFound = errors.New("user not found")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrForbidden = errors.New("admin access required")

// User models a registered account. PasswordHash holds a bcrypt hash, never the
// raw password.
type User struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         string     `json:"role"`
	Status       UserStatus `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
}

// ValidRole reports whether role is one of the supported account roles.
func ValidRole(role string) bool {
	return role == RoleDeveloper || role == RoleAdmin
}

// ValidStatus reports whether status is one of the supported account states.
func ValidStatus(status UserStatus) bool {
	switch status {
	case StatusActive, StatusInactive, StatusSuspended, StatusDeleted:
		return true
	}
	return false
}
