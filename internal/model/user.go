package model

import (
	"time"

	"github.com/google/uuid"
)

// Roles mirror the field organisation: administrators and coordinators run
// the office, engineers and foremen run the site.
const (
	RoleAdministrator = "administrator"
	RoleCoordinator   = "coordinator"
	RoleEngineer      = "engineer"
	RoleForeman       = "foreman"
	RoleWorker        = "worker"
	RoleClient        = "client"
)

// ValidRole reports whether role is one of the recognized roles.
func ValidRole(role string) bool {
	switch role {
	case RoleAdministrator, RoleCoordinator, RoleEngineer, RoleForeman, RoleWorker, RoleClient:
		return true
	}
	return false
}

// User represents the central user entity
type User struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Password  string    `json:"-"` // bcrypt hash, never serialized
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RefreshToken stores long-lived tokens allowing users to request new access tokens
type RefreshToken struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
