package auth

import (
	"time"

	"github.com/skillforge-lms/skillforge/internal/gate"
)

// User represents a platform account.
type User struct {
	ID           int64
	Email        string
	Name         string
	PasswordHash string
	Role         gate.Role
	CompanyID    string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
