package domain

import (
	"time"

	"github.com/google/uuid"
)

// User roles. Admins manage reference data (banks, packages, reference
// rates); advisors run calculators and generate client reports.
const (
	RoleAdvisor = "advisor"
	RoleAdmin   = "admin"
)

// User is an advisory-tool account, provisioned on first login from the
// identity provider's subject claim.
type User struct {
	ID         uuid.UUID  `json:"id"`
	Auth0ID    string     `json:"-"`
	Email      string     `json:"email"`
	Name       *string    `json:"name,omitempty"`
	Role       string     `json:"role"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
	LastSeenAt *time.Time `json:"lastSeenAt,omitempty"`
}

// IsAdmin reports whether the user may modify reference data.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UserRepository provides access to user accounts
type UserRepository interface {
	GetByID(id uuid.UUID) (*User, error)
	GetByAuth0ID(auth0ID string) (*User, error)
	CreateOrGetByAuth0ID(auth0ID, email string, name *string) (*User, error)
	UpdateName(auth0ID string, name string) (*User, error)
	TouchLastSeen(auth0ID string) error
}
