package user

import (
	"context"
	"time"

	"github.com/example/multimart/internal/domain"
)

// User statuses.
const (
	StatusActive    = "active"
	StatusSuspended = "suspended"
)

var (
	ErrUserNotFound       = domain.NotFound("User not found")
	ErrEmailTaken         = domain.Conflict("Email already registered")
	ErrInvalidCredentials = domain.Forbidden("Invalid email or password")
	ErrAccountInactive    = domain.Forbidden("Account is not active")
	ErrInvalidRole        = domain.Invalid("Invalid role")
	ErrInvalidStatus      = domain.Invalid("Invalid status")
	ErrAdminUndeletable   = domain.Forbidden("Cannot delete admin users")
)

// User is a registered account: customer, vendor or admin.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"fullName"`
	Phone        string    `json:"phone,omitempty"`
	Address      string    `json:"address,omitempty"`
	Role         string    `json:"role"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ListFilter narrows an account listing.
type ListFilter struct {
	Search string
	Role   string
	Status string
	Page   domain.Page
}

// Repository is the persistence contract for users.
type Repository interface {
	Insert(ctx context.Context, u *User) (int64, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id int64) (*User, error)
	List(ctx context.Context, filter ListFilter) ([]User, int, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	UpdateProfile(ctx context.Context, id int64, fullName, phone, address string) error
	UpdateRole(ctx context.Context, id int64, role string) error
	UpdateStatus(ctx context.Context, id int64, status string) error
	Delete(ctx context.Context, id int64) error
}

const EventUserRegistered = "UserRegistered"

type UserRegistered struct {
	UserID       int64     `json:"user_id"`
	RegisteredAt time.Time `json:"registered_at"`
}

// EventPublisher publishes user lifecycle events, best-effort.
type EventPublisher interface {
	Publish(ctx context.Context, key, eventType string, payload any) error
}
