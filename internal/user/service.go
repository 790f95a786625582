package user

import (
	"context"
	"errors"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/example/multimart/internal/auth"
	"github.com/example/multimart/internal/domain"
)

// Service implements account registration and credential checks.
type Service struct {
	users  Repository
	events EventPublisher
}

// NewService creates a new user service. events may be nil.
func NewService(users Repository, events EventPublisher) *Service {
	return &Service{users: users, events: events}
}

// RegisterInput is the payload for creating an account.
type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

// Register creates a customer account with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, domain.Invalid("A valid email is required")
	}
	if in.FullName == "" {
		return nil, domain.Invalid("Full name is required")
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooShort) {
			return nil, domain.Invalid(err.Error())
		}
		return nil, err
	}

	u := &User{
		Email:        email,
		PasswordHash: hash,
		FullName:     in.FullName,
		Phone:        in.Phone,
		Address:      in.Address,
		Role:         domain.RoleUser,
		Status:       StatusActive,
	}

	id, err := s.users.Insert(ctx, u)
	if err != nil {
		return nil, err
	}
	u.ID = id

	if s.events != nil {
		err := s.events.Publish(ctx, strconv.FormatInt(id, 10), EventUserRegistered, UserRegistered{
			UserID:       id,
			RegisteredAt: time.Now(),
		})
		if err != nil {
			log.Printf("[User] Failed to publish %s for user %d: %v", EventUserRegistered, id, err)
		}
	}

	return u, nil
}

// Authenticate verifies credentials and returns the account. Missing users
// and wrong passwords are indistinguishable to the caller.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	u, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if u.Status != StatusActive {
		return nil, ErrAccountInactive
	}
	if !auth.CheckPassword(password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return u, nil
}

// ChangePassword replaces the caller's password after verifying the current
// one.
func (s *Service) ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if !auth.CheckPassword(currentPassword, u.PasswordHash) {
		return domain.Invalid("Current password is incorrect")
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooShort) {
			return domain.Invalid(err.Error())
		}
		return err
	}

	return s.users.UpdatePassword(ctx, userID, hash)
}

// Get returns an account by id.
func (s *Service) Get(ctx context.Context, id int64) (*User, error) {
	return s.users.FindByID(ctx, id)
}

// ProfileInput is the payload for updating the caller's own profile.
type ProfileInput struct {
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

// UpdateProfile changes the caller's name, phone and address. Email and role
// are not touchable through this path.
func (s *Service) UpdateProfile(ctx context.Context, userID int64, in ProfileInput) error {
	if in.FullName == "" {
		return domain.Invalid("Full name is required")
	}
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return err
	}
	return s.users.UpdateProfile(ctx, userID, in.FullName, in.Phone, in.Address)
}

// List returns a page of accounts matching the filter. Admin only.
func (s *Service) List(ctx context.Context, actor domain.Actor, filter ListFilter) ([]User, domain.Pagination, error) {
	if !actor.IsAdmin() {
		return nil, domain.Pagination{}, domain.Forbidden("Access denied")
	}

	users, total, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, domain.Pagination{}, err
	}
	return users, domain.NewPagination(total, filter.Page), nil
}

// SetRole changes an account's role. Admin only; this is how vendors are
// promoted.
func (s *Service) SetRole(ctx context.Context, actor domain.Actor, userID int64, role string) error {
	if !actor.IsAdmin() {
		return domain.Forbidden("Access denied")
	}
	switch role {
	case domain.RoleUser, domain.RoleVendor, domain.RoleAdmin:
	default:
		return ErrInvalidRole
	}
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return err
	}
	return s.users.UpdateRole(ctx, userID, role)
}

// SetStatus activates or suspends an account. Admin only.
func (s *Service) SetStatus(ctx context.Context, actor domain.Actor, userID int64, status string) error {
	if !actor.IsAdmin() {
		return domain.Forbidden("Access denied")
	}
	if status != StatusActive && status != StatusSuspended {
		return ErrInvalidStatus
	}
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return err
	}
	return s.users.UpdateStatus(ctx, userID, status)
}

// Delete removes an account. Admin only; admin accounts cannot be deleted.
func (s *Service) Delete(ctx context.Context, actor domain.Actor, userID int64) error {
	if !actor.IsAdmin() {
		return domain.Forbidden("Access denied")
	}

	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if u.Role == domain.RoleAdmin {
		return ErrAdminUndeletable
	}
	return s.users.Delete(ctx, userID)
}
