package notification

import (
	"context"
	"time"

	"github.com/example/multimart/internal/domain"
)

// Notification types.
const (
	TypeOrderPlaced    = "order_placed"
	TypeOrderCancelled = "order_cancelled"
	TypeWelcome        = "welcome"
)

var ErrNotificationNotFound = domain.NotFound("Notification not found")

// Notification is an in-app message shown in the user's notification feed.
type Notification struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	OrderID   int64     `json:"orderId,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

// Repository is the persistence contract for notifications. Every mutation is
// scoped to a user so one account can never touch another's feed.
type Repository interface {
	Insert(ctx context.Context, n *Notification) (int64, error)
	ByUser(ctx context.Context, userID int64, page domain.Page) ([]Notification, int, error)
	UnreadCount(ctx context.Context, userID int64) (int, error)
	MarkRead(ctx context.Context, userID, id int64) error
	MarkAllRead(ctx context.Context, userID int64) error
	Delete(ctx context.Context, userID, id int64) error
	Clear(ctx context.Context, userID int64) error
}
