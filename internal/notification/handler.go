package notification

import (
	"context"
	"fmt"
	"log"

	"github.com/example/multimart/internal/infrastructure/kafka"
	"github.com/example/multimart/internal/order"
	"github.com/example/multimart/internal/user"
)

// Mailer is the outbound mail the notifier depends on.
type Mailer interface {
	SendOrderConfirmation(to, name string, o *order.Order) error
	SendOrderCancelled(to, name string, orderID int64) error
	SendWelcome(to, name string) error
}

// OrderReader looks up orders for confirmation mails.
type OrderReader interface {
	FindByID(ctx context.Context, id int64) (*order.Order, error)
}

// UserReader looks up recipients.
type UserReader interface {
	FindByID(ctx context.Context, id int64) (*user.User, error)
}

// Handler turns marketplace events into emails and in-app notifications.
type Handler struct {
	mailer Mailer
	orders OrderReader
	users  UserReader
	feed   *Service
}

// NewHandler creates a new notification handler.
func NewHandler(mailer Mailer, orders OrderReader, users UserReader, feed *Service) *Handler {
	return &Handler{mailer: mailer, orders: orders, users: users, feed: feed}
}

// HandleEvent processes one event from the bus. Unknown event types are
// ignored; delivery failures are logged and swallowed so the consumer keeps
// its offset moving.
func (h *Handler) HandleEvent(ctx context.Context, envelope *kafka.Envelope) error {
	switch envelope.EventType {
	case order.EventOrderPlaced:
		return h.handleOrderPlaced(ctx, envelope)
	case order.EventOrderCancelled:
		return h.handleOrderCancelled(ctx, envelope)
	case user.EventUserRegistered:
		return h.handleUserRegistered(ctx, envelope)
	}
	return nil
}

func (h *Handler) handleOrderPlaced(ctx context.Context, envelope *kafka.Envelope) error {
	var e order.OrderPlaced
	if err := envelope.Decode(&e); err != nil {
		log.Printf("[Notifier] Failed to decode OrderPlaced: %v", err)
		return err
	}

	log.Printf("[Notifier] Processing OrderPlaced for order %d, user %d", e.OrderID, e.UserID)

	u, err := h.users.FindByID(ctx, e.UserID)
	if err != nil {
		log.Printf("[Notifier] Could not load user %d: %v", e.UserID, err)
		return nil
	}

	h.record(ctx, &Notification{
		UserID:  e.UserID,
		Type:    TypeOrderPlaced,
		Title:   "Order placed",
		Message: fmt.Sprintf("Your order #%d has been placed successfully.", e.OrderID),
		OrderID: e.OrderID,
	})

	o, err := h.orders.FindByID(ctx, e.OrderID)
	if err != nil {
		log.Printf("[Notifier] Could not load order %d: %v", e.OrderID, err)
		return nil
	}

	if err := h.mailer.SendOrderConfirmation(u.Email, u.FullName, o); err != nil {
		log.Printf("[Notifier] Failed to send confirmation for order %d: %v", e.OrderID, err)
		return nil
	}

	log.Printf("[Notifier] Sent order confirmation to %s for order %d", u.Email, e.OrderID)
	return nil
}

func (h *Handler) handleOrderCancelled(ctx context.Context, envelope *kafka.Envelope) error {
	var e order.OrderCancelled
	if err := envelope.Decode(&e); err != nil {
		log.Printf("[Notifier] Failed to decode OrderCancelled: %v", err)
		return err
	}

	log.Printf("[Notifier] Processing OrderCancelled for order %d, user %d", e.OrderID, e.UserID)

	u, err := h.users.FindByID(ctx, e.UserID)
	if err != nil {
		log.Printf("[Notifier] Could not load user %d: %v", e.UserID, err)
		return nil
	}

	h.record(ctx, &Notification{
		UserID:  e.UserID,
		Type:    TypeOrderCancelled,
		Title:   "Order cancelled",
		Message: fmt.Sprintf("Your order #%d has been cancelled.", e.OrderID),
		OrderID: e.OrderID,
	})

	if err := h.mailer.SendOrderCancelled(u.Email, u.FullName, e.OrderID); err != nil {
		log.Printf("[Notifier] Failed to send cancellation mail for order %d: %v", e.OrderID, err)
		return nil
	}

	log.Printf("[Notifier] Sent cancellation mail to %s for order %d", u.Email, e.OrderID)
	return nil
}

func (h *Handler) handleUserRegistered(ctx context.Context, envelope *kafka.Envelope) error {
	var e user.UserRegistered
	if err := envelope.Decode(&e); err != nil {
		log.Printf("[Notifier] Failed to decode UserRegistered: %v", err)
		return err
	}

	u, err := h.users.FindByID(ctx, e.UserID)
	if err != nil {
		log.Printf("[Notifier] Could not load user %d: %v", e.UserID, err)
		return nil
	}

	h.record(ctx, &Notification{
		UserID:  e.UserID,
		Type:    TypeWelcome,
		Title:   "Welcome to MultiMart",
		Message: "Thanks for registering. Happy shopping!",
	})

	if err := h.mailer.SendWelcome(u.Email, u.FullName); err != nil {
		log.Printf("[Notifier] Failed to send welcome mail to %s: %v", u.Email, err)
		return nil
	}

	log.Printf("[Notifier] Sent welcome mail to %s", u.Email)
	return nil
}

// record appends to the user's in-app feed. Feed failures never block mail.
func (h *Handler) record(ctx context.Context, n *Notification) {
	if h.feed == nil {
		return
	}
	if _, err := h.feed.Record(ctx, n); err != nil {
		log.Printf("[Notifier] Failed to record %s notification for user %d: %v",
			n.Type, n.UserID, err)
	}
}
