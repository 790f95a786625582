package order

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/example/multimart/internal/cart"
	"github.com/example/multimart/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service is the order engine: it converts validated carts into persisted
// orders and drives the order state machine.
type Service struct {
	orders  Repository
	carts   CartAccess
	coupons CouponValidator
	events  EventPublisher
}

// NewService creates a new order service. events may be nil when no broker is
// configured.
func NewService(orders Repository, carts CartAccess, coupons CouponValidator, events EventPublisher) *Service {
	return &Service{orders: orders, carts: carts, coupons: coupons, events: events}
}

// CreateInput is the payload for placing an order.
type CreateInput struct {
	ShippingAddress string `json:"shippingAddress"`
	PaymentMethod   string `json:"paymentMethod"`
	Notes           string `json:"notes"`
	CouponCode      string `json:"couponCode"`
}

// Create converts the caller's cart into an order.
//
// The cart is stock-validated first, but that check is advisory only: the
// repository re-verifies stock for every line inside the same transaction
// that performs the decrement, so two concurrent checkouts for the last unit
// resolve to one success and one ErrInsufficientStock. The cart is cleared
// only after the transaction commits.
func (s *Service) Create(ctx context.Context, actor domain.Actor, in CreateInput) (int64, error) {
	if in.ShippingAddress == "" {
		return 0, domain.Invalid("Shipping address is required")
	}
	if in.PaymentMethod != MethodPaypal && in.PaymentMethod != MethodBankTransfer {
		return 0, ErrInvalidMethod
	}

	invalid, err := s.carts.InvalidItems(ctx, actor.UserID)
	if err != nil {
		return 0, err
	}
	if len(invalid) > 0 {
		return 0, &StockValidationError{Items: invalid}
	}

	lines, err := s.carts.Items(ctx, actor.UserID)
	if err != nil {
		return 0, err
	}
	if len(lines) == 0 {
		return 0, cart.ErrEmptyCart
	}

	total := decimal.Zero
	items := make([]Item, 0, len(lines))
	for _, line := range lines {
		total = total.Add(line.Subtotal())
		items = append(items, Item{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Price:     line.Price,
		})
	}

	var couponID int64
	if in.CouponCode != "" {
		id, discount, err := s.coupons.Validate(ctx, in.CouponCode, total)
		if err != nil {
			return 0, err
		}
		couponID = id
		total = total.Sub(discount)
	}

	o := &Order{
		UserID:          actor.UserID,
		TotalAmount:     total,
		ShippingAddress: in.ShippingAddress,
		PaymentMethod:   in.PaymentMethod,
		PaymentStatus:   PaymentPending,
		Status:          StatusPending,
		Notes:           in.Notes,
		Items:           items,
	}

	orderID, err := s.orders.Create(ctx, o, couponID)
	if err != nil {
		return 0, err
	}

	// The order exists at this point; a failed cart clear must not undo it.
	if err := s.carts.Clear(ctx, actor.UserID); err != nil {
		log.Printf("[Order] Failed to clear cart for user %d after order %d: %v", actor.UserID, orderID, err)
	}

	s.publish(ctx, orderID, EventOrderPlaced, OrderPlaced{
		OrderID:  orderID,
		UserID:   actor.UserID,
		Total:    total,
		PlacedAt: time.Now(),
	})

	return orderID, nil
}

// Cancel reverses an order: stock restored, status set to cancelled. Only the
// order's owner or an admin may cancel, and only from pending or processing.
func (s *Service) Cancel(ctx context.Context, actor domain.Actor, orderID int64) error {
	o, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return err
	}
	if !actor.CanAccess(o.UserID) {
		return domain.Forbidden("Access denied")
	}
	if !Cancellable(o.Status) {
		return ErrCannotCancel
	}

	if err := s.orders.Cancel(ctx, orderID); err != nil {
		return err
	}

	s.publish(ctx, orderID, EventOrderCancelled, OrderCancelled{
		OrderID:     orderID,
		UserID:      o.UserID,
		CancelledAt: time.Now(),
	})
	return nil
}

// UpdateStatus moves an order along the state machine. Admin only. A request
// for the cancelled status funnels through the same compensating path as
// Cancel so stock restoration is never bypassed.
func (s *Service) UpdateStatus(ctx context.Context, actor domain.Actor, orderID int64, status string) error {
	if !actor.IsAdmin() {
		return domain.Forbidden("Access denied")
	}
	switch status {
	case StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
	default:
		return ErrInvalidStatus
	}

	o, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return err
	}
	if !CanTransition(o.Status, status) {
		if status == StatusCancelled {
			return ErrCannotCancel
		}
		return ErrInvalidTransition
	}

	if status == StatusCancelled {
		if err := s.orders.Cancel(ctx, orderID); err != nil {
			return err
		}
		s.publish(ctx, orderID, EventOrderCancelled, OrderCancelled{
			OrderID:     orderID,
			UserID:      o.UserID,
			CancelledAt: time.Now(),
		})
		return nil
	}

	return s.orders.UpdateStatus(ctx, orderID, status)
}

// MarkPaid records a completed payment. A missing transaction id is replaced
// with a generated one.
func (s *Service) MarkPaid(ctx context.Context, actor domain.Actor, orderID int64, transactionID string) error {
	o, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return err
	}
	if !actor.CanAccess(o.UserID) {
		return domain.Forbidden("Access denied")
	}

	if transactionID == "" {
		transactionID = uuid.New().String()
	}
	return s.orders.MarkPaid(ctx, orderID, transactionID)
}

// Get returns an order visible to the caller.
func (s *Service) Get(ctx context.Context, actor domain.Actor, orderID int64) (*Order, error) {
	o, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(o.UserID) {
		return nil, domain.Forbidden("Access denied")
	}
	return o, nil
}

// ListByUser returns a user's orders. Admins may list any user's orders.
func (s *Service) ListByUser(ctx context.Context, actor domain.Actor, userID int64, status string, page domain.Page) ([]Order, domain.Pagination, error) {
	if userID == 0 {
		userID = actor.UserID
	}
	if !actor.CanAccess(userID) {
		return nil, domain.Pagination{}, domain.Forbidden("Access denied")
	}

	orders, total, err := s.orders.ByUser(ctx, userID, status, page)
	if err != nil {
		return nil, domain.Pagination{}, err
	}
	return orders, domain.NewPagination(total, page), nil
}

// GetStats returns order aggregates: everything for admins, own-product
// orders for vendors.
func (s *Service) GetStats(ctx context.Context, actor domain.Actor) (*Stats, error) {
	switch actor.Role {
	case domain.RoleAdmin:
		return s.orders.Stats(ctx, 0)
	case domain.RoleVendor:
		return s.orders.Stats(ctx, actor.UserID)
	default:
		return nil, domain.Forbidden("Access denied")
	}
}

func (s *Service) publish(ctx context.Context, orderID int64, eventType string, payload any) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, strconv.FormatInt(orderID, 10), eventType, payload); err != nil {
		log.Printf("[Order] Failed to publish %s for order %d: %v", eventType, orderID, err)
	}
}
