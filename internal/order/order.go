package order

import (
	"context"
	"time"

	"github.com/example/multimart/internal/cart"
	"github.com/example/multimart/internal/domain"
	"github.com/shopspring/decimal"
)

// Order statuses. Delivered and cancelled are terminal.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusShipped    = "shipped"
	StatusDelivered  = "delivered"
	StatusCancelled  = "cancelled"
)

// Payment statuses.
const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
)

// Accepted payment methods.
const (
	MethodPaypal       = "paypal"
	MethodBankTransfer = "bank_transfer"
)

var (
	ErrOrderNotFound     = domain.NotFound("Order not found")
	ErrCannotCancel      = domain.Conflict("Order cannot be cancelled")
	ErrInsufficientStock = domain.Conflict("Insufficient stock for one or more items")
	ErrInvalidTransition = domain.Conflict("Invalid status transition")
	ErrInvalidStatus     = domain.Invalid("Invalid status")
	ErrInvalidMethod     = domain.Invalid("Invalid payment method")
)

// transitions is the order state machine. Cancellation is reachable only
// while stock compensation is still meaningful; the cancelled target always
// routes through the compensating transaction, never a bare status write.
var transitions = map[string][]string{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered},
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to string) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Cancellable reports whether an order in the given status may be cancelled.
func Cancellable(status string) bool {
	return status == StatusPending || status == StatusProcessing
}

// Item is an order line. Price is the unit price snapshotted from the cart at
// creation time; it is never re-read from the product.
type Item struct {
	ID          int64           `json:"id"`
	ProductID   int64           `json:"productId"`
	ProductName string          `json:"productName,omitempty"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}

// Order is a persisted purchase. Items and TotalAmount are immutable once the
// order exists; only Status, PaymentStatus and TransactionID change later.
type Order struct {
	ID              int64           `json:"id"`
	UserID          int64           `json:"userId"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	ShippingAddress string          `json:"shippingAddress"`
	PaymentMethod   string          `json:"paymentMethod"`
	PaymentStatus   string          `json:"paymentStatus"`
	TransactionID   string          `json:"transactionId,omitempty"`
	Status          string          `json:"status"`
	Notes           string          `json:"notes,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	Items           []Item          `json:"items,omitempty"`

	// Joined fields, populated on single-order reads.
	UserName  string `json:"userName,omitempty"`
	UserEmail string `json:"userEmail,omitempty"`
}

// Stats aggregates order counts by status plus paid revenue.
type Stats struct {
	TotalOrders      int             `json:"totalOrders"`
	PendingOrders    int             `json:"pendingOrders"`
	ProcessingOrders int             `json:"processingOrders"`
	ShippedOrders    int             `json:"shippedOrders"`
	DeliveredOrders  int             `json:"deliveredOrders"`
	CancelledOrders  int             `json:"cancelledOrders"`
	TotalRevenue     decimal.Decimal `json:"totalRevenue"`
}

// Repository is the persistence contract for the order engine. Create and
// Cancel are multi-statement transactions; either every write commits or none
// does.
type Repository interface {
	// Create persists the order header and items, decrements each product's
	// stock, and, when couponID is non-zero, increments the coupon's usage
	// count, all in one transaction. The stock decrement re-checks
	// availability row by row and the whole transaction fails with
	// ErrInsufficientStock if any line would drive stock negative.
	Create(ctx context.Context, o *Order, couponID int64) (int64, error)
	// Cancel restores each item's stock and marks the order cancelled in one
	// transaction. Fails with ErrCannotCancel unless the order is still
	// pending or processing at commit time.
	Cancel(ctx context.Context, orderID int64) error
	UpdateStatus(ctx context.Context, orderID int64, status string) error
	MarkPaid(ctx context.Context, orderID int64, transactionID string) error
	FindByID(ctx context.Context, id int64) (*Order, error)
	ByUser(ctx context.Context, userID int64, status string, page domain.Page) ([]Order, int, error)
	// Stats aggregates all orders, or only orders containing the vendor's
	// products when vendorID is non-zero.
	Stats(ctx context.Context, vendorID int64) (*Stats, error)
}

// CartAccess is the slice of the cart store the order engine needs.
type CartAccess interface {
	Items(ctx context.Context, userID int64) ([]cart.Line, error)
	InvalidItems(ctx context.Context, userID int64) ([]cart.Line, error)
	Clear(ctx context.Context, userID int64) error
}

// CouponValidator evaluates a coupon code against an order total.
type CouponValidator interface {
	Validate(ctx context.Context, code string, total decimal.Decimal) (couponID int64, discount decimal.Decimal, err error)
}

// EventPublisher publishes order lifecycle events. Publishing is best-effort;
// a broker failure never fails the order operation.
type EventPublisher interface {
	Publish(ctx context.Context, key, eventType string, payload any) error
}

// StockValidationError reports the cart lines that failed the pre-creation
// stock check.
type StockValidationError struct {
	Items []cart.Line
}

func (e *StockValidationError) Error() string {
	return "Some items in your cart are no longer available or have insufficient stock"
}
