package cart

import (
	"context"

	"github.com/example/multimart/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	ErrItemNotFound = domain.NotFound("Cart item not found")
	ErrEmptyCart    = domain.Invalid("Cart is empty")
)

// Line is a cart entry joined with the current product record. Price and
// Stock reflect the catalog at read time, not at add time; prices are only
// snapshotted when the cart becomes an order.
type Line struct {
	ProductID   int64           `json:"productId"`
	Quantity    int             `json:"quantity"`
	ProductName string          `json:"productName"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Status      string          `json:"status"`
}

// Subtotal returns quantity times current unit price.
func (l Line) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is the per-user cart view.
type Cart struct {
	Items []Line          `json:"items"`
	Total decimal.Decimal `json:"total"`
}

// Repository is the persistence contract for cart lines.
type Repository interface {
	Items(ctx context.Context, userID int64) ([]Line, error)
	// Upsert inserts a line or adds quantity to an existing one.
	Upsert(ctx context.Context, userID, productID int64, quantity int) error
	UpdateQuantity(ctx context.Context, userID, productID int64, quantity int) error
	Remove(ctx context.Context, userID, productID int64) error
	Clear(ctx context.Context, userID int64) error
	// InvalidItems returns lines whose quantity exceeds current stock or
	// whose product is no longer active.
	InvalidItems(ctx context.Context, userID int64) ([]Line, error)
}
