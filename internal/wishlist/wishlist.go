package wishlist

import (
	"context"
	"time"

	"github.com/example/multimart/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	ErrAlreadyInWishlist = domain.Conflict("Product is already in your wishlist")
	ErrItemNotFound      = domain.NotFound("Wishlist item not found")
)

// Item is a wishlist entry joined with the current product record.
type Item struct {
	ProductID    int64           `json:"productId"`
	ProductName  string          `json:"productName"`
	Price        decimal.Decimal `json:"price"`
	ComparePrice decimal.Decimal `json:"comparePrice"`
	Stock        int             `json:"stock"`
	Status       string          `json:"status"`
	AddedAt      time.Time       `json:"addedAt"`
}

// Repository is the persistence contract for wishlist entries.
type Repository interface {
	Items(ctx context.Context, userID int64, page domain.Page) ([]Item, int, error)
	Add(ctx context.Context, userID, productID int64) error
	Remove(ctx context.Context, userID, productID int64) error
	Clear(ctx context.Context, userID int64) error
	Contains(ctx context.Context, userID, productID int64) (bool, error)
}
