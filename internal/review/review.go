package review

import (
	"context"
	"time"

	"github.com/example/multimart/internal/domain"
)

// Sort orders for product review listings.
const (
	SortNewest  = "newest"
	SortHighest = "highest"
	SortLowest  = "lowest"
)

var (
	ErrReviewNotFound  = domain.NotFound("Review not found")
	ErrNotPurchased    = domain.Forbidden("You must purchase the product before reviewing")
	ErrAlreadyReviewed = domain.Conflict("You have already reviewed this product")
	ErrInvalidRating   = domain.Invalid("Rating must be between 1 and 5")
)

// Review is a user's rating of a purchased product. At most one review exists
// per (user, product) pair.
type Review struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	ProductID int64     `json:"productId"`
	OrderID   int64     `json:"orderId"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`

	// Joined fields, populated on reads.
	UserName    string `json:"userName,omitempty"`
	ProductName string `json:"productName,omitempty"`
	ProductSlug string `json:"productSlug,omitempty"`
}

// Filter narrows a product review listing. Zero Rating matches all ratings.
type Filter struct {
	Rating int
	Sort   string
	Page   domain.Page
}

// Repository is the persistence contract for reviews. Insert, Update and
// Delete recompute the product's averageRating and reviewCount in the same
// transaction as the review mutation.
type Repository interface {
	Insert(ctx context.Context, r *Review) (int64, error)
	Update(ctx context.Context, id int64, rating int, comment string) error
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*Review, error)
	ByProduct(ctx context.Context, productID int64, filter Filter) ([]Review, int, error)
	ByUser(ctx context.Context, userID int64, page domain.Page) ([]Review, int, error)
	Exists(ctx context.Context, userID, productID int64) (bool, error)
}

// PurchaseChecker verifies that a user received a product. Implemented by the
// order store.
type PurchaseChecker interface {
	HasDeliveredOrder(ctx context.Context, userID, productID int64) (bool, error)
}
