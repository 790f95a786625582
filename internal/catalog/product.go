package catalog

import (
	"context"
	"time"

	"github.com/example/multimart/internal/domain"
	"github.com/shopspring/decimal"
)

// Product statuses. New and updated vendor products start as pending and
// only become visible in the storefront once an admin activates them.
const (
	ProductPending  = "pending"
	ProductActive   = "active"
	ProductInactive = "inactive"
	ProductRejected = "rejected"
)

// Search sort orders.
const (
	SortNewest     = "newest"
	SortPriceAsc   = "price_asc"
	SortPriceDesc  = "price_desc"
	SortRating     = "rating"
	SortPopularity = "popularity"
)

var (
	ErrProductNotFound  = domain.NotFound("Product not found")
	ErrSlugTaken        = domain.Conflict("Product with this name already exists")
	ErrProductHasOrders = domain.Conflict("Cannot delete product with existing orders")
	ErrInvalidStock     = domain.Conflict("Invalid stock quantity")
	ErrInvalidStatus    = domain.Invalid("Invalid status")
)

// Product is a catalog entry owned by a vendor.
//
// Stock is mutated only by the order engine (decrement on creation, increment
// on cancellation) and by the vendor stock-adjustment operation. AverageRating
// and ReviewCount are maintained by the review service.
type Product struct {
	ID              int64           `json:"id"`
	Name            string          `json:"name"`
	Slug            string          `json:"slug"`
	Description     string          `json:"description"`
	Price           decimal.Decimal `json:"price"`
	ComparePrice    decimal.Decimal `json:"comparePrice"`
	CategoryID      int64           `json:"categoryId"`
	VendorID        int64           `json:"vendorId"`
	Stock           int             `json:"stock"`
	Status          string          `json:"status"`
	RejectionReason string          `json:"rejectionReason,omitempty"`
	IsPromoted      bool            `json:"isPromoted"`
	AverageRating   float64         `json:"averageRating"`
	ReviewCount     int             `json:"reviewCount"`
	CreatedAt       time.Time       `json:"createdAt"`

	// Joined fields, populated on reads.
	CategoryName string `json:"categoryName,omitempty"`
	VendorName   string `json:"vendorName,omitempty"`
}

// SearchFilter narrows a product search. Nil price bounds are unbounded.
type SearchFilter struct {
	Keyword    string
	CategoryID int64
	VendorID   int64
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	Status     string
	Sort       string
	Page       domain.Page
}

// ProductRepository is the persistence contract for products.
type ProductRepository interface {
	Insert(ctx context.Context, p *Product) (int64, error)
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*Product, error)
	FindBySlug(ctx context.Context, slug string) (*Product, error)
	Search(ctx context.Context, filter SearchFilter) ([]Product, int, error)
	ByVendor(ctx context.Context, vendorID int64, status string, page domain.Page) ([]Product, int, error)
	Related(ctx context.Context, productID, categoryID int64, limit int) ([]Product, error)
	// AdjustStock applies a signed delta and fails with ErrInvalidStock when
	// the result would be negative.
	AdjustStock(ctx context.Context, id int64, delta int) error
	SetStatus(ctx context.Context, id int64, status, rejectionReason string) error
	HasOrderItems(ctx context.Context, id int64) (bool, error)
}
