package coupon

import (
	"context"
	"time"

	"github.com/example/multimart/internal/domain"
	"github.com/shopspring/decimal"
)

// Coupon types.
const (
	TypePercentage = "percentage"
	TypeFixed      = "fixed"
)

// Coupon statuses.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

var (
	ErrInvalidCode  = domain.Conflict("Invalid coupon code")
	ErrNotYetActive = domain.Conflict("Coupon is not active yet")
	ErrExpired      = domain.Conflict("Coupon has expired")
	ErrLimitReached = domain.Conflict("Coupon usage limit reached")
	ErrCodeTaken    = domain.Conflict("Coupon code already exists")
	ErrNotFound     = domain.NotFound("Coupon not found")
)

// Coupon is a discount voucher. Codes are unique and stored upper-case.
// A zero UsageLimit means unlimited; nil MinPurchase and MaxDiscount mean
// no minimum and no cap.
type Coupon struct {
	ID          int64            `json:"id"`
	Code        string           `json:"code"`
	Type        string           `json:"type"`
	Value       decimal.Decimal  `json:"value"`
	MinPurchase *decimal.Decimal `json:"minPurchase,omitempty"`
	MaxDiscount *decimal.Decimal `json:"maxDiscount,omitempty"`
	StartDate   time.Time        `json:"startDate"`
	EndDate     time.Time        `json:"endDate"`
	UsageLimit  int              `json:"usageLimit,omitempty"`
	UsageCount  int              `json:"usageCount"`
	Status      string           `json:"status"`
	CreatedAt   time.Time        `json:"createdAt"`
}

// Repository is the persistence contract for coupons.
type Repository interface {
	// FindByCode returns the active coupon with the given code, matched
	// case-insensitively. Missing and inactive codes both yield ErrInvalidCode.
	FindByCode(ctx context.Context, code string) (*Coupon, error)
	FindByID(ctx context.Context, id int64) (*Coupon, error)
	Insert(ctx context.Context, c *Coupon) (int64, error)
	Update(ctx context.Context, c *Coupon) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, status string, page domain.Page) ([]Coupon, int, error)
}
