package coupon

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/example/multimart/internal/domain"
	"github.com/shopspring/decimal"
)

// Service implements coupon validation and administration.
type Service struct {
	coupons Repository
	now     func() time.Time
}

// NewService creates a new coupon service.
func NewService(coupons Repository) *Service {
	return &Service{coupons: coupons, now: time.Now}
}

// Validate looks up a code and evaluates it against the given total. It is
// read-only; usage is only counted when an order actually redeems the coupon.
func (s *Service) Validate(ctx context.Context, code string, total decimal.Decimal) (int64, decimal.Decimal, error) {
	c, err := s.coupons.FindByCode(ctx, code)
	if err != nil {
		return 0, decimal.Zero, err
	}

	discount, err := Evaluate(c, total, s.now())
	if err != nil {
		return 0, decimal.Zero, err
	}
	return c.ID, discount, nil
}

// Input is the payload for creating or updating a coupon.
type Input struct {
	Code        string           `json:"code"`
	Type        string           `json:"type"`
	Value       decimal.Decimal  `json:"value"`
	MinPurchase *decimal.Decimal `json:"minPurchase"`
	MaxDiscount *decimal.Decimal `json:"maxDiscount"`
	StartDate   time.Time        `json:"startDate"`
	EndDate     time.Time        `json:"endDate"`
	UsageLimit  int              `json:"usageLimit"`
	Status      string           `json:"status"`
}

func (in Input) validate() error {
	if in.Type != TypePercentage && in.Type != TypeFixed {
		return domain.Invalid("Coupon type must be percentage or fixed")
	}
	if in.Value.LessThanOrEqual(decimal.Zero) {
		return domain.Invalid("Coupon value must be greater than zero")
	}
	if in.EndDate.Before(in.StartDate) {
		return domain.Invalid("End date must be after start date")
	}
	return nil
}

// Create adds a coupon. Admin only.
func (s *Service) Create(ctx context.Context, actor domain.Actor, in Input) (int64, error) {
	if !actor.IsAdmin() {
		return 0, domain.Forbidden("Access denied")
	}
	if in.Code == "" {
		return 0, domain.Invalid("Coupon code is required")
	}
	if err := in.validate(); err != nil {
		return 0, err
	}

	code := strings.ToUpper(in.Code)
	if _, err := s.coupons.FindByCode(ctx, code); err == nil {
		return 0, ErrCodeTaken
	} else if !errors.Is(err, ErrInvalidCode) {
		return 0, err
	}

	status := in.Status
	if status == "" {
		status = StatusActive
	}

	c := &Coupon{
		Code:        code,
		Type:        in.Type,
		Value:       in.Value,
		MinPurchase: in.MinPurchase,
		MaxDiscount: in.MaxDiscount,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		UsageLimit:  in.UsageLimit,
		Status:      status,
	}
	return s.coupons.Insert(ctx, c)
}

// Update modifies a coupon. The code itself is immutable. Admin only.
func (s *Service) Update(ctx context.Context, actor domain.Actor, id int64, in Input) error {
	if !actor.IsAdmin() {
		return domain.Forbidden("Access denied")
	}
	if err := in.validate(); err != nil {
		return err
	}

	c, err := s.coupons.FindByID(ctx, id)
	if err != nil {
		return err
	}

	c.Type = in.Type
	c.Value = in.Value
	c.MinPurchase = in.MinPurchase
	c.MaxDiscount = in.MaxDiscount
	c.StartDate = in.StartDate
	c.EndDate = in.EndDate
	c.UsageLimit = in.UsageLimit
	if in.Status != "" {
		c.Status = in.Status
	}

	return s.coupons.Update(ctx, c)
}

// Delete removes a coupon. Admin only.
func (s *Service) Delete(ctx context.Context, actor domain.Actor, id int64) error {
	if !actor.IsAdmin() {
		return domain.Forbidden("Access denied")
	}
	if _, err := s.coupons.FindByID(ctx, id); err != nil {
		return err
	}
	return s.coupons.Delete(ctx, id)
}

// List returns a page of coupons. Admin only.
func (s *Service) List(ctx context.Context, actor domain.Actor, status string, page domain.Page) ([]Coupon, domain.Pagination, error) {
	if !actor.IsAdmin() {
		return nil, domain.Pagination{}, domain.Forbidden("Access denied")
	}

	coupons, total, err := s.coupons.List(ctx, status, page)
	if err != nil {
		return nil, domain.Pagination{}, err
	}
	return coupons, domain.NewPagination(total, page), nil
}
