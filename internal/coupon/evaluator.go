package coupon

import (
	"time"

	"github.com/example/multimart/internal/domain"
	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// Evaluate applies the coupon rules to an order total and returns the
// discount. Rules run in a fixed order and the first failure wins, so an
// expired coupon reports expiry even when its usage limit is also exceeded.
//
// The discount never exceeds the total: percentage coupons are clamped to
// MaxDiscount when set, and fixed coupons to the total itself, so the
// resulting charge cannot go negative.
func Evaluate(c *Coupon, total decimal.Decimal, now time.Time) (decimal.Decimal, error) {
	if c == nil || c.Status != StatusActive {
		return decimal.Zero, ErrInvalidCode
	}
	if now.Before(c.StartDate) {
		return decimal.Zero, ErrNotYetActive
	}
	if now.After(c.EndDate) {
		return decimal.Zero, ErrExpired
	}
	if c.UsageLimit > 0 && c.UsageCount >= c.UsageLimit {
		return decimal.Zero, ErrLimitReached
	}
	if c.MinPurchase != nil && total.LessThan(*c.MinPurchase) {
		return decimal.Zero, domain.Conflictf("Minimum purchase amount is %s", c.MinPurchase.String())
	}

	var discount decimal.Decimal
	switch c.Type {
	case TypePercentage:
		discount = total.Mul(c.Value).Div(oneHundred)
		if c.MaxDiscount != nil && discount.GreaterThan(*c.MaxDiscount) {
			discount = *c.MaxDiscount
		}
	case TypeFixed:
		discount = c.Value
	default:
		return decimal.Zero, ErrInvalidCode
	}

	if discount.GreaterThan(total) {
		discount = total
	}
	if discount.IsNegative() {
		discount = decimal.Zero
	}
	return discount, nil
}
