package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/multimart/internal/coupon"
	"github.com/example/multimart/internal/domain"
	"github.com/shopspring/decimal"
)

const couponColumns = `id, code, type, value, min_purchase, max_discount,
	start_date, end_date, usage_limit, usage_count, status, created_at`

// CouponStore persists coupons in PostgreSQL.
type CouponStore struct {
	db *sql.DB
}

// NewCouponStore creates a new coupon store.
func NewCouponStore(db *sql.DB) *CouponStore {
	return &CouponStore{db: db}
}

func (s *CouponStore) FindByCode(ctx context.Context, code string) (*coupon.Coupon, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	row := s.db.QueryRowContext(ctx, `
		SELECT `+couponColumns+` FROM coupons
		WHERE code = UPPER($1) AND status = $2`,
		code, coupon.StatusActive)
	c, err := scanCoupon(row)
	if errors.Is(err, coupon.ErrNotFound) {
		return nil, coupon.ErrInvalidCode
	}
	return c, err
}

func (s *CouponStore) FindByID(ctx context.Context, id int64) (*coupon.Coupon, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	row := s.db.QueryRowContext(ctx,
		`SELECT `+couponColumns+` FROM coupons WHERE id = $1`, id)
	return scanCoupon(row)
}

func (s *CouponStore) Insert(ctx context.Context, c *coupon.Coupon) (int64, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO coupons (code, type, value, min_purchase, max_discount,
			start_date, end_date, usage_limit, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`,
		c.Code, c.Type, c.Value, nullDecimal(c.MinPurchase), nullDecimal(c.MaxDiscount),
		c.StartDate, c.EndDate, c.UsageLimit, c.Status,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert coupon: %w", err)
	}
	return id, nil
}

func (s *CouponStore) Update(ctx context.Context, c *coupon.Coupon) error {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	res, err := s.db.ExecContext(ctx, `
		UPDATE coupons
		SET type = $1, value = $2, min_purchase = $3, max_discount = $4,
			start_date = $5, end_date = $6, usage_limit = $7, status = $8
		WHERE id = $9`,
		c.Type, c.Value, nullDecimal(c.MinPurchase), nullDecimal(c.MaxDiscount),
		c.StartDate, c.EndDate, c.UsageLimit, c.Status, c.ID,
	)
	if err != nil {
		return fmt.Errorf("update coupon: %w", err)
	}
	return requireRow(res, coupon.ErrNotFound)
}

func (s *CouponStore) Delete(ctx context.Context, id int64) error {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	res, err := s.db.ExecContext(ctx, `DELETE FROM coupons WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete coupon: %w", err)
	}
	return requireRow(res, coupon.ErrNotFound)
}

func (s *CouponStore) List(ctx context.Context, status string, page domain.Page) ([]coupon.Coupon, int, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	where := ""
	args := []any{}
	if status != "" {
		where = ` WHERE status = $1`
		args = append(args, status)
	}

	var total int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM coupons`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count coupons: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM coupons%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		couponColumns, where, len(args)+1, len(args)+2)
	args = append(args, page.Limit, page.Offset())

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list coupons: %w", err)
	}
	defer rows.Close()

	coupons := []coupon.Coupon{}
	for rows.Next() {
		c, err := scanCoupon(rows)
		if err != nil {
			return nil, 0, err
		}
		coupons = append(coupons, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return coupons, total, nil
}

func scanCoupon(row rowScanner) (*coupon.Coupon, error) {
	var (
		c           coupon.Coupon
		minPurchase decimal.NullDecimal
		maxDiscount decimal.NullDecimal
	)
	err := row.Scan(&c.ID, &c.Code, &c.Type, &c.Value, &minPurchase, &maxDiscount,
		&c.StartDate, &c.EndDate, &c.UsageLimit, &c.UsageCount, &c.Status, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, coupon.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan coupon: %w", err)
	}
	if minPurchase.Valid {
		c.MinPurchase = &minPurchase.Decimal
	}
	if maxDiscount.Valid {
		c.MaxDiscount = &maxDiscount.Decimal
	}
	return &c, nil
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}
