package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/multimart/internal/cart"
	"github.com/example/multimart/internal/catalog"
)

const cartLineColumns = `ci.product_id, ci.quantity, p.name, p.price, p.stock, p.status`

// CartStore persists cart lines in PostgreSQL.
type CartStore struct {
	db *sql.DB
}

// NewCartStore creates a new cart store.
func NewCartStore(db *sql.DB) *CartStore {
	return &CartStore{db: db}
}

func (s *CartStore) Items(ctx context.Context, userID int64) ([]cart.Line, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+cartLineColumns+`
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.user_id = $1
		ORDER BY ci.created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	defer rows.Close()

	return scanCartLines(rows)
}

func (s *CartStore) Upsert(ctx context.Context, userID, productID int64, quantity int) error {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cart_items (user_id, product_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity`,
		userID, productID, quantity,
	)
	if err != nil {
		return fmt.Errorf("upsert cart item: %w", err)
	}
	return nil
}

func (s *CartStore) UpdateQuantity(ctx context.Context, userID, productID int64, quantity int) error {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	res, err := s.db.ExecContext(ctx, `
		UPDATE cart_items SET quantity = $1
		WHERE user_id = $2 AND product_id = $3`,
		quantity, userID, productID,
	)
	if err != nil {
		return fmt.Errorf("update cart item: %w", err)
	}
	return requireRow(res, cart.ErrItemNotFound)
}

func (s *CartStore) Remove(ctx context.Context, userID, productID int64) error {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM cart_items WHERE user_id = $1 AND product_id = $2`,
		userID, productID,
	)
	if err != nil {
		return fmt.Errorf("remove cart item: %w", err)
	}
	return requireRow(res, cart.ErrItemNotFound)
}

func (s *CartStore) Clear(ctx context.Context, userID int64) error {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM cart_items WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

func (s *CartStore) InvalidItems(ctx context.Context, userID int64) ([]cart.Line, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+cartLineColumns+`
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.user_id = $1 AND (ci.quantity > p.stock OR p.status <> $2)`,
		userID, catalog.ProductActive)
	if err != nil {
		return nil, fmt.Errorf("validate cart: %w", err)
	}
	defer rows.Close()

	return scanCartLines(rows)
}

func scanCartLines(rows *sql.Rows) ([]cart.Line, error) {
	lines := []cart.Line{}
	for rows.Next() {
		var l cart.Line
		if err := rows.Scan(&l.ProductID, &l.Quantity, &l.ProductName,
			&l.Price, &l.Stock, &l.Status); err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}
