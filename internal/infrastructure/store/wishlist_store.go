package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/multimart/internal/domain"
	"github.com/example/multimart/internal/wishlist"
)

// WishlistStore persists wishlist entries in PostgreSQL.
type WishlistStore struct {
	db *sql.DB
}

// NewWishlistStore creates a new wishlist store.
func NewWishlistStore(db *sql.DB) *WishlistStore {
	return &WishlistStore{db: db}
}

func (s *WishlistStore) Items(ctx context.Context, userID int64, page domain.Page) ([]wishlist.Item, int, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	var total int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM wishlist_items WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count wishlist: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT w.product_id, p.name, p.price, p.compare_price, p.stock, p.status, w.created_at
		FROM wishlist_items w
		JOIN products p ON p.id = w.product_id
		WHERE w.user_id = $1
		ORDER BY w.created_at DESC
		LIMIT $2 OFFSET $3`,
		userID, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("load wishlist: %w", err)
	}
	defer rows.Close()

	items := []wishlist.Item{}
	for rows.Next() {
		var item wishlist.Item
		if err := rows.Scan(&item.ProductID, &item.ProductName, &item.Price,
			&item.ComparePrice, &item.Stock, &item.Status, &item.AddedAt); err != nil {
			return nil, 0, fmt.Errorf("scan wishlist item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *WishlistStore) Add(ctx context.Context, userID, productID int64) error {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO wishlist_items (user_id, product_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, product_id) DO NOTHING`,
		userID, productID,
	)
	if err != nil {
		return fmt.Errorf("add wishlist item: %w", err)
	}
	return requireRow(res, wishlist.ErrAlreadyInWishlist)
}

func (s *WishlistStore) Remove(ctx context.Context, userID, productID int64) error {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM wishlist_items WHERE user_id = $1 AND product_id = $2`,
		userID, productID,
	)
	if err != nil {
		return fmt.Errorf("remove wishlist item: %w", err)
	}
	return requireRow(res, wishlist.ErrItemNotFound)
}

func (s *WishlistStore) Clear(ctx context.Context, userID int64) error {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM wishlist_items WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("clear wishlist: %w", err)
	}
	return nil
}

func (s *WishlistStore) Contains(ctx context.Context, userID, productID int64) (bool, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM wishlist_items WHERE user_id = $1 AND product_id = $2)`,
		userID, productID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check wishlist: %w", err)
	}
	return exists, nil
}
