package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/multimart/internal/domain"
	"github.com/example/multimart/internal/review"
)

// ReviewStore persists reviews in PostgreSQL. Every mutation recomputes the
// product's rating aggregates inside the same transaction so a product row
// never disagrees with its reviews.
type ReviewStore struct {
	db *sql.DB
}

// NewReviewStore creates a new review store.
func NewReviewStore(db *sql.DB) *ReviewStore {
	return &ReviewStore{db: db}
}

func (s *ReviewStore) Insert(ctx context.Context, r *review.Review) (int64, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	var id int64
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `
			INSERT INTO reviews (user_id, product_id, order_id, rating, comment)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id`,
			r.UserID, r.ProductID, r.OrderID, r.Rating, r.Comment,
		).Scan(&id)
		if err != nil {
			return fmt.Errorf("insert review: %w", err)
		}
		return refreshRating(ctx, tx, r.ProductID)
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (s *ReviewStore) Update(ctx context.Context, id int64, rating int, comment string) error {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	return withTx(ctx, s.db, func(tx *sql.Tx) error {
		var productID int64
		err := tx.QueryRowContext(ctx, `
			UPDATE reviews SET rating = $1, comment = $2
			WHERE id = $3
			RETURNING product_id`,
			rating, comment, id,
		).Scan(&productID)
		if errors.Is(err, sql.ErrNoRows) {
			return review.ErrReviewNotFound
		}
		if err != nil {
			return fmt.Errorf("update review: %w", err)
		}
		return refreshRating(ctx, tx, productID)
	})
}

func (s *ReviewStore) Delete(ctx context.Context, id int64) error {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	return withTx(ctx, s.db, func(tx *sql.Tx) error {
		var productID int64
		err := tx.QueryRowContext(ctx,
			`DELETE FROM reviews WHERE id = $1 RETURNING product_id`, id,
		).Scan(&productID)
		if errors.Is(err, sql.ErrNoRows) {
			return review.ErrReviewNotFound
		}
		if err != nil {
			return fmt.Errorf("delete review: %w", err)
		}
		return refreshRating(ctx, tx, productID)
	})
}

// refreshRating recomputes a product's averageRating and reviewCount from its
// reviews. COALESCE handles the last review being deleted.
func refreshRating(ctx context.Context, tx *sql.Tx, productID int64) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE products SET
			average_rating = COALESCE((SELECT AVG(rating) FROM reviews WHERE product_id = $1), 0),
			review_count = (SELECT COUNT(*) FROM reviews WHERE product_id = $1)
		WHERE id = $1`, productID)
	if err != nil {
		return fmt.Errorf("refresh product rating: %w", err)
	}
	return nil
}

const reviewColumns = `r.id, r.user_id, r.product_id, r.order_id, r.rating, r.comment,
	r.created_at, u.full_name, p.name, p.slug`

const reviewFrom = ` FROM reviews r
	JOIN users u ON u.id = r.user_id
	JOIN products p ON p.id = r.product_id`

func (s *ReviewStore) FindByID(ctx context.Context, id int64) (*review.Review, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	row := s.db.QueryRowContext(ctx, `SELECT `+reviewColumns+reviewFrom+` WHERE r.id = $1`, id)
	return scanReview(row)
}

func (s *ReviewStore) ByProduct(ctx context.Context, productID int64, filter review.Filter) ([]review.Review, int, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	where := ` WHERE r.product_id = $1`
	args := []any{productID}
	if filter.Rating != 0 {
		where += ` AND r.rating = $2`
		args = append(args, filter.Rating)
	}

	var total int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reviews r`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count reviews: %w", err)
	}

	var orderBy string
	switch filter.Sort {
	case review.SortHighest:
		orderBy = ` ORDER BY r.rating DESC, r.created_at DESC`
	case review.SortLowest:
		orderBy = ` ORDER BY r.rating ASC, r.created_at DESC`
	default:
		orderBy = ` ORDER BY r.created_at DESC`
	}

	query := fmt.Sprintf(`SELECT %s%s%s%s LIMIT $%d OFFSET $%d`,
		reviewColumns, reviewFrom, where, orderBy, len(args)+1, len(args)+2)
	args = append(args, filter.Page.Limit, filter.Page.Offset())

	return s.listReviews(ctx, query, args, total)
}

func (s *ReviewStore) ByUser(ctx context.Context, userID int64, page domain.Page) ([]review.Review, int, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	var total int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reviews WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count reviews: %w", err)
	}

	query := `SELECT ` + reviewColumns + reviewFrom +
		` WHERE r.user_id = $1 ORDER BY r.created_at DESC LIMIT $2 OFFSET $3`
	return s.listReviews(ctx, query, []any{userID, page.Limit, page.Offset()}, total)
}

func (s *ReviewStore) listReviews(ctx context.Context, query string, args []any, total int) ([]review.Review, int, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	reviews := []review.Review{}
	for rows.Next() {
		r, err := scanReview(rows)
		if err != nil {
			return nil, 0, err
		}
		reviews = append(reviews, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

func (s *ReviewStore) Exists(ctx context.Context, userID, productID int64) (bool, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM reviews WHERE user_id = $1 AND product_id = $2)`,
		userID, productID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check review: %w", err)
	}
	return exists, nil
}

func scanReview(row rowScanner) (*review.Review, error) {
	var r review.Review
	err := row.Scan(&r.ID, &r.UserID, &r.ProductID, &r.OrderID, &r.Rating,
		&r.Comment, &r.CreatedAt, &r.UserName, &r.ProductName, &r.ProductSlug)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, review.ErrReviewNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan review: %w", err)
	}
	return &r, nil
}
