package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/multimart/internal/catalog"
)

const categoryColumns = `id, name, slug, description, image, parent_id, status, sort_order, created_at`

// CategoryStore persists categories in PostgreSQL.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore creates a new category store.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

func (s *CategoryStore) Insert(ctx context.Context, c *catalog.Category) (int64, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO categories (name, slug, description, image, parent_id, status, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		c.Name, c.Slug, c.Description, c.Image, c.ParentID, c.Status, c.SortOrder,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert category: %w", err)
	}
	return id, nil
}

func (s *CategoryStore) Update(ctx context.Context, c *catalog.Category) error {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	res, err := s.db.ExecContext(ctx, `
		UPDATE categories
		SET name = $1, slug = $2, description = $3, image = $4, parent_id = $5,
			status = $6, sort_order = $7
		WHERE id = $8`,
		c.Name, c.Slug, c.Description, c.Image, c.ParentID, c.Status, c.SortOrder, c.ID,
	)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return requireRow(res, catalog.ErrCategoryNotFound)
}

func (s *CategoryStore) Delete(ctx context.Context, id int64) error {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	res, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return requireRow(res, catalog.ErrCategoryNotFound)
}

func (s *CategoryStore) FindByID(ctx context.Context, id int64) (*catalog.Category, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	row := s.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	return scanCategory(row)
}

func (s *CategoryStore) FindBySlug(ctx context.Context, slug string) (*catalog.Category, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	row := s.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE slug = $1`, slug)
	return scanCategory(row)
}

func (s *CategoryStore) List(ctx context.Context, includeInactive bool) ([]catalog.Category, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	query := `SELECT ` + categoryColumns + ` FROM categories`
	if !includeInactive {
		query += ` WHERE status = 'active'`
	}
	query += ` ORDER BY sort_order ASC, name ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := []catalog.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, *c)
	}
	return categories, rows.Err()
}

func (s *CategoryStore) HasChildren(ctx context.Context, id int64) (bool, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM categories WHERE parent_id = $1)`, id,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check subcategories: %w", err)
	}
	return exists, nil
}

func (s *CategoryStore) HasProducts(ctx context.Context, id int64) (bool, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM products WHERE category_id = $1)`, id,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check category products: %w", err)
	}
	return exists, nil
}

func scanCategory(row rowScanner) (*catalog.Category, error) {
	var c catalog.Category
	err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.Image,
		&c.ParentID, &c.Status, &c.SortOrder, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, catalog.ErrCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan category: %w", err)
	}
	return &c, nil
}
