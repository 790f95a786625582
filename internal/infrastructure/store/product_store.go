package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/example/multimart/internal/catalog"
	"github.com/example/multimart/internal/domain"
)

// productColumns is the select list shared by every product read; the joins
// pull in the category and vendor display names.
const productColumns = `p.id, p.name, p.slug, p.description, p.price, p.compare_price,
	p.category_id, p.vendor_id, p.stock, p.status, p.rejection_reason, p.is_promoted,
	p.average_rating, p.review_count, p.created_at, c.name, u.full_name`

const productFrom = ` FROM products p
	JOIN categories c ON c.id = p.category_id
	JOIN users u ON u.id = p.vendor_id`

// ProductStore persists products in PostgreSQL.
type ProductStore struct {
	db *sql.DB
}

// NewProductStore creates a new product store.
func NewProductStore(db *sql.DB) *ProductStore {
	return &ProductStore{db: db}
}

func (s *ProductStore) Insert(ctx context.Context, p *catalog.Product) (int64, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO products (name, slug, description, price, compare_price, category_id,
			vendor_id, stock, status, is_promoted)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`,
		p.Name, p.Slug, p.Description, p.Price, p.ComparePrice, p.CategoryID,
		p.VendorID, p.Stock, p.Status, p.IsPromoted,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert product: %w", err)
	}
	return id, nil
}

func (s *ProductStore) Update(ctx context.Context, p *catalog.Product) error {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	res, err := s.db.ExecContext(ctx, `
		UPDATE products
		SET name = $1, slug = $2, description = $3, price = $4, compare_price = $5,
			category_id = $6, stock = $7, status = $8, rejection_reason = $9,
			is_promoted = $10
		WHERE id = $11`,
		p.Name, p.Slug, p.Description, p.Price, p.ComparePrice,
		p.CategoryID, p.Stock, p.Status, p.RejectionReason,
		p.IsPromoted, p.ID,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return requireRow(res, catalog.ErrProductNotFound)
}

func (s *ProductStore) Delete(ctx context.Context, id int64) error {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	res, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return requireRow(res, catalog.ErrProductNotFound)
}

func (s *ProductStore) FindByID(ctx context.Context, id int64) (*catalog.Product, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	row := s.db.QueryRowContext(ctx, `SELECT `+productColumns+productFrom+` WHERE p.id = $1`, id)
	return scanProduct(row)
}

func (s *ProductStore) FindBySlug(ctx context.Context, slug string) (*catalog.Product, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	row := s.db.QueryRowContext(ctx, `SELECT `+productColumns+productFrom+` WHERE p.slug = $1`, slug)
	return scanProduct(row)
}

func (s *ProductStore) Search(ctx context.Context, filter catalog.SearchFilter) ([]catalog.Product, int, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Keyword != "" {
		n := arg("%" + filter.Keyword + "%")
		conds = append(conds, fmt.Sprintf("(p.name ILIKE %s OR p.description ILIKE %s)", n, n))
	}
	if filter.CategoryID != 0 {
		conds = append(conds, "p.category_id = "+arg(filter.CategoryID))
	}
	if filter.VendorID != 0 {
		conds = append(conds, "p.vendor_id = "+arg(filter.VendorID))
	}
	if filter.MinPrice != nil {
		conds = append(conds, "p.price >= "+arg(*filter.MinPrice))
	}
	if filter.MaxPrice != nil {
		conds = append(conds, "p.price <= "+arg(*filter.MaxPrice))
	}
	if filter.Status != "" {
		conds = append(conds, "p.status = "+arg(filter.Status))
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products p`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	query := `SELECT ` + productColumns + productFrom + where + orderClause(filter.Sort) +
		" LIMIT " + arg(filter.Page.Limit) + " OFFSET " + arg(filter.Page.Offset())

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("search products: %w", err)
	}
	defer rows.Close()

	products, err := scanProducts(rows)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// orderClause maps a sort key to SQL. Promoted products lead every ordering.
func orderClause(sort string) string {
	var by string
	switch sort {
	case catalog.SortPriceAsc:
		by = "p.price ASC"
	case catalog.SortPriceDesc:
		by = "p.price DESC"
	case catalog.SortRating:
		by = "p.average_rating DESC"
	case catalog.SortPopularity:
		by = "p.review_count DESC"
	default:
		by = "p.created_at DESC"
	}
	return " ORDER BY p.is_promoted DESC, " + by
}

func (s *ProductStore) ByVendor(ctx context.Context, vendorID int64, status string, page domain.Page) ([]catalog.Product, int, error) {
	filter := catalog.SearchFilter{VendorID: vendorID, Status: status, Page: page}
	return s.Search(ctx, filter)
}

func (s *ProductStore) Related(ctx context.Context, productID, categoryID int64, limit int) ([]catalog.Product, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+productColumns+productFrom+`
		WHERE p.category_id = $1 AND p.id <> $2 AND p.status = $3
		ORDER BY RANDOM()
		LIMIT $4`,
		categoryID, productID, catalog.ProductActive, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("related products: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

func (s *ProductStore) AdjustStock(ctx context.Context, id int64, delta int) error {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	res, err := s.db.ExecContext(ctx, `
		UPDATE products SET stock = stock + $1
		WHERE id = $2 AND stock + $1 >= 0`,
		delta, id,
	)
	if err != nil {
		return fmt.Errorf("adjust stock: %w", err)
	}
	return requireRow(res, catalog.ErrInvalidStock)
}

func (s *ProductStore) SetStatus(ctx context.Context, id int64, status, rejectionReason string) error {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	res, err := s.db.ExecContext(ctx, `
		UPDATE products SET status = $1, rejection_reason = $2 WHERE id = $3`,
		status, rejectionReason, id,
	)
	if err != nil {
		return fmt.Errorf("set product status: %w", err)
	}
	return requireRow(res, catalog.ErrProductNotFound)
}

func (s *ProductStore) HasOrderItems(ctx context.Context, id int64) (bool, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM order_items WHERE product_id = $1)`, id,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check order items: %w", err)
	}
	return exists, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*catalog.Product, error) {
	var p catalog.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Slug, &p.Description, &p.Price, &p.ComparePrice,
		&p.CategoryID, &p.VendorID, &p.Stock, &p.Status, &p.RejectionReason,
		&p.IsPromoted, &p.AverageRating, &p.ReviewCount, &p.CreatedAt,
		&p.CategoryName, &p.VendorName,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, catalog.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan product: %w", err)
	}
	return &p, nil
}

func scanProducts(rows *sql.Rows) ([]catalog.Product, error) {
	products := []catalog.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

// requireRow translates a zero-row write into the given domain error.
func requireRow(res sql.Result, missing error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return missing
	}
	return nil
}
