package cart

import (
	"context"

	"github.com/example/multimart/internal/catalog"
	"github.com/example/multimart/internal/domain"
	"github.com/shopspring/decimal"
)

// ProductReader is the slice of the catalog the cart needs.
type ProductReader interface {
	FindByID(ctx context.Context, id int64) (*catalog.Product, error)
}

// Service implements per-user cart operations.
type Service struct {
	carts    Repository
	products ProductReader
}

// NewService creates a new cart service.
func NewService(carts Repository, products ProductReader) *Service {
	return &Service{carts: carts, products: products}
}

// Add puts quantity units of a product into the user's cart, merging with an
// existing line for the same product.
func (s *Service) Add(ctx context.Context, userID, productID int64, quantity int) error {
	if quantity < 1 {
		return domain.Invalid("Quantity must be at least 1")
	}

	p, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return err
	}
	if p.Status != catalog.ProductActive {
		return domain.Conflict("Product is not available")
	}
	if quantity > p.Stock {
		return domain.Conflictf("Only %d units of %s in stock", p.Stock, p.Name)
	}

	return s.carts.Upsert(ctx, userID, productID, quantity)
}

// UpdateQuantity replaces the quantity of an existing cart line.
func (s *Service) UpdateQuantity(ctx context.Context, userID, productID int64, quantity int) error {
	if quantity < 1 {
		return domain.Invalid("Quantity must be at least 1")
	}
	return s.carts.UpdateQuantity(ctx, userID, productID, quantity)
}

// Remove deletes a single cart line.
func (s *Service) Remove(ctx context.Context, userID, productID int64) error {
	return s.carts.Remove(ctx, userID, productID)
}

// Clear empties the user's cart.
func (s *Service) Clear(ctx context.Context, userID int64) error {
	return s.carts.Clear(ctx, userID)
}

// Get returns the cart lines with the current total.
func (s *Service) Get(ctx context.Context, userID int64) (*Cart, error) {
	items, err := s.carts.Items(ctx, userID)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, line := range items {
		total = total.Add(line.Subtotal())
	}

	if items == nil {
		items = []Line{}
	}
	return &Cart{Items: items, Total: total}, nil
}

// ValidateStock returns the cart lines that can no longer be fulfilled. This
// is a pre-check only: the order engine re-verifies stock inside the creation
// transaction, since stock can change between validation and commit.
func (s *Service) ValidateStock(ctx context.Context, userID int64) ([]Line, error) {
	return s.carts.InvalidItems(ctx, userID)
}
