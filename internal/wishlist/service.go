package wishlist

import (
	"context"

	"github.com/example/multimart/internal/catalog"
	"github.com/example/multimart/internal/domain"
)

// ProductReader is the slice of the catalog the wishlist needs.
type ProductReader interface {
	FindByID(ctx context.Context, id int64) (*catalog.Product, error)
}

// Service implements per-user wishlist operations.
type Service struct {
	wishlists Repository
	products  ProductReader
}

// NewService creates a new wishlist service.
func NewService(wishlists Repository, products ProductReader) *Service {
	return &Service{wishlists: wishlists, products: products}
}

// Add saves a product to the user's wishlist.
func (s *Service) Add(ctx context.Context, userID, productID int64) error {
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		return err
	}

	saved, err := s.wishlists.Contains(ctx, userID, productID)
	if err != nil {
		return err
	}
	if saved {
		return ErrAlreadyInWishlist
	}

	return s.wishlists.Add(ctx, userID, productID)
}

// Remove deletes a product from the user's wishlist.
func (s *Service) Remove(ctx context.Context, userID, productID int64) error {
	return s.wishlists.Remove(ctx, userID, productID)
}

// Clear empties the user's wishlist.
func (s *Service) Clear(ctx context.Context, userID int64) error {
	return s.wishlists.Clear(ctx, userID)
}

// List returns a page of the user's wishlist.
func (s *Service) List(ctx context.Context, userID int64, page domain.Page) ([]Item, domain.Pagination, error) {
	items, total, err := s.wishlists.Items(ctx, userID, page)
	if err != nil {
		return nil, domain.Pagination{}, err
	}
	if items == nil {
		items = []Item{}
	}
	return items, domain.NewPagination(total, page), nil
}
