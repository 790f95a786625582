package catalog

import (
	"context"
	"errors"

	"github.com/example/multimart/internal/domain"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
)

// Service implements product catalog operations.
type Service struct {
	products ProductRepository
}

// NewService creates a new catalog service.
func NewService(products ProductRepository) *Service {
	return &Service{products: products}
}

// ProductInput is the validated payload for creating or updating a product.
type ProductInput struct {
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	ComparePrice decimal.Decimal `json:"comparePrice"`
	CategoryID   int64           `json:"categoryId"`
	Stock        int             `json:"stock"`
}

func (in ProductInput) validate() error {
	if in.Name == "" {
		return domain.Invalid("Product name is required")
	}
	if in.Price.LessThanOrEqual(decimal.Zero) {
		return domain.Invalid("Price must be greater than zero")
	}
	if in.Stock < 0 {
		return domain.Invalid("Stock cannot be negative")
	}
	if in.CategoryID == 0 {
		return domain.Invalid("Category is required")
	}
	return nil
}

// CreateProduct registers a new vendor product. The slug is derived from the
// name and must be unique; new products await admin approval.
func (s *Service) CreateProduct(ctx context.Context, actor domain.Actor, in ProductInput) (int64, error) {
	if actor.Role != domain.RoleVendor && !actor.IsAdmin() {
		return 0, domain.Forbidden("Access denied")
	}
	if err := in.validate(); err != nil {
		return 0, err
	}

	productSlug := slug.Make(in.Name)
	if err := s.checkSlugFree(ctx, productSlug, 0); err != nil {
		return 0, err
	}

	p := &Product{
		Name:         in.Name,
		Slug:         productSlug,
		Description:  in.Description,
		Price:        in.Price,
		ComparePrice: in.ComparePrice,
		CategoryID:   in.CategoryID,
		VendorID:     actor.UserID,
		Stock:        in.Stock,
		Status:       ProductPending,
	}
	return s.products.Insert(ctx, p)
}

// UpdateProduct modifies a product owned by the caller. Renaming regenerates
// the slug, and any update sends the product back to admin review.
func (s *Service) UpdateProduct(ctx context.Context, actor domain.Actor, id int64, in ProductInput) error {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !actor.CanAccess(p.VendorID) {
		return domain.Forbidden("Access denied")
	}
	if err := in.validate(); err != nil {
		return err
	}

	if in.Name != p.Name {
		newSlug := slug.Make(in.Name)
		if err := s.checkSlugFree(ctx, newSlug, id); err != nil {
			return err
		}
		p.Slug = newSlug
	}

	p.Name = in.Name
	p.Description = in.Description
	p.Price = in.Price
	p.ComparePrice = in.ComparePrice
	p.CategoryID = in.CategoryID
	p.Stock = in.Stock
	p.Status = ProductPending
	p.RejectionReason = ""

	return s.products.Update(ctx, p)
}

// DeleteProduct removes a product that has never been ordered.
func (s *Service) DeleteProduct(ctx context.Context, actor domain.Actor, id int64) error {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !actor.CanAccess(p.VendorID) {
		return domain.Forbidden("Access denied")
	}

	ordered, err := s.products.HasOrderItems(ctx, id)
	if err != nil {
		return err
	}
	if ordered {
		return ErrProductHasOrders
	}

	return s.products.Delete(ctx, id)
}

// SetProductStatus is the admin approval/rejection path.
func (s *Service) SetProductStatus(ctx context.Context, actor domain.Actor, id int64, status, rejectionReason string) error {
	if !actor.IsAdmin() {
		return domain.Forbidden("Access denied")
	}
	switch status {
	case ProductPending, ProductActive, ProductInactive, ProductRejected:
	default:
		return ErrInvalidStatus
	}
	if status != ProductRejected {
		rejectionReason = ""
	}

	if _, err := s.products.FindByID(ctx, id); err != nil {
		return err
	}
	return s.products.SetStatus(ctx, id, status, rejectionReason)
}

// AdjustStock applies a vendor-initiated stock delta. The repository refuses
// adjustments that would drive stock negative.
func (s *Service) AdjustStock(ctx context.Context, actor domain.Actor, id int64, delta int) error {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !actor.CanAccess(p.VendorID) {
		return domain.Forbidden("Access denied")
	}
	return s.products.AdjustStock(ctx, id, delta)
}

// GetProduct returns a product by id.
func (s *Service) GetProduct(ctx context.Context, id int64) (*Product, error) {
	return s.products.FindByID(ctx, id)
}

// GetProductBySlug returns a product and a handful of related products from
// the same category.
func (s *Service) GetProductBySlug(ctx context.Context, productSlug string) (*Product, []Product, error) {
	p, err := s.products.FindBySlug(ctx, productSlug)
	if err != nil {
		return nil, nil, err
	}

	related, err := s.products.Related(ctx, p.ID, p.CategoryID, 4)
	if err != nil {
		return nil, nil, err
	}
	return p, related, nil
}

// SearchProducts returns a filtered, sorted page of products.
func (s *Service) SearchProducts(ctx context.Context, filter SearchFilter) ([]Product, domain.Pagination, error) {
	items, total, err := s.products.Search(ctx, filter)
	if err != nil {
		return nil, domain.Pagination{}, err
	}
	return items, domain.NewPagination(total, filter.Page), nil
}

// VendorProducts lists a vendor's own products; admins may list any vendor's.
func (s *Service) VendorProducts(ctx context.Context, actor domain.Actor, vendorID int64, status string, page domain.Page) ([]Product, domain.Pagination, error) {
	if vendorID == 0 {
		vendorID = actor.UserID
	}
	if !actor.CanAccess(vendorID) {
		return nil, domain.Pagination{}, domain.Forbidden("Access denied")
	}

	items, total, err := s.products.ByVendor(ctx, vendorID, status, page)
	if err != nil {
		return nil, domain.Pagination{}, err
	}
	return items, domain.NewPagination(total, page), nil
}

func (s *Service) checkSlugFree(ctx context.Context, productSlug string, selfID int64) error {
	existing, err := s.products.FindBySlug(ctx, productSlug)
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != selfID {
		return ErrSlugTaken
	}
	return nil
}
