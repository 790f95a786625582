package catalog

import (
	"context"
	"errors"

	"github.com/example/multimart/internal/domain"
	"github.com/gosimple/slug"
)

// CategoryService implements category administration and lookup.
type CategoryService struct {
	categories CategoryRepository
}

// NewCategoryService creates a new category service.
func NewCategoryService(categories CategoryRepository) *CategoryService {
	return &CategoryService{categories: categories}
}

// CategoryInput is the payload for creating or updating a category.
type CategoryInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
	ParentID    int64  `json:"parentId"`
	Status      string `json:"status"`
	SortOrder   int    `json:"sortOrder"`
}

// CreateCategory adds a category. Admin only.
func (s *CategoryService) CreateCategory(ctx context.Context, actor domain.Actor, in CategoryInput) (int64, error) {
	if !actor.IsAdmin() {
		return 0, domain.Forbidden("Access denied")
	}
	if in.Name == "" {
		return 0, domain.Invalid("Category name is required")
	}
	if in.Status == "" {
		in.Status = CategoryActive
	}

	categorySlug := slug.Make(in.Name)
	if err := s.checkSlugFree(ctx, categorySlug, 0); err != nil {
		return 0, err
	}

	c := &Category{
		Name:        in.Name,
		Slug:        categorySlug,
		Description: in.Description,
		Image:       in.Image,
		ParentID:    in.ParentID,
		Status:      in.Status,
		SortOrder:   in.SortOrder,
	}
	return s.categories.Insert(ctx, c)
}

// UpdateCategory modifies a category. Admin only.
func (s *CategoryService) UpdateCategory(ctx context.Context, actor domain.Actor, id int64, in CategoryInput) error {
	if !actor.IsAdmin() {
		return domain.Forbidden("Access denied")
	}

	c, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if in.Name == "" {
		return domain.Invalid("Category name is required")
	}

	if in.Name != c.Name {
		newSlug := slug.Make(in.Name)
		if err := s.checkSlugFree(ctx, newSlug, id); err != nil {
			return err
		}
		c.Slug = newSlug
	}

	c.Name = in.Name
	c.Description = in.Description
	c.Image = in.Image
	c.ParentID = in.ParentID
	if in.Status != "" {
		c.Status = in.Status
	}
	c.SortOrder = in.SortOrder

	return s.categories.Update(ctx, c)
}

// DeleteCategory removes an empty leaf category. Admin only.
func (s *CategoryService) DeleteCategory(ctx context.Context, actor domain.Actor, id int64) error {
	if !actor.IsAdmin() {
		return domain.Forbidden("Access denied")
	}
	if _, err := s.categories.FindByID(ctx, id); err != nil {
		return err
	}

	hasChildren, err := s.categories.HasChildren(ctx, id)
	if err != nil {
		return err
	}
	if hasChildren {
		return ErrCategoryHasChildren
	}

	hasProducts, err := s.categories.HasProducts(ctx, id)
	if err != nil {
		return err
	}
	if hasProducts {
		return ErrCategoryHasProducts
	}

	return s.categories.Delete(ctx, id)
}

// ListCategories returns categories ordered for display. Inactive categories
// are included only for admins.
func (s *CategoryService) ListCategories(ctx context.Context, includeInactive bool) ([]Category, error) {
	return s.categories.List(ctx, includeInactive)
}

// GetCategory returns a category by slug.
func (s *CategoryService) GetCategory(ctx context.Context, categorySlug string) (*Category, error) {
	return s.categories.FindBySlug(ctx, categorySlug)
}

func (s *CategoryService) checkSlugFree(ctx context.Context, categorySlug string, selfID int64) error {
	existing, err := s.categories.FindBySlug(ctx, categorySlug)
	if err != nil {
		if errors.Is(err, ErrCategoryNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != selfID {
		return ErrCategorySlugTaken
	}
	return nil
}
