package catalog

import (
	"context"
	"time"

	"github.com/example/multimart/internal/domain"
)

const (
	CategoryActive   = "active"
	CategoryInactive = "inactive"
)

var (
	ErrCategoryNotFound    = domain.NotFound("Category not found")
	ErrCategorySlugTaken   = domain.Conflict("Category with this name already exists")
	ErrCategoryHasChildren = domain.Conflict("Cannot delete category with subcategories")
	ErrCategoryHasProducts = domain.Conflict("Cannot delete category with products")
)

// Category is a catalog grouping, optionally nested one level via ParentID.
type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Image       string    `json:"image,omitempty"`
	ParentID    int64     `json:"parentId,omitempty"`
	Status      string    `json:"status"`
	SortOrder   int       `json:"sortOrder"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CategoryRepository is the persistence contract for categories.
type CategoryRepository interface {
	Insert(ctx context.Context, c *Category) (int64, error)
	Update(ctx context.Context, c *Category) error
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*Category, error)
	FindBySlug(ctx context.Context, slug string) (*Category, error)
	List(ctx context.Context, includeInactive bool) ([]Category, error)
	HasChildren(ctx context.Context, id int64) (bool, error)
	HasProducts(ctx context.Context, id int64) (bool, error)
}
