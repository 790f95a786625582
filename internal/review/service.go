package review

import (
	"context"

	"github.com/example/multimart/internal/domain"
)

// Service implements review operations with rating aggregation.
type Service struct {
	reviews   Repository
	purchases PurchaseChecker
}

// NewService creates a new review service.
func NewService(reviews Repository, purchases PurchaseChecker) *Service {
	return &Service{reviews: reviews, purchases: purchases}
}

// CreateInput is the payload for posting a review.
type CreateInput struct {
	ProductID int64  `json:"productId"`
	OrderID   int64  `json:"orderId"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

// Create posts a review. The caller must have a delivered order containing
// the product and must not have reviewed it before.
func (s *Service) Create(ctx context.Context, actor domain.Actor, in CreateInput) (int64, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return 0, ErrInvalidRating
	}

	purchased, err := s.purchases.HasDeliveredOrder(ctx, actor.UserID, in.ProductID)
	if err != nil {
		return 0, err
	}
	if !purchased {
		return 0, ErrNotPurchased
	}

	reviewed, err := s.reviews.Exists(ctx, actor.UserID, in.ProductID)
	if err != nil {
		return 0, err
	}
	if reviewed {
		return 0, ErrAlreadyReviewed
	}

	r := &Review{
		UserID:    actor.UserID,
		ProductID: in.ProductID,
		OrderID:   in.OrderID,
		Rating:    in.Rating,
		Comment:   in.Comment,
	}
	return s.reviews.Insert(ctx, r)
}

// Update modifies the caller's review.
func (s *Service) Update(ctx context.Context, actor domain.Actor, id int64, rating int, comment string) error {
	if rating < 1 || rating > 5 {
		return ErrInvalidRating
	}

	r, err := s.reviews.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !actor.CanAccess(r.UserID) {
		return domain.Forbidden("Access denied")
	}

	return s.reviews.Update(ctx, id, rating, comment)
}

// Delete removes a review, owner or admin only.
func (s *Service) Delete(ctx context.Context, actor domain.Actor, id int64) error {
	r, err := s.reviews.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !actor.CanAccess(r.UserID) {
		return domain.Forbidden("Access denied")
	}

	return s.reviews.Delete(ctx, id)
}

// ByProduct returns a page of a product's reviews.
func (s *Service) ByProduct(ctx context.Context, productID int64, filter Filter) ([]Review, domain.Pagination, error) {
	reviews, total, err := s.reviews.ByProduct(ctx, productID, filter)
	if err != nil {
		return nil, domain.Pagination{}, err
	}
	return reviews, domain.NewPagination(total, filter.Page), nil
}

// ByUser returns a page of the caller's reviews.
func (s *Service) ByUser(ctx context.Context, actor domain.Actor, userID int64, page domain.Page) ([]Review, domain.Pagination, error) {
	if userID == 0 {
		userID = actor.UserID
	}
	if !actor.CanAccess(userID) {
		return nil, domain.Pagination{}, domain.Forbidden("Access denied")
	}

	reviews, total, err := s.reviews.ByUser(ctx, userID, page)
	if err != nil {
		return nil, domain.Pagination{}, err
	}
	return reviews, domain.NewPagination(total, page), nil
}
