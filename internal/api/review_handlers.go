package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/example/multimart/internal/api/middleware"
	"github.com/example/multimart/internal/review"
)

// Review Handlers

// GetProductReviews lists a product's reviews, optionally filtered by rating.
func (h *Handlers) GetProductReviews(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(strings.TrimSuffix(r.URL.Path, "/reviews"), "/api/products/")
	if !ok {
		respondError(w, "Invalid product id", http.StatusBadRequest)
		return
	}

	filter := review.Filter{
		Rating: queryInt(r, "rating"),
		Sort:   r.URL.Query().Get("sort"),
		Page:   pageFrom(r),
	}

	reviews, pagination, err := h.reviews.ByProduct(r.Context(), id, filter)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"reviews":    reviews,
		"pagination": pagination,
	})
}

// GetMyReviews lists the caller's reviews.
func (h *Handlers) GetMyReviews(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())

	reviews, pagination, err := h.reviews.ByUser(r.Context(), actor, 0, pageFrom(r))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"reviews":    reviews,
		"pagination": pagination,
	})
}

// CreateReview posts a review for a delivered product.
func (h *Handlers) CreateReview(w http.ResponseWriter, r *http.Request) {
	var in review.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	actor := middleware.ActorFromContext(r.Context())
	id, err := h.reviews.Create(r.Context(), actor, in)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"id":      id,
		"message": "Review posted",
	})
}

// UpdateReview modifies the caller's review.
func (h *Handlers) UpdateReview(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r.URL.Path, "/api/reviews/")
	if !ok {
		respondError(w, "Invalid review id", http.StatusBadRequest)
		return
	}

	var req struct {
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	actor := middleware.ActorFromContext(r.Context())
	if err := h.reviews.Update(r.Context(), actor, id, req.Rating, req.Comment); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Review updated"})
}

// DeleteReview removes a review, owner or admin only.
func (h *Handlers) DeleteReview(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r.URL.Path, "/api/reviews/")
	if !ok {
		respondError(w, "Invalid review id", http.StatusBadRequest)
		return
	}

	actor := middleware.ActorFromContext(r.Context())
	if err := h.reviews.Delete(r.Context(), actor, id); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Review deleted"})
}
