package api

import (
	"encoding/json"
	"net/http"

	"github.com/example/multimart/internal/api/middleware"
)

// Wishlist Handlers

// GetWishlist lists the caller's saved products.
func (h *Handlers) GetWishlist(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())

	items, pagination, err := h.wishlists.List(r.Context(), actor.UserID, pageFrom(r))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"items":      items,
		"pagination": pagination,
	})
}

// AddToWishlist saves a product for later.
func (h *Handlers) AddToWishlist(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())

	var req struct {
		ProductID int64 `json:"productId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.wishlists.Add(r.Context(), actor.UserID, req.ProductID); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{"message": "Added to wishlist"})
}

// RemoveFromWishlist deletes one saved product.
func (h *Handlers) RemoveFromWishlist(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())

	productID, ok := pathID(r.URL.Path, "/api/wishlist/")
	if !ok {
		respondError(w, "Invalid product id", http.StatusBadRequest)
		return
	}

	if err := h.wishlists.Remove(r.Context(), actor.UserID, productID); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Removed from wishlist"})
}

// ClearWishlist empties the caller's wishlist.
func (h *Handlers) ClearWishlist(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())

	if err := h.wishlists.Clear(r.Context(), actor.UserID); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Wishlist cleared"})
}
