package api

import (
	"encoding/json"
	"net/http"

	"github.com/example/multimart/internal/api/middleware"
)

// Cart Handlers

// GetCart returns the caller's cart with the current total.
func (h *Handlers) GetCart(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())

	c, err := h.carts.Get(r.Context(), actor.UserID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

// AddToCart puts a product into the caller's cart.
func (h *Handlers) AddToCart(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())

	var req struct {
		ProductID int64 `json:"productId"`
		Quantity  int   `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.carts.Add(r.Context(), actor.UserID, req.ProductID, req.Quantity); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Added to cart"})
}

// UpdateCartItem replaces the quantity of a cart line.
func (h *Handlers) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())

	productID, ok := pathID(r.URL.Path, "/api/cart/items/")
	if !ok {
		respondError(w, "Invalid product id", http.StatusBadRequest)
		return
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.carts.UpdateQuantity(r.Context(), actor.UserID, productID, req.Quantity); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Cart updated"})
}

// RemoveFromCart deletes a cart line.
func (h *Handlers) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())

	productID, ok := pathID(r.URL.Path, "/api/cart/items/")
	if !ok {
		respondError(w, "Invalid product id", http.StatusBadRequest)
		return
	}

	if err := h.carts.Remove(r.Context(), actor.UserID, productID); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Removed from cart"})
}

// ClearCart empties the caller's cart.
func (h *Handlers) ClearCart(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())

	if err := h.carts.Clear(r.Context(), actor.UserID); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Cart cleared"})
}

// ValidateCart reports cart lines that can no longer be fulfilled.
func (h *Handlers) ValidateCart(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())

	invalid, err := h.carts.ValidateStock(r.Context(), actor.UserID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"valid":        len(invalid) == 0,
		"invalidItems": invalid,
	})
}
