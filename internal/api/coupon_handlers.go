package api

import (
	"encoding/json"
	"net/http"

	"github.com/example/multimart/internal/api/middleware"
	"github.com/example/multimart/internal/coupon"
	"github.com/shopspring/decimal"
)

// Coupon Handlers

// ValidateCoupon evaluates a coupon code against a cart total without
// consuming a use.
func (h *Handlers) ValidateCoupon(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code        string          `json:"code"`
		TotalAmount decimal.Decimal `json:"totalAmount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	couponID, discount, err := h.coupons.Validate(r.Context(), req.Code, req.TotalAmount)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"couponId": couponID,
		"discount": discount,
	})
}

// CreateCoupon adds a coupon. Admin only.
func (h *Handlers) CreateCoupon(w http.ResponseWriter, r *http.Request) {
	var in coupon.Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	actor := middleware.ActorFromContext(r.Context())
	id, err := h.coupons.Create(r.Context(), actor, in)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"id":      id,
		"message": "Coupon created",
	})
}

// UpdateCoupon modifies a coupon. Admin only.
func (h *Handlers) UpdateCoupon(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r.URL.Path, "/api/coupons/")
	if !ok {
		respondError(w, "Invalid coupon id", http.StatusBadRequest)
		return
	}

	var in coupon.Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	actor := middleware.ActorFromContext(r.Context())
	if err := h.coupons.Update(r.Context(), actor, id, in); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Coupon updated"})
}

// DeleteCoupon removes a coupon. Admin only.
func (h *Handlers) DeleteCoupon(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r.URL.Path, "/api/coupons/")
	if !ok {
		respondError(w, "Invalid coupon id", http.StatusBadRequest)
		return
	}

	actor := middleware.ActorFromContext(r.Context())
	if err := h.coupons.Delete(r.Context(), actor, id); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Coupon deleted"})
}

// GetCoupons lists coupons. Admin only.
func (h *Handlers) GetCoupons(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())

	coupons, pagination, err := h.coupons.List(r.Context(), actor,
		r.URL.Query().Get("status"), pageFrom(r))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"coupons":    coupons,
		"pagination": pagination,
	})
}
