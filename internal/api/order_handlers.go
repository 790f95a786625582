package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/example/multimart/internal/api/middleware"
	"github.com/example/multimart/internal/order"
)

// Order Handlers

// PlaceOrder converts the caller's cart into an order.
func (h *Handlers) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())

	var in order.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	id, err := h.orders.Create(r.Context(), actor, in)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"id":      id,
		"message": "Order placed",
	})
}

// GetOrders lists the caller's orders. Admins may pass userId to list any
// user's orders.
func (h *Handlers) GetOrders(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())

	orders, pagination, err := h.orders.ListByUser(r.Context(), actor,
		queryInt64(r, "userId"), r.URL.Query().Get("status"), pageFrom(r))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"orders":     orders,
		"pagination": pagination,
	})
}

// GetOrder returns one order, owner or admin only.
func (h *Handlers) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r.URL.Path, "/api/orders/")
	if !ok {
		respondError(w, "Invalid order id", http.StatusBadRequest)
		return
	}

	actor := middleware.ActorFromContext(r.Context())
	o, err := h.orders.Get(r.Context(), actor, id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, o)
}

// CancelOrder cancels a pending or processing order and restores stock.
func (h *Handlers) CancelOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(strings.TrimSuffix(r.URL.Path, "/cancel"), "/api/orders/")
	if !ok {
		respondError(w, "Invalid order id", http.StatusBadRequest)
		return
	}

	actor := middleware.ActorFromContext(r.Context())
	if err := h.orders.Cancel(r.Context(), actor, id); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Order cancelled"})
}

// UpdateOrderStatus moves an order along the state machine. Admin only.
func (h *Handlers) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(strings.TrimSuffix(r.URL.Path, "/status"), "/api/orders/")
	if !ok {
		respondError(w, "Invalid order id", http.StatusBadRequest)
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	actor := middleware.ActorFromContext(r.Context())
	if err := h.orders.UpdateStatus(r.Context(), actor, id, req.Status); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Order status updated"})
}

// PayOrder records a completed payment for an order.
func (h *Handlers) PayOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(strings.TrimSuffix(r.URL.Path, "/pay"), "/api/orders/")
	if !ok {
		respondError(w, "Invalid order id", http.StatusBadRequest)
		return
	}

	var req struct {
		TransactionID string `json:"transactionId"`
	}
	// Body is optional; a missing transaction id gets a generated one.
	_ = json.NewDecoder(r.Body).Decode(&req)

	actor := middleware.ActorFromContext(r.Context())
	if err := h.orders.MarkPaid(r.Context(), actor, id, req.TransactionID); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Payment recorded"})
}

// GetOrderStats returns order aggregates for admins and vendors.
func (h *Handlers) GetOrderStats(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())

	stats, err := h.orders.GetStats(r.Context(), actor)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}
