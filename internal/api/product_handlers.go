package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/example/multimart/internal/api/middleware"
	"github.com/example/multimart/internal/catalog"
	"github.com/shopspring/decimal"
)

// Product Handlers

// GetProducts handles the storefront product search. Unauthenticated callers
// only ever see active products.
func (h *Handlers) GetProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := catalog.SearchFilter{
		Keyword:    q.Get("q"),
		CategoryID: queryInt64(r, "categoryId"),
		VendorID:   queryInt64(r, "vendorId"),
		Status:     catalog.ProductActive,
		Sort:       q.Get("sort"),
		Page:       pageFrom(r),
	}
	if raw := q.Get("minPrice"); raw != "" {
		if v, err := decimal.NewFromString(raw); err == nil {
			filter.MinPrice = &v
		}
	}
	if raw := q.Get("maxPrice"); raw != "" {
		if v, err := decimal.NewFromString(raw); err == nil {
			filter.MaxPrice = &v
		}
	}

	products, pagination, err := h.products.SearchProducts(r.Context(), filter)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"products":   products,
		"pagination": pagination,
	})
}

// GetProduct returns one product, by numeric id or by "slug/{slug}". The slug
// variant also includes related products from the same category.
func (h *Handlers) GetProduct(w http.ResponseWriter, r *http.Request) {
	param := extractPathParam(r.URL.Path, "/api/products/")

	if slugName, ok := strings.CutPrefix(param, "slug/"); ok {
		p, related, err := h.products.GetProductBySlug(r.Context(), slugName)
		if err != nil {
			respondServiceError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]any{
			"product": p,
			"related": related,
		})
		return
	}

	id, ok := pathID(r.URL.Path, "/api/products/")
	if !ok {
		respondError(w, "Invalid product id", http.StatusBadRequest)
		return
	}

	p, err := h.products.GetProduct(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

// CreateProduct registers a vendor product, pending admin approval.
func (h *Handlers) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var in catalog.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	actor := middleware.ActorFromContext(r.Context())
	id, err := h.products.CreateProduct(r.Context(), actor, in)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"id":      id,
		"message": "Product created and awaiting approval",
	})
}

// UpdateProduct modifies a vendor's product.
func (h *Handlers) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r.URL.Path, "/api/products/")
	if !ok {
		respondError(w, "Invalid product id", http.StatusBadRequest)
		return
	}

	var in catalog.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	actor := middleware.ActorFromContext(r.Context())
	if err := h.products.UpdateProduct(r.Context(), actor, id, in); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Product updated"})
}

// DeleteProduct removes a never-ordered product.
func (h *Handlers) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r.URL.Path, "/api/products/")
	if !ok {
		respondError(w, "Invalid product id", http.StatusBadRequest)
		return
	}

	actor := middleware.ActorFromContext(r.Context())
	if err := h.products.DeleteProduct(r.Context(), actor, id); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Product deleted"})
}

// AdjustStock applies a signed stock delta to a vendor's product.
func (h *Handlers) AdjustStock(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(strings.TrimSuffix(r.URL.Path, "/stock"), "/api/products/")
	if !ok {
		respondError(w, "Invalid product id", http.StatusBadRequest)
		return
	}

	var req struct {
		Delta int `json:"delta"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	actor := middleware.ActorFromContext(r.Context())
	if err := h.products.AdjustStock(r.Context(), actor, id, req.Delta); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Stock updated"})
}

// SetProductStatus is the admin approval endpoint.
func (h *Handlers) SetProductStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(strings.TrimSuffix(r.URL.Path, "/status"), "/api/products/")
	if !ok {
		respondError(w, "Invalid product id", http.StatusBadRequest)
		return
	}

	var req struct {
		Status          string `json:"status"`
		RejectionReason string `json:"rejectionReason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	actor := middleware.ActorFromContext(r.Context())
	if err := h.products.SetProductStatus(r.Context(), actor, id, req.Status, req.RejectionReason); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Product status updated"})
}

// GetVendorProducts lists the caller's products in any status.
func (h *Handlers) GetVendorProducts(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())

	products, pagination, err := h.products.VendorProducts(r.Context(), actor,
		queryInt64(r, "vendorId"), r.URL.Query().Get("status"), pageFrom(r))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"products":   products,
		"pagination": pagination,
	})
}
