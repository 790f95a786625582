package api

import (
	"encoding/json"
	"net/http"

	"github.com/example/multimart/internal/api/middleware"
	"github.com/example/multimart/internal/catalog"
)

// Category Handlers

// GetCategories lists categories. Admins also see inactive ones.
func (h *Handlers) GetCategories(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())

	categories, err := h.categories.ListCategories(r.Context(), actor.IsAdmin())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, categories)
}

// GetCategory returns one category by slug.
func (h *Handlers) GetCategory(w http.ResponseWriter, r *http.Request) {
	slugName := extractPathParam(r.URL.Path, "/api/categories/")

	c, err := h.categories.GetCategory(r.Context(), slugName)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

// CreateCategory adds a category. Admin only.
func (h *Handlers) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var in catalog.CategoryInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	actor := middleware.ActorFromContext(r.Context())
	id, err := h.categories.CreateCategory(r.Context(), actor, in)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"id":      id,
		"message": "Category created",
	})
}

// UpdateCategory modifies a category. Admin only.
func (h *Handlers) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r.URL.Path, "/api/categories/")
	if !ok {
		respondError(w, "Invalid category id", http.StatusBadRequest)
		return
	}

	var in catalog.CategoryInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	actor := middleware.ActorFromContext(r.Context())
	if err := h.categories.UpdateCategory(r.Context(), actor, id, in); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Category updated"})
}

// DeleteCategory removes an empty category. Admin only.
func (h *Handlers) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r.URL.Path, "/api/categories/")
	if !ok {
		respondError(w, "Invalid category id", http.StatusBadRequest)
		return
	}

	actor := middleware.ActorFromContext(r.Context())
	if err := h.categories.DeleteCategory(r.Context(), actor, id); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Category deleted"})
}
