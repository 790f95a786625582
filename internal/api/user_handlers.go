package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/example/multimart/internal/api/middleware"
	"github.com/example/multimart/internal/user"
)

// User Handlers

// GetUsers lists accounts with search and role/status filters. Admin only.
func (h *Handlers) GetUsers(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())
	q := r.URL.Query()

	users, pagination, err := h.users.List(r.Context(), actor, user.ListFilter{
		Search: q.Get("search"),
		Role:   q.Get("role"),
		Status: q.Get("status"),
		Page:   pageFrom(r),
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"users":      users,
		"pagination": pagination,
	})
}

// GetUser returns a public account profile by id.
func (h *Handlers) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r.URL.Path, "/api/users/")
	if !ok {
		respondError(w, "Invalid user id", http.StatusBadRequest)
		return
	}

	u, err := h.users.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, u)
}

// UpdateProfile updates the caller's own name, phone and address.
func (h *Handlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())

	var in user.ProfileInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.users.UpdateProfile(r.Context(), actor.UserID, in); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Profile updated successfully"})
}

// SetUserRole changes an account's role. Admin only.
func (h *Handlers) SetUserRole(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(strings.TrimSuffix(r.URL.Path, "/role"), "/api/users/")
	if !ok {
		respondError(w, "Invalid user id", http.StatusBadRequest)
		return
	}

	var req struct {
		Role string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	actor := middleware.ActorFromContext(r.Context())
	if err := h.users.SetRole(r.Context(), actor, id, req.Role); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "User role updated successfully"})
}

// SetUserStatus activates or suspends an account. Admin only.
func (h *Handlers) SetUserStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(strings.TrimSuffix(r.URL.Path, "/status"), "/api/users/")
	if !ok {
		respondError(w, "Invalid user id", http.StatusBadRequest)
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
	if err := h.users.SetStatus(r.Context(), actor, id, req.Status); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "User status updated successfully"})
}

// DeleteUser removes an account. Admin only.
func (h *Handlers) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r.URL.Path, "/api/users/")
	if !ok {
		respondError(w, "Invalid user id", http.StatusBadRequest)
		return
	}

	actor := middleware.ActorFromContext(r.Context())
	if err := h.users.Delete(r.Context(), actor, id); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "User deleted successfully"})
}
