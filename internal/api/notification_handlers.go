package api

import (
	"net/http"
	"strings"

	"github.com/example/multimart/internal/api/middleware"
)

// Notification Handlers

// GetNotifications lists the caller's notification feed.
func (h *Handlers) GetNotifications(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())

	items, pagination, err := h.notifications.List(r.Context(), actor.UserID, pageFrom(r))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"notifications": items,
		"pagination":    pagination,
	})
}

// GetUnreadCount returns the caller's unread notification count.
func (h *Handlers) GetUnreadCount(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())

	count, err := h.notifications.UnreadCount(r.Context(), actor.UserID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]int{"unread": count})
}

// MarkNotificationRead marks one notification as read.
func (h *Handlers) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(strings.TrimSuffix(r.URL.Path, "/read"), "/api/notifications/")
	if !ok {
		respondError(w, "Invalid notification id", http.StatusBadRequest)
		return
	}

	actor := middleware.ActorFromContext(r.Context())
	if err := h.notifications.MarkRead(r.Context(), actor.UserID, id); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Notification marked as read"})
}

// MarkAllNotificationsRead marks the caller's whole feed as read.
func (h *Handlers) MarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())

	if err := h.notifications.MarkAllRead(r.Context(), actor.UserID); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "All notifications marked as read"})
}

// DeleteNotification removes one notification from the caller's feed.
func (h *Handlers) DeleteNotification(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r.URL.Path, "/api/notifications/")
	if !ok {
		respondError(w, "Invalid notification id", http.StatusBadRequest)
		return
	}

	actor := middleware.ActorFromContext(r.Context())
	if err := h.notifications.Delete(r.Context(), actor.UserID, id); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Notification deleted"})
}

// ClearNotifications empties the caller's feed.
func (h *Handlers) ClearNotifications(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())

	if err := h.notifications.Clear(r.Context(), actor.UserID); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Notifications cleared"})
}
