package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/example/multimart/internal/domain"
	"github.com/example/multimart/internal/order"
)

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, message string, status int) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError translates a service error into an HTTP response. Stock
// validation failures carry the offending cart lines so the storefront can
// show them; everything without a known kind is a 500 with a generic message.
func respondServiceError(w http.ResponseWriter, err error) {
	var stockErr *order.StockValidationError
	if errors.As(err, &stockErr) {
		respondJSON(w, http.StatusBadRequest, map[string]any{
			"error":        stockErr.Error(),
			"invalidItems": stockErr.Items,
		})
		return
	}

	switch domain.KindOf(err) {
	case domain.KindValidation:
		respondError(w, err.Error(), http.StatusBadRequest)
	case domain.KindForbidden:
		respondError(w, err.Error(), http.StatusForbidden)
	case domain.KindNotFound:
		respondError(w, err.Error(), http.StatusNotFound)
	case domain.KindConflict:
		respondError(w, err.Error(), http.StatusBadRequest)
	default:
		respondError(w, "Internal server error", http.StatusInternalServerError)
	}
}

func extractPathParam(path, prefix string) string {
	return strings.TrimPrefix(path, prefix)
}

func pathID(path, prefix string) (int64, bool) {
	raw := extractPathParam(path, prefix)
	raw = strings.TrimSuffix(raw, "/")
	id, err := strconv.ParseInt(raw, 10, 64)
	return id, err == nil && id > 0
}

func queryInt(r *http.Request, name string) int {
	n, _ := strconv.Atoi(r.URL.Query().Get(name))
	return n
}

func queryInt64(r *http.Request, name string) int64 {
	n, _ := strconv.ParseInt(r.URL.Query().Get(name), 10, 64)
	return n
}

func pageFrom(r *http.Request) domain.Page {
	return domain.NewPage(queryInt(r, "page"), queryInt(r, "limit"))
}
