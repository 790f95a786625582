package api

import (
	"encoding/json"
	"net/http"

	"github.com/example/multimart/internal/chatbot"
)

// Chatbot Handlers

// Chat forwards a shopper's message to the assistant.
func (h *Handlers) Chat(w http.ResponseWriter, r *http.Request) {
	if h.assistant == nil {
		respondError(w, "Assistant is not available", http.StatusServiceUnavailable)
		return
	}

	var req struct {
		Message string                `json:"message"`
		Context chatbot.PromptContext `json:"context"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	reply, err := h.assistant.Reply(r.Context(), req.Message, req.Context)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"reply": reply})
}
