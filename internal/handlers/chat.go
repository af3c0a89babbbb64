package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"resume-chat-backend/internal/middleware"
	"resume-chat-backend/internal/models"
)

type chatGateway interface {
	ValidateKey(ctx context.Context, apiKey string) error
	Generate(ctx context.Context, apiKey string, history []models.ChatMessage, message string) (string, error)
}

type ChatHandler struct {
	gateway      chatGateway
	maxBodyBytes int64
}

func NewChatHandler(gateway chatGateway, maxBodyBytes int64) *ChatHandler {
	return &ChatHandler{
		gateway:      gateway,
		maxBodyBytes: maxBodyBytes,
	}
}

// Generate serves both the header-key and the server-key routes; the
// credential is already on the request context.
func (h *ChatHandler) Generate(w http.ResponseWriter, r *http.Request) {
	if h.maxBodyBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	}

	var req models.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResp(http.StatusRequestEntityTooLarge, "Invalid request", "Request body too large", r))
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResp(http.StatusBadRequest, "Invalid request", "Invalid request body", r))
		return
	}

	reply, err := h.gateway.Generate(r.Context(), middleware.GetAPIKey(r.Context()), req.History, req.Message)
	if err != nil {
		logFailure("generate", r, err)
		handleServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, reply)
}
