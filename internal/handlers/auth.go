package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"resume-chat-backend/internal/middleware"
	"resume-chat-backend/internal/models"
	"resume-chat-backend/internal/services"
)

type KeyHandler struct {
	gateway chatGateway
}

func NewKeyHandler(gateway chatGateway) *KeyHandler {
	return &KeyHandler{gateway: gateway}
}

// ValidateKey probes Gemini with the caller's key. It keeps no state, so
// repeated calls with the same key give the same answer.
func (h *KeyHandler) ValidateKey(w http.ResponseWriter, r *http.Request) {
	apiKey := middleware.GetAPIKey(r.Context())

	if err := h.gateway.ValidateKey(r.Context(), apiKey); err != nil {
		logFailure("validate-key", r, err)

		// Only unreachable or slow providers leave the 401 bucket.
		var pe *services.ProviderError
		if errors.As(err, &pe) {
			switch pe.Kind {
			case services.KindUnavailable:
				writeJSON(w, http.StatusBadGateway, errorResp(http.StatusBadGateway, "Provider unavailable", err.Error(), r))
				return
			case services.KindTimeout:
				writeJSON(w, http.StatusGatewayTimeout, errorResp(http.StatusGatewayTimeout, "Provider timeout", err.Error(), r))
				return
			}
		}
		writeJSON(w, http.StatusUnauthorized, errorResp(http.StatusUnauthorized, "Invalid API key", err.Error(), r))
		return
	}

	writeJSON(w, http.StatusOK, models.ValidateResponse{Status: "valid"})
}

// Shared helpers

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func errorResp(status int, errText, message string, r *http.Request) models.ErrorResponse {
	return models.ErrorResponse{
		Error:     errText,
		Message:   message,
		Status:    status,
		RequestID: r.Header.Get(middleware.RequestIDHeader),
	}
}

func handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		verr *services.ValidationError
		pe   *services.ProviderError
	)

	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorResp(http.StatusBadRequest, "Invalid request", verr.Error(), r))
	case errors.As(err, &pe):
		status, errText := providerStatus(pe.Kind)
		writeJSON(w, status, errorResp(status, errText, pe.Error(), r))
	default:
		writeJSON(w, http.StatusInternalServerError, errorResp(http.StatusInternalServerError, "Internal server error", err.Error(), r))
	}
}

func providerStatus(kind services.ProviderErrorKind) (int, string) {
	switch kind {
	case services.KindCredential:
		return http.StatusUnauthorized, "Invalid API key"
	case services.KindQuota:
		return http.StatusTooManyRequests, "Rate limit reached"
	case services.KindBlocked:
		return http.StatusUnprocessableEntity, "Response blocked"
	case services.KindUnavailable:
		return http.StatusBadGateway, "Provider unavailable"
	case services.KindTimeout:
		return http.StatusGatewayTimeout, "Provider timeout"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

// logFailure never logs the key itself, only its fingerprint.
func logFailure(op string, r *http.Request, err error) {
	kind := "input"
	var pe *services.ProviderError
	if errors.As(err, &pe) {
		kind = pe.Kind.String()
	}
	log.Printf("%s failed: kind=%s key=%s request_id=%s: %v",
		op, kind,
		middleware.KeyFingerprint(middleware.GetAPIKey(r.Context())),
		r.Header.Get(middleware.RequestIDHeader),
		err)
}
