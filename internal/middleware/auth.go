package middleware

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"

	"golang.org/x/crypto/blake2b"

	"resume-chat-backend/internal/models"
)

type contextKey string

const APIKeyKey contextKey = "api_key"

// APIKeyHeader carries the caller's Gemini credential.
const APIKeyHeader = "X-API-Key"

// APIKey reads the caller's credential from the X-API-Key header and
// attaches it to the context. The key format is not checked here.
func APIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiKey := strings.TrimSpace(r.Header.Get(APIKeyHeader))
		if apiKey == "" {
			writeError(w, http.StatusUnauthorized, "No API key provided", "Missing "+APIKeyHeader+" header", r)
			return
		}

		ctx := context.WithValue(r.Context(), APIKeyKey, apiKey)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ServerKey attaches the process credential loaded at startup.
func ServerKey(apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), APIKeyKey, apiKey)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetAPIKey extracts the credential from request context
func GetAPIKey(ctx context.Context) string {
	key, _ := ctx.Value(APIKeyKey).(string)
	return key
}

// KeyFingerprint returns a short stable digest of a key, safe to log.
func KeyFingerprint(apiKey string) string {
	if apiKey == "" {
		return "none"
	}
	sum := blake2b.Sum256([]byte(apiKey))
	return hex.EncodeToString(sum[:4])
}

func writeError(w http.ResponseWriter, status int, errText, message string, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(models.ErrorResponse{
		Error:     errText,
		Message:   message,
		Status:    status,
		RequestID: r.Header.Get(RequestIDHeader),
	})
}
