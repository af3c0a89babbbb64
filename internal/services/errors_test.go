package services

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/googleapis/gax-go/v2/apierror"
	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func mustAPIError(t *testing.T, err error) *apierror.APIError {
	t.Helper()
	apiErr, ok := apierror.FromError(err)
	if !ok {
		t.Fatalf("could not build APIError from %v", err)
	}
	return apiErr
}

func TestClassifyProviderError(t *testing.T) {
	badKey := &googleapi.Error{Code: 400, Message: "API key not valid. Please pass a valid API key."}

	tests := []struct {
		name string
		err  error
		want ProviderErrorKind
	}{
		{"http invalid key", mustAPIError(t, badKey), KindCredential},
		{"plain googleapi invalid key", badKey, KindCredential},
		{"http forbidden", &googleapi.Error{Code: 403, Message: "permission denied"}, KindCredential},
		{"http bad request", &googleapi.Error{Code: 400, Message: "contents must not be empty"}, KindUpstream},
		{"http quota", mustAPIError(t, &googleapi.Error{Code: 429, Message: "quota exceeded"}), KindQuota},
		{"http unavailable", &googleapi.Error{Code: 503, Message: "model overloaded"}, KindUnavailable},
		{"http server error", &googleapi.Error{Code: 500, Message: "internal"}, KindUpstream},
		{"grpc unauthenticated", mustAPIError(t, status.Error(codes.Unauthenticated, "bad key")), KindCredential},
		{"grpc exhausted", mustAPIError(t, status.Error(codes.ResourceExhausted, "slow down")), KindQuota},
		{"deadline", fmt.Errorf("send: %w", context.DeadlineExceeded), KindTimeout},
		{"blocked", &genai.BlockedError{}, KindBlocked},
		{"dns failure", &url.Error{Op: "Post", URL: "https://example.invalid", Err: &net.DNSError{Err: "no such host", Name: "example.invalid"}}, KindUnavailable},
		{"unknown", errors.New("boom"), KindUpstream},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := classifyProviderError(tc.err)

			var pe *ProviderError
			if !errors.As(err, &pe) {
				t.Fatalf("expected ProviderError, got %T", err)
			}
			if pe.Kind != tc.want {
				t.Errorf("expected kind %s, got %s", tc.want, pe.Kind)
			}
			if pe.Error() != tc.err.Error() {
				t.Errorf("expected message %q to be kept verbatim, got %q", tc.err.Error(), pe.Error())
			}
		})
	}
}

func TestClassifyProviderError_Nil(t *testing.T) {
	if err := classifyProviderError(nil); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}

func TestClassifyProviderError_KeepsExistingKind(t *testing.T) {
	orig := &ProviderError{Kind: KindQuota, Err: errors.New("slow down")}
	if got := classifyProviderError(fmt.Errorf("wrapped: %w", orig)); got != orig {
		t.Errorf("expected the original ProviderError back, got %v", got)
	}
}

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{
		"message":          "is required",
		"history[0].parts": "must contain at least one part",
	}}

	want := "history[0].parts: must contain at least one part; message: is required"
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}

	if (&ValidationError{}).Error() != "Validation error" {
		t.Error("expected generic message for empty field set")
	}
}
