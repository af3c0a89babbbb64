package services

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sort"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/googleapis/gax-go/v2/apierror"
	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
)

// ValidationError reports malformed caller input, keyed by field path.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "Validation error"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return strings.Join(parts, "; ")
}

func newValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

type ProviderErrorKind int

const (
	// KindUpstream is any provider failure not recognised below.
	KindUpstream ProviderErrorKind = iota
	KindCredential
	KindQuota
	KindBlocked
	KindUnavailable
	KindTimeout
)

func (k ProviderErrorKind) String() string {
	switch k {
	case KindCredential:
		return "credential"
	case KindQuota:
		return "quota"
	case KindBlocked:
		return "blocked"
	case KindUnavailable:
		return "unavailable"
	case KindTimeout:
		return "timeout"
	default:
		return "upstream"
	}
}

// ProviderError wraps a failure from the Gemini API. Error returns the
// underlying message verbatim.
type ProviderError struct {
	Kind ProviderErrorKind
	Err  error
}

func (e *ProviderError) Error() string { return e.Err.Error() }

func (e *ProviderError) Unwrap() error { return e.Err }

// classifyProviderError sorts a provider failure into a ProviderError.
func classifyProviderError(err error) error {
	if err == nil {
		return nil
	}

	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe
	}

	var (
		blocked *genai.BlockedError
		apiErr  *apierror.APIError
		gErr    *googleapi.Error
		netErr  net.Error
	)

	kind := KindUpstream
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		kind = KindTimeout
	case errors.As(err, &blocked):
		kind = KindBlocked
	case errors.As(err, &apiErr):
		kind = kindFromAPIError(apiErr)
	case errors.As(err, &gErr):
		kind = kindFromHTTPStatus(gErr.Code, gErr.Error())
	case errors.As(err, &netErr):
		if netErr.Timeout() {
			kind = KindTimeout
		} else {
			kind = KindUnavailable
		}
	}

	return &ProviderError{Kind: kind, Err: err}
}

func kindFromAPIError(apiErr *apierror.APIError) ProviderErrorKind {
	detail := apiErr.Reason() + " " + apiErr.Error()

	if code := apiErr.HTTPCode(); code > 0 {
		return kindFromHTTPStatus(code, detail)
	}

	st := apiErr.GRPCStatus()
	if st == nil {
		return KindUpstream
	}
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return KindCredential
	case codes.ResourceExhausted:
		return KindQuota
	case codes.DeadlineExceeded:
		return KindTimeout
	case codes.Unavailable:
		return KindUnavailable
	case codes.InvalidArgument:
		if isInvalidKeyDetail(detail) {
			return KindCredential
		}
	}
	return KindUpstream
}

func kindFromHTTPStatus(code int, detail string) ProviderErrorKind {
	switch code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return KindCredential
	case http.StatusBadRequest:
		// Gemini answers a bad key with 400 INVALID_ARGUMENT.
		if isInvalidKeyDetail(detail) {
			return KindCredential
		}
	case http.StatusTooManyRequests:
		return KindQuota
	case http.StatusBadGateway, http.StatusServiceUnavailable:
		return KindUnavailable
	case http.StatusGatewayTimeout:
		return KindTimeout
	}
	return KindUpstream
}

func isInvalidKeyDetail(detail string) bool {
	return strings.Contains(detail, "API_KEY_INVALID") ||
		strings.Contains(detail, "API key not valid") ||
		strings.Contains(detail, "API key expired")
}

func errNoAPIKey() error {
	return &ProviderError{Kind: KindCredential, Err: fmt.Errorf("no API key provided")}
}
