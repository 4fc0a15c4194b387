package gateway

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Failure taxonomy for generation calls. Callers branch on these with
// errors.Is; the concrete cause stays wrapped underneath.
var (
	// ErrMissingCredential: no key configured for the active provider and
	// no fallback available. Raised before any network call.
	ErrMissingCredential = errors.New("missing provider credential")

	// ErrRateLimited: the provider signaled throttling or quota
	// exhaustion. Presented to the user as retry-later, never fatal.
	ErrRateLimited = errors.New("provider rate limited")

	// ErrMalformedResponse: a structured kind returned output that does
	// not parse into its fixed shape. No partial data is returned.
	ErrMalformedResponse = errors.New("malformed provider response")

	// ErrProviderUnavailable: network failure or provider-side error.
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrEmptyResult: a structured call succeeded but returned a
	// semantically unusable collection.
	ErrEmptyResult = errors.New("provider returned an empty result")

	// ErrUnsupportedKind: the selected provider has no implementation for
	// the requested content kind.
	ErrUnsupportedKind = errors.New("kind not supported by provider")
)

// classifyHTTP maps a provider HTTP status to the failure taxonomy.
func classifyHTTP(status int, body string) error {
	switch {
	case status == http.StatusTooManyRequests:
		return fmt.Errorf("%w: status %d: %s", ErrRateLimited, status, body)
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("%w: status %d: %s", ErrMissingCredential, status, body)
	default:
		return fmt.Errorf("%w: status %d: %s", ErrProviderUnavailable, status, body)
	}
}

// classifyErr maps an SDK or transport error to the failure taxonomy.
// The Gemini SDK surfaces quota errors as plain error strings, so the
// match is textual, same as the 429 detection the image workers use.
func classifyErr(err error) error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "429") ||
		strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "resource_exhausted") ||
		strings.Contains(msg, "quota") {
		return fmt.Errorf("%w: %s", ErrRateLimited, err)
	}
	if strings.Contains(msg, "api key") || strings.Contains(msg, "unauthorized") {
		return fmt.Errorf("%w: %s", ErrMissingCredential, err)
	}
	return fmt.Errorf("%w: %s", ErrProviderUnavailable, err)
}
