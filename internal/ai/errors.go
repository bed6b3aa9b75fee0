package ai

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/liushuangls/go-anthropic/v2"
	"github.com/sashabaranov/go-openai"
)

var (
	errNoChoices  = errors.New("response contained no choices")
	errNoContent  = errors.New("response contained no content")
	errNoImage    = errors.New("response contained no image")
	errNoToolCall = errors.New("model did not call the extraction function")
)

// ConfigurationError reports a missing or invalid setting detected while
// building a gateway.
type ConfigurationError struct {
	Setting string
	Reason  string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration: %s %s", e.Setting, e.Reason)
}

// ProviderError is a failed call to a model provider.
type ProviderError struct {
	Provider string
	Op       string
	// StatusCode is the HTTP status returned by the provider, or 0 when the
	// request never produced a response.
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s %s: status %d: %v", e.Provider, e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Provider, e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the call was cut short by a deadline, either the
// caller's context or the HTTP client timeout.
func (e *ProviderError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(e.Err, &netErr) && netErr.Timeout()
}

// ExtractionError reports a structured extraction call that completed but
// did not yield usable StructuredData.
type ExtractionError struct {
	Reason string
	Err    error
}

func (e *ExtractionError) Error() string {
	if e.Err == nil {
		return "structured extraction: " + e.Reason
	}
	return fmt.Sprintf("structured extraction: %s: %v", e.Reason, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

func newProviderError(provider, op string, err error) *ProviderError {
	return &ProviderError{
		Provider:   provider,
		Op:         op,
		StatusCode: statusCodeOf(err),
		Err:        err,
	}
}

// statusCodeOf lifts the HTTP status out of the SDK error types.
func statusCodeOf(err error) int {
	var oaiAPI *openai.APIError
	if errors.As(err, &oaiAPI) {
		return oaiAPI.HTTPStatusCode
	}
	var oaiReq *openai.RequestError
	if errors.As(err, &oaiReq) {
		return oaiReq.HTTPStatusCode
	}
	var antReq *anthropic.RequestError
	if errors.As(err, &antReq) {
		return antReq.StatusCode
	}
	var antAPI *anthropic.APIError
	if errors.As(err, &antAPI) {
		return anthropicErrorStatus(string(antAPI.Type))
	}
	return 0
}

// anthropicErrorStatus maps documented Anthropic error types back to the
// status the API sends with them, since the SDK drops the status code once
// the error body decodes.
func anthropicErrorStatus(errType string) int {
	switch errType {
	case "invalid_request_error":
		return 400
	case "authentication_error":
		return 401
	case "permission_error":
		return 403
	case "not_found_error":
		return 404
	case "request_too_large":
		return 413
	case "rate_limit_error":
		return 429
	case "overloaded_error":
		return 529
	default:
		return 500
	}
}
