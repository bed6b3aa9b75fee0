package adgen

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/kayz/adcraft/internal/ai"
)

// ErrNoStructuredData is wrapped when neither extraction, analysis nor the
// fallback prompt produced parseable StructuredData.
var ErrNoStructuredData = errors.New("structured data could not be derived by any method")

// Stage names the pipeline step that failed.
type Stage string

const (
	StageAnalysis Stage = "analysis"
	StageFallback Stage = "fallback"
	StageCopy     Stage = "copy"
	StageImage    Stage = "image"
)

// GenerationError is the terminal failure of Generate. Err always holds the
// underlying cause.
type GenerationError struct {
	Stage   Stage
	Message string
	Err     error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Stage, e.Message, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// StatusCode maps the cause to the HTTP status returned to clients.
func (e *GenerationError) StatusCode() int {
	var provErr *ai.ProviderError
	if errors.As(e.Err, &provErr) {
		if provErr.StatusCode == http.StatusTooManyRequests {
			return http.StatusTooManyRequests
		}
		if provErr.Timeout() {
			return http.StatusGatewayTimeout
		}
	}
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

// PublicMessage is the summary safe to show to clients.
func (e *GenerationError) PublicMessage() string {
	switch e.StatusCode() {
	case http.StatusTooManyRequests:
		return "The AI provider is rate limiting requests. Please try again later."
	case http.StatusGatewayTimeout:
		return "The AI provider took too long to respond."
	}
	return e.Message
}

func newGenerationError(stage Stage, message string, err error) *GenerationError {
	return &GenerationError{Stage: stage, Message: message, Err: err}
}
