// Package ai talks to the hosted language and image models.
package ai

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/kayz/adcraft/internal/ad"
	"github.com/kayz/adcraft/internal/config"
	"github.com/kayz/adcraft/internal/logger"
)

// ExtractionToolName is the function the model is forced to call during
// structured extraction.
const ExtractionToolName = "extract_ad_prompt_data"

const extractionToolDescription = "Extract structured data for creating a Facebook ad from a natural language request."

// Gateway is the model capability used by the ad pipeline. Every method is
// a single attempt; implementations never retry.
type Gateway interface {
	// ChatComplete sends prompt as a single user message and returns the
	// first choice's content.
	ChatComplete(ctx context.Context, prompt string) (string, error)
	// ExtractStructured asks the model to call the extraction function for
	// userText and returns the decoded arguments.
	ExtractStructured(ctx context.Context, userText string) (ad.StructuredData, error)
	// GenerateImage returns a locator for one generated image.
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

// ImageGenerator is the image half of Gateway.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

// New builds the gateway selected by cfg.Provider. OpenAI credentials are
// always required because images are generated there.
func New(cfg config.AIConfig, log logger.Logger) (Gateway, error) {
	if log == nil {
		log = logger.Nop()
	}
	httpClient := &http.Client{Timeout: cfg.Timeout}

	images, err := NewOpenAIGateway(cfg.OpenAI, httpClient, log)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "openai", "":
		return images, nil
	case "anthropic", "claude":
		return NewAnthropicGateway(cfg.Anthropic, images, httpClient, log)
	default:
		return nil, &ConfigurationError{Setting: "AI_PROVIDER", Reason: "must be openai or anthropic, got " + cfg.Provider}
	}
}

func elapsedMS(start time.Time) int64 {
	return time.Since(start).Milliseconds()
}
