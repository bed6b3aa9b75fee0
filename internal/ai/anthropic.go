package ai

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/liushuangls/go-anthropic/v2"

	"github.com/kayz/adcraft/internal/ad"
	"github.com/kayz/adcraft/internal/config"
	"github.com/kayz/adcraft/internal/logger"
	"github.com/kayz/adcraft/internal/promptbuild"
)

const (
	defaultAnthropicModel = "claude-3-5-sonnet-20241022"
	anthropicMaxTokens    = 1024
)

// AnthropicGateway implements Gateway with Claude for text and delegates
// image generation, which Anthropic does not offer.
type AnthropicGateway struct {
	client *anthropic.Client
	model  string
	images ImageGenerator
	log    logger.Logger
}

// NewAnthropicGateway creates an Anthropic gateway that sends image
// requests to images.
func NewAnthropicGateway(cfg config.AnthropicConfig, images ImageGenerator, httpClient *http.Client, log logger.Logger) (*AnthropicGateway, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, &ConfigurationError{Setting: "ANTHROPIC_API_KEY", Reason: "is required when AI_PROVIDER=anthropic"}
	}
	if images == nil {
		return nil, &ConfigurationError{Setting: "OPENAI_API_KEY", Reason: "is required for image generation"}
	}
	if log == nil {
		log = logger.Nop()
	}

	var opts []anthropic.ClientOption
	if cfg.BaseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(strings.TrimRight(cfg.BaseURL, "/")))
	}
	if httpClient != nil {
		opts = append(opts, anthropic.WithHTTPClient(httpClient))
	}

	return &AnthropicGateway{
		client: anthropic.NewClient(cfg.APIKey, opts...),
		model:  withDefault(cfg.Model, defaultAnthropicModel),
		images: images,
		log:    log,
	}, nil
}

// Name returns the provider name.
func (g *AnthropicGateway) Name() string {
	return "anthropic"
}

func (g *AnthropicGateway) ChatComplete(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	resp, err := g.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:     anthropic.Model(g.model),
		MaxTokens: anthropicMaxTokens,
		Messages:  []anthropic.Message{anthropic.NewUserTextMessage(prompt)},
	})
	if err != nil {
		return "", newProviderError(g.Name(), "chat completion", err)
	}
	if len(resp.Content) == 0 {
		return "", &ProviderError{Provider: g.Name(), Op: "chat completion", Err: errNoContent}
	}

	g.log.Debug("[Anthropic] Chat completion with %s took %dms", g.model, elapsedMS(start))
	return resp.GetFirstContentText(), nil
}

func (g *AnthropicGateway) ExtractStructured(ctx context.Context, userText string) (ad.StructuredData, error) {
	start := time.Now()
	resp, err := g.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:     anthropic.Model(g.model),
		MaxTokens: anthropicMaxTokens,
		Messages:  []anthropic.Message{anthropic.NewUserTextMessage(promptbuild.BuildExtractionPrompt(userText))},
		Tools: []anthropic.ToolDefinition{{
			Name:        ExtractionToolName,
			Description: extractionToolDescription,
			InputSchema: ad.Schema(),
		}},
		ToolChoice: &anthropic.ToolChoice{Type: "tool", Name: ExtractionToolName},
	})
	if err != nil {
		return ad.StructuredData{}, newProviderError(g.Name(), "structured extraction", err)
	}

	for _, c := range resp.Content {
		if c.Type != anthropic.MessagesContentTypeToolUse || c.MessageContentToolUse == nil {
			continue
		}
		if c.MessageContentToolUse.Name != ExtractionToolName {
			continue
		}
		data, err := ad.Parse(string(c.MessageContentToolUse.Input))
		if err != nil {
			return ad.StructuredData{}, &ExtractionError{Reason: "invalid tool input", Err: err}
		}
		g.log.Debug("[Anthropic] Structured extraction with %s took %dms", g.model, elapsedMS(start))
		return data, nil
	}
	return ad.StructuredData{}, &ExtractionError{Reason: "no tool use", Err: errNoToolCall}
}

func (g *AnthropicGateway) GenerateImage(ctx context.Context, prompt string) (string, error) {
	return g.images.GenerateImage(ctx, prompt)
}
