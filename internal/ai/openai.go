package ai

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/kayz/adcraft/internal/ad"
	"github.com/kayz/adcraft/internal/config"
	"github.com/kayz/adcraft/internal/logger"
	"github.com/kayz/adcraft/internal/promptbuild"
)

const chatTemperature = 0.7

// OpenAIGateway implements Gateway for OpenAI and any OpenAI-compatible
// endpoint reachable through BaseURL.
type OpenAIGateway struct {
	client          *openai.Client
	chatModel       string
	extractionModel string
	imageModel      string
	imageSize       string
	imageQuality    string
	log             logger.Logger
}

// NewOpenAIGateway creates an OpenAI gateway. A nil httpClient uses the
// SDK default.
func NewOpenAIGateway(cfg config.OpenAIConfig, httpClient *http.Client, log logger.Logger) (*OpenAIGateway, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, &ConfigurationError{Setting: "OPENAI_API_KEY", Reason: "is required"}
	}
	if log == nil {
		log = logger.Nop()
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	if httpClient != nil {
		clientCfg.HTTPClient = httpClient
	}

	return &OpenAIGateway{
		client:          openai.NewClientWithConfig(clientCfg),
		chatModel:       withDefault(cfg.ChatModel, openai.GPT4),
		extractionModel: withDefault(cfg.ExtractionModel, openai.GPT40613),
		imageModel:      withDefault(cfg.ImageModel, openai.CreateImageModelDallE3),
		imageSize:       withDefault(cfg.ImageSize, openai.CreateImageSize1024x1024),
		imageQuality:    withDefault(cfg.ImageQuality, openai.CreateImageQualityStandard),
		log:             log,
	}, nil
}

// Name returns the provider name.
func (g *OpenAIGateway) Name() string {
	return "openai"
}

func (g *OpenAIGateway) ChatComplete(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.chatModel,
		Temperature: chatTemperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", newProviderError(g.Name(), "chat completion", err)
	}
	if len(resp.Choices) == 0 {
		return "", &ProviderError{Provider: g.Name(), Op: "chat completion", Err: errNoChoices}
	}

	g.log.Debug("[OpenAI] Chat completion with %s took %dms (%d tokens)", g.chatModel, elapsedMS(start), resp.Usage.TotalTokens)
	return resp.Choices[0].Message.Content, nil
}

func (g *OpenAIGateway) ExtractStructured(ctx context.Context, userText string) (ad.StructuredData, error) {
	start := time.Now()
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.extractionModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: promptbuild.BuildExtractionPrompt(userText)},
		},
		Tools: []openai.Tool{{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        ExtractionToolName,
				Description: extractionToolDescription,
				Parameters:  ad.Schema(),
			},
		}},
		ToolChoice: openai.ToolChoice{
			Type:     openai.ToolTypeFunction,
			Function: openai.ToolFunction{Name: ExtractionToolName},
		},
	})
	if err != nil {
		return ad.StructuredData{}, newProviderError(g.Name(), "structured extraction", err)
	}
	if len(resp.Choices) == 0 {
		return ad.StructuredData{}, &ProviderError{Provider: g.Name(), Op: "structured extraction", Err: errNoChoices}
	}

	args, ok := extractionArguments(resp.Choices[0].Message)
	if !ok {
		return ad.StructuredData{}, &ExtractionError{Reason: "no function call", Err: errNoToolCall}
	}
	data, err := ad.Parse(args)
	if err != nil {
		return ad.StructuredData{}, &ExtractionError{Reason: "invalid function arguments", Err: err}
	}

	g.log.Debug("[OpenAI] Structured extraction with %s took %dms", g.extractionModel, elapsedMS(start))
	return data, nil
}

// extractionArguments returns the raw arguments of the extraction call,
// accepting the legacy function_call field from older compatible servers.
func extractionArguments(msg openai.ChatCompletionMessage) (string, bool) {
	for _, call := range msg.ToolCalls {
		if call.Function.Name == ExtractionToolName {
			return call.Function.Arguments, true
		}
	}
	if msg.FunctionCall != nil && msg.FunctionCall.Name == ExtractionToolName {
		return msg.FunctionCall.Arguments, true
	}
	return "", false
}

func (g *OpenAIGateway) GenerateImage(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	resp, err := g.client.CreateImage(ctx, openai.ImageRequest{
		Prompt:         prompt,
		Model:          g.imageModel,
		N:              1,
		Size:           g.imageSize,
		Quality:        g.imageQuality,
		ResponseFormat: openai.CreateImageResponseFormatURL,
	})
	if err != nil {
		return "", newProviderError(g.Name(), "image generation", err)
	}

	for _, img := range resp.Data {
		if img.URL != "" {
			g.log.Debug("[OpenAI] Image generation with %s took %dms", g.imageModel, elapsedMS(start))
			return img.URL, nil
		}
		if img.B64JSON != "" {
			return "data:image/png;base64," + img.B64JSON, nil
		}
	}
	return "", &ProviderError{Provider: g.Name(), Op: "image generation", Err: errNoImage}
}

func withDefault(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
