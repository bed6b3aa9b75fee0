package ai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/kayz/adcraft/internal/ad"
	"github.com/kayz/adcraft/internal/config"
)

const financeArguments = `{"productName":"Personal Finance App","targetAudience":"Adults who want to save money","keyBenefits":["Organize spending","Set goals"],"tone":"Trustworthy","callToAction":"Download now"}`

func newOpenAITestGateway(t *testing.T, handler http.HandlerFunc) *OpenAIGateway {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	g, err := NewOpenAIGateway(config.OpenAIConfig{
		APIKey:  "sk-test",
		BaseURL: srv.URL + "/v1/",
	}, srv.Client(), nil)
	if err != nil {
		t.Fatalf("new gateway: %v", err)
	}
	return g
}

func decodeBody(t *testing.T, r *http.Request) map[string]any {
	t.Helper()
	body, err := io.ReadAll(r.Body)
	if err != nil {
		t.Errorf("read body: %v", err)
		return nil
	}
	var out map[string]any
	if err := json.Unmarshal(body, &out); err != nil {
		t.Errorf("decode body: %v", err)
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func chatResponse(message map[string]any) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1,
		"model":   "gpt-4",
		"choices": []any{map[string]any{
			"index":         0,
			"message":       message,
			"finish_reason": "stop",
		}},
		"usage": map[string]any{"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15},
	}
}

func toolCallMessage(name, arguments string) map[string]any {
	return map[string]any{
		"role": "assistant",
		"tool_calls": []any{map[string]any{
			"id":   "call_1",
			"type": "function",
			"function": map[string]any{
				"name":      name,
				"arguments": arguments,
			},
		}},
	}
}

func TestNewOpenAIGatewayRequiresAPIKey(t *testing.T) {
	_, err := NewOpenAIGateway(config.OpenAIConfig{APIKey: "  "}, nil, nil)
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
	if cfgErr.Setting != "OPENAI_API_KEY" {
		t.Fatalf("unexpected setting %q", cfgErr.Setting)
	}
}

func TestOpenAIChatComplete(t *testing.T) {
	g := newOpenAITestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("unexpected auth header %q", got)
		}
		body := decodeBody(t, r)
		if body["model"] != "gpt-4" {
			t.Errorf("expected default chat model gpt-4, got %v", body["model"])
		}
		if temp, _ := body["temperature"].(float64); temp < 0.69 || temp > 0.71 {
			t.Errorf("expected temperature 0.7, got %v", body["temperature"])
		}
		msgs, _ := body["messages"].([]any)
		if len(msgs) != 1 {
			t.Errorf("expected one message, got %d", len(msgs))
		} else if msg, _ := msgs[0].(map[string]any); msg["role"] != "user" || msg["content"] != "write an ad" {
			t.Errorf("unexpected message %v", msg)
		}
		writeJSON(w, http.StatusOK, chatResponse(map[string]any{"role": "assistant", "content": "Save smarter today!"}))
	})

	got, err := g.ChatComplete(context.Background(), "write an ad")
	if err != nil {
		t.Fatalf("chat complete: %v", err)
	}
	if got != "Save smarter today!" {
		t.Fatalf("unexpected content %q", got)
	}
}

func TestOpenAIChatCompleteNoChoices(t *testing.T) {
	g := newOpenAITestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		resp := chatResponse(nil)
		resp["choices"] = []any{}
		writeJSON(w, http.StatusOK, resp)
	})

	_, err := g.ChatComplete(context.Background(), "hi")
	var provErr *ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if !errors.Is(err, errNoChoices) {
		t.Fatalf("expected errNoChoices, got %v", err)
	}
}

func TestOpenAIChatCompleteLiftsStatusCode(t *testing.T) {
	g := newOpenAITestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusTooManyRequests, map[string]any{
			"error": map[string]any{
				"message": "Rate limit reached",
				"type":    "requests",
				"code":    "rate_limit_exceeded",
			},
		})
	})

	_, err := g.ChatComplete(context.Background(), "hi")
	var provErr *ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if provErr.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected status 429, got %d", provErr.StatusCode)
	}
	if provErr.Provider != "openai" || provErr.Op != "chat completion" {
		t.Fatalf("unexpected provider error %+v", provErr)
	}
}

func TestOpenAIChatCompleteTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	g, err := NewOpenAIGateway(config.OpenAIConfig{APIKey: "sk-test", BaseURL: srv.URL}, &http.Client{Timeout: 50 * time.Millisecond}, nil)
	if err != nil {
		t.Fatalf("new gateway: %v", err)
	}

	_, err = g.ChatComplete(context.Background(), "hi")
	var provErr *ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if !provErr.Timeout() {
		t.Fatalf("expected timeout error, got %v", err)
	}
}

func TestOpenAIExtractStructuredForcesFunction(t *testing.T) {
	g := newOpenAITestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		body := decodeBody(t, r)
		if body["model"] != "gpt-4-0613" {
			t.Errorf("expected extraction model gpt-4-0613, got %v", body["model"])
		}

		choice, _ := body["tool_choice"].(map[string]any)
		fn, _ := choice["function"].(map[string]any)
		if choice["type"] != "function" || fn["name"] != ExtractionToolName {
			t.Errorf("expected forced tool choice, got %v", body["tool_choice"])
		}

		tools, _ := body["tools"].([]any)
		if len(tools) != 1 {
			t.Errorf("expected one tool, got %d", len(tools))
		} else {
			tool, _ := tools[0].(map[string]any)
			def, _ := tool["function"].(map[string]any)
			params, _ := def["parameters"].(map[string]any)
			required, _ := params["required"].([]any)
			if def["name"] != ExtractionToolName || len(required) != 5 {
				t.Errorf("unexpected tool definition %v", def)
			}
		}

		msgs, _ := body["messages"].([]any)
		if len(msgs) == 1 {
			msg, _ := msgs[0].(map[string]any)
			content, _ := msg["content"].(string)
			if !strings.Contains(content, `"ad for a finance app"`) {
				t.Errorf("expected extraction prompt to quote the request, got %q", content)
			}
		}

		writeJSON(w, http.StatusOK, chatResponse(toolCallMessage(ExtractionToolName, financeArguments)))
	})

	got, err := g.ExtractStructured(context.Background(), "ad for a finance app")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if got.ProductName != "Personal Finance App" || len(got.KeyBenefits) != 2 {
		t.Fatalf("unexpected data %+v", got)
	}
}

func TestOpenAIExtractStructuredFailures(t *testing.T) {
	cases := map[string]map[string]any{
		"no tool call":  {"role": "assistant", "content": "I cannot call functions."},
		"wrong tool":    toolCallMessage("other_function", financeArguments),
		"bad arguments": toolCallMessage(ExtractionToolName, `{"productName":"App"}`),
	}
	for name, message := range cases {
		t.Run(name, func(t *testing.T) {
			g := newOpenAITestGateway(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, chatResponse(message))
			})

			_, err := g.ExtractStructured(context.Background(), "anything")
			var extErr *ExtractionError
			if !errors.As(err, &extErr) {
				t.Fatalf("expected ExtractionError, got %v", err)
			}
		})
	}
}

func TestOpenAIExtractStructuredArgumentsParseError(t *testing.T) {
	g := newOpenAITestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, chatResponse(toolCallMessage(ExtractionToolName, "not json")))
	})

	_, err := g.ExtractStructured(context.Background(), "anything")
	var parseErr *ad.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected wrapped ParseError, got %v", err)
	}
}

func TestOpenAIExtractStructuredProviderFailure(t *testing.T) {
	g := newOpenAITestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"error": map[string]any{"message": "boom", "type": "server_error"},
		})
	})

	_, err := g.ExtractStructured(context.Background(), "anything")
	var provErr *ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if provErr.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", provErr.StatusCode)
	}
}

func TestOpenAIGenerateImage(t *testing.T) {
	g := newOpenAITestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/images/generations" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		body := decodeBody(t, r)
		if body["model"] != "dall-e-3" || body["size"] != "1024x1024" || body["quality"] != "standard" {
			t.Errorf("unexpected image request %v", body)
		}
		if n, _ := body["n"].(float64); n != 1 {
			t.Errorf("expected n=1, got %v", body["n"])
		}
		if body["prompt"] != "a mug" {
			t.Errorf("unexpected prompt %v", body["prompt"])
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"created": 1,
			"data":    []any{map[string]any{"url": "https://images.example/mug.png"}},
		})
	})

	got, err := g.GenerateImage(context.Background(), "a mug")
	if err != nil {
		t.Fatalf("generate image: %v", err)
	}
	if got != "https://images.example/mug.png" {
		t.Fatalf("unexpected url %q", got)
	}
}

func TestOpenAIGenerateImageInlineData(t *testing.T) {
	g := newOpenAITestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"created": 1,
			"data":    []any{map[string]any{"b64_json": "aGVsbG8="}},
		})
	})

	got, err := g.GenerateImage(context.Background(), "a mug")
	if err != nil {
		t.Fatalf("generate image: %v", err)
	}
	if got != "data:image/png;base64,aGVsbG8=" {
		t.Fatalf("unexpected locator %q", got)
	}
}

func TestOpenAIGenerateImageEmpty(t *testing.T) {
	g := newOpenAITestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"created": 1, "data": []any{}})
	})

	_, err := g.GenerateImage(context.Background(), "a mug")
	if !errors.Is(err, errNoImage) {
		t.Fatalf("expected errNoImage, got %v", err)
	}
}
