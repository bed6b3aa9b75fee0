// Package mcp exposes ad generation as a Model Context Protocol tool.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kayz/adcraft/internal/ad"
	"github.com/kayz/adcraft/internal/logger"
)

const (
	ServerName = "adcraft"
	ToolName   = "generate_ad"
)

// ServerVersion is reported during the MCP handshake. cmd overrides it with
// the build version.
var ServerVersion = "dev"

// AdGenerator produces an ad from a free-text request.
type AdGenerator interface {
	Generate(ctx context.Context, rawPrompt string) (ad.Generated, error)
}

type publicError interface {
	PublicMessage() string
}

// NewServer creates an MCP server with the generate_ad tool registered.
func NewServer(generator AdGenerator, log logger.Logger) *server.MCPServer {
	s := server.NewMCPServer(ServerName, ServerVersion, server.WithToolCapabilities(false))
	s.AddTool(mcp.NewTool(ToolName,
		mcp.WithDescription("Generate Facebook ad copy and a product image from a free-text ad request"),
		mcp.WithString("prompt",
			mcp.Required(),
			mcp.Description("What to advertise, for example: ad for a personal finance app aimed at young adults"),
		),
	), generateAdHandler(generator, log))
	return s
}

// ServeStdio runs s over stdin/stdout until the input closes.
func ServeStdio(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

func generateAdHandler(generator AdGenerator, log logger.Logger) server.ToolHandlerFunc {
	if log == nil {
		log = logger.Nop()
	}
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		prompt, ok := req.Params.Arguments["prompt"].(string)
		if !ok || strings.TrimSpace(prompt) == "" {
			return mcp.NewToolResultError("prompt must be a non-empty string"), nil
		}

		generated, err := generator.Generate(ctx, prompt)
		if err != nil {
			log.Error("[MCP] generate_ad failed: %v", err)
			message := "ad generation failed"
			var pe publicError
			if errors.As(err, &pe) && pe.PublicMessage() != "" {
				message = pe.PublicMessage()
			}
			return mcp.NewToolResultError(message), nil
		}

		data, err := json.Marshal(map[string]ad.Generated{"ad": generated})
		if err != nil {
			return mcp.NewToolResultError("encode result: " + err.Error()), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	}
}
