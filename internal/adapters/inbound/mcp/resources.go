package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/etlvalidator/etlvalidator/internal/domain"
)

const historyURI = "etlvalidator://history"

func registerResources(s *server.MCPServer, deps Deps) {
	s.AddResource(
		mcplib.NewResource(
			historyURI,
			"Validation History",
			mcplib.WithResourceDescription("Metadata of past validation runs in this project"),
			mcplib.WithMIMEType("application/json"),
		),
		handleHistoryResource(deps),
	)
}

func handleHistoryResource(deps Deps) server.ResourceHandlerFunc {
	return func(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		entries := []domain.RunEntry{}
		if deps.History != nil {
			loaded, err := deps.History.Load(deps.ProjectPath)
			if err != nil {
				return nil, fmt.Errorf("loading history: %w", err)
			}
			if loaded != nil {
				entries = loaded
			}
		}

		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshaling history: %w", err)
		}

		return []mcplib.ResourceContents{
			mcplib.TextResourceContents{
				URI:      historyURI,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	}
}
