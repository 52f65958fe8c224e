package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/etlvalidator/etlvalidator/internal/application"
	"github.com/etlvalidator/etlvalidator/internal/domain"
)

// Version is reported in the MCP handshake.
var Version = "dev"

// Deps are the services the MCP tools call into.
type Deps struct {
	// ProjectPath resolves relative file arguments and locates run history.
	ProjectPath string
	// Validator builds the pipeline on first use, so tools that need no model
	// still work without a credential.
	Validator func(ctx context.Context) (application.Validator, error)
	Export    *application.ExportService
	History   domain.RunHistory
	Logger    *zap.Logger
}

func (d Deps) logger() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}

// NewETLValidatorMCPServer creates an MCP server with all etlvalidator tools
// and resources registered.
func NewETLValidatorMCPServer(deps Deps) *server.MCPServer {
	if deps.ProjectPath == "" {
		deps.ProjectPath = "."
	}
	s := server.NewMCPServer(
		"etlvalidator",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	registerTools(s, deps)
	registerResources(s, deps)

	return s
}
