package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/etlvalidator/etlvalidator/internal/application"
	"github.com/etlvalidator/etlvalidator/internal/domain"
)

func registerTools(s *server.MCPServer, deps Deps) {
	s.AddTool(
		mcplib.NewTool("etlvalidator_validate",
			mcplib.WithDescription("Validate a PySpark conversion against its Informatica or Datastage source. Returns the model report split into Correct Parts, Potential Issues, Missing Logic and Suggested Improvements, plus optional corrected code."),
			mcplib.WithString("etl_path",
				mcplib.Required(),
				mcplib.Description("Path to the ETL export (.xml, .json, .dsx, .txt), relative to the project root"),
			),
			mcplib.WithString("pyspark_path",
				mcplib.Required(),
				mcplib.Description("Path to the converted PySpark file (.py), relative to the project root"),
			),
			mcplib.WithString("kind", mcplib.Description("ETL tool: informatica or datastage (default: informatica)")),
			mcplib.WithBoolean("correct", mcplib.Description("Also ask for a corrected PySpark rewrite")),
		),
		handleValidate(deps),
	)

	s.AddTool(
		mcplib.NewTool("etlvalidator_sectionize",
			mcplib.WithDescription("Split a free-text validation report into the four fixed sections"),
			mcplib.WithString("report",
				mcplib.Required(),
				mcplib.Description("Report text with section headings and '-' or '•' bullets"),
			),
		),
		handleSectionize(),
	)

	s.AddTool(
		mcplib.NewTool("etlvalidator_export",
			mcplib.WithDescription("Render a validation report as Validation_Report.pdf and Validation_Report.docx"),
			mcplib.WithString("report",
				mcplib.Required(),
				mcplib.Description("Report text to sectionize and render"),
			),
			mcplib.WithString("output_dir", mcplib.Description("Directory to write into, relative to the project root (default: project root)")),
			mcplib.WithString("corrected_code", mcplib.Description("Corrected PySpark code to write as Corrected_PySpark.py")),
		),
		handleExport(deps),
	)
}

func handleValidate(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		etlPath, err := request.RequireString("etl_path")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		pysparkPath, err := request.RequireString("pyspark_path")
		if err != nil {
			return errorResult(err.Error()), nil
		}

		kind := domain.ETLKindInformatica
		if k := request.GetString("kind", ""); k != "" {
			kind, err = domain.ParseETLKind(k)
			if err != nil {
				return errorResult(err.Error()), nil
			}
		}

		etl, err := readUpload(deps.ProjectPath, etlPath, domain.RoleETL)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		pyspark, err := readUpload(deps.ProjectPath, pysparkPath, domain.RolePySpark)
		if err != nil {
			return errorResult(err.Error()), nil
		}

		if deps.Validator == nil {
			return errorResult("validation is not configured"), nil
		}
		v, err := deps.Validator(ctx)
		if err != nil {
			return errorResult(err.Error()), nil
		}

		result, err := v.Validate(ctx, domain.ValidationRequest{
			Kind:    kind,
			ETL:     etl,
			PySpark: pyspark,
			Options: domain.Options{GenerateCorrection: request.GetBool("correct", false)},
		})
		if err != nil {
			deps.logger().Error("validation failed", zap.Error(err))
			return errorResult(application.UserMessage(err)), nil
		}
		return jsonResult(result)
	}
}

func handleSectionize() server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		report, err := request.RequireString("report")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		return jsonResult(domain.Sectionize(report))
	}
}

func handleExport(deps Deps) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		report, err := request.RequireString("report")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		if deps.Export == nil {
			return errorResult("export is not configured"), nil
		}

		dir := resolve(deps.ProjectPath, request.GetString("output_dir", ""))
		result := &domain.ValidationResult{
			Report:        report,
			Sections:      domain.Sectionize(report),
			CorrectedCode: domain.CleanCorrectedCode(request.GetString("corrected_code", "")),
		}

		paths, err := deps.Export.WriteArtifacts(result, dir)
		if err != nil {
			return errorResult(fmt.Sprintf("export failed: %v", err)), nil
		}
		return jsonResult(map[string]any{"files": paths})
	}
}

func readUpload(projectPath, path string, role domain.FileRole) (*domain.UploadedFile, error) {
	full := resolve(projectPath, path)
	data, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	f := domain.NewUploadedFile(filepath.Base(full), role, data)
	if abs, err := filepath.Abs(full); err == nil {
		f.Dir = filepath.Dir(abs)
	}
	return f, nil
}

func resolve(projectPath, path string) string {
	if path == "" {
		return projectPath
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(projectPath, path)
}

// jsonResult marshals v to JSON and returns it as a text content result.
func jsonResult(v any) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

// errorResult returns a tool result that indicates an error occurred.
func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}
