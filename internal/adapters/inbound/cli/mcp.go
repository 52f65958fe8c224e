package cli

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	mcpadapter "github.com/etlvalidator/etlvalidator/internal/adapters/inbound/mcp"
	"github.com/etlvalidator/etlvalidator/internal/adapters/outbound/history"
)

func newMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "MCP server commands",
		Long:  "Commands for running the etlvalidator MCP (Model Context Protocol) server.",
	}
	cmd.AddCommand(newMCPServeCmd())
	return cmd
}

func newMCPServeCmd() *cobra.Command {
	var project projectFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start etlvalidator MCP server (stdio)",
		Long:  "Start the etlvalidator MCP server using stdio transport. This lets AI coding assistants validate conversions, sectionize reports and export documents.",
		RunE: func(cmd *cobra.Command, args []string) error {
			projectPath, cfg, err := project.resolve()
			if err != nil {
				return err
			}

			mcpadapter.Version = version
			s := mcpadapter.NewETLValidatorMCPServer(mcpadapter.Deps{
				ProjectPath: projectPath,
				Validator:   newLazyValidator(projectPath, cfg).get,
				Export:      newExportService(),
				History:     history.New(),
				Logger:      logger,
			})
			return server.ServeStdio(s)
		},
	}

	cmd.Flags().StringVar(&project.path, "path", "", "Project path (defaults to current working directory)")
	cmd.Flags().StringVar(&project.configFile, "config", "", "Config file (defaults to <path>/.etlvalidator.yaml)")

	return cmd
}
