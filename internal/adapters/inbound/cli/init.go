package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/etlvalidator/etlvalidator/internal/adapters/outbound/config"
	"github.com/etlvalidator/etlvalidator/internal/domain"
)

func newInitCmd() *cobra.Command {
	var (
		provider string
		model    string
		force    bool
	)

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Generate a .etlvalidator.yaml configuration file",
		Long:  "Create a .etlvalidator.yaml with default model, output and server settings.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) > 0 {
				path = args[0]
			}
			absPath, err := filepath.Abs(path)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			cfg := domain.DefaultConfig()
			cfg.LLM = domain.LLMConfig{Provider: domain.Provider(provider), Model: model}
			if err := cfg.Validate(); err != nil {
				return err
			}
			cfg.LLM.ApplyDefaults()

			if _, err := config.Write(absPath, cfg, force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", config.FileName)
			return nil
		},
	}

	cmd.Flags().StringVar(&provider, "provider", string(domain.ProviderOpenAI), "Model provider (openai, gemini)")
	cmd.Flags().StringVar(&model, "model", "", "Model name (default depends on provider)")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing .etlvalidator.yaml")

	return cmd
}
