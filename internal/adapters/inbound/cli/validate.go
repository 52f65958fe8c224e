package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/etlvalidator/etlvalidator/internal/adapters/outbound/tui"
	"github.com/etlvalidator/etlvalidator/internal/application"
	"github.com/etlvalidator/etlvalidator/internal/domain"
)

type validateOutput struct {
	Result *domain.ValidationResult `json:"result"`
	Files  []string                 `json:"files"`
}

func newValidateCmd() *cobra.Command {
	var (
		project     projectFlags
		kindName    string
		etlPath     string
		pysparkPath string
		correct     bool
		outDir      string
		jsonOutput  bool
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a PySpark file against its ETL source",
		Long: `Send an Informatica or Datastage export and its PySpark conversion to the
configured model, print the sectioned report and write Validation_Report.pdf,
Validation_Report.docx and, with --correct, Corrected_PySpark.py.`,
		Example: `  etlvalidator validate --kind informatica --etl m_orders.xml --pyspark orders.py
  etlvalidator validate --kind datastage --etl orders.dsx --pyspark orders.py --correct=false --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			projectPath, cfg, err := project.resolve()
			if err != nil {
				return err
			}

			kind, err := domain.ParseETLKind(kindName)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("correct") {
				correct = cfg.GenerateCorrection
			}
			if outDir == "" {
				outDir = cfg.OutputDir
			}
			if !filepath.IsAbs(outDir) {
				outDir = filepath.Join(projectPath, outDir)
			}

			etl, err := readInput(etlPath, domain.RoleETL)
			if err != nil {
				return err
			}
			pyspark, err := readInput(pysparkPath, domain.RolePySpark)
			if err != nil {
				return err
			}

			stderr := cmd.ErrOrStderr()
			session := application.NewSession(newLazyValidator(projectPath, cfg), func(n application.Notice) {
				if n.Level == application.NoticeInfo || n.Level == application.NoticeSuccess {
					fmt.Fprint(stderr, tui.RenderNotice(string(n.Level), n.Message))
				}
			}, logger)
			session.SetKind(kind)
			session.SetETL(etl)
			session.SetPySpark(pyspark)

			result, err := session.Validate(cmd.Context(), domain.Options{GenerateCorrection: correct})
			if err != nil {
				return err
			}

			paths, err := newExportService().WriteArtifacts(result, outDir)
			if err != nil {
				return err
			}

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(validateOutput{Result: result, Files: paths})
			}

			fmt.Fprint(cmd.OutOrStdout(), tui.RenderReport(result))
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderArtifacts(paths))
			return nil
		},
	}

	cmd.Flags().StringVar(&kindName, "kind", string(domain.ETLKindInformatica), "ETL tool the source was exported from (informatica, datastage)")
	cmd.Flags().StringVar(&etlPath, "etl", "", "ETL export file (.xml, .json, .dsx, .txt)")
	cmd.Flags().StringVar(&pysparkPath, "pyspark", "", "Converted PySpark file (.py)")
	cmd.Flags().BoolVar(&correct, "correct", true, "Also request corrected PySpark code (default from config)")
	cmd.Flags().StringVar(&outDir, "out", "", "Directory for the generated files (default from config)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the result as JSON")
	cmd.Flags().StringVar(&project.path, "path", "", "Project path for config, secrets and history (defaults to current working directory)")
	cmd.Flags().StringVar(&project.configFile, "config", "", "Config file (defaults to <path>/.etlvalidator.yaml)")

	return cmd
}

// readInput returns nil when no path was given.
func readInput(path string, role domain.FileRole) (*domain.UploadedFile, error) {
	if path == "" {
		return nil, nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s file: %w", role, err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("reading %s file: %w", role, err)
	}
	f := domain.NewUploadedFile(filepath.Base(abs), role, data)
	f.Dir = filepath.Dir(abs)
	return f, nil
}
