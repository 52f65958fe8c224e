package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/etlvalidator/etlvalidator/internal/adapters/inbound/web"
	"github.com/etlvalidator/etlvalidator/internal/adapters/outbound/runstore"
)

func newServeCmd() *cobra.Command {
	var (
		project projectFlags
		addr    string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web upload interface",
		Long:  "Serve an upload form and a JSON API for validating conversions. Completed runs are kept in memory only long enough to download their reports.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			projectPath, cfg, err := project.resolve()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Server.Addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			svc, err := newValidateService(ctx, projectPath, cfg)
			if err != nil {
				return err
			}
			runs, err := runstore.New(cfg.Server.RunTTL, logger)
			if err != nil {
				return err
			}
			defer runs.Close()

			srv := web.NewServer(svc, newExportService(), runs, web.Options{
				GenerateCorrection: cfg.GenerateCorrection,
				Debug:              logger.Core().Enabled(zap.DebugLevel),
			}, logger).HTTPServer(addr)

			errCh := make(chan error, 1)
			go func() {
				logger.Info("web server listening", zap.String("addr", addr))
				fmt.Fprintf(cmd.OutOrStdout(), "Serving on http://%s\n", addr)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			logger.Info("shutting down web server")
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config, 127.0.0.1:8501)")
	cmd.Flags().StringVar(&project.path, "path", "", "Project path for config, secrets and history (defaults to current working directory)")
	cmd.Flags().StringVar(&project.configFile, "config", "", "Config file (defaults to <path>/.etlvalidator.yaml)")

	return cmd
}
