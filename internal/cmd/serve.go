package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"go-visual-diff/internal/config"
	"go-visual-diff/internal/logger"
	"go-visual-diff/internal/transport"
)

// NewServeCommand creates the serve command, which exposes a finished run
// over HTTP: the report as JSON plus the captured artifacts.
func NewServeCommand() *cobra.Command {
	var runDir string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the report and artifacts of a finished run",
		RunE: func(cmd *cobra.Command, args []string) error {
			if runDir == "" {
				return fmt.Errorf("--run-dir is required")
			}

			cfg, err := config.LoadFromEnv()
			if err != nil {
				return err
			}

			handler, err := transport.NewHandler(runDir)
			if err != nil {
				return err
			}

			server := &http.Server{
				Addr:         cfg.ServerAddress(),
				Handler:      handler,
				ReadTimeout:  cfg.RequestTimeout,
				WriteTimeout: cfg.RequestTimeout,
				IdleTimeout:  2 * cfg.RequestTimeout,
			}

			serverErrors := make(chan error, 1)
			go func() {
				logger.WithFields(logrus.Fields{
					"address": server.Addr,
					"run_dir": runDir,
				}).Info("Starting results server")
				serverErrors <- server.ListenAndServe()
			}()

			shutdown := make(chan os.Signal, 1)
			signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-serverErrors:
				return fmt.Errorf("server error: %w", err)
			case sig := <-shutdown:
				logger.WithField("signal", sig.String()).Info("Shutting down results server")

				ctx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout)
				defer cancel()

				if err := server.Shutdown(ctx); err != nil {
					server.Close()
					return fmt.Errorf("could not stop server gracefully: %w", err)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&runDir, "run-dir", "", "directory of a finished run (contains report.json)")
	return cmd
}
