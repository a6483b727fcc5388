package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dspeziale/docsearch/internal/adapters/driving/api"
	"github.com/dspeziale/docsearch/internal/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long: `Ensures the index exists and serves the JSON API (search, upload,
documents, statistics, tags) until interrupted.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := searchIndex.EnsureIndex(ctx, false); err != nil {
		return fmt.Errorf("index setup failed: %w", err)
	}

	server := api.NewServer(api.Config{
		Host:      appConfig.Server.Host,
		Port:      appConfig.Server.Port,
		UploadDir: appConfig.Server.Uploads,
	}, ingestService, queryService, normaliser.SupportedExtensions())

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}
