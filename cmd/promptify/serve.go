package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/thinkscotty/promptify/internal/auth"
	"github.com/thinkscotty/promptify/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Start the HTTP API used by the browser extension.

On first start an access key is generated and printed once. Clients send it
as a Bearer token or an api_key query parameter. Use 'promptify key rotate'
to replace it.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		slog.Info("Starting Promptify", "version", version)

		key, err := auth.Ensure(a.db)
		if err != nil {
			return fmt.Errorf("creating access key: %w", err)
		}
		if key != "" {
			fmt.Printf("Generated access key (shown once, store it in the extension options):\n\n  %s\n\n", key)
		}

		if days := a.cfg.Database.LogRetentionDays; days > 0 {
			removed, err := a.db.CleanOldQueryLogs(days)
			if err != nil {
				slog.Warn("Failed to clean old query logs", "error", err)
			} else if removed > 0 {
				slog.Info("Cleaned old query logs", "removed", removed, "retention_days", days)
			}
		}

		srv := server.New(a.cfg, a.db, a.gateway(), version)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigCh
			slog.Info("Shutting down...")
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				slog.Error("Shutdown error", "error", err)
			}
		}()

		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	},
}
