package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nikhilsahni/ipofolio/internal/api"
	"github.com/nikhilsahni/ipofolio/internal/api/handlers"
)

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the read-only HTTP API",
	Long: `Starts the HTTP API server.

Endpoints:
  GET /health                        - Health check
  GET /api/recommendations/latest    - Most recent stored recommendation
  GET /api/recommendations           - Recent recommendations
  GET /api/candidates                - Live eligible candidates

Example:
  go run ./cmd/ipofolio api
  go run ./cmd/ipofolio api --port 8087`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "listen port (default from config)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	d, err := buildDeps(false)
	if err != nil {
		return err
	}
	defer d.close()

	if apiPort != "" {
		d.cfg.Port = apiPort
	}

	recHandler := handlers.NewRecommendationHandler(d.recRepo, d.log)
	candHandler := handlers.NewCandidateHandler(d.ipoRepo, d.builder, d.log)

	router := api.NewRouter(recHandler, candHandler, d.log)
	server := api.New(d.cfg, d.log, router)

	go func() {
		if err := server.Start(); err != nil {
			d.log.WithError(err).Fatal("Failed to start server")
		}
	}()

	fmt.Printf("Server running on http://localhost:%s (Ctrl+C to stop)\n", d.cfg.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	return nil
}
