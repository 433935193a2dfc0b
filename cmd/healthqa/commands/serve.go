// ABOUTME: Serve command runs the HTTP evaluation API
// ABOUTME: Exposes /eval, /health, and knowledge endpoints with graceful shutdown
package commands

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nattapong/healthqa/internal/api"
)

var serveAddr string

// NewServeCmd creates the serve command
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP evaluation API",
		Long: `Run an HTTP server exposing the question answering pipeline.

Endpoints:
  GET  /health            liveness check
  POST /eval              answer one question ({"id": "...", "question": "..."})
  GET  /knowledge/search  search cached facts (?q=...)
  GET  /knowledge/stats   knowledge cache statistics`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from HEALTHQA_LISTEN_ADDR)")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.Close()

	addr := serveAddr
	if addr == "" {
		addr = a.cfg.ListenAddr
	}

	server := api.NewServer(a.answerer, a.cache)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: server.Handler(),
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- httpServer.ListenAndServe()
	}()

	if !quiet {
		log.Printf("Evaluation API listening on %s", addr)
	}

	select {
	case <-ctx.Done():
		if !quiet {
			log.Println("Shutdown signal received, draining connections...")
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down server: %w", err)
		}
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	}

	return nil
}
