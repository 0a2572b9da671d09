// ABOUTME: Serve command runs the HTTP API
// ABOUTME: Graceful shutdown on SIGINT/SIGTERM
package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/harper/quizsmith/internal/httpapi"
	"github.com/harper/quizsmith/internal/quiz"
	"github.com/spf13/cobra"
)

// NewServeCmd creates the serve command
func NewServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the quiz HTTP API.

Endpoints:
  POST /sessions                 start a quiz {"mode": "topic"|"random", "topic": "..."}
  GET  /sessions/{id}            current question and progress
  POST /sessions/{id}/answers    submit {"choice": "b"} (optional "index")
  POST /sessions/{id}/advance    next question
  GET  /sessions/{id}/score      score so far
  GET  /topics                   course topics
  GET  /export/moodle            Moodle XML of the bank`,
		Example: `  quiz serve
  quiz serve --addr 127.0.0.1:9000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default: QUIZ_HTTP_ADDR)")

	return cmd
}

func runServe(cmd *cobra.Command, addr string) error {
	a, err := newApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	if addr == "" {
		addr = a.cfg.HTTPAddr
	}

	api := httpapi.NewServer(httpapi.Deps{
		Sessions: quiz.NewRegistry(a.sessionOptions(), quiz.DefaultSessionTTL),
		Bank:     a.bank,
		Title:    a.cfg.Course.Title,
		Topics:   a.cfg.Course.Topics,
		Logger:   a.log,
	})

	srv := &http.Server{
		Addr:              addr,
		Handler:           api.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		a.log.Info("HTTP server listening", "addr", addr)
		serverErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		a.log.Info("shutdown signal received, shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		a.log.Info("shutdown complete")
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	}

	return nil
}
