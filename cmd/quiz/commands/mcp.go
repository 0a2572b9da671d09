// ABOUTME: MCP command starts Model Context Protocol server
// ABOUTME: Exposes question generation, document chat, and quiz sessions over stdio
package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/harper/quizsmith/internal/mcp"
	"github.com/harper/quizsmith/internal/quiz"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start MCP server for LLM agents

Runs the quiz engine as an MCP (Model Context Protocol) server so
LLM agents can generate questions, ask about documents, and run quiz
sessions via stdio.`,
		RunE: runMCP,
		Example: `  # Start MCP server (typically called by an MCP client)
  quiz mcp

  # Configure in the client's config file:
  # {
  #   "mcpServers": {
  #     "quiz": {
  #       "command": "quiz",
  #       "args": ["mcp"]
  #     }
  #   }
  # }`,
	}

	return cmd
}

// runMCP starts the MCP server
func runMCP(cmd *cobra.Command, args []string) error {
	a, err := newApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	server := mcpserver.NewMCPServer(
		"Quiz Engine",
		versionInfo.Version,
	)

	mcp.RegisterTools(server, mcp.Deps{
		Generator: a.engine,
		Tutor:     a.tutor,
		Bank:      a.bank,
		Sessions:  quiz.NewRegistry(a.sessionOptions(), quiz.DefaultSessionTTL),
		Title:     a.cfg.Course.Title,
		Topics:    a.cfg.Course.Topics,
		Logger:    a.log,
	})

	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.log.Info("MCP server starting on stdio")

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	select {
	case <-ctx.Done():
		a.log.Info("shutdown signal received")
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	return nil
}
