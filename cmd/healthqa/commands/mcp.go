// ABOUTME: MCP command starts a Model Context Protocol server on stdio
// ABOUTME: Lets LLM agents answer questions and query the knowledge cache
package commands

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nattapong/healthqa/internal/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start MCP server for LLM agents

Runs the question answering pipeline as an MCP (Model Context Protocol)
server over stdio, exposing answer_question, search_knowledge, and
knowledge_stats tools.`,
		RunE: runMCP,
		Example: `  # Start MCP server (typically called by an agent host)
  healthqa mcp

  # Configure in the host's MCP config:
  # {
  #   "mcpServers": {
  #     "healthqa": {
  #       "command": "healthqa",
  #       "args": ["mcp"]
  #     }
  #   }
  # }`,
	}

	return cmd
}

func runMCP(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.Close()

	server := mcpserver.NewMCPServer(
		"Thai Healthcare QA",
		versionInfo.Version,
	)

	mcp.RegisterTools(server, a.answerer, a.cache)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !quiet {
		log.Println("MCP server starting on stdio...")
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	select {
	case <-ctx.Done():
		if !quiet {
			log.Println("Shutdown signal received")
		}
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	return nil
}
