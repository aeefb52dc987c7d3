package cmd

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mj1618/focusnav/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start an MCP server exposing navigation sessions as tools",
	Long: `Start a Model Context Protocol (MCP) server. Agents load layouts into named
sessions and then move focus, inspect the registry and render the layout
through tool calls.

Supported transports:
  stdio             Standard I/O (default, for MCP clients)
  streamable-http   Streamable HTTP transport (for remote agents)

Examples:
  focusnav serve
  focusnav serve --transport streamable-http --port 8080
  focusnav serve --session-ttl 0`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("transport", "stdio", "Transport: stdio, streamable-http")
	serveCmd.Flags().Int("port", 8080, "HTTP port for streamable-http transport")
	serveCmd.Flags().Int("session-ttl", 1800, "Close sessions idle for this many seconds (0 to keep them)")
}

func runServe(cmd *cobra.Command, args []string) error {
	transport, _ := cmd.Flags().GetString("transport")
	port, _ := cmd.Flags().GetInt("port")
	ttlSec, _ := cmd.Flags().GetInt("session-ttl")

	srv := server.New(server.Config{
		Transport:  transport,
		Port:       port,
		SessionTTL: time.Duration(ttlSec) * time.Second,
		ConfigPath: configPath(),
		Logger:     logger,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.Serve(ctx)
}
