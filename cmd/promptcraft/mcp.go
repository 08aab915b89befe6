// cmd/promptcraft/mcp.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"promptcraft-studio/internal/mcpserver"
)

const (
	transportStdio          = "stdio"
	transportSSE            = "sse"
	transportStreamableHTTP = "streamable-http"
)

func newMCPCmd() *cobra.Command {
	var (
		transport    string
		httpAddr     string
		httpEndpoint string
	)

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve the flows as Model Context Protocol tools",
		Long: `Expose the PromptCraft flows, scenarios and prompt anatomy to MCP clients.

Supports multiple transport types:
  - stdio: Standard input/output (default)
  - sse: Server-Sent Events over HTTP
  - streamable-http: Streamable HTTP transport`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMCP(cmd.Context(), transport, httpAddr, httpEndpoint)
		},
	}

	cmd.Flags().StringVar(&transport, "transport", transportStdio, "Transport type: stdio, sse, or streamable-http")
	cmd.Flags().StringVar(&httpAddr, "http-addr", ":8081", "HTTP server address (for sse and streamable-http transports)")
	cmd.Flags().StringVar(&httpEndpoint, "http-endpoint", "/mcp", "HTTP endpoint path (for streamable-http transport)")

	return cmd
}

func runMCP(ctx context.Context, transport, httpAddr, httpEndpoint string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	shutdownCtx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// stdout belongs to the protocol on stdio.
	logOutput := ""
	if transport == transportStdio {
		logOutput = "stderr"
	}

	a, err := bootstrap(shutdownCtx, logOutput)
	if err != nil {
		return err
	}
	defer a.Close()

	mcpSrv := mcpserver.New(a.flows, a.store, rootCmd.Version, a.log)
	a.log.Info("Starting MCP server", map[string]interface{}{"transport": transport})

	switch transport {
	case transportStdio:
		return mcpserver.Serve(mcpSrv)
	case transportSSE:
		sseServer := server.NewSSEServer(mcpSrv)
		return serveHTTP(shutdownCtx, httpAddr, sseServer.Start, sseServer.Shutdown)
	case transportStreamableHTTP:
		httpServer := server.NewStreamableHTTPServer(mcpSrv, server.WithEndpointPath(httpEndpoint))
		return serveHTTP(shutdownCtx, httpAddr, httpServer.Start, httpServer.Shutdown)
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: stdio, sse, streamable-http)", transport)
	}
}

func serveHTTP(ctx context.Context, addr string, start func(string) error, shutdown func(context.Context) error) error {
	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := start(addr); err != nil {
			serverDone <- err
		}
	}()

	select {
	case <-ctx.Done():
		stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := shutdown(stopCtx); err != nil {
			return fmt.Errorf("error shutting down MCP server: %w", err)
		}
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("MCP server stopped with error: %w", err)
		}
	}
	return nil
}
