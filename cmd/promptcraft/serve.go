// cmd/promptcraft/serve.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"promptcraft-studio/internal/api"
	"promptcraft-studio/pkg/registry"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start the PromptCraft HTTP API. Probes are served on /health and /ready,
Prometheus metrics on /metrics and the flows under /api.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.address)")

	return cmd
}

func runServe(ctx context.Context, addr string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	shutdownCtx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a, err := bootstrap(shutdownCtx, "")
	if err != nil {
		return err
	}
	defer a.Close()

	var reg *registry.FlowRegistry
	if a.cfg.Registry.Path != "" {
		reg, err = registry.LoadRegistry(a.cfg.Registry.Path)
		if err != nil {
			return fmt.Errorf("failed to load flow registry: %w", err)
		}
	}

	var ready api.ReadyFunc
	if len(a.conns.Pingers()) > 0 {
		ready = a.conns.PingAll
	}

	handler := api.NewHandler(a.flows, a.store, reg, ready, rootCmd.Version, a.log)
	router := api.NewRouter(handler, a.cfg.Server.AllowedOrigins, a.log)

	serverCfg := a.cfg.Server
	if addr != "" {
		serverCfg.Address = addr
	}
	srv := api.NewServer(serverCfg, router, a.log)

	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := srv.Start(); err != nil {
			serverDone <- err
		}
	}()

	select {
	case <-shutdownCtx.Done():
		a.log.Info("Shutdown signal received, stopping HTTP server...", nil)
		if err := srv.Shutdown(context.Background()); err != nil {
			return fmt.Errorf("error shutting down HTTP server: %w", err)
		}
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("HTTP server stopped with error: %w", err)
		}
	}

	a.log.Info("HTTP server gracefully stopped", nil)
	return nil
}
