package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/MasudBS-1458/tr-cafe/internal/mockapi"
)

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a local storefront API",
		Long: `Run a local in-memory storefront speaking the tr-cafe API contract.

The server ships a seeded menu and supports the full contract:
catalog queries with filtering and sorting, registration and login,
token-authenticated orders, a live order feed over WebSocket, and
Prometheus metrics on /metrics.

Examples:
  trcafe serve
  trcafe serve --addr=:8080`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(addr)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", ":5000", "Address to listen on")

	return cmd
}

func runServe(addr string) error {
	printBanner()
	info("serve")
	info("")

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	srv := mockapi.NewServer(mockapi.WithLogger(logger))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	success("storefront listening on %s", addr)
	return srv.Run(ctx, addr)
}
