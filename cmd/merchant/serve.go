package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alovak/cardflow-accept/merchant"
	"github.com/spf13/cobra"
	"golang.org/x/exp/slog"
	"golang.org/x/sync/errgroup"
)

func serveCmd(load loader) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the checkout HTTP server",
		Long: `Start the checkout HTTP server.

Examples:
  merchant serve --addr :8080
  AUTHNET_ENVIRONMENT=Production merchant serve -c merchant.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := load()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.HTTPAddr = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return serve(ctx, logger, merchant.NewApp(logger, cfg))
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides http_addr")

	return cmd
}

type server interface {
	Start() error
	Wait() error
	Shutdown()
}

// serve runs srv until ctx is done or the server fails on its own.
func serve(ctx context.Context, logger *slog.Logger, srv server) error {
	if err := srv.Start(); err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutdown requested")
		srv.Shutdown()
		return nil
	})
	g.Go(srv.Wait)

	return g.Wait()
}
