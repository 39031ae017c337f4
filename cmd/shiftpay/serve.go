package main

import (
	"context"
	"errors"
	"net/http"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"shiftpay/internal/cli"
	apphttp "shiftpay/internal/http"
	applog "shiftpay/internal/log"
)

func newServeCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the ledger as a JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cli.SignalContext(cmd.Context(), a.logger)
			defer cancel()

			proxies, err := a.cfg.TrustedProxyPrefixes()
			if err != nil {
				return err
			}
			srv := apphttp.NewServer(":"+a.cfg.Port, a.service(), a.logger, apphttp.WithTrustedProxies(proxies))
			logger := a.logger.WithComponent(applog.ComponentHTTP)

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				logger.Info("Starting HTTP server",
					"addr", srv.Addr,
					applog.FieldBackend, a.cfg.DataBackend)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
			g.Go(func() error {
				<-gctx.Done()
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
				defer shutdownCancel()

				logger.Info("Shutting down HTTP server", applog.FieldOperation, applog.OpShutdown)
				return srv.Shutdown(shutdownCtx)
			})

			if err := g.Wait(); err != nil {
				logger.Error("Server error", applog.FieldError, err)
				return err
			}
			return nil
		},
	}
}
