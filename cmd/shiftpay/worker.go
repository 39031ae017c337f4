package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"shiftpay/internal/amqp"
	"shiftpay/internal/cli"
	applog "shiftpay/internal/log"
	"shiftpay/internal/sheets"
	gsheet "shiftpay/internal/sheets/google"
	mem "shiftpay/internal/sheets/memory"
	"shiftpay/internal/worker"
)

var errNoBroker = errors.New("AMQP is not available; set AMQP_URL and check the broker")

// newWorkerCmd consumes ledger events and keeps the spreadsheet in step.
func newWorkerCmd(a *App) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Export changed months to Google Sheets as ledger events arrive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.backend.AMQP == nil {
				return errNoBroker
			}
			ctx, cancel := cli.SignalContext(cmd.Context(), a.logger)
			defer cancel()

			var exporter sheets.MonthExporter
			if dryRun || !a.cfg.SheetsEnabled() {
				a.logger.Info("Google Sheets disabled, exporting to memory")
				exporter = mem.New(a.cfg.GoogleSheetName)
			} else {
				exp, err := gsheet.NewExporter(ctx, a.sheetsOptions())
				if err != nil {
					return fmt.Errorf("init sheets exporter: %w", err)
				}
				exporter = exp
			}

			w := worker.NewExportWorker(a.backend.Store, exporter, a.logger)
			if err := w.StartupSync(ctx); err != nil {
				a.logger.Warn("Startup export failed", applog.FieldError, err)
			}

			a.logger.Info("Worker started", "queue", a.cfg.AMQPQueue)
			err := a.backend.AMQP.ConsumeLedgerEvents(ctx, func(e *amqp.LedgerEvent) error {
				return w.HandleEvent(ctx, e)
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			a.logger.Info("Worker stopped")
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "export to memory instead of Google Sheets")
	return cmd
}

// newEventsCmd prints ledger events as they arrive.
func newEventsCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "events",
		Short: "Print ledger events from the queue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.backend.AMQP == nil {
				return errNoBroker
			}
			ctx, cancel := cli.SignalContext(cmd.Context(), a.logger)
			defer cancel()

			out := cmd.OutOrStdout()
			err := a.backend.AMQP.ConsumeLedgerEvents(ctx, func(e *amqp.LedgerEvent) error {
				body, err := e.ToJSON()
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(out, string(body))
				return err
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
}
