package worker

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"shiftpay/internal/amqp"
	"shiftpay/internal/cache"
	"shiftpay/internal/core"
	"shiftpay/internal/ledger"
	applog "shiftpay/internal/log"
	"shiftpay/internal/payroll"
	"shiftpay/internal/sheets"
	"shiftpay/internal/storage"
)

// ErrLoadLedger marks exports that failed before reaching the sheet because the
// store could not be read.
var ErrLoadLedger = errors.New("load ledger")

const (
	exportCacheSize = 24
	exportCacheTTL  = 6 * time.Hour
)

// ExportWorker mirrors ledger months to a sheet as change events arrive. It
// reads the store fresh for every export so it can run beside the process
// that owns the ledger.
type ExportWorker struct {
	store    storage.Store
	exporter sheets.MonthExporter
	exported *cache.LRUCache[string]
	logger   *applog.Logger
	now      func() time.Time
}

func NewExportWorker(store storage.Store, exporter sheets.MonthExporter, logger *applog.Logger) *ExportWorker {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &ExportWorker{
		store:    store,
		exporter: exporter,
		exported: cache.NewLRUCache[string](exportCacheSize, exportCacheTTL),
		logger:   logger.WithComponent(applog.ComponentSheets),
		now:      time.Now,
	}
}

// HandleEvent re-exports the month an event touched. Settings changes move
// every month's pay, so they refresh the current one.
func (w *ExportWorker) HandleEvent(ctx context.Context, e *amqp.LedgerEvent) error {
	ym, err := w.eventMonth(e)
	if err != nil {
		w.logger.WarnContext(ctx, "Skipping ledger event",
			"id", e.ID, applog.FieldEventType, string(e.Type), applog.FieldError, err)
		return nil
	}

	w.logger.InfoContext(ctx, "Processing ledger event",
		"id", e.ID, applog.FieldEventType, string(e.Type), applog.FieldMonth, ym.String())

	if e.Type == amqp.EventSettingsUpdated {
		w.exported.Delete(ym.String())
	}

	// An unreadable store will not fix itself on redelivery; the next event
	// or StartupSync exports once it is readable again.
	err = w.ExportMonth(ctx, ym)
	if errors.Is(err, ErrLoadLedger) {
		w.logger.WarnContext(ctx, "Ledger unreadable, dropping event",
			"id", e.ID, applog.FieldOperation, applog.OpLoad, applog.FieldError, err)
		return nil
	}
	return err
}

func (w *ExportWorker) eventMonth(e *amqp.LedgerEvent) (core.YearMonth, error) {
	switch e.Type {
	case amqp.EventDayUpdated, amqp.EventDayCleared:
		d, err := core.ParseDate(e.Date)
		if err != nil {
			return core.YearMonth{}, fmt.Errorf("event date %q: %w", e.Date, err)
		}
		return d.YearMonth(), nil
	case amqp.EventSettingsUpdated:
		return core.CurrentYearMonth(w.now()), nil
	default:
		return core.YearMonth{}, fmt.Errorf("unknown event type %q", e.Type)
	}
}

// ExportMonth pushes ym unless the same rows were already exported recently.
func (w *ExportWorker) ExportMonth(ctx context.Context, ym core.YearMonth) error {
	snap, err := w.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLoadLedger, err)
	}
	l := ledger.New()
	l.Restore(snap)

	days := l.Month(ym)
	summary := payroll.Summarize(l, ym)

	fingerprint, err := rowsFingerprint(sheets.BuildRows(days, summary))
	if err != nil {
		return err
	}
	if prev, ok := w.exported.Get(ym.String()); ok && prev == fingerprint {
		w.logger.DebugContext(ctx, "Month unchanged since last export", applog.FieldMonth, ym.String())
		return nil
	}

	if err := w.exporter.ExportMonth(ctx, ym, days, summary); err != nil {
		w.exported.Delete(ym.String())
		return fmt.Errorf("export %s: %w", ym, err)
	}
	w.exported.Set(ym.String(), fingerprint)

	w.logger.InfoContext(ctx, "Month exported",
		applog.FieldOperation, applog.OpExport,
		applog.FieldMonth, ym.String(),
		"net_salary", summary.NetSalary)
	return nil
}

// StartupSync exports the current and previous month so a worker that was
// down catches up without waiting for new events.
func (w *ExportWorker) StartupSync(ctx context.Context) error {
	current := core.CurrentYearMonth(w.now())
	for _, ym := range []core.YearMonth{current.Prev(), current} {
		if err := w.ExportMonth(ctx, ym); err != nil {
			return err
		}
	}
	return nil
}

func rowsFingerprint(rows [][]interface{}) (string, error) {
	raw, err := json.Marshal(rows)
	if err != nil {
		return "", fmt.Errorf("encode rows: %w", err)
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}
