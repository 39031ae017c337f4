package services

import (
	"context"
	"fmt"

	"shiftpay/internal/amqp"
	"shiftpay/internal/core"
	"shiftpay/internal/ledger"
	applog "shiftpay/internal/log"
	"shiftpay/internal/payroll"
	"shiftpay/internal/storage"
)

// EventPublisher receives an event after each committed mutation.
// *amqp.Client satisfies it.
type EventPublisher interface {
	PublishLedgerEvent(ctx context.Context, e *amqp.LedgerEvent) error
}

// LedgerService owns the in-memory ledger and keeps it in step with the store.
// It is not safe for concurrent use; callers that share it serialize access.
type LedgerService struct {
	ledger    *ledger.Ledger
	store     storage.Store
	publisher EventPublisher
	logger    *applog.Logger
}

// NewLedgerService wires a store and an optional publisher. The ledger starts
// empty until Open is called.
func NewLedgerService(store storage.Store, publisher EventPublisher, logger *applog.Logger) *LedgerService {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &LedgerService{
		ledger:    ledger.New(),
		store:     store,
		publisher: publisher,
		logger:    logger.WithComponent(applog.ComponentLedger),
	}
}

// Open loads persisted state. A load failure is logged and the ledger keeps
// its defaults.
func (s *LedgerService) Open(ctx context.Context) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "Could not load ledger, starting with defaults",
			applog.FieldOperation, applog.OpLoad, applog.FieldError, err)
		return
	}
	s.ledger.Restore(snap)

	shifts, meals := s.ledger.Len()
	s.logger.DebugContext(ctx, "Ledger loaded",
		"shifts", shifts, "meal_expenses", meals, applog.FieldHourlyRate, s.ledger.HourlyRate())
}

// SetWork records a work shift and the day's meal expense.
func (s *LedgerService) SetWork(ctx context.Context, date core.Date, hours, meal int64) error {
	return s.setDay(ctx, date, core.Work, hours, meal)
}

// SetOff records a day off. Meal expenses still count on off days.
func (s *LedgerService) SetOff(ctx context.Context, date core.Date, meal int64) error {
	return s.setDay(ctx, date, core.Off, 0, meal)
}

func (s *LedgerService) setDay(ctx context.Context, date core.Date, kind core.ShiftKind, hours, meal int64) error {
	if err := s.ledger.SetShift(date, kind, hours); err != nil {
		return fmt.Errorf("set shift: %w", err)
	}
	if err := s.ledger.SetMealExpense(date, meal); err != nil {
		return fmt.Errorf("set meal expense: %w", err)
	}

	if err := s.save(ctx); err != nil {
		return err
	}

	rec, _ := s.ledger.Shift(date)
	amount := s.ledger.MealExpense(date)
	s.logger.InfoContext(ctx, "Day updated", applog.NewFields().
		WithOperation(applog.OpSetDay).
		WithDay(date.String(), rec.Kind.String(), rec.Hours, amount).
		ToSlice()...)

	s.publish(ctx, amqp.NewDayUpdatedEvent(date.Normalize(), rec, amount))
	return nil
}

// ClearDay removes the day's shift and meal expense.
func (s *LedgerService) ClearDay(ctx context.Context, date core.Date) error {
	if err := date.Validate(); err != nil {
		return err
	}
	s.ledger.ClearDay(date)

	if err := s.save(ctx); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "Day cleared",
		applog.FieldOperation, applog.OpClearDay, applog.FieldDate, date.String())
	s.publish(ctx, amqp.NewDayClearedEvent(date.Normalize()))
	return nil
}

// UpdateHourlyRate replaces the rate. Non-positive values reset it to the default.
func (s *LedgerService) UpdateHourlyRate(ctx context.Context, rate int64) error {
	s.ledger.SetHourlyRate(rate)

	if err := s.save(ctx); err != nil {
		return err
	}

	current := s.ledger.HourlyRate()
	s.logger.InfoContext(ctx, "Hourly rate updated",
		applog.FieldOperation, applog.OpSetRate, applog.FieldHourlyRate, current)
	s.publish(ctx, amqp.NewSettingsUpdatedEvent(current))
	return nil
}

func (s *LedgerService) HourlyRate() int64 {
	return s.ledger.HourlyRate()
}

func (s *LedgerService) Summary(ym core.YearMonth) core.MonthSummary {
	return payroll.Summarize(s.ledger, ym)
}

func (s *LedgerService) MealReport(ym core.YearMonth) core.MealReport {
	return payroll.MealReport(s.ledger, ym)
}

func (s *LedgerService) Day(date core.Date) core.DayEntry {
	return s.ledger.Day(date)
}

func (s *LedgerService) Month(ym core.YearMonth) []core.DayEntry {
	return s.ledger.Month(ym)
}

func (s *LedgerService) save(ctx context.Context) error {
	if err := s.store.Save(ctx, s.ledger.Snapshot()); err != nil {
		applog.LogError(ctx, "Failed to save ledger", err, applog.ComponentStorage, applog.OpSave, nil)
		return fmt.Errorf("save ledger: %w", err)
	}
	return nil
}

// publish never fails the caller: the local ledger is authoritative.
func (s *LedgerService) publish(ctx context.Context, e *amqp.LedgerEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishLedgerEvent(ctx, e); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish ledger event",
			applog.FieldOperation, applog.OpPublish,
			applog.FieldEventType, string(e.Type),
			applog.FieldError, err)
	}
}

// Close releases the store.
func (s *LedgerService) Close() error {
	if s.store == nil {
		return nil
	}
	return s.store.Close()
}
