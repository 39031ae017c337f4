package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"shiftpay/internal/core"
	"shiftpay/internal/ledger"

	_ "modernc.org/sqlite"
)

const (
	selectShiftsSQL       = `SELECT date, kind, hours FROM shifts`
	selectMealExpensesSQL = `SELECT date, amount FROM meal_expenses`
	selectHourlyRateSQL   = `SELECT value FROM settings WHERE key = 'hourly_rate'`

	deleteShiftsSQL       = `DELETE FROM shifts`
	deleteMealExpensesSQL = `DELETE FROM meal_expenses`
	insertShiftSQL        = `INSERT INTO shifts (date, kind, hours) VALUES (?, ?, ?)`
	insertMealExpenseSQL  = `INSERT INTO meal_expenses (date, amount) VALUES (?, ?)`
	upsertHourlyRateSQL   = `INSERT INTO settings (key, value) VALUES ('hourly_rate', ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`
)

// SQLiteRepository keeps the ledger in three tables: shifts, meal_expenses and
// settings. Dates are stored as ISO text.
type SQLiteRepository struct {
	db   *sql.DB
	path string
}

var _ Store = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db, path: dbPath}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Load reads the whole ledger. Rows that do not parse make the load fail as a
// whole; no partial state is returned.
func (r *SQLiteRepository) Load(ctx context.Context) (ledger.Snapshot, error) {
	snap := ledger.Snapshot{
		Shifts:       make(map[core.Date]core.ShiftRecord),
		MealExpenses: make(map[core.Date]int64),
		HourlyRate:   core.DefaultHourlyRate,
	}

	rows, err := r.db.QueryContext(ctx, selectShiftsSQL)
	if err != nil {
		return ledger.Snapshot{}, fmt.Errorf("query shifts: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			date, kind string
			hours      int64
		)
		if err := rows.Scan(&date, &kind, &hours); err != nil {
			return ledger.Snapshot{}, fmt.Errorf("scan shift: %w", err)
		}
		d, err := core.ParseDate(date)
		if err != nil {
			return ledger.Snapshot{}, fmt.Errorf("shift date %q: %w", date, err)
		}
		k, err := core.ParseShiftKind(kind)
		if err != nil {
			return ledger.Snapshot{}, fmt.Errorf("shift kind %q on %s: %w", kind, date, err)
		}
		snap.Shifts[d] = core.ShiftRecord{Kind: k, Hours: hours}
	}
	if err := rows.Err(); err != nil {
		return ledger.Snapshot{}, fmt.Errorf("iterate shifts: %w", err)
	}

	mealRows, err := r.db.QueryContext(ctx, selectMealExpensesSQL)
	if err != nil {
		return ledger.Snapshot{}, fmt.Errorf("query meal expenses: %w", err)
	}
	defer mealRows.Close()
	for mealRows.Next() {
		var (
			date   string
			amount int64
		)
		if err := mealRows.Scan(&date, &amount); err != nil {
			return ledger.Snapshot{}, fmt.Errorf("scan meal expense: %w", err)
		}
		d, err := core.ParseDate(date)
		if err != nil {
			return ledger.Snapshot{}, fmt.Errorf("meal expense date %q: %w", date, err)
		}
		snap.MealExpenses[d] = amount
	}
	if err := mealRows.Err(); err != nil {
		return ledger.Snapshot{}, fmt.Errorf("iterate meal expenses: %w", err)
	}

	var rate int64
	err = r.db.QueryRowContext(ctx, selectHourlyRateSQL).Scan(&rate)
	switch {
	case err == sql.ErrNoRows:
	case err != nil:
		return ledger.Snapshot{}, fmt.Errorf("query hourly rate: %w", err)
	default:
		snap.HourlyRate = rate
	}

	return snap, nil
}

// Save replaces every stored row with the snapshot in a single transaction.
func (r *SQLiteRepository) Save(ctx context.Context, s ledger.Snapshot) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, deleteShiftsSQL); err != nil {
		return fmt.Errorf("clear shifts: %w", err)
	}
	if _, err := tx.ExecContext(ctx, deleteMealExpensesSQL); err != nil {
		return fmt.Errorf("clear meal expenses: %w", err)
	}

	for d, rec := range s.Shifts {
		if _, err := tx.ExecContext(ctx, insertShiftSQL, d.String(), rec.Kind.String(), rec.Hours); err != nil {
			return fmt.Errorf("insert shift %s: %w", d, err)
		}
	}
	for d, amount := range s.MealExpenses {
		if _, err := tx.ExecContext(ctx, insertMealExpenseSQL, d.String(), amount); err != nil {
			return fmt.Errorf("insert meal expense %s: %w", d, err)
		}
	}

	rate := s.HourlyRate
	if rate <= 0 {
		rate = core.DefaultHourlyRate
	}
	if _, err := tx.ExecContext(ctx, upsertHourlyRateSQL, rate); err != nil {
		return fmt.Errorf("store hourly rate: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit ledger: %w", err)
	}

	slog.DebugContext(ctx, "Ledger saved to SQLite",
		"path", r.path,
		"shifts", len(s.Shifts),
		"meal_expenses", len(s.MealExpenses))
	return nil
}
