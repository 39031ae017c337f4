// Package jsonfile stores the ledger as a single indented JSON document:
//
//	{
//	  "shifts": {"2024-03-01": {"type": "work", "hours": 8}},
//	  "food_expenses": {"2024-03-01": 700},
//	  "hourly_rate": 500
//	}
//
// Missing top-level fields fall back to an empty map and the default rate.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"shiftpay/internal/core"
	"shiftpay/internal/ledger"
	"shiftpay/internal/storage"
)

type shiftEntry struct {
	Type  string `json:"type"`
	Hours int64  `json:"hours"`
}

type document struct {
	Shifts       map[string]shiftEntry `json:"shifts"`
	FoodExpenses map[string]int64      `json:"food_expenses"`
	HourlyRate   int64                 `json:"hourly_rate"`
}

// Store reads and writes the ledger file at path.
type Store struct {
	path string
}

var _ storage.Store = (*Store)(nil)

func New(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string { return s.path }

// Load decodes the file. A missing file yields an empty ledger and no error;
// a malformed one is rejected whole.
func (s *Store) Load(ctx context.Context) (ledger.Snapshot, error) {
	snap := ledger.Snapshot{
		Shifts:       make(map[core.Date]core.ShiftRecord),
		MealExpenses: make(map[core.Date]int64),
		HourlyRate:   core.DefaultHourlyRate,
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.DebugContext(ctx, "Ledger file not found, starting empty", "path", s.path)
		return snap, nil
	}
	if err != nil {
		return ledger.Snapshot{}, fmt.Errorf("read ledger file: %w", err)
	}

	doc := document{HourlyRate: core.DefaultHourlyRate}
	if err := json.Unmarshal(data, &doc); err != nil {
		return ledger.Snapshot{}, fmt.Errorf("decode ledger file %s: %w", s.path, err)
	}

	for key, entry := range doc.Shifts {
		d, err := core.ParseDate(key)
		if err != nil {
			return ledger.Snapshot{}, fmt.Errorf("shift key %q: %w", key, err)
		}
		kind, err := core.ParseShiftKind(entry.Type)
		if err != nil {
			return ledger.Snapshot{}, fmt.Errorf("shift %s: %w", key, err)
		}
		snap.Shifts[d] = core.ShiftRecord{Kind: kind, Hours: entry.Hours}
	}
	for key, amount := range doc.FoodExpenses {
		d, err := core.ParseDate(key)
		if err != nil {
			return ledger.Snapshot{}, fmt.Errorf("food expense key %q: %w", key, err)
		}
		snap.MealExpenses[d] = amount
	}
	snap.HourlyRate = doc.HourlyRate

	return snap, nil
}

// Save writes the snapshot next to the target and renames it into place, so a
// failed write never leaves a truncated ledger behind.
func (s *Store) Save(ctx context.Context, snap ledger.Snapshot) error {
	doc := document{
		Shifts:       make(map[string]shiftEntry, len(snap.Shifts)),
		FoodExpenses: make(map[string]int64, len(snap.MealExpenses)),
		HourlyRate:   snap.HourlyRate,
	}
	for d, rec := range snap.Shifts {
		doc.Shifts[d.String()] = shiftEntry{Type: rec.Kind.String(), Hours: rec.Hours}
	}
	for d, amount := range snap.MealExpenses {
		doc.FoodExpenses[d.String()] = amount
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode ledger: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create ledger directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write ledger: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace ledger file: %w", err)
	}

	slog.DebugContext(ctx, "Ledger saved", "path", s.path, "shifts", len(snap.Shifts))
	return nil
}

func (s *Store) Close() error { return nil }
