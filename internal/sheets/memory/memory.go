package memory

import (
	"context"
	"sort"
	"sync"

	"shiftpay/internal/core"
	ports "shiftpay/internal/sheets"
)

// Store keeps exported months in memory, keyed by sheet title. It backs
// dry-run exports and tests.
type Store struct {
	mu       sync.Mutex
	baseName string
	sheets   map[string][][]interface{}
}

var _ ports.MonthExporter = (*Store)(nil)

func New(baseName string) *Store {
	if baseName == "" {
		baseName = "Shifts"
	}
	return &Store{baseName: baseName, sheets: make(map[string][][]interface{})}
}

// ExportMonth replaces the month's sheet with freshly built rows.
func (s *Store) ExportMonth(_ context.Context, ym core.YearMonth, days []core.DayEntry, summary core.MonthSummary) error {
	rows := ports.BuildRows(days, summary)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sheets[ports.SheetTitle(ym, s.baseName)] = rows
	return nil
}

// Sheet returns the rows stored under title.
func (s *Store) Sheet(title string) ([][]interface{}, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, ok := s.sheets[title]
	return rows, ok
}

// Titles lists the stored sheets in order.
func (s *Store) Titles() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.sheets))
	for t := range s.sheets {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
