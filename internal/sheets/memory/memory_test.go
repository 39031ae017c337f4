package memory

import (
	"context"
	"testing"
	"time"

	"shiftpay/internal/core"
)

func TestStoreExportMonth(t *testing.T) {
	s := New("")
	ctx := context.Background()
	march := core.YearMonth{Year: 2024, Month: time.March}
	days := []core.DayEntry{{Date: core.NewDate(2024, 3, 1), Shift: core.ShiftRecord{Kind: core.Work, Hours: 8}, HasShift: true}}

	if err := s.ExportMonth(ctx, march, days, core.MonthSummary{}); err != nil {
		t.Fatalf("ExportMonth: %v", err)
	}
	if err := s.ExportMonth(ctx, march.Prev(), nil, core.MonthSummary{}); err != nil {
		t.Fatalf("ExportMonth: %v", err)
	}

	titles := s.Titles()
	if len(titles) != 2 || titles[0] != "2024-02 Shifts" || titles[1] != "2024-03 Shifts" {
		t.Fatalf("titles = %v", titles)
	}

	rows, ok := s.Sheet("2024-03 Shifts")
	if !ok || rows[1][1] != "work" {
		t.Fatalf("unexpected rows %v", rows)
	}

	if err := s.ExportMonth(ctx, march, nil, core.MonthSummary{}); err != nil {
		t.Fatal(err)
	}
	rows, _ = s.Sheet("2024-03 Shifts")
	if len(rows[1]) != 0 {
		t.Errorf("re-export should replace the sheet")
	}
}
