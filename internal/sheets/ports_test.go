package sheets

import (
	"testing"
	"time"

	"shiftpay/internal/core"
)

func TestSheetTitle(t *testing.T) {
	ym := core.YearMonth{Year: 2024, Month: time.March}
	if got := SheetTitle(ym, "Shifts"); got != "2024-03 Shifts" {
		t.Errorf("SheetTitle = %q", got)
	}
}

func TestBuildRows(t *testing.T) {
	days := []core.DayEntry{
		{Date: core.NewDate(2024, 3, 1), Shift: core.ShiftRecord{Kind: core.Work, Hours: 8}, HasShift: true, MealExpense: 700},
		{Date: core.NewDate(2024, 3, 2), Shift: core.ShiftRecord{Kind: core.Off}, HasShift: true},
		{Date: core.NewDate(2024, 3, 3)},
	}
	summary := core.MonthSummary{
		ShiftCount: 1, TotalHours: 8, HourlyRate: 500, GrossSalary: 4000,
		TotalMealSpend: 700, TotalMealDeduction: 200, NetSalary: 3800,
		Advance:   core.PeriodPay{Period: core.FirstHalf, Pay: 3800},
		Remainder: core.PeriodPay{Period: core.SecondHalf},
	}

	rows := BuildRows(days, summary)

	if len(rows) != 1+len(days)+1+9 {
		t.Fatalf("rows = %d", len(rows))
	}
	if rows[0][0] != "Date" {
		t.Errorf("header = %v", rows[0])
	}

	work := rows[1]
	if work[0] != "2024-03-01" || work[1] != "work" || work[2] != int64(8) || work[3] != int64(700) || work[4] != int64(200) {
		t.Errorf("work row = %v", work)
	}
	off := rows[2]
	if off[1] != "off" || off[2] != "" || off[3] != "" {
		t.Errorf("off row = %v", off)
	}
	if unset := rows[3]; unset[1] != "" {
		t.Errorf("unset row = %v", unset)
	}
	if len(rows[4]) != 0 {
		t.Errorf("expected blank separator, got %v", rows[4])
	}

	last := rows[len(rows)-1]
	if last[0] != "Remainder (5th)" || last[1] != int64(0) {
		t.Errorf("remainder row = %v", last)
	}
	advance := rows[len(rows)-2]
	if advance[0] != "Advance (20th)" || advance[1] != int64(3800) {
		t.Errorf("advance row = %v", advance)
	}
}
