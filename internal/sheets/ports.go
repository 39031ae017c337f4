package sheets

import (
	"context"
	"fmt"

	"shiftpay/internal/core"
)

// MonthExporter writes one month of the ledger to an outbound sheet.
type MonthExporter interface {
	ExportMonth(ctx context.Context, ym core.YearMonth, days []core.DayEntry, summary core.MonthSummary) error
}

var header = []interface{}{"Date", "Type", "Hours", "Meal", "Deduction"}

// SheetTitle names the per-month sheet, e.g. "2024-03 Shifts".
func SheetTitle(ym core.YearMonth, base string) string {
	return fmt.Sprintf("%s %s", ym, base)
}

// BuildRows lays out a month: a header, one row per day, a blank row and the
// statistics block. Unset cells are empty strings so the sheet stays sparse.
func BuildRows(days []core.DayEntry, s core.MonthSummary) [][]interface{} {
	rows := make([][]interface{}, 0, len(days)+12)
	rows = append(rows, header)

	for _, d := range days {
		row := []interface{}{d.Date.String(), d.Kind(), "", "", ""}
		if d.HasShift && d.Shift.IsWork() {
			row[2] = d.Shift.Hours
		}
		if d.MealExpense > 0 {
			row[3] = d.MealExpense
			row[4] = core.MealDeduction(d.MealExpense)
		}
		rows = append(rows, row)
	}

	rows = append(rows,
		[]interface{}{},
		[]interface{}{"Shifts", s.ShiftCount},
		[]interface{}{"Total hours", s.TotalHours},
		[]interface{}{"Hourly rate", s.HourlyRate},
		[]interface{}{"Gross salary", s.GrossSalary},
		[]interface{}{"Meal spend", s.TotalMealSpend},
		[]interface{}{"Meal deduction", s.TotalMealDeduction},
		[]interface{}{"Net salary", s.NetSalary},
		[]interface{}{fmt.Sprintf("Advance (%s)", s.Advance.Period.Caption()), s.Advance.Pay},
		[]interface{}{fmt.Sprintf("Remainder (%s)", s.Remainder.Period.Caption()), s.Remainder.Pay},
	)
	return rows
}
