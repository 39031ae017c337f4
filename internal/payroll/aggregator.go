// Package payroll turns ledger contents into the monthly statistics block.
//
// Every function here is pure: it reads through Source, never mutates it, and
// recomputes from scratch on each call.
package payroll

import (
	"shiftpay/internal/core"
)

// Source is the read-only view of a ledger the aggregator needs.
// *ledger.Ledger satisfies it.
type Source interface {
	EachShift(fn func(core.Date, core.ShiftRecord))
	EachMealExpense(fn func(core.Date, int64))
	HourlyRate() int64
}

type totals struct {
	shifts    int
	hours     int64
	spend     int64
	deduction int64
}

// tally folds the shifts and meal expenses of ym that satisfy keep.
func tally(src Source, ym core.YearMonth, keep func(core.Date) bool) totals {
	var t totals
	src.EachShift(func(d core.Date, r core.ShiftRecord) {
		if !ym.Contains(d) || !keep(d) || !r.IsWork() {
			return
		}
		t.shifts++
		t.hours += r.Hours
	})
	src.EachMealExpense(func(d core.Date, amount int64) {
		if !ym.Contains(d) || !keep(d) {
			return
		}
		t.spend += amount
		t.deduction += core.MealDeduction(amount)
	})
	return t
}

// SummarizePeriod computes the pay component for one half of ym.
func SummarizePeriod(src Source, ym core.YearMonth, p core.Period) core.PeriodPay {
	t := tally(src, ym, p.Includes)
	return core.PeriodPay{
		Period:        p,
		Hours:         t.hours,
		MealDeduction: t.deduction,
		Pay:           t.hours*src.HourlyRate() - t.deduction,
	}
}

// Summarize computes the full statistics block for ym. Figures are not floored:
// meal deductions above earned pay produce negative net and period values.
func Summarize(src Source, ym core.YearMonth) core.MonthSummary {
	rate := src.HourlyRate()
	t := tally(src, ym, func(core.Date) bool { return true })
	gross := t.hours * rate

	return core.MonthSummary{
		Month:              ym,
		HourlyRate:         rate,
		ShiftCount:         t.shifts,
		TotalHours:         t.hours,
		GrossSalary:        gross,
		TotalMealSpend:     t.spend,
		TotalMealDeduction: t.deduction,
		NetSalary:          gross - t.deduction,
		Advance:            SummarizePeriod(src, ym, core.FirstHalf),
		Remainder:          SummarizePeriod(src, ym, core.SecondHalf),
	}
}

// MealReport lists the month's meal expenses with their deductions.
func MealReport(src Source, ym core.YearMonth) core.MealReport {
	report := core.MealReport{
		Month:     ym,
		Allowance: core.DailyMealAllowance,
	}
	src.EachMealExpense(func(d core.Date, amount int64) {
		if !ym.Contains(d) {
			return
		}
		deduction := core.MealDeduction(amount)
		report.TotalSpend += amount
		report.TotalDeduction += deduction
		report.Days = append(report.Days, core.MealDay{Date: d, Amount: amount, Deduction: deduction})
	})
	return report
}
