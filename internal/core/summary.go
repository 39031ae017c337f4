package core

// Period identifies one half of the pay month.
type Period int

const (
	// FirstHalf covers days 1-15 and is paid as the advance.
	FirstHalf Period = iota + 1
	// SecondHalf covers day 16 to the end of the month and is paid as the remainder.
	SecondHalf
)

// Includes reports whether d falls in the period. Months are not checked.
func (p Period) Includes(d Date) bool {
	switch p {
	case FirstHalf:
		return d.InFirstHalf()
	case SecondHalf:
		return !d.InFirstHalf()
	default:
		return false
	}
}

func (p Period) String() string {
	switch p {
	case FirstHalf:
		return "advance"
	case SecondHalf:
		return "remainder"
	default:
		return "unknown"
	}
}

// Caption is the payment-day label shown next to the period figure.
func (p Period) Caption() string {
	if p == FirstHalf {
		return AdvanceCaption
	}
	return RemainderCaption
}

// PeriodPay is the pay component earned in one half of the month.
type PeriodPay struct {
	Period        Period
	Hours         int64
	MealDeduction int64
	Pay           int64 // Hours*rate - MealDeduction, may be negative
}

// MonthSummary is the statistics block for one year+month.
type MonthSummary struct {
	Month              YearMonth
	HourlyRate         int64
	ShiftCount         int
	TotalHours         int64
	GrossSalary        int64
	TotalMealSpend     int64
	TotalMealDeduction int64
	NetSalary          int64 // may be negative
	Advance            PeriodPay
	Remainder          PeriodPay
}

// MealDay is one logged meal expense with its deduction.
type MealDay struct {
	Date      Date
	Amount    int64
	Deduction int64
}

// MealReport summarizes meal spending for a month.
type MealReport struct {
	Month          YearMonth
	Allowance      int64
	TotalSpend     int64
	TotalDeduction int64
	Days           []MealDay
}

// DayEntry is everything recorded for one date.
type DayEntry struct {
	Date        Date
	Shift       ShiftRecord
	HasShift    bool
	MealExpense int64
}

// Kind returns the shift kind, or "" when the day is unset.
func (e DayEntry) Kind() string {
	if !e.HasShift {
		return ""
	}
	return e.Shift.Kind.String()
}
