// Package ledger holds the shift and meal-expense state for a single user.
//
// A Ledger is an owned value: callers pass it by reference to whoever needs to
// read it and mutate it only through SetShift, SetMealExpense, ClearDay and
// SetHourlyRate. It is not safe for concurrent use.
package ledger

import (
	"sort"

	"shiftpay/internal/core"
)

type Ledger struct {
	shifts     map[core.Date]core.ShiftRecord
	meals      map[core.Date]int64
	hourlyRate int64
}

// Snapshot is the flat, persistable form of a Ledger.
type Snapshot struct {
	Shifts       map[core.Date]core.ShiftRecord
	MealExpenses map[core.Date]int64
	HourlyRate   int64
}

// New returns an empty ledger with the default hourly rate.
func New() *Ledger {
	return &Ledger{
		shifts:     make(map[core.Date]core.ShiftRecord),
		meals:      make(map[core.Date]int64),
		hourlyRate: core.DefaultHourlyRate,
	}
}

// SetShift inserts or replaces the shift at date. Negative hours are clamped to
// zero and Off days always store zero hours.
func (l *Ledger) SetShift(date core.Date, kind core.ShiftKind, hours int64) error {
	if !kind.Valid() {
		return core.ErrInvalidKind
	}
	if err := date.Validate(); err != nil {
		return err
	}
	if hours < 0 || kind == core.Off {
		hours = 0
	}
	l.shifts[date.Normalize()] = core.ShiftRecord{Kind: kind, Hours: hours}
	return nil
}

// SetMealExpense stores a positive amount at date; zero or less removes the entry.
func (l *Ledger) SetMealExpense(date core.Date, amount int64) error {
	if err := date.Validate(); err != nil {
		return err
	}
	key := date.Normalize()
	if amount <= 0 {
		delete(l.meals, key)
		return nil
	}
	l.meals[key] = amount
	return nil
}

// ClearDay removes both the shift and the meal expense at date, if present.
func (l *Ledger) ClearDay(date core.Date) {
	key := date.Normalize()
	delete(l.shifts, key)
	delete(l.meals, key)
}

// Shift returns the record at date.
func (l *Ledger) Shift(date core.Date) (core.ShiftRecord, bool) {
	r, ok := l.shifts[date.Normalize()]
	return r, ok
}

// MealExpense returns the amount at date; absent entries read as 0.
func (l *Ledger) MealExpense(date core.Date) int64 {
	return l.meals[date.Normalize()]
}

// Day gathers everything recorded for date.
func (l *Ledger) Day(date core.Date) core.DayEntry {
	rec, ok := l.Shift(date)
	return core.DayEntry{
		Date:        date.Normalize(),
		Shift:       rec,
		HasShift:    ok,
		MealExpense: l.MealExpense(date),
	}
}

// Month returns an entry for every date of ym in calendar order.
func (l *Ledger) Month(ym core.YearMonth) []core.DayEntry {
	dates := ym.Dates()
	days := make([]core.DayEntry, 0, len(dates))
	for _, d := range dates {
		days = append(days, l.Day(d))
	}
	return days
}

func (l *Ledger) HourlyRate() int64 {
	return l.hourlyRate
}

// SetHourlyRate replaces the rate. Non-positive values reset it to the default.
func (l *Ledger) SetHourlyRate(rate int64) {
	if rate <= 0 {
		rate = core.DefaultHourlyRate
	}
	l.hourlyRate = rate
}

// EachShift calls fn for every shift in date order.
func (l *Ledger) EachShift(fn func(core.Date, core.ShiftRecord)) {
	for _, d := range sortedKeys(l.shifts) {
		fn(d, l.shifts[d])
	}
}

// EachMealExpense calls fn for every meal expense in date order.
func (l *Ledger) EachMealExpense(fn func(core.Date, int64)) {
	for _, d := range sortedKeys(l.meals) {
		fn(d, l.meals[d])
	}
}

// Len returns the number of shift records and meal expenses.
func (l *Ledger) Len() (shifts, meals int) {
	return len(l.shifts), len(l.meals)
}

// Snapshot copies the current state.
func (l *Ledger) Snapshot() Snapshot {
	s := Snapshot{
		Shifts:       make(map[core.Date]core.ShiftRecord, len(l.shifts)),
		MealExpenses: make(map[core.Date]int64, len(l.meals)),
		HourlyRate:   l.hourlyRate,
	}
	for d, r := range l.shifts {
		s.Shifts[d] = r
	}
	for d, a := range l.meals {
		s.MealExpenses[d] = a
	}
	return s
}

// Restore replaces the state with s. Entries that the mutators would reject
// are dropped, so a restored ledger holds the same invariants as a built one.
func (l *Ledger) Restore(s Snapshot) {
	l.shifts = make(map[core.Date]core.ShiftRecord, len(s.Shifts))
	l.meals = make(map[core.Date]int64, len(s.MealExpenses))
	for d, r := range s.Shifts {
		_ = l.SetShift(d, r.Kind, r.Hours)
	}
	for d, a := range s.MealExpenses {
		_ = l.SetMealExpense(d, a)
	}
	l.SetHourlyRate(s.HourlyRate)
}

func sortedKeys[V any](m map[core.Date]V) []core.Date {
	keys := make([]core.Date, 0, len(m))
	for d := range m {
		keys = append(keys, d)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })
	return keys
}
