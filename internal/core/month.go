package core

import (
	"fmt"
	"time"
)

// YearMonth is the calendar cursor: the month being displayed and summarized.
type YearMonth struct {
	Year  int
	Month time.Month
}

// NewYearMonth builds a cursor, rejecting months outside 1-12.
func NewYearMonth(year, month int) (YearMonth, error) {
	if month < 1 || month > 12 {
		return YearMonth{}, fmt.Errorf("month %d: %w", month, ErrInvalidYearMonth)
	}
	return YearMonth{Year: year, Month: time.Month(month)}, nil
}

// CurrentYearMonth returns the month containing now.
func CurrentYearMonth(now time.Time) YearMonth {
	return YearMonth{Year: now.Year(), Month: now.Month()}
}

// ParseYearMonth parses "YYYY-MM".
func ParseYearMonth(s string) (YearMonth, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return YearMonth{}, fmt.Errorf("%q: %w", s, ErrInvalidYearMonth)
	}
	return YearMonth{Year: t.Year(), Month: t.Month()}, nil
}

// Prev steps back one month, wrapping January to December of the prior year.
func (ym YearMonth) Prev() YearMonth {
	if ym.Month == time.January {
		return YearMonth{Year: ym.Year - 1, Month: time.December}
	}
	return YearMonth{Year: ym.Year, Month: ym.Month - 1}
}

// Next steps forward one month, wrapping December to January of the next year.
func (ym YearMonth) Next() YearMonth {
	if ym.Month == time.December {
		return YearMonth{Year: ym.Year + 1, Month: time.January}
	}
	return YearMonth{Year: ym.Year, Month: ym.Month + 1}
}

// Contains reports whether d falls in this month.
func (ym YearMonth) Contains(d Date) bool {
	return d.Year() == ym.Year && d.Time.Month() == ym.Month
}

// First returns the first day of the month.
func (ym YearMonth) First() Date {
	return NewDate(ym.Year, int(ym.Month), 1)
}

// DaysIn returns the number of days in the month.
func (ym YearMonth) DaysIn() int {
	return ym.First().AddDate(0, 1, -1).Day()
}

// FirstWeekday is the Monday-based column (0-6) of the month's first day.
func (ym YearMonth) FirstWeekday() int {
	return (int(ym.First().Weekday()) + 6) % 7
}

// Dates lists every day of the month in order.
func (ym YearMonth) Dates() []Date {
	n := ym.DaysIn()
	out := make([]Date, 0, n)
	for day := 1; day <= n; day++ {
		out = append(out, NewDate(ym.Year, int(ym.Month), day))
	}
	return out
}

// Title is the calendar header, e.g. "March 2024".
func (ym YearMonth) Title() string {
	return fmt.Sprintf("%s %d", ym.Month, ym.Year)
}

func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}
