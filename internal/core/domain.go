package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	Work ShiftKind = "work"
	Off  ShiftKind = "off"
)

const (
	// DefaultHourlyRate is used when no rate has been configured.
	DefaultHourlyRate int64 = 500
	// DailyMealAllowance is the part of a day's meal expense that never reduces pay.
	// It does not follow the hourly rate.
	DailyMealAllowance int64 = 500
	// DefaultWorkHours is what the day editor assumes for a work shift.
	DefaultWorkHours int64 = 8
	// FirstHalfLastDay closes the advance period; later days belong to the remainder.
	FirstHalfLastDay = 15
)

// Payment-day captions shown next to the two period figures. They are labels
// only and play no part in the 1-15 / 16-end partition.
const (
	AdvanceCaption   = "20th"
	RemainderCaption = "5th"
)

const isoLayout = "2006-01-02"

type (
	ShiftKind string

	Date struct {
		time.Time
	}

	// ShiftRecord is the single current shift state of a calendar day.
	ShiftRecord struct {
		Kind  ShiftKind
		Hours int64 // always 0 for Off
	}
)

var (
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidKind      = errors.New("invalid shift kind")
	ErrInvalidYearMonth = errors.New("invalid year-month")
)

// ParseShiftKind accepts "work" or "off" in any case.
func ParseShiftKind(s string) (ShiftKind, error) {
	switch ShiftKind(strings.ToLower(strings.TrimSpace(s))) {
	case Work:
		return Work, nil
	case Off:
		return Off, nil
	default:
		return "", ErrInvalidKind
	}
}

func (k ShiftKind) Valid() bool {
	return k == Work || k == Off
}

func (k ShiftKind) String() string {
	return string(k)
}

// NewDate creates a Date at midnight UTC. All ledger keys are built this way so
// that equal calendar days compare equal.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses an ISO YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(isoLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// DateOf drops the clock part of t, keeping its calendar day.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

func (d Date) Validate() error {
	if d.IsZero() {
		return fmt.Errorf("%w: date cannot be zero", ErrInvalidDate)
	}
	return nil
}

// Normalize returns the same calendar day at midnight UTC.
func (d Date) Normalize() Date {
	return NewDate(d.Year(), d.Month(), d.Day())
}

// Day returns the day of the month
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year
func (d Date) Year() int {
	return d.Time.Year()
}

// YearMonth returns the month this date falls in.
func (d Date) YearMonth() YearMonth {
	return YearMonth{Year: d.Year(), Month: d.Time.Month()}
}

// InFirstHalf reports whether the day counts towards the advance period.
func (d Date) InFirstHalf() bool {
	return d.Day() <= FirstHalfLastDay
}

func (d Date) String() string {
	return d.Time.Format(isoLayout)
}

func (d Date) Before(other Date) bool {
	return d.Time.Before(other.Time)
}

func (r ShiftRecord) IsWork() bool {
	return r.Kind == Work
}
