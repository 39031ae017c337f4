// Package core provides amount parsing and formatting utilities.
//
// Amounts, hours and rates are whole numbers in a single currency unit. The
// front ends accept raw text from the user; the helpers here turn that text into
// the values the ledger expects, substituting the documented defaults for input
// that is not a whole number.
package core

import (
	"errors"
	"strconv"
	"strings"
	"unicode"

	"github.com/dustin/go-humanize"
)

var ErrInvalidNumber = errors.New("invalid number")

// ParseWholeNumber parses a non-negative integer made of ASCII digits only.
//
// Surrounding whitespace is ignored. Signs, separators and decimals are rejected,
// matching an integer-only input field.
//
// Examples:
//
//	ParseWholeNumber("700")  -> 700, nil
//	ParseWholeNumber(" 8 ")  -> 8, nil
//	ParseWholeNumber("-1")   -> 0, ErrInvalidNumber
//	ParseWholeNumber("7.5")  -> 0, ErrInvalidNumber
func ParseWholeNumber(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidNumber
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return 0, ErrInvalidNumber
		}
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, ErrInvalidNumber
	}
	return v, nil
}

// HoursOrDefault parses an hours field, falling back to DefaultWorkHours.
func HoursOrDefault(s string) int64 {
	v, err := ParseWholeNumber(s)
	if err != nil {
		return DefaultWorkHours
	}
	return v
}

// AmountOrDefault parses a meal expense field, falling back to 0.
func AmountOrDefault(s string) int64 {
	v, err := ParseWholeNumber(s)
	if err != nil {
		return 0
	}
	return v
}

// RateOrDefault parses an hourly rate field. Anything that is not a positive
// whole number yields DefaultHourlyRate.
func RateOrDefault(s string) int64 {
	v, err := ParseWholeNumber(s)
	if err != nil || v <= 0 {
		return DefaultHourlyRate
	}
	return v
}

// FormatAmount renders an amount with thousands separators, e.g. 12,500 or -300.
func FormatAmount(v int64) string {
	return humanize.Comma(v)
}

// MealDeduction is the part of one day's meal expense above the free allowance.
func MealDeduction(amount int64) int64 {
	if amount > DailyMealAllowance {
		return amount - DailyMealAllowance
	}
	return 0
}
