package core

import (
	"errors"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"2024-03-01", true},
		{" 2024-12-31 ", true},
		{"2024-02-30", false},
		{"2024-3-1", false},
		{"", false},
		{"yesterday", false},
	}
	for _, tc := range cases {
		d, err := ParseDate(tc.in)
		if tc.ok {
			if err != nil {
				t.Fatalf("%q expected ok, got %v", tc.in, err)
			}
			if err := d.Validate(); err != nil {
				t.Fatalf("%q parsed to invalid date: %v", tc.in, err)
			}
		} else if !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("%q expected ErrInvalidDate, got %v", tc.in, err)
		}
	}
}

func TestDateKeysCompareEqual(t *testing.T) {
	parsed, err := ParseDate("2024-03-20")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	built := NewDate(2024, 3, 20)
	fromClock := DateOf(time.Date(2024, 3, 20, 17, 45, 0, 0, time.FixedZone("X", 3*3600)))
	if parsed != built || built != fromClock {
		t.Fatalf("expected identical keys, got %v %v %v", parsed, built, fromClock)
	}
	if built.String() != "2024-03-20" {
		t.Fatalf("unexpected String(): %s", built)
	}
}

func TestDateValidate(t *testing.T) {
	if err := NewDate(2025, 1, 1).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Date{}).Validate(); err == nil {
		t.Fatalf("expected error for zero date")
	}
}

func TestDateHalves(t *testing.T) {
	cases := []struct {
		day   int
		first bool
	}{
		{1, true},
		{15, true},
		{16, false},
		{31, false},
	}
	for _, tc := range cases {
		d := NewDate(2024, 1, tc.day)
		if d.InFirstHalf() != tc.first {
			t.Fatalf("day %d: InFirstHalf=%v", tc.day, d.InFirstHalf())
		}
		if FirstHalf.Includes(d) != tc.first || SecondHalf.Includes(d) == tc.first {
			t.Fatalf("day %d: period membership mismatch", tc.day)
		}
	}
}

func TestParseShiftKind(t *testing.T) {
	for in, want := range map[string]ShiftKind{"work": Work, "OFF": Off, " Work ": Work} {
		got, err := ParseShiftKind(in)
		if err != nil || got != want {
			t.Fatalf("%q: got %q err=%v", in, got, err)
		}
	}
	if _, err := ParseShiftKind("holiday"); !errors.Is(err, ErrInvalidKind) {
		t.Fatalf("expected ErrInvalidKind, got %v", err)
	}
	if ShiftKind("").Valid() {
		t.Fatalf("empty kind must be invalid")
	}
}

func TestPeriodCaptions(t *testing.T) {
	if FirstHalf.Caption() != "20th" || SecondHalf.Caption() != "5th" {
		t.Fatalf("unexpected captions %s/%s", FirstHalf.Caption(), SecondHalf.Caption())
	}
}
