package core

import "testing"

func TestParseWholeNumber(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"0", 0, true},
		{"8", 8, true},
		{" 700 ", 700, true},
		{"-1", 0, false},
		{"+1", 0, false},
		{"7.5", 0, false},
		{"1,000", 0, false},
		{"abc", 0, false},
		{"", 0, false},
		{"99999999999999999999", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseWholeNumber(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else if err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestFieldDefaults(t *testing.T) {
	if got := HoursOrDefault(""); got != 8 {
		t.Fatalf("HoursOrDefault(\"\") = %d, want 8", got)
	}
	if got := HoursOrDefault("6"); got != 6 {
		t.Fatalf("HoursOrDefault(\"6\") = %d, want 6", got)
	}
	if got := HoursOrDefault("0"); got != 0 {
		t.Fatalf("HoursOrDefault(\"0\") = %d, want 0", got)
	}
	if got := AmountOrDefault("x"); got != 0 {
		t.Fatalf("AmountOrDefault(\"x\") = %d, want 0", got)
	}
	if got := AmountOrDefault("700"); got != 700 {
		t.Fatalf("AmountOrDefault(\"700\") = %d, want 700", got)
	}
	if got := RateOrDefault(""); got != 500 {
		t.Fatalf("RateOrDefault(\"\") = %d, want 500", got)
	}
	if got := RateOrDefault("0"); got != 500 {
		t.Fatalf("RateOrDefault(\"0\") = %d, want 500", got)
	}
	if got := RateOrDefault("650"); got != 650 {
		t.Fatalf("RateOrDefault(\"650\") = %d, want 650", got)
	}
}

func TestMealDeduction(t *testing.T) {
	cases := map[int64]int64{0: 0, 300: 0, 500: 0, 501: 1, 700: 200}
	for amount, want := range cases {
		if got := MealDeduction(amount); got != want {
			t.Fatalf("MealDeduction(%d) = %d, want %d", amount, got, want)
		}
	}
}

func TestFormatAmount(t *testing.T) {
	cases := map[int64]string{0: "0", 7000: "7,000", 1234567: "1,234,567", -300: "-300"}
	for in, want := range cases {
		if got := FormatAmount(in); got != want {
			t.Fatalf("FormatAmount(%d) = %q, want %q", in, got, want)
		}
	}
}
