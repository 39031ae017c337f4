package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	dataFile := filepath.Join(dir, "shift_data.json")
	t.Setenv("SHIFTPAY_CONFIG", filepath.Join(dir, "missing.toml"))
	t.Setenv("DATA_BACKEND", "json")
	t.Setenv("DATA_FILE", dataFile)
	t.Setenv("AMQP_URL", "")
	t.Setenv("GOOGLE_SPREADSHEET_ID", "")
	t.Setenv("LOG_LEVEL", "error")
	return dataFile
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	a := &App{now: func() time.Time { return time.Date(2024, 3, 25, 10, 0, 0, 0, time.UTC) }}
	root := SetupCommands(a)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	a.close()
	return out.String(), err
}

func TestLedgerCommandsPersist(t *testing.T) {
	dataFile := setupEnv(t)

	if _, err := run(t, "work", "2024-03-01", "--meal", "700"); err != nil {
		t.Fatalf("work: %v", err)
	}
	if _, err := run(t, "work", "2024-03-20", "--hours", "6", "--meal", "300"); err != nil {
		t.Fatalf("work: %v", err)
	}

	raw, err := os.ReadFile(dataFile)
	if err != nil {
		t.Fatalf("data file not written: %v", err)
	}
	if !strings.Contains(string(raw), `"2024-03-20"`) {
		t.Fatalf("data file missing shift: %s", raw)
	}

	out, err := run(t, "summary")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	for _, want := range []string{"March 2024", "6,800", "Advance (20th)", "3,800", "Remainder (5th)", "3,000"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}

	if _, err := run(t, "clear", "2024-03-20"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	out, _ = run(t, "summary", "2024-03")
	if !strings.Contains(out, "3,800") || strings.Contains(out, "6,800") {
		t.Errorf("clear not persisted:\n%s", out)
	}
}

func TestRateCommand(t *testing.T) {
	setupEnv(t)

	out, err := run(t, "rate", "650")
	if err != nil || !strings.Contains(out, "Hourly rate: 650") {
		t.Fatalf("rate 650: %q %v", out, err)
	}
	out, _ = run(t, "rate")
	if !strings.Contains(out, "650") {
		t.Fatalf("rate not persisted: %q", out)
	}
	out, _ = run(t, "rate", "abc")
	if !strings.Contains(out, "Hourly rate: 500") {
		t.Fatalf("invalid rate should reset: %q", out)
	}
}

func TestMonthNavigation(t *testing.T) {
	setupEnv(t)

	out, err := run(t, "meals", "--prev")
	if err != nil || !strings.Contains(out, "February 2024") {
		t.Fatalf("meals --prev: %q %v", out, err)
	}
	out, err = run(t, "calendar", "2024-12", "--next")
	if err != nil || !strings.Contains(out, "January 2025") {
		t.Fatalf("calendar --next: %q %v", out, err)
	}
}

func TestExportDryRun(t *testing.T) {
	setupEnv(t)
	if _, err := run(t, "off", "2024-03-02", "--meal", "800"); err != nil {
		t.Fatalf("off: %v", err)
	}

	out, err := run(t, "export", "--dry-run")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.Contains(out, "2024-03 Shifts") || !strings.Contains(out, "2024-03-02\toff\t\t800\t300") {
		t.Fatalf("unexpected export:\n%s", out)
	}

	if _, err := run(t, "export"); err == nil {
		t.Fatal("export without spreadsheet should fail")
	}
}

func TestBadArguments(t *testing.T) {
	setupEnv(t)

	for _, args := range [][]string{
		{"work", "2024-02-30"},
		{"summary", "2024-13"},
		{"off"},
		{"events"},
	} {
		if _, err := run(t, args...); err == nil {
			t.Errorf("%v should fail", args)
		}
	}
}

func TestDayToday(t *testing.T) {
	setupEnv(t)
	if _, err := run(t, "work", "today", "--hours", "4"); err != nil {
		t.Fatalf("work today: %v", err)
	}
	out, err := run(t, "day", "2024-03-25")
	if err != nil || !strings.Contains(out, "4 hours") {
		t.Fatalf("day: %q %v", out, err)
	}
}
