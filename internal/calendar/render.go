// Package calendar renders ledger months for the terminal.
//
// Day colors are derived from the shift kind on every render; nothing here
// stores a color.
package calendar

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"shiftpay/internal/core"
)

const (
	cellWidth  = 4
	labelWidth = 18
	mealMarker = "*"
)

var weekdays = []string{"Mo", "Tu", "We", "Th", "Fr", "Sa", "Su"}

// Theme holds the styles used when rendering.
type Theme struct {
	Title    lipgloss.Style
	Header   lipgloss.Style
	Work     lipgloss.Style
	Off      lipgloss.Style
	Unset    lipgloss.Style
	Label    lipgloss.Style
	Value    lipgloss.Style
	Negative lipgloss.Style
}

var (
	workColor  = lipgloss.Color("34")
	offColor   = lipgloss.Color("196")
	titleColor = lipgloss.Color("99")
	mutedColor = lipgloss.Color("241")
)

func DefaultTheme() Theme {
	return Theme{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(titleColor),
		Header:   lipgloss.NewStyle().Foreground(mutedColor),
		Work:     lipgloss.NewStyle().Foreground(workColor).Bold(true),
		Off:      lipgloss.NewStyle().Foreground(offColor),
		Unset:    lipgloss.NewStyle(),
		Label:    lipgloss.NewStyle().Width(labelWidth).Foreground(mutedColor),
		Value:    lipgloss.NewStyle().Bold(true),
		Negative: lipgloss.NewStyle().Bold(true).Foreground(offColor),
	}
}

// dayStyle maps a day to its style: work green, off red, unset plain.
func (t Theme) dayStyle(e core.DayEntry) lipgloss.Style {
	if !e.HasShift {
		return t.Unset
	}
	switch e.Shift.Kind {
	case core.Work:
		return t.Work
	case core.Off:
		return t.Off
	default:
		return t.Unset
	}
}

// RenderMonth draws a Monday-first grid for ym. Days with a meal expense carry
// a marker. days may be any subset of the month.
func (t Theme) RenderMonth(ym core.YearMonth, days []core.DayEntry) string {
	byDay := make(map[int]core.DayEntry, len(days))
	for _, e := range days {
		if ym.Contains(e.Date) {
			byDay[e.Date.Day()] = e
		}
	}

	gridWidth := cellWidth * len(weekdays)
	var b strings.Builder
	b.WriteString(lipgloss.PlaceHorizontal(gridWidth, lipgloss.Center, t.Title.Render(ym.Title())))
	b.WriteString("\n")

	for _, wd := range weekdays {
		b.WriteString(t.Header.Render(fmt.Sprintf("%*s", cellWidth-1, wd) + " "))
	}
	b.WriteString("\n")

	col := ym.FirstWeekday()
	b.WriteString(strings.Repeat(" ", col*cellWidth))
	for day := 1; day <= ym.DaysIn(); day++ {
		e := byDay[day]
		marker := " "
		if e.MealExpense > 0 {
			marker = mealMarker
		}
		b.WriteString(t.dayStyle(e).Render(fmt.Sprintf("%*d", cellWidth-1, day) + marker))

		col++
		if col == len(weekdays) && day != ym.DaysIn() {
			b.WriteString("\n")
			col = 0
		}
	}
	b.WriteString("\n\n")
	b.WriteString(t.Work.Render("work") + "  " + t.Off.Render("off") + "  " + mealMarker + " meal expense")
	return b.String()
}

func (t Theme) line(label string, value int64) string {
	style := t.Value
	if value < 0 {
		style = t.Negative
	}
	return t.Label.Render(label) + style.Render(core.FormatAmount(value))
}

// RenderSummary draws the statistics block for a month.
func (t Theme) RenderSummary(s core.MonthSummary) string {
	lines := []string{
		t.Title.Render(s.Month.Title()),
		t.line("Shifts", int64(s.ShiftCount)),
		t.line("Total hours", s.TotalHours),
		t.line("Hourly rate", s.HourlyRate),
		t.line("Gross salary", s.GrossSalary),
		t.line("Meal spend", s.TotalMealSpend),
		t.line("Meal deduction", s.TotalMealDeduction),
		t.line("Net salary", s.NetSalary),
		t.line(fmt.Sprintf("Advance (%s)", s.Advance.Period.Caption()), s.Advance.Pay),
		t.line(fmt.Sprintf("Remainder (%s)", s.Remainder.Period.Caption()), s.Remainder.Pay),
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// RenderMealReport lists the month's meal expenses against the allowance.
func (t Theme) RenderMealReport(r core.MealReport) string {
	lines := []string{
		t.Title.Render("Meals, " + r.Month.Title()),
		t.line("Daily allowance", r.Allowance),
	}
	if len(r.Days) == 0 {
		lines = append(lines, t.Header.Render("no meal expenses"))
	}
	for _, d := range r.Days {
		lines = append(lines, fmt.Sprintf("%s %8s %8s",
			d.Date, core.FormatAmount(d.Amount), core.FormatAmount(-d.Deduction)))
	}
	lines = append(lines,
		t.line("Total spend", r.TotalSpend),
		t.line("Total deduction", r.TotalDeduction),
	)
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// RenderDay describes a single date.
func (t Theme) RenderDay(e core.DayEntry) string {
	state := t.Header.Render("not set")
	if e.HasShift {
		state = t.dayStyle(e).Render(e.Kind())
		if e.Shift.IsWork() {
			state += fmt.Sprintf(", %d hours", e.Shift.Hours)
		}
	}
	meal := "none"
	if e.MealExpense > 0 {
		meal = fmt.Sprintf("%s (deduction %s)", core.FormatAmount(e.MealExpense), core.FormatAmount(core.MealDeduction(e.MealExpense)))
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		t.Title.Render(e.Date.String()),
		t.Label.Render("Shift")+state,
		t.Label.Render("Meal")+meal,
	)
}

func RenderMonth(ym core.YearMonth, days []core.DayEntry) string {
	return DefaultTheme().RenderMonth(ym, days)
}

func RenderSummary(s core.MonthSummary) string {
	return DefaultTheme().RenderSummary(s)
}

func RenderMealReport(r core.MealReport) string {
	return DefaultTheme().RenderMealReport(r)
}

func RenderDay(e core.DayEntry) string {
	return DefaultTheme().RenderDay(e)
}
