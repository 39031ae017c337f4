package http

import "shiftpay/internal/core"

type periodResponse struct {
	Caption       string `json:"caption"`
	Hours         int64  `json:"hours"`
	MealDeduction int64  `json:"meal_deduction"`
	Pay           int64  `json:"pay"`
}

type summaryResponse struct {
	Month              string         `json:"month"`
	Title              string         `json:"title"`
	HourlyRate         int64          `json:"hourly_rate"`
	ShiftCount         int            `json:"shift_count"`
	TotalHours         int64          `json:"total_hours"`
	GrossSalary        int64          `json:"gross_salary"`
	TotalMealSpend     int64          `json:"total_meal_spend"`
	TotalMealDeduction int64          `json:"total_meal_deduction"`
	NetSalary          int64          `json:"net_salary"`
	Advance            periodResponse `json:"advance"`
	Remainder          periodResponse `json:"remainder"`
}

func newPeriodResponse(p core.PeriodPay) periodResponse {
	return periodResponse{
		Caption:       p.Period.Caption(),
		Hours:         p.Hours,
		MealDeduction: p.MealDeduction,
		Pay:           p.Pay,
	}
}

func newSummaryResponse(s core.MonthSummary) summaryResponse {
	return summaryResponse{
		Month:              s.Month.String(),
		Title:              s.Month.Title(),
		HourlyRate:         s.HourlyRate,
		ShiftCount:         s.ShiftCount,
		TotalHours:         s.TotalHours,
		GrossSalary:        s.GrossSalary,
		TotalMealSpend:     s.TotalMealSpend,
		TotalMealDeduction: s.TotalMealDeduction,
		NetSalary:          s.NetSalary,
		Advance:            newPeriodResponse(s.Advance),
		Remainder:          newPeriodResponse(s.Remainder),
	}
}

type mealDayResponse struct {
	Date      string `json:"date"`
	Amount    int64  `json:"amount"`
	Deduction int64  `json:"deduction"`
}

type mealReportResponse struct {
	Month          string            `json:"month"`
	Allowance      int64             `json:"allowance"`
	TotalSpend     int64             `json:"total_spend"`
	TotalDeduction int64             `json:"total_deduction"`
	Days           []mealDayResponse `json:"days"`
}

func newMealReportResponse(r core.MealReport) mealReportResponse {
	days := make([]mealDayResponse, 0, len(r.Days))
	for _, d := range r.Days {
		days = append(days, mealDayResponse{Date: d.Date.String(), Amount: d.Amount, Deduction: d.Deduction})
	}
	return mealReportResponse{
		Month:          r.Month.String(),
		Allowance:      r.Allowance,
		TotalSpend:     r.TotalSpend,
		TotalDeduction: r.TotalDeduction,
		Days:           days,
	}
}

type dayResponse struct {
	Date  string `json:"date"`
	Type  string `json:"type,omitempty"`
	Hours int64  `json:"hours"`
	Meal  int64  `json:"meal"`
	Color string `json:"color,omitempty"`
}

// dayColor projects the shift kind onto the display color.
func dayColor(e core.DayEntry) string {
	if !e.HasShift {
		return ""
	}
	switch e.Shift.Kind {
	case core.Work:
		return "green"
	case core.Off:
		return "red"
	}
	return ""
}

func newDayResponse(e core.DayEntry) dayResponse {
	resp := dayResponse{
		Date:  e.Date.String(),
		Type:  e.Kind(),
		Meal:  e.MealExpense,
		Color: dayColor(e),
	}
	if e.HasShift {
		resp.Hours = e.Shift.Hours
	}
	return resp
}

type calendarResponse struct {
	Month        string        `json:"month"`
	Title        string        `json:"title"`
	FirstWeekday int           `json:"first_weekday"`
	Days         []dayResponse `json:"days"`
}

// dayRequest is the PUT body. Missing hours default to a full shift and a
// missing meal to no expense.
type dayRequest struct {
	Type  string `json:"type"`
	Hours *int64 `json:"hours"`
	Meal  *int64 `json:"meal"`
}

type settingsBody struct {
	HourlyRate int64 `json:"hourly_rate"`
}

type errorResponse struct {
	Error string `json:"error"`
}
