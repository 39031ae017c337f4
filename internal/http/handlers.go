package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"shiftpay/internal/core"
	applog "shiftpay/internal/log"
)

const maxBodyBytes = 1 << 16

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func (s *Server) monthParam(w http.ResponseWriter, r *http.Request) (core.YearMonth, bool) {
	ym, err := core.ParseYearMonth(r.PathValue("ym"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "month must be YYYY-MM")
		return core.YearMonth{}, false
	}
	return ym, true
}

func (s *Server) dateParam(w http.ResponseWriter, r *http.Request) (core.Date, bool) {
	d, err := core.ParseDate(r.PathValue("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return core.Date{}, false
	}
	return d, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	ym, ok := s.monthParam(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, newSummaryResponse(s.svc.Summary(ym)))
}

func (s *Server) handleMeals(w http.ResponseWriter, r *http.Request) {
	ym, ok := s.monthParam(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, newMealReportResponse(s.svc.MealReport(ym)))
}

func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	ym, ok := s.monthParam(w, r)
	if !ok {
		return
	}
	entries := s.svc.Month(ym)
	days := make([]dayResponse, 0, len(entries))
	for _, e := range entries {
		days = append(days, newDayResponse(e))
	}
	writeJSON(w, http.StatusOK, calendarResponse{
		Month:        ym.String(),
		Title:        ym.Title(),
		FirstWeekday: ym.FirstWeekday(),
		Days:         days,
	})
}

func (s *Server) handleGetDay(w http.ResponseWriter, r *http.Request) {
	d, ok := s.dateParam(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, newDayResponse(s.svc.Day(d)))
}

func (s *Server) handlePutDay(w http.ResponseWriter, r *http.Request) {
	d, ok := s.dateParam(w, r)
	if !ok {
		return
	}
	var req dayRequest
	if !decodeBody(w, r, &req) {
		return
	}

	kind, err := core.ParseShiftKind(req.Type)
	if err != nil {
		writeError(w, http.StatusBadRequest, `type must be "work" or "off"`)
		return
	}
	hours := int64(core.DefaultWorkHours)
	if req.Hours != nil {
		hours = *req.Hours
	}
	var meal int64
	if req.Meal != nil {
		meal = *req.Meal
	}

	ctx := r.Context()
	switch kind {
	case core.Work:
		err = s.svc.SetWork(ctx, d, hours, meal)
	default:
		err = s.svc.SetOff(ctx, d, meal)
	}
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newDayResponse(s.svc.Day(d)))
}

func (s *Server) handleDeleteDay(w http.ResponseWriter, r *http.Request) {
	d, ok := s.dateParam(w, r)
	if !ok {
		return
	}
	if err := s.svc.ClearDay(r.Context(), d); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, settingsBody{HourlyRate: s.svc.HourlyRate()})
}

// handlePutSettings treats a non-positive rate as a reset to the default.
func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	var body settingsBody
	if !decodeBody(w, r, &body) {
		return
	}
	if err := s.svc.UpdateHourlyRate(r.Context(), body.HourlyRate); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settingsBody{HourlyRate: s.svc.HourlyRate()})
}

func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, core.ErrInvalidKind) || errors.Is(err, core.ErrInvalidDate) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	applog.FromContext(r.Context()).ErrorContext(r.Context(), "Ledger update failed", applog.FieldError, err)
	writeError(w, http.StatusInternalServerError, "could not save ledger")
}
