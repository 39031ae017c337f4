package amqp

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"shiftpay/internal/core"
)

// EventType names a ledger change.
type EventType string

const (
	EventDayUpdated      EventType = "day.updated"
	EventDayCleared      EventType = "day.cleared"
	EventSettingsUpdated EventType = "settings.updated"
)

// LedgerEvent describes one committed ledger mutation. Fields that do not apply
// to the event type are omitted from the JSON body.
type LedgerEvent struct {
	ID         string    `json:"id"`
	Type       EventType `json:"type"`
	Date       string    `json:"date,omitempty"`
	Kind       string    `json:"kind,omitempty"`
	Hours      *int64    `json:"hours,omitempty"`
	MealAmount *int64    `json:"meal_amount,omitempty"`
	HourlyRate *int64    `json:"hourly_rate,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

func newEvent(t EventType) *LedgerEvent {
	return &LedgerEvent{
		ID:        uuid.NewString(),
		Type:      t,
		Timestamp: time.Now().UTC(),
	}
}

// NewDayUpdatedEvent records the state of a day after a work or off edit.
func NewDayUpdatedEvent(date core.Date, rec core.ShiftRecord, meal int64) *LedgerEvent {
	e := newEvent(EventDayUpdated)
	e.Date = date.String()
	e.Kind = rec.Kind.String()
	hours := rec.Hours
	e.Hours = &hours
	e.MealAmount = &meal
	return e
}

func NewDayClearedEvent(date core.Date) *LedgerEvent {
	e := newEvent(EventDayCleared)
	e.Date = date.String()
	return e
}

func NewSettingsUpdatedEvent(rate int64) *LedgerEvent {
	e := newEvent(EventSettingsUpdated)
	e.HourlyRate = &rate
	return e
}

// ToJSON converts the event to JSON bytes
func (e *LedgerEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// LedgerEventFromJSON decodes an event body.
func LedgerEventFromJSON(data []byte) (*LedgerEvent, error) {
	var e LedgerEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
