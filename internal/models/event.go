package models

import (
	"encoding/json"
	"time"
)

type Event struct {
	ID        int64           `json:"id"`
	Title     string          `json:"title"`
	Status    EventStatus     `json:"status"`
	StartAt   *time.Time      `json:"start_at,omitempty"`
	EndAt     *time.Time      `json:"end_at,omitempty"`
	Markets   []Market        `json:"markets"`
	Meta      json.RawMessage `json:"meta,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// Market is a named, priced outcome within an event. Meta is an opaque
// passthrough blob and never enters the ledger core.
type Market struct {
	ID   int64           `json:"id"`
	Name string          `json:"name"`
	Odds float64         `json:"odds"`
	Meta json.RawMessage `json:"meta,omitempty"`
}

type EventStatus string

const (
	EventScheduled EventStatus = "scheduled"
	EventLive      EventStatus = "live"
	EventFinished  EventStatus = "finished"
	EventCancelled EventStatus = "cancelled"
)

// Market returns the market with the given id, or nil.
func (e *Event) Market(marketID int64) *Market {
	for i := range e.Markets {
		if e.Markets[i].ID == marketID {
			return &e.Markets[i]
		}
	}
	return nil
}
