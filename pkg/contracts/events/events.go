// Package events defines the payloads published to Kafka by the backend.
package events

type TransactionEvent struct {
	EventID       string  `json:"event_id"`
	EventType     string  `json:"event_type"`
	TransactionID int64   `json:"transaction_id"`
	UserID        int64   `json:"user_id"`
	Type          string  `json:"type"`
	Amount        float64 `json:"amount"`
	Status        string  `json:"status"`
	CreatedAt     string  `json:"created_at"`
}

const (
	TransactionRequested = "transaction_requested"
	TransactionApproved  = "transaction_approved"
	TransactionRejected  = "transaction_rejected"
)

type BetPlacedEvent struct {
	EventID      string  `json:"event_id"`
	BetID        int64   `json:"bet_id"`
	UserID       int64   `json:"user_id"`
	SportEventID int64   `json:"sport_event_id"`
	Market       string  `json:"market"`
	Odds         float64 `json:"odds"`
	Stake        float64 `json:"stake"`
	PotentialWin float64 `json:"potential_win"`
	CreatedAt    string  `json:"created_at"`
}
