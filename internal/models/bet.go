package models

import "time"

// Bet carries a snapshot of the market name and odds taken at placement
// time, so later odds changes never affect the potential win.
type Bet struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	EventID      int64     `json:"event_id"`
	MarketName   string    `json:"market_name"`
	MarketOdds   float64   `json:"market_odds"`
	Stake        float64   `json:"stake"`
	PotentialWin float64   `json:"potential_win"`
	Status       BetStatus `json:"status"`
	PlacedAt     time.Time `json:"placed_at"`
}

type BetStatus string

const (
	BetPending   BetStatus = "pending"
	BetWon       BetStatus = "won"
	BetLost      BetStatus = "lost"
	BetCancelled BetStatus = "cancelled"
)

// BetReceipt is the detailed view returned by GET /bets/{id}/receipt.
type BetReceipt struct {
	ReceiptID    int64     `json:"receipt_id"`
	Username     string    `json:"user"`
	EventTitle   string    `json:"event"`
	Market       string    `json:"market"`
	Odds         float64   `json:"odds"`
	Stake        float64   `json:"stake"`
	PotentialWin float64   `json:"potential_win"`
	Status       BetStatus `json:"status"`
	PlacedAt     time.Time `json:"placed_at"`
}
