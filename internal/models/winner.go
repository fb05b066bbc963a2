package models

import "time"

type Winner struct {
	ID        int64     `json:"id"`
	UserID    *int64    `json:"user_id,omitempty"`
	Username  string    `json:"username"`
	Amount    float64   `json:"amount"`
	Prize     string    `json:"prize"`
	Rank      int       `json:"rank,omitempty"`
	ImageURL  string    `json:"image_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// TopWinner is an aggregate row for the leaderboard.
type TopWinner struct {
	Username string  `json:"username"`
	Total    float64 `json:"total"`
}
