package repository

import (
	"context"

	"github.com/clutchden/clutchden-backend/internal/models"
)

type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	Update(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id int64) (*models.Event, error)
	List(ctx context.Context) ([]models.Event, error)
}

type BetRepository interface {
	// Place deducts the stake from the user's balance and inserts the bet
	// as one database transaction; either both happen or neither.
	Place(ctx context.Context, bet *models.Bet) error
	ListByUser(ctx context.Context, userID int64) ([]models.Bet, error)
	List(ctx context.Context) ([]models.Bet, error)
	GetReceipt(ctx context.Context, betID int64) (*models.BetReceipt, int64, error)
}
