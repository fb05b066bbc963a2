package service

import (
	"context"

	"github.com/clutchden/clutchden-backend/internal/models"
	"github.com/clutchden/clutchden-backend/internal/repository"
)

const leaderboardSize = 20

type WinnerService interface {
	Recent(ctx context.Context) ([]models.Winner, error)
	Top(ctx context.Context) ([]models.TopWinner, error)
	Add(ctx context.Context, winner *models.Winner) error
}

type winnerService struct {
	winnerRepo repository.WinnerRepository
}

func NewWinnerService(winnerRepo repository.WinnerRepository) *winnerService {
	return &winnerService{winnerRepo: winnerRepo}
}

func (s *winnerService) Recent(ctx context.Context) ([]models.Winner, error) {
	return s.winnerRepo.Recent(ctx, leaderboardSize)
}

func (s *winnerService) Top(ctx context.Context) ([]models.TopWinner, error) {
	return s.winnerRepo.Top(ctx, leaderboardSize)
}

func (s *winnerService) Add(ctx context.Context, winner *models.Winner) error {
	if winner != nil && winner.Prize == "" {
		winner.Prize = "No prize specified"
	}
	return s.winnerRepo.Create(ctx, winner)
}
