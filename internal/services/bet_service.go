package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"time"

	stderrors "errors"

	"github.com/clutchden/clutchden-backend/internal/infrastructure/kafka"
	"github.com/clutchden/clutchden-backend/internal/infrastructure/redis"
	"github.com/clutchden/clutchden-backend/internal/models"
	"github.com/clutchden/clutchden-backend/internal/repository"
	"github.com/clutchden/clutchden-backend/pkg/contracts/events"
	"github.com/clutchden/clutchden-backend/pkg/contracts/topics"
	pkgerrors "github.com/clutchden/clutchden-backend/pkg/errors"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const eventCacheTTL = 5 * time.Minute

type BetService interface {
	PlaceBet(ctx context.Context, userID, eventID, marketID int64, stake float64) (*models.Bet, error)
	ListBets(ctx context.Context) ([]models.Bet, error)
	UserBets(ctx context.Context, userID int64) ([]models.Bet, error)
	Receipt(ctx context.Context, userID, betID int64) (*models.BetReceipt, error)
}

type betService struct {
	betRepo       repository.BetRepository
	eventRepo     repository.EventRepository
	redisClient   redis.RedisClient
	kafkaProducer kafka.KafkaProducer
	now           func() time.Time
}

func NewBetService(
	betRepo repository.BetRepository,
	eventRepo repository.EventRepository,
	redisClient redis.RedisClient,
	kafkaProducer kafka.KafkaProducer,
) *betService {
	return &betService{
		betRepo:       betRepo,
		eventRepo:     eventRepo,
		redisClient:   redisClient,
		kafkaProducer: kafkaProducer,
		now:           time.Now,
	}
}

// PotentialWin is stake times odds, fixed to two decimals at placement time.
func PotentialWin(stake, odds float64) float64 {
	return math.Round(stake*odds*100) / 100
}

func (s *betService) PlaceBet(ctx context.Context, userID, eventID, marketID int64, stake float64) (*models.Bet, error) {
	tracer := otel.Tracer("bet-service")
	ctx, span := tracer.Start(ctx, "PlaceBet")
	span.SetAttributes(
		attribute.Int64("user_id", userID),
		attribute.Int64("event_id", eventID),
		attribute.Int64("market_id", marketID),
		attribute.Float64("stake", stake),
	)
	defer span.End()

	if stake <= 0 {
		span.SetStatus(codes.Error, "invalid stake")
		return nil, pkgerrors.ErrInvalidStake
	}

	event, err := s.getEvent(ctx, eventID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	if err := s.checkBettable(event); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	market := event.Market(marketID)
	if market == nil {
		span.SetStatus(codes.Error, "market not found")
		return nil, pkgerrors.ErrMarketNotFound
	}

	bet := &models.Bet{
		UserID:       userID,
		EventID:      event.ID,
		MarketName:   market.Name,
		MarketOdds:   market.Odds,
		Stake:        stake,
		PotentialWin: PotentialWin(stake, market.Odds),
	}

	// Stake deduction and bet insert commit together in the repository.
	if err := s.betRepo.Place(ctx, bet); err != nil {
		span.RecordError(err)
		slog.Error("failed to place bet", "user_id", userID, "event_id", eventID, "error", err)
		return nil, err
	}

	s.publishBetEvent(bet)

	slog.Info("bet placed", "bet_id", bet.ID, "user_id", userID, "event_id", event.ID,
		"market", market.Name, "stake", stake, "potential_win", bet.PotentialWin)
	return bet, nil
}

// checkBettable rejects bets against events that have not opened or are over.
func (s *betService) checkBettable(event *models.Event) error {
	if event.Status == models.EventFinished || event.Status == models.EventCancelled {
		return pkgerrors.ErrEventEnded
	}
	now := s.now()
	if event.StartAt != nil && now.Before(*event.StartAt) {
		return pkgerrors.ErrEventNotStarted
	}
	if event.EndAt != nil && now.After(*event.EndAt) {
		return pkgerrors.ErrEventEnded
	}
	return nil
}

// getEvent reads through a short-lived Redis cache. Event data may be a few
// minutes stale; balances never go through this path.
func (s *betService) getEvent(ctx context.Context, eventID int64) (*models.Event, error) {
	cacheKey := redis.EventKey(eventID)

	cached, err := s.redisClient.Get(ctx, cacheKey)
	if err == nil {
		var event models.Event
		if err := json.Unmarshal([]byte(cached), &event); err == nil {
			return &event, nil
		}
		slog.Error("failed to unmarshal cached event", "event_id", eventID, "error", err)
	} else if !stderrors.Is(err, redis.ErrKeyNotFound) {
		slog.Error("failed to read event cache", "event_id", eventID, "error", err)
	}

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if eventBytes, err := json.Marshal(event); err == nil {
		if err := s.redisClient.Set(ctx, cacheKey, string(eventBytes), eventCacheTTL); err != nil {
			slog.Error("failed to cache event", "event_id", eventID, "error", err)
		}
	}
	return event, nil
}

func (s *betService) ListBets(ctx context.Context) ([]models.Bet, error) {
	return s.betRepo.List(ctx)
}

func (s *betService) UserBets(ctx context.Context, userID int64) ([]models.Bet, error) {
	return s.betRepo.ListByUser(ctx, userID)
}

func (s *betService) Receipt(ctx context.Context, userID, betID int64) (*models.BetReceipt, error) {
	receipt, ownerID, err := s.betRepo.GetReceipt(ctx, betID)
	if err != nil {
		return nil, err
	}
	if ownerID != userID {
		return nil, pkgerrors.ErrNotBetOwner
	}
	return receipt, nil
}

func (s *betService) publishBetEvent(bet *models.Bet) {
	event := events.BetPlacedEvent{
		EventID:      uuid.NewString(),
		BetID:        bet.ID,
		UserID:       bet.UserID,
		SportEventID: bet.EventID,
		Market:       bet.MarketName,
		Odds:         bet.MarketOdds,
		Stake:        bet.Stake,
		PotentialWin: bet.PotentialWin,
		CreatedAt:    time.Now().UTC().Format(time.RFC3339),
	}
	eventBytes, err := json.Marshal(event)
	if err != nil {
		slog.Error("failed to marshal bet event", "bet_id", bet.ID, "error", err)
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		key := fmt.Sprintf("%d", bet.ID)
		if err := s.kafkaProducer.Send(ctx, topics.Bets, key, eventBytes); err != nil {
			slog.Error("failed to send bet event", "bet_id", bet.ID, "error", err)
		}
	}()
}
