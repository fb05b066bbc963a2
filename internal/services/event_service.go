package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/clutchden/clutchden-backend/internal/infrastructure/redis"
	"github.com/clutchden/clutchden-backend/internal/models"
	"github.com/clutchden/clutchden-backend/internal/repository"
	pkgerrors "github.com/clutchden/clutchden-backend/pkg/errors"
)

type EventService interface {
	List(ctx context.Context) ([]models.Event, error)
	Get(ctx context.Context, id int64) (*models.Event, error)
	Create(ctx context.Context, event *models.Event) error
	Update(ctx context.Context, event *models.Event) error
}

type eventService struct {
	eventRepo   repository.EventRepository
	redisClient redis.RedisClient
}

func NewEventService(eventRepo repository.EventRepository, redisClient redis.RedisClient) *eventService {
	return &eventService{eventRepo: eventRepo, redisClient: redisClient}
}

func (s *eventService) List(ctx context.Context) ([]models.Event, error) {
	return s.eventRepo.List(ctx)
}

func (s *eventService) Get(ctx context.Context, id int64) (*models.Event, error) {
	return s.eventRepo.GetByID(ctx, id)
}

func (s *eventService) Create(ctx context.Context, event *models.Event) error {
	if err := validateEvent(event); err != nil {
		return err
	}
	return s.eventRepo.Create(ctx, event)
}

func (s *eventService) Update(ctx context.Context, event *models.Event) error {
	if err := validateEvent(event); err != nil {
		return err
	}
	if err := s.eventRepo.Update(ctx, event); err != nil {
		return err
	}
	// Drop the bet-placement cache so new odds are visible right away.
	if err := s.redisClient.Del(ctx, redis.EventKey(event.ID)); err != nil {
		slog.Error("failed to invalidate event cache", "event_id", event.ID, "error", err)
	}
	return nil
}

func validateEvent(event *models.Event) error {
	if event == nil || event.Title == "" {
		return fmt.Errorf("%w: event title is required", pkgerrors.ErrInvalidInput)
	}
	for _, m := range event.Markets {
		if m.Name == "" || m.Odds <= 0 {
			return fmt.Errorf("%w: market needs a name and positive odds", pkgerrors.ErrInvalidInput)
		}
	}
	switch event.Status {
	case "", models.EventScheduled, models.EventLive, models.EventFinished, models.EventCancelled:
	default:
		return fmt.Errorf("%w: unknown event status %q", pkgerrors.ErrInvalidInput, event.Status)
	}
	return nil
}
