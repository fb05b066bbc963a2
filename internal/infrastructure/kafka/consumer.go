package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/clutchden/clutchden-backend/internal/models"
	"github.com/clutchden/clutchden-backend/internal/repository"
	"github.com/clutchden/clutchden-backend/pkg/contracts/events"
	"github.com/segmentio/kafka-go"
)

// Consumer turns transaction lifecycle events into user notifications.
type Consumer struct {
	reader           *kafka.Reader
	notificationRepo repository.NotificationRepository
}

func NewConsumer(brokers []string, topic, groupID string, notificationRepo repository.NotificationRepository) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:  brokers,
			Topic:    topic,
			GroupID:  groupID,
			MinBytes: 10e3,
			MaxBytes: 10e6,
		}),
		notificationRepo: notificationRepo,
	}
}

func (c *Consumer) Consume(ctx context.Context) {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			slog.Error("failed to read Kafka message", "topic", c.reader.Config().Topic, "error", err)
			continue
		}

		var event events.TransactionEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			slog.Error("failed to unmarshal transaction event", "error", err)
			continue
		}

		n := notificationFor(event)
		if n == nil {
			continue
		}

		if err := c.notificationRepo.Create(ctx, n); err != nil {
			slog.Error("failed to create notification", "user_id", event.UserID, "error", err)
			continue
		}

		slog.Info("notification created", "user_id", event.UserID, "kind", n.Kind, "event_type", event.EventType)
	}
}

func notificationFor(event events.TransactionEvent) *models.Notification {
	switch event.EventType {
	case events.TransactionApproved:
		return &models.Notification{
			UserID:  event.UserID,
			Title:   "Transaction approved",
			Message: fmt.Sprintf("Your %s of %.2f has been approved.", event.Type, event.Amount),
			Kind:    "success",
		}
	case events.TransactionRejected:
		return &models.Notification{
			UserID:  event.UserID,
			Title:   "Transaction rejected",
			Message: fmt.Sprintf("Your %s of %.2f was rejected. Contact support for details.", event.Type, event.Amount),
			Kind:    "warning",
		}
	default:
		return nil
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
