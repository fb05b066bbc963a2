package repository

import (
	"context"

	"github.com/clutchden/clutchden-backend/internal/models"
)

type WinnerRepository interface {
	Create(ctx context.Context, winner *models.Winner) error
	Recent(ctx context.Context, limit int) ([]models.Winner, error)
	Top(ctx context.Context, limit int) ([]models.TopWinner, error)
}

type SupportRepository interface {
	CreateTicket(ctx context.Context, ticket *models.SupportTicket, message *models.TicketMessage) error
	GetTicket(ctx context.Context, id int64) (*models.SupportTicket, error)
	ListByUser(ctx context.Context, userID int64) ([]models.SupportTicket, error)
	ListAll(ctx context.Context) ([]models.SupportTicket, error)
	AddMessage(ctx context.Context, msg *models.TicketMessage, newStatus models.TicketStatus) error
	SetStatus(ctx context.Context, ticketID int64, status models.TicketStatus) error
}

type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	ListByUser(ctx context.Context, userID int64) ([]models.Notification, error)
	// MarkRead and Delete are scoped to the owning user so one user
	// cannot touch another user's notifications.
	MarkRead(ctx context.Context, userID, id int64) error
	UnreadCount(ctx context.Context, userID int64) (int64, error)
	Delete(ctx context.Context, userID, id int64) error
}
