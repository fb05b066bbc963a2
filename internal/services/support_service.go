package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/clutchden/clutchden-backend/internal/models"
	"github.com/clutchden/clutchden-backend/internal/repository"
	pkgerrors "github.com/clutchden/clutchden-backend/pkg/errors"
)

type SupportService interface {
	OpenTicket(ctx context.Context, userID int64, subject, message string) (*models.SupportTicket, error)
	UserTickets(ctx context.Context, userID int64) ([]models.SupportTicket, error)
	AllTickets(ctx context.Context) ([]models.SupportTicket, error)
	Reply(ctx context.Context, userID, ticketID int64, message string, asAdmin bool) (*models.SupportTicket, error)
	Close(ctx context.Context, ticketID int64) error
}

type supportService struct {
	supportRepo repository.SupportRepository
}

func NewSupportService(supportRepo repository.SupportRepository) *supportService {
	return &supportService{supportRepo: supportRepo}
}

func (s *supportService) OpenTicket(ctx context.Context, userID int64, subject, message string) (*models.SupportTicket, error) {
	if subject == "" || message == "" {
		return nil, fmt.Errorf("%w: subject and message are required", pkgerrors.ErrInvalidInput)
	}

	ticket := &models.SupportTicket{UserID: userID, Subject: subject}
	msg := &models.TicketMessage{SenderID: userID, SenderRole: models.RoleUser, Message: message}
	if err := s.supportRepo.CreateTicket(ctx, ticket, msg); err != nil {
		slog.Error("failed to open ticket", "user_id", userID, "error", err)
		return nil, err
	}
	return ticket, nil
}

func (s *supportService) UserTickets(ctx context.Context, userID int64) ([]models.SupportTicket, error) {
	return s.supportRepo.ListByUser(ctx, userID)
}

func (s *supportService) AllTickets(ctx context.Context) ([]models.SupportTicket, error) {
	return s.supportRepo.ListAll(ctx)
}

// Reply appends a message; admin replies mark the ticket answered, user
// replies put it back to pending. Only the owner or an admin may post.
func (s *supportService) Reply(ctx context.Context, userID, ticketID int64, message string, asAdmin bool) (*models.SupportTicket, error) {
	if message == "" {
		return nil, fmt.Errorf("%w: message is required", pkgerrors.ErrInvalidInput)
	}

	ticket, err := s.supportRepo.GetTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.Status == models.TicketClosed {
		return nil, pkgerrors.ErrTicketClosed
	}
	if !asAdmin && ticket.UserID != userID {
		return nil, pkgerrors.ErrForbidden
	}

	role := models.RoleUser
	newStatus := models.TicketPending
	if asAdmin {
		role = models.RoleAdmin
		newStatus = models.TicketAnswered
	}

	msg := &models.TicketMessage{
		TicketID:   ticketID,
		SenderID:   userID,
		SenderRole: role,
		Message:    message,
	}
	if err := s.supportRepo.AddMessage(ctx, msg, newStatus); err != nil {
		slog.Error("failed to add ticket message", "ticket_id", ticketID, "error", err)
		return nil, err
	}

	return s.supportRepo.GetTicket(ctx, ticketID)
}

func (s *supportService) Close(ctx context.Context, ticketID int64) error {
	return s.supportRepo.SetStatus(ctx, ticketID, models.TicketClosed)
}
