package repository

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"log/slog"

	"github.com/clutchden/clutchden-backend/internal/models"
	pkgerrors "github.com/clutchden/clutchden-backend/pkg/errors"
)

type PostgresSupportRepository struct {
	db *sql.DB
}

func NewPostgresSupportRepository(db *sql.DB) *PostgresSupportRepository {
	return &PostgresSupportRepository{db: db}
}

func (r *PostgresSupportRepository) CreateTicket(ctx context.Context, ticket *models.SupportTicket, message *models.TicketMessage) error {
	if ticket == nil || ticket.Subject == "" {
		return fmt.Errorf("%w: ticket subject is required", pkgerrors.ErrInvalidInput)
	}

	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	err = dbTx.QueryRowContext(ctx, `
	INSERT INTO support_tickets (user_id, subject, status)
	VALUES ($1, $2, $3)
	RETURNING id, created_at, updated_at
	`, ticket.UserID, ticket.Subject, models.TicketOpen).
		Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create ticket: %w", err)
	}
	ticket.Status = models.TicketOpen

	if message != nil {
		message.TicketID = ticket.ID
		err = dbTx.QueryRowContext(ctx, `
		INSERT INTO ticket_messages (ticket_id, sender_id, sender_role, message, image_url)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''))
		RETURNING id, sent_at
		`, message.TicketID, message.SenderID, message.SenderRole, message.Message, message.ImageURL).
			Scan(&message.ID, &message.SentAt)
		if err != nil {
			return fmt.Errorf("failed to create ticket message: %w", err)
		}
		ticket.Messages = []models.TicketMessage{*message}
	}

	if err = dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	slog.Info("support ticket created", "id", ticket.ID, "user_id", ticket.UserID)
	return nil
}

func (r *PostgresSupportRepository) GetTicket(ctx context.Context, id int64) (*models.SupportTicket, error) {
	var ticket models.SupportTicket
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, subject, status, created_at, updated_at FROM support_tickets WHERE id = $1`, id).
		Scan(&ticket.ID, &ticket.UserID, &ticket.Subject, &ticket.Status, &ticket.CreatedAt, &ticket.UpdatedAt)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, pkgerrors.ErrTicketNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
	SELECT id, ticket_id, sender_id, sender_role, message, COALESCE(image_url, ''), sent_at
	FROM ticket_messages WHERE ticket_id = $1 ORDER BY sent_at`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list ticket messages: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m models.TicketMessage
		if err := rows.Scan(&m.ID, &m.TicketID, &m.SenderID, &m.SenderRole, &m.Message, &m.ImageURL, &m.SentAt); err != nil {
			return nil, fmt.Errorf("failed to scan ticket message: %w", err)
		}
		ticket.Messages = append(ticket.Messages, m)
	}
	return &ticket, rows.Err()
}

func (r *PostgresSupportRepository) ListByUser(ctx context.Context, userID int64) ([]models.SupportTicket, error) {
	return r.list(ctx, `SELECT id, user_id, subject, status, created_at, updated_at FROM support_tickets WHERE user_id = $1 ORDER BY updated_at DESC`, userID)
}

func (r *PostgresSupportRepository) ListAll(ctx context.Context) ([]models.SupportTicket, error) {
	return r.list(ctx, `SELECT id, user_id, subject, status, created_at, updated_at FROM support_tickets ORDER BY updated_at DESC`)
}

func (r *PostgresSupportRepository) list(ctx context.Context, query string, args ...any) ([]models.SupportTicket, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	defer rows.Close()

	tickets := []models.SupportTicket{}
	for rows.Next() {
		var t models.SupportTicket
		if err := rows.Scan(&t.ID, &t.UserID, &t.Subject, &t.Status, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}

func (r *PostgresSupportRepository) AddMessage(ctx context.Context, msg *models.TicketMessage, newStatus models.TicketStatus) error {
	if msg == nil || msg.Message == "" {
		return fmt.Errorf("%w: message is required", pkgerrors.ErrInvalidInput)
	}

	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	err = dbTx.QueryRowContext(ctx, `
	INSERT INTO ticket_messages (ticket_id, sender_id, sender_role, message, image_url)
	VALUES ($1, $2, $3, $4, NULLIF($5, ''))
	RETURNING id, sent_at
	`, msg.TicketID, msg.SenderID, msg.SenderRole, msg.Message, msg.ImageURL).
		Scan(&msg.ID, &msg.SentAt)
	if err != nil {
		return fmt.Errorf("failed to create ticket message: %w", err)
	}

	if _, err = dbTx.ExecContext(ctx,
		`UPDATE support_tickets SET status = $1, updated_at = now() WHERE id = $2`,
		newStatus, msg.TicketID); err != nil {
		return fmt.Errorf("failed to update ticket status: %w", err)
	}

	return dbTx.Commit()
}

func (r *PostgresSupportRepository) SetStatus(ctx context.Context, ticketID int64, status models.TicketStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE support_tickets SET status = $1, updated_at = now() WHERE id = $2`,
		status, ticketID)
	if err != nil {
		return fmt.Errorf("failed to update ticket status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return pkgerrors.ErrTicketNotFound
	}
	return nil
}
