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

type PostgresEventRepository struct {
	db *sql.DB
}

func NewPostgresEventRepository(db *sql.DB) *PostgresEventRepository {
	return &PostgresEventRepository{db: db}
}

func (r *PostgresEventRepository) Create(ctx context.Context, event *models.Event) error {
	if event == nil || event.Title == "" {
		return fmt.Errorf("%w: event title is required", pkgerrors.ErrInvalidInput)
	}
	if event.Status == "" {
		event.Status = models.EventScheduled
	}

	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	err = dbTx.QueryRowContext(ctx, `
	INSERT INTO events (title, status, start_at, end_at, meta)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING id, created_at
	`, event.Title, event.Status, event.StartAt, event.EndAt, nullJSON(event.Meta)).
		Scan(&event.ID, &event.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}

	for i := range event.Markets {
		m := &event.Markets[i]
		err = dbTx.QueryRowContext(ctx, `
		INSERT INTO markets (event_id, name, odds, meta)
		VALUES ($1, $2, $3, $4)
		RETURNING id
		`, event.ID, m.Name, m.Odds, nullJSON(m.Meta)).Scan(&m.ID)
		if err != nil {
			return fmt.Errorf("failed to create market: %w", err)
		}
	}

	if err = dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	slog.Info("event created", "id", event.ID, "title", event.Title, "markets", len(event.Markets))
	return nil
}

// Update replaces the event row and its markets. Markets carrying an id keep
// it; new ones are inserted; missing ones are removed.
func (r *PostgresEventRepository) Update(ctx context.Context, event *models.Event) error {
	if event == nil || event.ID == 0 {
		return pkgerrors.ErrInvalidInput
	}

	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	res, err := dbTx.ExecContext(ctx, `
	UPDATE events SET title = $1, status = $2, start_at = $3, end_at = $4, meta = $5
	WHERE id = $6
	`, event.Title, event.Status, event.StartAt, event.EndAt, nullJSON(event.Meta), event.ID)
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return pkgerrors.ErrEventNotFound
	}

	if _, err = dbTx.ExecContext(ctx, `DELETE FROM markets WHERE event_id = $1`, event.ID); err != nil {
		return fmt.Errorf("failed to clear markets: %w", err)
	}
	for i := range event.Markets {
		m := &event.Markets[i]
		err = dbTx.QueryRowContext(ctx, `
		INSERT INTO markets (event_id, name, odds, meta)
		VALUES ($1, $2, $3, $4)
		RETURNING id
		`, event.ID, m.Name, m.Odds, nullJSON(m.Meta)).Scan(&m.ID)
		if err != nil {
			return fmt.Errorf("failed to create market: %w", err)
		}
	}

	if err = dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	slog.Info("event updated", "id", event.ID, "status", event.Status)
	return nil
}

func (r *PostgresEventRepository) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	var event models.Event
	var meta sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT id, title, status, start_at, end_at, meta, created_at FROM events WHERE id = $1`, id).
		Scan(&event.ID, &event.Title, &event.Status, &event.StartAt, &event.EndAt, &meta, &event.CreatedAt)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, pkgerrors.ErrEventNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event by id: %w", err)
	}
	if meta.Valid {
		event.Meta = []byte(meta.String)
	}

	event.Markets, err = r.markets(ctx, id)
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *PostgresEventRepository) List(ctx context.Context) ([]models.Event, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, status, start_at, end_at, meta, created_at FROM events ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	events := []models.Event{}
	for rows.Next() {
		var event models.Event
		var meta sql.NullString
		if err := rows.Scan(&event.ID, &event.Title, &event.Status, &event.StartAt, &event.EndAt, &meta, &event.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		if meta.Valid {
			event.Meta = []byte(meta.String)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range events {
		events[i].Markets, err = r.markets(ctx, events[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return events, nil
}

func (r *PostgresEventRepository) markets(ctx context.Context, eventID int64) ([]models.Market, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, odds, meta FROM markets WHERE event_id = $1 ORDER BY id`, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list markets: %w", err)
	}
	defer rows.Close()

	markets := []models.Market{}
	for rows.Next() {
		var m models.Market
		var meta sql.NullString
		if err := rows.Scan(&m.ID, &m.Name, &m.Odds, &meta); err != nil {
			return nil, fmt.Errorf("failed to scan market: %w", err)
		}
		if meta.Valid {
			m.Meta = []byte(meta.String)
		}
		markets = append(markets, m)
	}
	return markets, rows.Err()
}

func nullJSON(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}
