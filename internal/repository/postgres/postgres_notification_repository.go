package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/clutchden/clutchden-backend/internal/models"
	pkgerrors "github.com/clutchden/clutchden-backend/pkg/errors"
)

type PostgresNotificationRepository struct {
	db *sql.DB
}

func NewPostgresNotificationRepository(db *sql.DB) *PostgresNotificationRepository {
	return &PostgresNotificationRepository{db: db}
}

func (r *PostgresNotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	if n == nil || n.UserID == 0 {
		return pkgerrors.ErrInvalidInput
	}
	err := r.db.QueryRowContext(ctx, `
	INSERT INTO notifications (user_id, title, message, kind)
	VALUES ($1, $2, $3, $4)
	RETURNING id, created_at
	`, n.UserID, n.Title, n.Message, n.Kind).Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

func (r *PostgresNotificationRepository) ListByUser(ctx context.Context, userID int64) ([]models.Notification, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, user_id, title, message, kind, read, created_at
	FROM notifications WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	list := []models.Notification{}
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Kind, &n.Read, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		list = append(list, n)
	}
	return list, rows.Err()
}

func (r *PostgresNotificationRepository) MarkRead(ctx context.Context, userID, id int64) error {
	return r.exec(ctx, `UPDATE notifications SET read = true WHERE id = $1 AND user_id = $2`, id, userID)
}

func (r *PostgresNotificationRepository) Delete(ctx context.Context, userID, id int64) error {
	return r.exec(ctx, `DELETE FROM notifications WHERE id = $1 AND user_id = $2`, id, userID)
}

// exec treats zero affected rows as not-found, which also covers rows
// owned by another user.
func (r *PostgresNotificationRepository) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update notification: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update notification: %w", err)
	}
	if affected == 0 {
		return pkgerrors.ErrNotificationNotFound
	}
	return nil
}

func (r *PostgresNotificationRepository) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx,
		`SELECT count(*) FROM notifications WHERE user_id = $1 AND read = false`, userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count notifications: %w", err)
	}
	return count, nil
}
