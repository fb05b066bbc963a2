package repository_test

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/clutchden/clutchden-backend/internal/models"
	repository "github.com/clutchden/clutchden-backend/internal/repository/postgres"
	pkgerrors "github.com/clutchden/clutchden-backend/pkg/errors"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestPostgresUserRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()
	repo := repository.NewPostgresUserRepository(db)
	ctx := context.Background()

	insertQuery := regexp.QuoteMeta(`INSERT INTO users (username, email, password_hash, balance, is_admin) VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`)

	t.Run("Success", func(t *testing.T) {
		user := &models.User{
			Username:     "alice",
			Email:        "alice@example.com",
			PasswordHash: "hash",
			Balance:      0,
		}
		mock.ExpectQuery(insertQuery).
			WithArgs(user.Username, user.Email, user.PasswordHash, user.Balance, user.IsAdmin).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(7), time.Now()))

		err := repo.Create(ctx, user)
		assert.NoError(t, err)
		assert.Equal(t, int64(7), user.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		user := &models.User{
			Username:     "alice",
			Email:        "alice@example.com",
			PasswordHash: "hash",
		}
		mock.ExpectQuery(insertQuery).
			WithArgs(user.Username, user.Email, user.PasswordHash, user.Balance, user.IsAdmin).
			WillReturnError(&pq.Error{Code: "23505"})

		err := repo.Create(ctx, user)
		assert.ErrorIs(t, err, pkgerrors.ErrUserAlreadyExists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("MissingFields", func(t *testing.T) {
		err := repo.Create(ctx, &models.User{Username: "alice"})
		assert.ErrorIs(t, err, pkgerrors.ErrInvalidInput)
	})
}

func TestPostgresUserRepository_ChangeBalance(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()
	repo := repository.NewPostgresUserRepository(db)
	ctx := context.Background()

	updateQuery := regexp.QuoteMeta(`UPDATE users SET balance = balance + $1 WHERE id = $2 AND (balance + $1) >= 0 RETURNING balance`)

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery(updateQuery).
			WithArgs(50.0, int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow(150.0))

		balance, err := repo.ChangeBalance(ctx, 1, 50.0)
		assert.NoError(t, err)
		assert.Equal(t, 150.0, balance)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("InsufficientBalance", func(t *testing.T) {
		mock.ExpectQuery(updateQuery).
			WithArgs(-200.0, int64(1)).
			WillReturnError(sql.ErrNoRows)

		balance, err := repo.ChangeBalance(ctx, 1, -200.0)
		assert.ErrorIs(t, err, pkgerrors.ErrInsufficientBalance)
		assert.Zero(t, balance)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("DatabaseError", func(t *testing.T) {
		mock.ExpectQuery(updateQuery).
			WithArgs(10.0, int64(1)).
			WillReturnError(fmt.Errorf("database error"))

		_, err := repo.ChangeBalance(ctx, 1, 10.0)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to change balance")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresUserRepository_GetBalance(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()
	repo := repository.NewPostgresUserRepository(db)
	ctx := context.Background()

	query := regexp.QuoteMeta(`SELECT balance FROM users WHERE id = $1`)

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow(80.0))

		balance, err := repo.GetBalance(ctx, 1)
		assert.NoError(t, err)
		assert.Equal(t, 80.0, balance)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("UserNotFound", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(int64(2)).
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetBalance(ctx, 2)
		assert.ErrorIs(t, err, pkgerrors.ErrUserNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresUserRepository_GetByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()
	repo := repository.NewPostgresUserRepository(db)
	ctx := context.Background()

	query := regexp.QuoteMeta(`SELECT id, username, email, password_hash, balance, is_admin, disabled, created_at FROM users WHERE email = $1`)

	t.Run("Success", func(t *testing.T) {
		now := time.Now()
		mock.ExpectQuery(query).
			WithArgs("alice@example.com").
			WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "balance", "is_admin", "disabled", "created_at"}).
				AddRow(int64(1), "alice", "alice@example.com", "hash", 100.0, false, false, now))

		user, err := repo.GetByEmail(ctx, "alice@example.com")
		assert.NoError(t, err)
		assert.Equal(t, int64(1), user.ID)
		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, 100.0, user.Balance)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("UserNotFound", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs("missing@example.com").
			WillReturnError(sql.ErrNoRows)

		user, err := repo.GetByEmail(ctx, "missing@example.com")
		assert.Nil(t, user)
		assert.ErrorIs(t, err, pkgerrors.ErrUserNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("EmptyEmail", func(t *testing.T) {
		_, err := repo.GetByEmail(ctx, "")
		assert.ErrorIs(t, err, pkgerrors.ErrInvalidInput)
	})
}

func TestPostgresUserRepository_SetDisabled(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()
	repo := repository.NewPostgresUserRepository(db)
	ctx := context.Background()

	query := regexp.QuoteMeta(`UPDATE users SET disabled = $1 WHERE id = $2`)

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(true, int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.SetDisabled(ctx, 1, true)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("UserNotFound", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(true, int64(99)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.SetDisabled(ctx, 99, true)
		assert.ErrorIs(t, err, pkgerrors.ErrUserNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresUserRepository_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()
	repo := repository.NewPostgresUserRepository(db)
	ctx := context.Background()

	query := regexp.QuoteMeta(`SELECT id, username, email, balance, is_admin, disabled, created_at FROM users ORDER BY created_at DESC`)

	now := time.Now()
	mock.ExpectQuery(query).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "balance", "is_admin", "disabled", "created_at"}).
			AddRow(int64(2), "bob", "bob@example.com", 50.0, false, true, now).
			AddRow(int64(1), "alice", "alice@example.com", 100.0, true, false, now))

	users, err := repo.List(ctx)
	assert.NoError(t, err)
	assert.Len(t, users, 2)
	assert.Equal(t, "bob", users[0].Username)
	assert.True(t, users[0].Disabled)
	assert.NoError(t, mock.ExpectationsWereMet())
}
