package repository

import (
	"context"

	"github.com/clutchden/clutchden-backend/internal/models"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetBalance(ctx context.Context, userID int64) (float64, error)
	// ChangeBalance applies delta atomically and fails when the result
	// would be negative; the new balance is returned.
	ChangeBalance(ctx context.Context, userID int64, delta float64) (newBalance float64, err error)
	List(ctx context.Context) ([]models.User, error)
	SetDisabled(ctx context.Context, userID int64, disabled bool) error
}

type AdminAccountRepository interface {
	Get(ctx context.Context) (*models.AdminAccount, error)
}
