package service

import (
	"context"
	"log/slog"

	"github.com/clutchden/clutchden-backend/internal/infrastructure/kafka"
	"github.com/clutchden/clutchden-backend/internal/models"
	"github.com/clutchden/clutchden-backend/internal/repository"
	"github.com/clutchden/clutchden-backend/pkg/contracts/events"
	pkgerrors "github.com/clutchden/clutchden-backend/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type AdminService interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	GetUser(ctx context.Context, userID int64) (*models.User, error)
	// SetUserStatus disables or re-enables a user account. Disabled users
	// keep their balance and history but cannot log in.
	SetUserStatus(ctx context.Context, userID int64, disabled bool) (*models.User, error)
	ListTransactions(ctx context.Context) ([]models.Transaction, error)
	// Credit applies a manual balance adjustment and records it as a
	// completed deposit transaction.
	Credit(ctx context.Context, userID int64, amount float64, note string) (*models.Transaction, error)
}

type adminService struct {
	userRepo        repository.UserRepository
	transactionRepo repository.TransactionRepository
	kafkaProducer   kafka.KafkaProducer
}

func NewAdminService(
	userRepo repository.UserRepository,
	transactionRepo repository.TransactionRepository,
	kafkaProducer kafka.KafkaProducer,
) *adminService {
	return &adminService{
		userRepo:        userRepo,
		transactionRepo: transactionRepo,
		kafkaProducer:   kafkaProducer,
	}
}

func (s *adminService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.userRepo.List(ctx)
}

func (s *adminService) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

func (s *adminService) SetUserStatus(ctx context.Context, userID int64, disabled bool) (*models.User, error) {
	tracer := otel.Tracer("admin-service")
	ctx, span := tracer.Start(ctx, "SetUserStatus")
	span.SetAttributes(attribute.Int64("user_id", userID), attribute.Bool("disabled", disabled))
	defer span.End()

	if err := s.userRepo.SetDisabled(ctx, userID, disabled); err != nil {
		span.RecordError(err)
		slog.Error("failed to set user status", "user_id", userID, "error", err)
		return nil, err
	}

	slog.Info("user status updated", "user_id", userID, "disabled", disabled)
	return s.userRepo.GetByID(ctx, userID)
}

func (s *adminService) ListTransactions(ctx context.Context) ([]models.Transaction, error) {
	return s.transactionRepo.List(ctx)
}

func (s *adminService) Credit(ctx context.Context, userID int64, amount float64, note string) (*models.Transaction, error) {
	tracer := otel.Tracer("admin-service")
	ctx, span := tracer.Start(ctx, "CreditUser")
	span.SetAttributes(attribute.Int64("user_id", userID), attribute.Float64("amount", amount))
	defer span.End()

	if amount <= 0 {
		span.SetStatus(codes.Error, "invalid amount")
		return nil, pkgerrors.ErrInvalidAmount
	}
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		span.RecordError(err)
		return nil, err
	}

	newBalance, err := s.userRepo.ChangeBalance(ctx, userID, amount)
	if err != nil {
		span.RecordError(err)
		slog.Error("failed to credit user", "user_id", userID, "amount", amount, "error", err)
		return nil, err
	}
	span.SetAttributes(attribute.Float64("new_balance", newBalance))

	if note == "" {
		note = "Manual credit by admin"
	}
	tx := &models.Transaction{
		UserID: userID,
		Type:   models.TypeDeposit,
		Amount: amount,
		Status: models.StatusCompleted,
		Note:   note,
	}
	if err := s.transactionRepo.Create(ctx, tx); err != nil {
		// Balance is already applied at this point.
		span.RecordError(err)
		slog.Error("credit applied but transaction record failed", "user_id", userID, "amount", amount, "error", err)
		return nil, err
	}

	publishTransactionEvent(s.kafkaProducer, tx, events.TransactionApproved)

	slog.Info("user credited", "user_id", userID, "transaction_id", tx.ID, "amount", amount, "balance", newBalance)
	return tx, nil
}
