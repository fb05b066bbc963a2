package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/clutchden/clutchden-backend/internal/infrastructure/kafka"
	"github.com/clutchden/clutchden-backend/internal/models"
	"github.com/clutchden/clutchden-backend/internal/repository"
	"github.com/clutchden/clutchden-backend/pkg/contracts/events"
	"github.com/clutchden/clutchden-backend/pkg/contracts/topics"
	pkgerrors "github.com/clutchden/clutchden-backend/pkg/errors"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// DepositDetails pairs a created deposit transaction with the admin payment
// details the user needs to settle it.
type DepositDetails struct {
	Transaction  *models.Transaction  `json:"transaction"`
	AdminDetails *models.AdminAccount `json:"admin_details"`
	Instructions string               `json:"instructions"`
}

// WithdrawalRequest pairs the withdrawal record with its transaction.
type WithdrawalRequest struct {
	Withdrawal  *models.Withdrawal  `json:"withdrawal"`
	Transaction *models.Transaction `json:"transaction"`
}

type AccountService interface {
	GetBalance(ctx context.Context, userID int64) (float64, error)
	RequestDeposit(ctx context.Context, userID int64, amount float64) (*DepositDetails, error)
	RequestWithdraw(ctx context.Context, userID int64, amount float64, walletType, walletAddress string) (*WithdrawalRequest, error)
	ListTransactions(ctx context.Context, userID int64) ([]models.Transaction, error)
	ListWithdrawals(ctx context.Context, userID int64) ([]models.Withdrawal, error)
	ListPending(ctx context.Context) ([]models.Transaction, error)
	Approve(ctx context.Context, transactionID int64) (*models.Transaction, error)
	Reject(ctx context.Context, transactionID int64) (*models.Transaction, error)
	Notifications(ctx context.Context, userID int64) ([]models.Notification, error)
	MarkNotificationRead(ctx context.Context, userID, notificationID int64) error
	UnreadNotifications(ctx context.Context, userID int64) (int64, error)
	DeleteNotification(ctx context.Context, userID, notificationID int64) error
}

type accountService struct {
	userRepo         repository.UserRepository
	transactionRepo  repository.TransactionRepository
	withdrawalRepo   repository.WithdrawalRepository
	adminAccountRepo repository.AdminAccountRepository
	notificationRepo repository.NotificationRepository
	kafkaProducer    kafka.KafkaProducer
}

func NewAccountService(
	userRepo repository.UserRepository,
	transactionRepo repository.TransactionRepository,
	withdrawalRepo repository.WithdrawalRepository,
	adminAccountRepo repository.AdminAccountRepository,
	notificationRepo repository.NotificationRepository,
	kafkaProducer kafka.KafkaProducer,
) *accountService {
	return &accountService{
		userRepo:         userRepo,
		transactionRepo:  transactionRepo,
		withdrawalRepo:   withdrawalRepo,
		adminAccountRepo: adminAccountRepo,
		notificationRepo: notificationRepo,
		kafkaProducer:    kafkaProducer,
	}
}

// Balances are always read from storage; caching them would reintroduce the
// consistency hazard the ledger design removes.
func (s *accountService) GetBalance(ctx context.Context, userID int64) (float64, error) {
	tracer := otel.Tracer("account-service")
	ctx, span := tracer.Start(ctx, "GetBalance")
	defer span.End()

	balance, err := s.userRepo.GetBalance(ctx, userID)
	if err != nil {
		slog.Error("failed to get balance", "user_id", userID, "error", err)
		return 0, err
	}
	return balance, nil
}

func (s *accountService) RequestDeposit(ctx context.Context, userID int64, amount float64) (*DepositDetails, error) {
	tracer := otel.Tracer("account-service")
	ctx, span := tracer.Start(ctx, "RequestDeposit")
	span.SetAttributes(attribute.Int64("user_id", userID), attribute.Float64("amount", amount))
	defer span.End()

	if amount <= 0 {
		span.SetStatus(codes.Error, "invalid amount")
		return nil, pkgerrors.ErrInvalidAmount
	}

	adminAccount, err := s.adminAccountRepo.Get(ctx)
	if err != nil {
		span.RecordError(err)
		slog.Error("admin account lookup failed", "error", err)
		return nil, err
	}

	tx := &models.Transaction{
		UserID: userID,
		Type:   models.TypeDeposit,
		Amount: amount,
	}
	if err := s.transactionRepo.Create(ctx, tx); err != nil {
		span.RecordError(err)
		slog.Error("failed to create deposit transaction", "user_id", userID, "error", err)
		return nil, err
	}

	publishTransactionEvent(s.kafkaProducer, tx, events.TransactionRequested)

	slog.Info("deposit requested", "user_id", userID, "transaction_id", tx.ID, "amount", amount)
	return &DepositDetails{
		Transaction:  tx,
		AdminDetails: adminAccount,
		Instructions: "Please make payment to the above details and await confirmation.",
	}, nil
}

func (s *accountService) RequestWithdraw(ctx context.Context, userID int64, amount float64, walletType, walletAddress string) (*WithdrawalRequest, error) {
	tracer := otel.Tracer("account-service")
	ctx, span := tracer.Start(ctx, "RequestWithdraw")
	span.SetAttributes(attribute.Int64("user_id", userID), attribute.Float64("amount", amount))
	defer span.End()

	if amount <= 0 {
		span.SetStatus(codes.Error, "invalid amount")
		return nil, pkgerrors.ErrInvalidAmount
	}
	if walletType == "" || walletAddress == "" {
		span.SetStatus(codes.Error, "missing wallet details")
		return nil, pkgerrors.ErrWalletRequired
	}
	if !models.IsSupportedWallet(walletType) {
		span.SetStatus(codes.Error, "unsupported wallet")
		return nil, pkgerrors.ErrWalletNotSupported
	}

	withdrawal := &models.Withdrawal{
		UserID:        userID,
		Amount:        amount,
		WalletType:    walletType,
		WalletAddress: walletAddress,
		Reference:     uuid.NewString(),
	}
	if err := s.withdrawalRepo.Create(ctx, withdrawal); err != nil {
		span.RecordError(err)
		slog.Error("failed to create withdrawal", "user_id", userID, "error", err)
		return nil, err
	}

	// The transaction carries an explicit link to its withdrawal so approval
	// never has to guess which record to update.
	tx := &models.Transaction{
		UserID:        userID,
		Type:          models.TypeWithdrawal,
		Amount:        amount,
		WalletType:    walletType,
		WalletAddress: walletAddress,
		WithdrawalID:  &withdrawal.ID,
	}
	if err := s.transactionRepo.Create(ctx, tx); err != nil {
		span.RecordError(err)
		slog.Error("failed to create withdrawal transaction", "user_id", userID, "withdrawal_id", withdrawal.ID, "error", err)
		return nil, err
	}

	publishTransactionEvent(s.kafkaProducer, tx, events.TransactionRequested)

	slog.Info("withdrawal requested", "user_id", userID, "withdrawal_id", withdrawal.ID,
		"transaction_id", tx.ID, "amount", amount, "wallet_type", walletType)
	return &WithdrawalRequest{Withdrawal: withdrawal, Transaction: tx}, nil
}

func (s *accountService) ListTransactions(ctx context.Context, userID int64) ([]models.Transaction, error) {
	return s.transactionRepo.ListByUser(ctx, userID)
}

func (s *accountService) ListWithdrawals(ctx context.Context, userID int64) ([]models.Withdrawal, error) {
	return s.withdrawalRepo.ListByUser(ctx, userID)
}

func (s *accountService) ListPending(ctx context.Context) ([]models.Transaction, error) {
	return s.transactionRepo.ListPending(ctx)
}

// Notifications are written by the transactions consumer when an admin
// processes a request.
func (s *accountService) Notifications(ctx context.Context, userID int64) ([]models.Notification, error) {
	return s.notificationRepo.ListByUser(ctx, userID)
}

func (s *accountService) MarkNotificationRead(ctx context.Context, userID, notificationID int64) error {
	return s.notificationRepo.MarkRead(ctx, userID, notificationID)
}

func (s *accountService) UnreadNotifications(ctx context.Context, userID int64) (int64, error) {
	return s.notificationRepo.UnreadCount(ctx, userID)
}

func (s *accountService) DeleteNotification(ctx context.Context, userID, notificationID int64) error {
	return s.notificationRepo.Delete(ctx, userID, notificationID)
}

func (s *accountService) Approve(ctx context.Context, transactionID int64) (*models.Transaction, error) {
	tracer := otel.Tracer("account-service")
	ctx, span := tracer.Start(ctx, "ApproveTransaction")
	span.SetAttributes(attribute.Int64("transaction_id", transactionID))
	defer span.End()

	tx, err := s.transactionRepo.Approve(ctx, transactionID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		slog.Error("failed to approve transaction", "transaction_id", transactionID, "error", err)
		return nil, err
	}

	publishTransactionEvent(s.kafkaProducer, tx, events.TransactionApproved)

	slog.Info("transaction approved", "transaction_id", tx.ID, "user_id", tx.UserID, "type", tx.Type)
	return tx, nil
}

func (s *accountService) Reject(ctx context.Context, transactionID int64) (*models.Transaction, error) {
	tracer := otel.Tracer("account-service")
	ctx, span := tracer.Start(ctx, "RejectTransaction")
	span.SetAttributes(attribute.Int64("transaction_id", transactionID))
	defer span.End()

	tx, err := s.transactionRepo.Reject(ctx, transactionID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		slog.Error("failed to reject transaction", "transaction_id", transactionID, "error", err)
		return nil, err
	}

	publishTransactionEvent(s.kafkaProducer, tx, events.TransactionRejected)

	slog.Info("transaction rejected", "transaction_id", tx.ID, "user_id", tx.UserID, "type", tx.Type)
	return tx, nil
}

// publishTransactionEvent is fire-and-forget: the ledger state is already
// committed and an audit gap must not fail the request.
func publishTransactionEvent(producer kafka.KafkaProducer, tx *models.Transaction, eventType string) {
	event := events.TransactionEvent{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		TransactionID: tx.ID,
		UserID:        tx.UserID,
		Type:          string(tx.Type),
		Amount:        tx.Amount,
		Status:        string(tx.Status),
		CreatedAt:     time.Now().UTC().Format(time.RFC3339),
	}
	eventBytes, err := json.Marshal(event)
	if err != nil {
		slog.Error("failed to marshal transaction event", "transaction_id", tx.ID, "error", err)
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		key := fmt.Sprintf("%d", tx.ID)
		if err := producer.Send(ctx, topics.Transactions, key, eventBytes); err != nil {
			slog.Error("failed to send transaction event", "transaction_id", tx.ID, "event_type", eventType, "error", err)
		}
	}()
}
