package models

import "time"

type Transaction struct {
	ID            int64             `json:"id"`
	UserID        int64             `json:"user_id"`
	Type          TransactionType   `json:"type"`
	Amount        float64           `json:"amount"`
	Status        TransactionStatus `json:"status"`
	WalletType    string            `json:"wallet_type,omitempty"`
	WalletAddress string            `json:"wallet_address,omitempty"`
	WithdrawalID  *int64            `json:"withdrawal_id,omitempty"`
	Note          string            `json:"note,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

type TransactionType string

const (
	TypeDeposit    TransactionType = "deposit"
	TypeWithdrawal TransactionType = "withdrawal"
)

type TransactionStatus string

const (
	StatusPending   TransactionStatus = "pending"
	StatusCompleted TransactionStatus = "completed"
	StatusRejected  TransactionStatus = "rejected"
)
