package models

import "time"

type Withdrawal struct {
	ID            int64            `json:"id"`
	UserID        int64            `json:"user_id"`
	Amount        float64          `json:"amount"`
	WalletType    string           `json:"wallet_type"`
	WalletAddress string           `json:"wallet_address"`
	Reference     string           `json:"reference"`
	Status        WithdrawalStatus `json:"status"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

type WithdrawalStatus string

const (
	WithdrawalPending  WithdrawalStatus = "pending"
	WithdrawalApproved WithdrawalStatus = "approved"
	WithdrawalRejected WithdrawalStatus = "rejected"
)

// AllowedWalletTypes is the closed set of payout destinations the platform supports.
var AllowedWalletTypes = []string{"Trust Wallet", "PayPal", "Coinbase", "Binance", "Apple Pay"}

func IsSupportedWallet(walletType string) bool {
	for _, w := range AllowedWalletTypes {
		if w == walletType {
			return true
		}
	}
	return false
}
