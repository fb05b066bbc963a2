package models

// AdminAccount holds the payment details returned to a user after a deposit
// request. Deposits are settled out of band against this account and then
// approved by an admin.
type AdminAccount struct {
	ID            int64  `json:"id"`
	BankName      string `json:"bank_name"`
	AccountName   string `json:"account_name"`
	AccountNumber string `json:"account_number"`
	WalletAddress string `json:"wallet_address,omitempty"`
}
