package topics

const (
	Transactions = "transactions"
	Bets         = "bets"
)
