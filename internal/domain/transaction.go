package domain

import "time"

// Transaction represents one coin purchase attempt. It is created pending
// when a payment is initiated and moves to exactly one terminal status,
// driven by gateway webhooks.
type Transaction struct {
	ID        int64             `db:"id" json:"id"`
	UserID    int64             `db:"user_id" json:"user_id"`
	Type      string            `db:"type" json:"type"`
	Amount    int64             `db:"amount" json:"amount"`
	Status    TransactionStatus `db:"status" json:"status"`
	PaymentID string            `db:"payment_id" json:"payment_id"`
	CreatedAt time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt time.Time         `db:"updated_at" json:"updated_at"`
}

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusCanceled  TransactionStatus = "canceled"
	TransactionStatusFailed    TransactionStatus = "failed"
)

const TransactionTypeCoinPurchase = "coin_purchase"

// CoinPackage is one entry of the fixed price table.
type CoinPackage struct {
	ID          string `json:"id"`
	Rub         int64  `json:"rub"`
	Coins       int64  `json:"coins"`
	Description string `json:"description"`
	Popular     bool   `json:"popular"`
}
