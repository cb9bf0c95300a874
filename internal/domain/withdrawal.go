package domain

import "time"

// BankDetails is the payout destination supplied with a withdrawal request.
type BankDetails struct {
	BankName      string `json:"bank_name"`
	AccountNumber string `json:"account_number"`
}

// Withdrawal is a payout request. The amount is debited (reserved) when the
// row is created; an out-of-band payout process resolves it later.
type Withdrawal struct {
	ID          int64            `db:"id" json:"id"`
	UserID      int64            `db:"user_id" json:"user_id"`
	Amount      int64            `db:"amount" json:"amount"`
	BankDetails BankDetails      `db:"bank_details" json:"bank_details"`
	Status      WithdrawalStatus `db:"status" json:"status"`
	CreatedAt   time.Time        `db:"created_at" json:"created_at"`
	ProcessedAt *time.Time       `db:"processed_at" json:"processed_at,omitempty"`
}

type WithdrawalStatus string

const (
	WithdrawalStatusPending    WithdrawalStatus = "pending"
	WithdrawalStatusProcessing WithdrawalStatus = "processing"
	WithdrawalStatusCompleted  WithdrawalStatus = "completed"
	WithdrawalStatusRejected   WithdrawalStatus = "rejected"
)

// MinWithdrawalAmount is the smallest payout accepted, in rubles
// (coins convert 1:1).
const MinWithdrawalAmount = 500
