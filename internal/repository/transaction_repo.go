package repository

import (
	"context"
	"errors"

	"zunda_backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrTransactionNotFound = errors.New("transaction not found")

type TransactionRepository struct {
	db *pgxpool.Pool
}

func NewTransactionRepository(db *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Create inserts a new pending purchase attempt.
func (r *TransactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO transactions (user_id, type, amount, status, payment_id)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		tx.UserID, tx.Type, tx.Amount, tx.Status, tx.PaymentID,
	).Scan(&tx.ID, &tx.CreatedAt)
}

// GetByPaymentID looks up a purchase by its gateway payment id.
func (r *TransactionRepository) GetByPaymentID(ctx context.Context, paymentID string) (*domain.Transaction, error) {
	var tx domain.Transaction
	err := r.db.QueryRow(ctx,
		`SELECT id, user_id, type, amount, status, payment_id, created_at, updated_at
		 FROM transactions
		 WHERE payment_id = $1`,
		paymentID,
	).Scan(&tx.ID, &tx.UserID, &tx.Type, &tx.Amount, &tx.Status, &tx.PaymentID, &tx.CreatedAt, &tx.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	return &tx, nil
}

// CompletePendingWithTx flips a pending transaction to the given terminal
// status. It reports false when no pending row matched the payment id, which
// makes re-delivered webhooks a no-op.
func (r *TransactionRepository) CompletePendingWithTx(ctx context.Context, dbTx pgx.Tx, paymentID string, status domain.TransactionStatus) (*domain.Transaction, error) {
	var tx domain.Transaction
	err := dbTx.QueryRow(ctx,
		`UPDATE transactions
		 SET status = $2, updated_at = NOW()
		 WHERE payment_id = $1 AND status = 'pending'
		 RETURNING id, user_id, type, amount, status, payment_id, created_at, updated_at`,
		paymentID, status,
	).Scan(&tx.ID, &tx.UserID, &tx.Type, &tx.Amount, &tx.Status, &tx.PaymentID, &tx.CreatedAt, &tx.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	return &tx, nil
}

// GetByUserID returns the user's purchase history, newest first.
func (r *TransactionRepository) GetByUserID(ctx context.Context, userID int64, limit, offset int) ([]domain.Transaction, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, type, amount, status, payment_id, created_at, updated_at
		 FROM transactions
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Transaction
	for rows.Next() {
		var tx domain.Transaction
		if err := rows.Scan(
			&tx.ID, &tx.UserID, &tx.Type, &tx.Amount, &tx.Status,
			&tx.PaymentID, &tx.CreatedAt, &tx.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, tx)
	}
	return result, rows.Err()
}
