package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"zunda_backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrWithdrawalNotFound = errors.New("withdrawal not found")

type WithdrawalRepository struct {
	db *pgxpool.Pool
}

func NewWithdrawalRepository(db *pgxpool.Pool) *WithdrawalRepository {
	return &WithdrawalRepository{db: db}
}

// CreateWithTx inserts a pending withdrawal inside an existing transaction,
// so the reservation debit and the row are visible together or not at all.
func (r *WithdrawalRepository) CreateWithTx(ctx context.Context, dbTx pgx.Tx, w *domain.Withdrawal) error {
	details, err := json.Marshal(w.BankDetails)
	if err != nil {
		return err
	}

	return dbTx.QueryRow(ctx,
		`INSERT INTO withdrawals (user_id, amount, bank_details, status)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		w.UserID, w.Amount, details, w.Status,
	).Scan(&w.ID, &w.CreatedAt)
}

// ResolvePendingWithTx advances a pending or processing withdrawal to the
// given status. processed_at is stamped only on terminal statuses. It fails
// with ErrWithdrawalNotFound when the row is missing or already resolved, so
// a duplicate resolution never runs twice.
func (r *WithdrawalRepository) ResolvePendingWithTx(ctx context.Context, dbTx pgx.Tx, id int64, status domain.WithdrawalStatus) (*domain.Withdrawal, error) {
	row := dbTx.QueryRow(ctx,
		`UPDATE withdrawals
		 SET status = $2,
		     processed_at = CASE WHEN $2 IN ('completed', 'rejected') THEN NOW() ELSE processed_at END
		 WHERE id = $1 AND status IN ('pending', 'processing') AND status <> $2
		 RETURNING id, user_id, amount, bank_details, status, created_at, processed_at`,
		id, status,
	)
	return scanWithdrawal(row)
}

// GetByID returns the withdrawal only when it belongs to the user.
func (r *WithdrawalRepository) GetByID(ctx context.Context, id, userID int64) (*domain.Withdrawal, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, user_id, amount, bank_details, status, created_at, processed_at
		 FROM withdrawals
		 WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	return scanWithdrawal(row)
}

// GetByUserID returns the user's withdrawal history, newest first.
func (r *WithdrawalRepository) GetByUserID(ctx context.Context, userID int64, limit int) ([]domain.Withdrawal, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, amount, bank_details, status, created_at, processed_at
		 FROM withdrawals
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var withdrawals []domain.Withdrawal
	for rows.Next() {
		w, err := scanWithdrawal(rows)
		if err != nil {
			return nil, err
		}
		withdrawals = append(withdrawals, *w)
	}
	return withdrawals, rows.Err()
}

func scanWithdrawal(row pgx.Row) (*domain.Withdrawal, error) {
	var w domain.Withdrawal
	var details []byte
	var processedAt *time.Time

	if err := row.Scan(&w.ID, &w.UserID, &w.Amount, &details, &w.Status, &w.CreatedAt, &processedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrWithdrawalNotFound
		}
		return nil, err
	}

	if len(details) > 0 {
		_ = json.Unmarshal(details, &w.BankDetails)
	}
	w.ProcessedAt = processedAt

	return &w, nil
}
