package repository

import (
	"context"
	"errors"

	"zunda_backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrPhoneTaken          = errors.New("phone already registered")
)

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, phone, password_hash, name, avatar, bio, coins, created_at, updated_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(
		&u.ID, &u.Phone, &u.PasswordHash, &u.Name, &u.Avatar, &u.Bio,
		&u.Coins, &u.CreatedAt, &u.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user seeded with the signup bonus.
func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO users (phone, password_hash, name, avatar, coins)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (phone) DO NOTHING
		 RETURNING id, coins, created_at`,
		u.Phone, u.PasswordHash, u.Name, u.Avatar, int64(domain.SignupBonusCoins),
	).Scan(&u.ID, &u.Coins, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrPhoneTaken
	}
	return err
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return scanUser(r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *UserRepository) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	return scanUser(r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE phone = $1`, phone))
}

// UpdateProfile updates the mutable profile fields; empty values keep the
// stored ones.
func (r *UserRepository) UpdateProfile(ctx context.Context, id int64, name, bio, avatar string) (*domain.User, error) {
	return scanUser(r.db.QueryRow(ctx,
		`UPDATE users
		 SET name = COALESCE(NULLIF($2, ''), name),
		     bio = COALESCE(NULLIF($3, ''), bio),
		     avatar = COALESCE(NULLIF($4, ''), avatar),
		     updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+userColumns,
		id, name, bio, avatar))
}

// AdjustBalance atomically adds delta (positive or negative) to the user's
// coin balance and returns the resulting value. It does not enforce
// non-negativity; callers spending coins must use DebitIfSufficient.
func (r *UserRepository) AdjustBalance(ctx context.Context, userID, delta int64) (int64, error) {
	return adjustBalance(ctx, r.db, userID, delta)
}

// AdjustBalanceWithTx is AdjustBalance inside an existing transaction.
func (r *UserRepository) AdjustBalanceWithTx(ctx context.Context, tx pgx.Tx, userID, delta int64) (int64, error) {
	return adjustBalance(ctx, tx, userID, delta)
}

// DebitIfSufficient deducts amount only when the balance covers it. The
// check and the debit are one statement, so concurrent spends serialize at
// the row and can never overdraw.
func (r *UserRepository) DebitIfSufficient(ctx context.Context, userID, amount int64) (int64, error) {
	return debitIfSufficient(ctx, r.db, userID, amount)
}

// DebitIfSufficientWithTx is DebitIfSufficient inside an existing transaction.
func (r *UserRepository) DebitIfSufficientWithTx(ctx context.Context, tx pgx.Tx, userID, amount int64) (int64, error) {
	return debitIfSufficient(ctx, tx, userID, amount)
}

type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func adjustBalance(ctx context.Context, q querier, userID, delta int64) (int64, error) {
	var newBalance int64
	err := q.QueryRow(ctx,
		`UPDATE users SET coins = coins + $1, updated_at = NOW()
		 WHERE id = $2
		 RETURNING coins`,
		delta, userID,
	).Scan(&newBalance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrUserNotFound
		}
		return 0, err
	}
	return newBalance, nil
}

func debitIfSufficient(ctx context.Context, q querier, userID, amount int64) (int64, error) {
	var newBalance int64
	err := q.QueryRow(ctx,
		`UPDATE users SET coins = coins - $1, updated_at = NOW()
		 WHERE id = $2 AND coins >= $1
		 RETURNING coins`,
		amount, userID,
	).Scan(&newBalance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Could be not found or insufficient balance, check which
			var exists bool
			_ = q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, userID).Scan(&exists)
			if !exists {
				return 0, ErrUserNotFound
			}
			return 0, ErrInsufficientBalance
		}
		return 0, err
	}
	return newBalance, nil
}
