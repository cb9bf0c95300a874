package service

import (
	"context"
	"errors"
	"strings"

	"zunda_backend/internal/domain"
	"zunda_backend/internal/logger"
	"zunda_backend/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrBelowMinimum          = errors.New("amount below withdrawal minimum")
	ErrInvalidBankDetails    = errors.New("invalid bank details")
	ErrInvalidResolution     = errors.New("invalid withdrawal resolution")
	ErrWithdrawalNotResolved = errors.New("withdrawal not found or already resolved")
)

// WithdrawalService reserves coins for payout requests and settles them. The
// reservation debit happens in the same transaction as the request row, and a
// rejection credits the reserved amount back in the same transaction that
// flips the status.
type WithdrawalService struct {
	db        *pgxpool.Pool
	repo      *repository.WithdrawalRepository
	userRepo  *repository.UserRepository
	users     *UserService
	minAmount int64
}

func NewWithdrawalService(
	db *pgxpool.Pool,
	repo *repository.WithdrawalRepository,
	userRepo *repository.UserRepository,
	users *UserService,
	minAmount int64,
) *WithdrawalService {
	if minAmount <= 0 {
		minAmount = domain.MinWithdrawalAmount
	}
	return &WithdrawalService{
		db:        db,
		repo:      repo,
		userRepo:  userRepo,
		users:     users,
		minAmount: minAmount,
	}
}

func validateBankDetails(d domain.BankDetails) error {
	if strings.TrimSpace(d.BankName) == "" {
		return ErrInvalidBankDetails
	}
	acc := strings.TrimSpace(d.AccountNumber)
	if len(acc) < 10 || len(acc) > 34 {
		return ErrInvalidBankDetails
	}
	for _, c := range acc {
		if c < '0' || c > '9' {
			return ErrInvalidBankDetails
		}
	}
	return nil
}

// RequestWithdrawal validates the request, then atomically debits the amount
// from the user and records a pending withdrawal. Insufficient balance leaves
// neither a debit nor a row behind.
func (s *WithdrawalService) RequestWithdrawal(ctx context.Context, userID, amount int64, details domain.BankDetails) (*domain.Withdrawal, error) {
	if amount < s.minAmount {
		return nil, ErrBelowMinimum
	}
	if err := validateBankDetails(details); err != nil {
		return nil, err
	}

	dbTx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = dbTx.Rollback(ctx) }()

	if _, err := s.userRepo.DebitIfSufficientWithTx(ctx, dbTx, userID, amount); err != nil {
		return nil, err
	}

	w := &domain.Withdrawal{
		UserID:      userID,
		Amount:      amount,
		BankDetails: details,
		Status:      domain.WithdrawalStatusPending,
	}
	if err := s.repo.CreateWithTx(ctx, dbTx, w); err != nil {
		return nil, err
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, err
	}

	s.users.InvalidateUsers(ctx, userID)
	logger.Info("withdrawal requested", "withdrawal_id", w.ID, "user_id", userID, "amount", amount)

	return w, nil
}

// Resolve advances a withdrawal to processing, completed or rejected.
// A rejection returns the reserved coins to the user in the same transaction.
// Resolving an already settled withdrawal fails with ErrWithdrawalNotResolved
// and changes nothing.
func (s *WithdrawalService) Resolve(ctx context.Context, id int64, status domain.WithdrawalStatus) (*domain.Withdrawal, error) {
	switch status {
	case domain.WithdrawalStatusProcessing, domain.WithdrawalStatusCompleted, domain.WithdrawalStatusRejected:
	default:
		return nil, ErrInvalidResolution
	}

	dbTx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = dbTx.Rollback(ctx) }()

	w, err := s.repo.ResolvePendingWithTx(ctx, dbTx, id, status)
	if err != nil {
		if errors.Is(err, repository.ErrWithdrawalNotFound) {
			return nil, ErrWithdrawalNotResolved
		}
		return nil, err
	}

	if status == domain.WithdrawalStatusRejected {
		if _, err := s.userRepo.AdjustBalanceWithTx(ctx, dbTx, w.UserID, w.Amount); err != nil {
			return nil, err
		}
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, err
	}

	if status == domain.WithdrawalStatusRejected {
		s.users.InvalidateUsers(ctx, w.UserID)
	}
	logger.Info("withdrawal resolved", "withdrawal_id", w.ID, "user_id", w.UserID, "status", status)

	return w, nil
}

// Get returns one withdrawal scoped to its owner.
func (s *WithdrawalService) Get(ctx context.Context, id, userID int64) (*domain.Withdrawal, error) {
	return s.repo.GetByID(ctx, id, userID)
}

// History returns the user's withdrawal requests, newest first.
func (s *WithdrawalService) History(ctx context.Context, userID int64, limit int) ([]domain.Withdrawal, error) {
	return s.repo.GetByUserID(ctx, userID, limit)
}
