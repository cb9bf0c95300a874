package service

import (
	"context"
	"errors"
	"fmt"

	"zunda_backend/internal/domain"
	"zunda_backend/internal/logger"
	"zunda_backend/internal/payment"
	"zunda_backend/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrUnknownPackage = errors.New("unknown coin package")
	ErrPaymentFailed  = errors.New("payment creation failed")
)

// coinPackages is the fixed price table (rubles to coins). Bigger packages
// carry bonus coins.
var coinPackages = []domain.CoinPackage{
	{ID: "mini", Rub: 99, Coins: 100, Description: "Начальный пакет"},
	{ID: "basic", Rub: 299, Coins: 320, Description: "Базовый пакет (+20 бонус)"},
	{ID: "standard", Rub: 599, Coins: 700, Description: "Стандартный пакет (+100 бонус)", Popular: true},
	{ID: "premium", Rub: 1199, Coins: 1500, Description: "Премиум пакет (+300 бонус)"},
	{ID: "vip", Rub: 2999, Coins: 4000, Description: "VIP пакет (+1000 бонус)"},
}

// ReconcileOutcome is a verified terminal outcome delivered by the gateway.
type ReconcileOutcome string

const (
	OutcomeSucceeded ReconcileOutcome = "succeeded"
	OutcomeCanceled  ReconcileOutcome = "canceled"
	OutcomeFailed    ReconcileOutcome = "failed"
)

// PaymentGateway creates payments at the external gateway.
type PaymentGateway interface {
	CreatePayment(ctx context.Context, req payment.CreatePaymentRequest) (*payment.Payment, error)
}

// CreatePaymentResult is returned when a purchase is initiated.
type CreatePaymentResult struct {
	PaymentID       string `json:"payment_id"`
	ConfirmationURL string `json:"confirmation_url"`
	Rub             int64  `json:"amount"`
	Coins           int64  `json:"coins"`
}

// PaymentService creates coin purchases and reconciles gateway outcomes
// against them exactly once.
type PaymentService struct {
	db        *pgxpool.Pool
	txRepo    *repository.TransactionRepository
	userRepo  *repository.UserRepository
	users     *UserService
	gateway   PaymentGateway
	returnURL string
}

func NewPaymentService(
	db *pgxpool.Pool,
	txRepo *repository.TransactionRepository,
	userRepo *repository.UserRepository,
	users *UserService,
	gateway PaymentGateway,
	returnURL string,
) *PaymentService {
	return &PaymentService{
		db:        db,
		txRepo:    txRepo,
		userRepo:  userRepo,
		users:     users,
		gateway:   gateway,
		returnURL: returnURL,
	}
}

// Packages returns the fixed price table.
func (s *PaymentService) Packages() []domain.CoinPackage {
	return coinPackages
}

// PackageByID resolves one entry of the price table.
func (s *PaymentService) PackageByID(id string) (*domain.CoinPackage, error) {
	for i := range coinPackages {
		if coinPackages[i].ID == id {
			return &coinPackages[i], nil
		}
	}
	return nil, ErrUnknownPackage
}

// CreatePayment opens a gateway payment for the package and records the
// purchase as pending under the gateway-issued payment id.
func (s *PaymentService) CreatePayment(ctx context.Context, userID int64, packageID string) (*CreatePaymentResult, error) {
	pkg, err := s.PackageByID(packageID)
	if err != nil {
		return nil, err
	}

	gwPayment, err := s.gateway.CreatePayment(ctx, payment.CreatePaymentRequest{
		Amount: payment.Amount{
			Value:    fmt.Sprintf("%d.00", pkg.Rub),
			Currency: "RUB",
		},
		Capture: true,
		Confirmation: payment.Confirmation{
			Type:      "redirect",
			ReturnURL: s.returnURL,
		},
		Description: fmt.Sprintf("Покупка %d Zunda Coins", pkg.Coins),
		Metadata: map[string]any{
			"userId":    userID,
			"packageId": pkg.ID,
			"coins":     pkg.Coins,
			"type":      domain.TransactionTypeCoinPurchase,
		},
	})
	if err != nil {
		logger.Error("gateway payment creation failed", "user_id", userID, "package", packageID, "error", err)
		return nil, ErrPaymentFailed
	}

	tx := &domain.Transaction{
		UserID:    userID,
		Type:      domain.TransactionTypeCoinPurchase,
		Amount:    pkg.Coins,
		Status:    domain.TransactionStatusPending,
		PaymentID: gwPayment.ID,
	}
	if err := s.txRepo.Create(ctx, tx); err != nil {
		return nil, err
	}

	return &CreatePaymentResult{
		PaymentID:       gwPayment.ID,
		ConfirmationURL: gwPayment.Confirmation.ConfirmationURL,
		Rub:             pkg.Rub,
		Coins:           pkg.Coins,
	}, nil
}

// Reconcile applies a verified gateway outcome to the purchase identified by
// paymentID. Unknown or already-terminal payment ids are absorbed as a no-op
// (applied=false), so duplicate webhook deliveries never double-credit. On a
// succeeded outcome the coins are credited inside the same transaction that
// flips the status.
func (s *PaymentService) Reconcile(ctx context.Context, paymentID string, outcome ReconcileOutcome, coins int64) (bool, error) {
	var terminal domain.TransactionStatus
	switch outcome {
	case OutcomeSucceeded:
		terminal = domain.TransactionStatusCompleted
	case OutcomeCanceled:
		terminal = domain.TransactionStatusCanceled
	case OutcomeFailed:
		terminal = domain.TransactionStatusFailed
	default:
		return false, fmt.Errorf("unknown reconcile outcome: %q", outcome)
	}

	dbTx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return false, err
	}
	defer func() { _ = dbTx.Rollback(ctx) }()

	tx, err := s.txRepo.CompletePendingWithTx(ctx, dbTx, paymentID, terminal)
	if err != nil {
		if errors.Is(err, repository.ErrTransactionNotFound) {
			// Unknown payment or already terminal: absorb silently.
			return false, nil
		}
		return false, err
	}

	if outcome == OutcomeSucceeded {
		credited := coins
		if credited <= 0 {
			credited = tx.Amount
		}
		if _, err := s.userRepo.AdjustBalanceWithTx(ctx, dbTx, tx.UserID, credited); err != nil {
			return false, err
		}
		logger.Info("purchase completed", "payment_id", paymentID, "user_id", tx.UserID, "coins", credited)
	}

	if err := dbTx.Commit(ctx); err != nil {
		return false, err
	}

	s.users.InvalidateUsers(ctx, tx.UserID)
	return true, nil
}

// TransactionHistory returns the user's purchases, newest first.
func (s *PaymentService) TransactionHistory(ctx context.Context, userID int64, limit, offset int) ([]domain.Transaction, error) {
	return s.txRepo.GetByUserID(ctx, userID, limit, offset)
}
