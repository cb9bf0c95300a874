package integration

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"zunda_backend/internal/domain"
	"zunda_backend/internal/repository"
	"zunda_backend/internal/service"
)

func TestReconcile_CreditsExactlyOnce(t *testing.T) {
	db := testPool(t)
	ctx := context.Background()

	users, userRepo := newUserService(db)
	txRepo := repository.NewTransactionRepository(db)
	svc := service.NewPaymentService(db, txRepo, userRepo, users, nil, "")

	user := createUser(t, userRepo, db, 50)

	paymentID := fmt.Sprintf("pay-%d", rand.Int63())
	tx := &domain.Transaction{
		UserID:    user.ID,
		Type:      domain.TransactionTypeCoinPurchase,
		Amount:    700,
		Status:    domain.TransactionStatusPending,
		PaymentID: paymentID,
	}
	if err := txRepo.Create(ctx, tx); err != nil {
		t.Fatalf("create pending transaction: %v", err)
	}

	applied, err := svc.Reconcile(ctx, paymentID, service.OutcomeSucceeded, 700)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if !applied {
		t.Fatalf("first reconcile should apply")
	}
	if got := balance(t, db, user.ID); got != 750 {
		t.Fatalf("balance %d after credit, want 750", got)
	}

	// duplicate delivery is a silent no-op
	applied, err = svc.Reconcile(ctx, paymentID, service.OutcomeSucceeded, 700)
	if err != nil {
		t.Fatalf("duplicate reconcile: %v", err)
	}
	if applied {
		t.Fatalf("duplicate reconcile should not apply")
	}
	if got := balance(t, db, user.ID); got != 750 {
		t.Fatalf("balance %d after duplicate, want 750", got)
	}
}

func TestReconcile_CanceledNeverCredits(t *testing.T) {
	db := testPool(t)
	ctx := context.Background()

	users, userRepo := newUserService(db)
	txRepo := repository.NewTransactionRepository(db)
	svc := service.NewPaymentService(db, txRepo, userRepo, users, nil, "")

	user := createUser(t, userRepo, db, 50)

	paymentID := fmt.Sprintf("pay-%d", rand.Int63())
	tx := &domain.Transaction{
		UserID:    user.ID,
		Type:      domain.TransactionTypeCoinPurchase,
		Amount:    320,
		Status:    domain.TransactionStatusPending,
		PaymentID: paymentID,
	}
	if err := txRepo.Create(ctx, tx); err != nil {
		t.Fatalf("create pending transaction: %v", err)
	}

	applied, err := svc.Reconcile(ctx, paymentID, service.OutcomeCanceled, 0)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if !applied {
		t.Fatalf("cancellation should flip the row")
	}
	if got := balance(t, db, user.ID); got != 50 {
		t.Fatalf("canceled payment changed balance to %d", got)
	}

	// a late success for the same payment must not revive it
	applied, err = svc.Reconcile(ctx, paymentID, service.OutcomeSucceeded, 320)
	if err != nil {
		t.Fatalf("late reconcile: %v", err)
	}
	if applied {
		t.Fatalf("terminal transaction was reconciled again")
	}
	if got := balance(t, db, user.ID); got != 50 {
		t.Fatalf("late success credited a canceled payment: balance %d", got)
	}
}

func TestReconcile_UnknownPayment(t *testing.T) {
	db := testPool(t)
	ctx := context.Background()

	users, userRepo := newUserService(db)
	txRepo := repository.NewTransactionRepository(db)
	svc := service.NewPaymentService(db, txRepo, userRepo, users, nil, "")

	applied, err := svc.Reconcile(ctx, "pay-does-not-exist", service.OutcomeSucceeded, 100)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if applied {
		t.Fatalf("unknown payment should be a no-op")
	}
}
