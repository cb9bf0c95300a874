package service

import (
	"context"
	"errors"
	"testing"

	"zunda_backend/internal/domain"
)

func TestValidateBankDetails(t *testing.T) {
	valid := domain.BankDetails{BankName: "Sberbank", AccountNumber: "40817810000000012345"}
	if err := validateBankDetails(valid); err != nil {
		t.Fatalf("valid details rejected: %v", err)
	}

	cases := []domain.BankDetails{
		{BankName: "", AccountNumber: "40817810000000012345"},
		{BankName: "  ", AccountNumber: "40817810000000012345"},
		{BankName: "Sberbank", AccountNumber: "123"},
		{BankName: "Sberbank", AccountNumber: "4081781000000001234x"},
		{BankName: "Sberbank", AccountNumber: ""},
	}
	for i, tc := range cases {
		if err := validateBankDetails(tc); !errors.Is(err, ErrInvalidBankDetails) {
			t.Errorf("case %d: expected ErrInvalidBankDetails, got %v", i, err)
		}
	}
}

// Validation must run before any storage access, so a service without a pool
// still rejects bad requests instead of panicking.
func TestRequestWithdrawal_ValidatesFirst(t *testing.T) {
	s := NewWithdrawalService(nil, nil, nil, nil, 500)
	details := domain.BankDetails{BankName: "Sberbank", AccountNumber: "40817810000000012345"}

	if _, err := s.RequestWithdrawal(context.Background(), 1, 499, details); !errors.Is(err, ErrBelowMinimum) {
		t.Fatalf("expected ErrBelowMinimum, got %v", err)
	}

	bad := domain.BankDetails{BankName: "", AccountNumber: "40817810000000012345"}
	if _, err := s.RequestWithdrawal(context.Background(), 1, 1000, bad); !errors.Is(err, ErrInvalidBankDetails) {
		t.Fatalf("expected ErrInvalidBankDetails, got %v", err)
	}
}

func TestResolve_RejectsUnknownStatus(t *testing.T) {
	s := NewWithdrawalService(nil, nil, nil, nil, 500)

	if _, err := s.Resolve(context.Background(), 1, domain.WithdrawalStatus("done")); !errors.Is(err, ErrInvalidResolution) {
		t.Fatalf("expected ErrInvalidResolution, got %v", err)
	}
	if _, err := s.Resolve(context.Background(), 1, domain.WithdrawalStatusPending); !errors.Is(err, ErrInvalidResolution) {
		t.Fatalf("pending is not a resolution, got %v", err)
	}
}
