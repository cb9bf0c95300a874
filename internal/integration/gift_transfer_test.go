package integration

import (
	"context"
	"errors"
	"sync"
	"testing"

	"zunda_backend/internal/repository"
	"zunda_backend/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
)

type repoSet struct {
	db         *pgxpool.Pool
	userRepo   *repository.UserRepository
	giftRepo   *repository.GiftRepository
	giftTxRepo *repository.GiftTransactionRepository
}

func newGiftService(t *testing.T) (*service.GiftService, *repoSet) {
	t.Helper()
	db := testPool(t)
	users, userRepo := newUserService(db)
	giftRepo := repository.NewGiftRepository(db)
	giftTxRepo := repository.NewGiftTransactionRepository(db)
	svc := service.NewGiftService(db, userRepo, giftRepo, giftTxRepo, users, nil)
	return svc, &repoSet{db: db, userRepo: userRepo, giftRepo: giftRepo, giftTxRepo: giftTxRepo}
}

func TestSendGift_TransfersAndLedgers(t *testing.T) {
	svc, rs := newGiftService(t)
	ctx := context.Background()

	sender := createUser(t, rs.userRepo, rs.db, 1000)
	receiver := createUser(t, rs.userRepo, rs.db, 0)

	gifts, err := rs.giftRepo.GetActive(ctx)
	if err != nil || len(gifts) == 0 {
		t.Fatalf("load gift catalog: %v (%d gifts)", err, len(gifts))
	}
	gift := gifts[0]

	result, err := svc.SendGift(ctx, sender.ID, receiver.ID, gift.ID, "")
	if err != nil {
		t.Fatalf("send gift: %v", err)
	}

	if result.NewBalance != 1000-gift.CoinCost {
		t.Fatalf("sender balance %d, want %d", result.NewBalance, 1000-gift.CoinCost)
	}

	share := gift.CoinCost * 700 / 1000
	if got := balance(t, rs.db, receiver.ID); got != share {
		t.Fatalf("receiver balance %d, want %d", got, share)
	}

	received, err := svc.ReceivedHistory(ctx, receiver.ID, 10)
	if err != nil {
		t.Fatalf("received history: %v", err)
	}
	if len(received) != 1 {
		t.Fatalf("expected 1 ledger entry, got %d", len(received))
	}
	if received[0].CoinsValue != gift.CoinCost {
		t.Fatalf("ledger value %d, want %d", received[0].CoinsValue, gift.CoinCost)
	}

	stats, err := svc.CreatorStats(ctx, receiver.ID)
	if err != nil {
		t.Fatalf("creator stats: %v", err)
	}
	if stats.TotalEarned != share || stats.TotalGifts != 1 {
		t.Fatalf("stats = %d earned / %d gifts, want %d / 1", stats.TotalEarned, stats.TotalGifts, share)
	}
}

func TestSendGift_InsufficientBalance(t *testing.T) {
	svc, rs := newGiftService(t)
	ctx := context.Background()

	sender := createUser(t, rs.userRepo, rs.db, 0)
	receiver := createUser(t, rs.userRepo, rs.db, 0)

	gifts, err := rs.giftRepo.GetActive(ctx)
	if err != nil || len(gifts) == 0 {
		t.Fatalf("load gift catalog: %v", err)
	}

	_, err = svc.SendGift(ctx, sender.ID, receiver.ID, gifts[0].ID, "")
	if !errors.Is(err, service.ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}

	if got := balance(t, rs.db, sender.ID); got != 0 {
		t.Fatalf("failed send changed sender balance to %d", got)
	}
	if got := balance(t, rs.db, receiver.ID); got != 0 {
		t.Fatalf("failed send changed receiver balance to %d", got)
	}
}

// Concurrent sends against one balance must never drive it negative.
func TestSendGift_ConcurrentNeverOverdraws(t *testing.T) {
	svc, rs := newGiftService(t)
	ctx := context.Background()

	gifts, err := rs.giftRepo.GetActive(ctx)
	if err != nil || len(gifts) == 0 {
		t.Fatalf("load gift catalog: %v", err)
	}
	gift := gifts[0]

	// funds for exactly 3 sends, 10 attempted
	sender := createUser(t, rs.userRepo, rs.db, gift.CoinCost*3)
	receiver := createUser(t, rs.userRepo, rs.db, 0)

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.SendGift(ctx, sender.ID, receiver.ID, gift.ID, ""); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if succeeded != 3 {
		t.Fatalf("expected exactly 3 successful sends, got %d", succeeded)
	}
	if got := balance(t, rs.db, sender.ID); got != 0 {
		t.Fatalf("sender balance %d after exhausting funds, want 0", got)
	}
	share := gift.CoinCost * 700 / 1000
	if got := balance(t, rs.db, receiver.ID); got != share*3 {
		t.Fatalf("receiver balance %d, want %d", got, share*3)
	}
}
