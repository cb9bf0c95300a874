package service

import (
	"context"
	"errors"
	"time"

	"zunda_backend/internal/domain"
	"zunda_backend/internal/logger"
	"zunda_backend/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrReceiverNotFound    = errors.New("receiver not found")
	ErrGiftNotFound        = errors.New("gift not found")
	ErrInsufficientBalance = errors.New("insufficient balance")
)

// GiftSentEvent is broadcast to a live session's room after a transfer
// commits.
type GiftSentEvent struct {
	Sender struct {
		ID     int64  `json:"id"`
		Name   string `json:"name"`
		Avatar string `json:"avatar,omitempty"`
	} `json:"sender"`
	Gift struct {
		ID           int64  `json:"id"`
		Name         string `json:"name"`
		AnimationURL string `json:"animation_url,omitempty"`
	} `json:"gift"`
	Value     int64     `json:"value"`
	Timestamp time.Time `json:"timestamp"`
}

// GiftNotifier delivers gift events to live session viewers. Delivery is
// best-effort; a failed publish never affects the committed transfer.
type GiftNotifier interface {
	PublishGiftSent(liveID string, event GiftSentEvent)
}

// SendGiftResult is returned to the sender on success.
type SendGiftResult struct {
	GiftLabel  string `json:"gift"`
	Cost       int64  `json:"cost"`
	NewBalance int64  `json:"new_balance"`
}

// GiftService executes peer-to-peer gift transfers with the platform
// commission split.
type GiftService struct {
	db         *pgxpool.Pool
	userRepo   *repository.UserRepository
	giftRepo   *repository.GiftRepository
	giftTxRepo *repository.GiftTransactionRepository
	users      *UserService
	notifier   GiftNotifier
}

func NewGiftService(
	db *pgxpool.Pool,
	userRepo *repository.UserRepository,
	giftRepo *repository.GiftRepository,
	giftTxRepo *repository.GiftTransactionRepository,
	users *UserService,
	notifier GiftNotifier,
) *GiftService {
	return &GiftService{
		db:         db,
		userRepo:   userRepo,
		giftRepo:   giftRepo,
		giftTxRepo: giftTxRepo,
		users:      users,
		notifier:   notifier,
	}
}

// creatorSharePermille is the creator's cut of a gift's coin cost: 70%,
// floored with integer math.
const creatorSharePermille = 700

// splitGiftCost divides a gift's cost between creator and platform.
// creatorShare + commission always equals cost.
func splitGiftCost(cost int64) (creatorShare, commission int64) {
	creatorShare = cost * creatorSharePermille / 1000
	commission = cost - creatorShare
	return creatorShare, commission
}

// ListActiveGifts returns the catalog ordered by ascending coin cost.
func (s *GiftService) ListActiveGifts(ctx context.Context) ([]domain.Gift, error) {
	return s.giftRepo.GetActive(ctx)
}

// SendGift debits the sender, credits the receiver's share, appends the
// ledger row and updates the receiver's creator stats as one unit. Either
// all four effects commit or none do.
func (s *GiftService) SendGift(ctx context.Context, senderID, receiverID, giftID int64, liveID string) (*SendGiftResult, error) {
	receiver, err := s.userRepo.GetByID(ctx, receiverID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrReceiverNotFound
		}
		return nil, err
	}

	gift, err := s.giftRepo.GetActiveByID(ctx, giftID)
	if err != nil {
		if errors.Is(err, repository.ErrGiftNotFound) {
			return nil, ErrGiftNotFound
		}
		return nil, err
	}

	// Cheap pre-check from the cache; the conditional debit below is the
	// authoritative guard under concurrency.
	sender, err := s.users.GetUser(ctx, senderID)
	if err != nil {
		return nil, err
	}
	if sender.Coins < gift.CoinCost {
		return nil, ErrInsufficientBalance
	}

	creatorShare, commission := splitGiftCost(gift.CoinCost)

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	newBalance, err := s.userRepo.DebitIfSufficientWithTx(ctx, tx, senderID, gift.CoinCost)
	if err != nil {
		if errors.Is(err, repository.ErrInsufficientBalance) {
			return nil, ErrInsufficientBalance
		}
		return nil, err
	}

	if _, err := s.userRepo.AdjustBalanceWithTx(ctx, tx, receiverID, creatorShare); err != nil {
		return nil, err
	}

	giftTx := &domain.GiftTransaction{
		SenderID:   senderID,
		ReceiverID: receiverID,
		GiftID:     gift.ID,
		LiveID:     liveID,
		CoinsValue: gift.CoinCost,
		Commission: commission,
	}
	if err := s.giftTxRepo.CreateWithTx(ctx, tx, giftTx); err != nil {
		return nil, err
	}

	if err := s.giftTxRepo.UpsertCreatorStatsWithTx(ctx, tx, receiverID, creatorShare); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	s.users.InvalidateUsers(ctx, senderID, receiverID)

	if liveID != "" && s.notifier != nil {
		event := GiftSentEvent{
			Value:     gift.CoinCost,
			Timestamp: time.Now().UTC(),
		}
		event.Sender.ID = sender.ID
		event.Sender.Name = sender.Name
		event.Sender.Avatar = sender.Avatar
		event.Gift.ID = gift.ID
		event.Gift.Name = gift.DisplayName
		event.Gift.AnimationURL = gift.AnimationURL
		s.notifier.PublishGiftSent(liveID, event)
	}

	logger.Info("gift sent",
		"sender_id", senderID, "receiver_id", receiver.ID,
		"gift", gift.Name, "cost", gift.CoinCost, "commission", commission)

	return &SendGiftResult{
		GiftLabel:  gift.DisplayName,
		Cost:       gift.CoinCost,
		NewBalance: newBalance,
	}, nil
}

// SentHistory returns gifts the user sent, newest first.
func (s *GiftService) SentHistory(ctx context.Context, userID int64, limit int) ([]domain.GiftHistoryEntry, error) {
	return s.giftTxRepo.GetSentByUser(ctx, userID, limit)
}

// ReceivedHistory returns gifts the user received, newest first.
func (s *GiftService) ReceivedHistory(ctx context.Context, userID int64, limit int) ([]domain.GiftHistoryEntry, error) {
	return s.giftTxRepo.GetReceivedByUser(ctx, userID, limit)
}

// CreatorStats returns the user's rolling earnings aggregate.
func (s *GiftService) CreatorStats(ctx context.Context, userID int64) (*domain.CreatorStats, error) {
	return s.giftTxRepo.GetCreatorStats(ctx, userID)
}
