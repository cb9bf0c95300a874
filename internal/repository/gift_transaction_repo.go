package repository

import (
	"context"

	"zunda_backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type GiftTransactionRepository struct {
	db *pgxpool.Pool
}

func NewGiftTransactionRepository(db *pgxpool.Pool) *GiftTransactionRepository {
	return &GiftTransactionRepository{db: db}
}

// CreateWithTx appends one ledger row inside an existing transaction.
func (r *GiftTransactionRepository) CreateWithTx(ctx context.Context, dbTx pgx.Tx, gt *domain.GiftTransaction) error {
	var liveID *string
	if gt.LiveID != "" {
		liveID = &gt.LiveID
	}

	return dbTx.QueryRow(ctx,
		`INSERT INTO gift_transactions (sender_id, receiver_id, gift_id, live_id, coins_value, commission)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		gt.SenderID, gt.ReceiverID, gt.GiftID, liveID, gt.CoinsValue, gt.Commission,
	).Scan(&gt.ID, &gt.CreatedAt)
}

// UpsertCreatorStatsWithTx folds one gift into the receiver's aggregate.
func (r *GiftTransactionRepository) UpsertCreatorStatsWithTx(ctx context.Context, dbTx pgx.Tx, userID, earned int64) error {
	_, err := dbTx.Exec(ctx,
		`INSERT INTO creator_stats (user_id, total_earned, total_gifts)
		 VALUES ($1, $2, 1)
		 ON CONFLICT (user_id)
		 DO UPDATE SET
		     total_earned = creator_stats.total_earned + $2,
		     total_gifts = creator_stats.total_gifts + 1,
		     updated_at = NOW()`,
		userID, earned,
	)
	return err
}

// GetCreatorStats returns the aggregate; a user who never received a gift
// gets a zero row.
func (r *GiftTransactionRepository) GetCreatorStats(ctx context.Context, userID int64) (*domain.CreatorStats, error) {
	stats := &domain.CreatorStats{UserID: userID}
	err := r.db.QueryRow(ctx,
		`SELECT total_earned, total_gifts, updated_at FROM creator_stats WHERE user_id = $1`,
		userID,
	).Scan(&stats.TotalEarned, &stats.TotalGifts, &stats.UpdatedAt)
	if err == pgx.ErrNoRows {
		return stats, nil
	}
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// GetSentByUser returns gifts sent by the user, newest first.
func (r *GiftTransactionRepository) GetSentByUser(ctx context.Context, userID int64, limit int) ([]domain.GiftHistoryEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.db.Query(ctx, `
		SELECT gt.id, gt.sender_id, gt.receiver_id, gt.gift_id, COALESCE(gt.live_id, ''),
		       gt.coins_value, gt.commission, gt.created_at,
		       g.name, g.display_name, u.name, u.avatar
		FROM gift_transactions gt
		JOIN gifts g ON g.id = gt.gift_id
		JOIN users u ON u.id = gt.receiver_id
		WHERE gt.sender_id = $1
		ORDER BY gt.created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanGiftHistory(rows)
}

// GetReceivedByUser returns gifts received by the user, newest first.
func (r *GiftTransactionRepository) GetReceivedByUser(ctx context.Context, userID int64, limit int) ([]domain.GiftHistoryEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.db.Query(ctx, `
		SELECT gt.id, gt.sender_id, gt.receiver_id, gt.gift_id, COALESCE(gt.live_id, ''),
		       gt.coins_value, gt.commission, gt.created_at,
		       g.name, g.display_name, u.name, u.avatar
		FROM gift_transactions gt
		JOIN gifts g ON g.id = gt.gift_id
		JOIN users u ON u.id = gt.sender_id
		WHERE gt.receiver_id = $1
		ORDER BY gt.created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanGiftHistory(rows)
}

func scanGiftHistory(rows pgx.Rows) ([]domain.GiftHistoryEntry, error) {
	var entries []domain.GiftHistoryEntry
	for rows.Next() {
		var e domain.GiftHistoryEntry
		if err := rows.Scan(
			&e.ID, &e.SenderID, &e.ReceiverID, &e.GiftID, &e.LiveID,
			&e.CoinsValue, &e.Commission, &e.CreatedAt,
			&e.GiftName, &e.GiftDisplayName, &e.PeerName, &e.PeerAvatar,
		); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
