package domain

import "time"

// Gift is a catalog entry. The catalog is maintained by an admin process;
// this backend only reads it.
type Gift struct {
	ID           int64  `db:"id" json:"id"`
	Name         string `db:"name" json:"name"`
	DisplayName  string `db:"display_name" json:"display_name"`
	CoinCost     int64  `db:"coin_cost" json:"coin_cost"`
	AnimationURL string `db:"animation_url" json:"animation_url,omitempty"`
	Description  string `db:"description" json:"description,omitempty"`
	Category     string `db:"category" json:"category,omitempty"`
	IsActive     bool   `db:"is_active" json:"is_active"`
}

// GiftTransaction is one ledger entry per gift send. Rows are append-only.
type GiftTransaction struct {
	ID         int64     `db:"id" json:"id"`
	SenderID   int64     `db:"sender_id" json:"sender_id"`
	ReceiverID int64     `db:"receiver_id" json:"receiver_id"`
	GiftID     int64     `db:"gift_id" json:"gift_id"`
	LiveID     string    `db:"live_id" json:"live_id,omitempty"`
	CoinsValue int64     `db:"coins_value" json:"coins_value"`
	Commission int64     `db:"commission" json:"commission"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// GiftHistoryEntry is a ledger row joined with the gift and the counterparty.
type GiftHistoryEntry struct {
	GiftTransaction
	GiftName        string `json:"gift_name"`
	GiftDisplayName string `json:"gift_display_name"`
	PeerName        string `json:"peer_name"`
	PeerAvatar      string `json:"peer_avatar,omitempty"`
}

// CreatorStats is a per-user rolling aggregate, upserted with every gift.
type CreatorStats struct {
	UserID      int64     `db:"user_id" json:"user_id"`
	TotalEarned int64     `db:"total_earned" json:"total_earned"`
	TotalGifts  int64     `db:"total_gifts" json:"total_gifts"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}
