package repository

import (
	"context"
	"errors"

	"zunda_backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrGiftNotFound = errors.New("gift not found")

type GiftRepository struct {
	db *pgxpool.Pool
}

func NewGiftRepository(db *pgxpool.Pool) *GiftRepository {
	return &GiftRepository{db: db}
}

// GetActive returns the purchasable catalog, cheapest first.
func (r *GiftRepository) GetActive(ctx context.Context) ([]domain.Gift, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, display_name, coin_cost, animation_url, description, category, is_active
		FROM gifts
		WHERE is_active
		ORDER BY coin_cost ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var gifts []domain.Gift
	for rows.Next() {
		var g domain.Gift
		if err := rows.Scan(
			&g.ID, &g.Name, &g.DisplayName, &g.CoinCost,
			&g.AnimationURL, &g.Description, &g.Category, &g.IsActive,
		); err != nil {
			return nil, err
		}
		gifts = append(gifts, g)
	}
	return gifts, rows.Err()
}

// GetActiveByID returns the gift only when it is still active.
func (r *GiftRepository) GetActiveByID(ctx context.Context, id int64) (*domain.Gift, error) {
	var g domain.Gift
	err := r.db.QueryRow(ctx, `
		SELECT id, name, display_name, coin_cost, animation_url, description, category, is_active
		FROM gifts
		WHERE id = $1 AND is_active
	`, id).Scan(
		&g.ID, &g.Name, &g.DisplayName, &g.CoinCost,
		&g.AnimationURL, &g.Description, &g.Category, &g.IsActive,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrGiftNotFound
		}
		return nil, err
	}
	return &g, nil
}
