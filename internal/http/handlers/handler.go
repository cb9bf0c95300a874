package handlers

import (
	"zunda_backend/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Handler struct {
	DB                *pgxpool.Pool
	AuthService       *service.AuthService
	UserService       *service.UserService
	GiftService       *service.GiftService
	PaymentService    *service.PaymentService
	WithdrawalService *service.WithdrawalService
}

func NewHandler(
	db *pgxpool.Pool,
	auth *service.AuthService,
	users *service.UserService,
	gifts *service.GiftService,
	payments *service.PaymentService,
	withdrawals *service.WithdrawalService,
) *Handler {
	return &Handler{
		DB:                db,
		AuthService:       auth,
		UserService:       users,
		GiftService:       gifts,
		PaymentService:    payments,
		WithdrawalService: withdrawals,
	}
}

// getUserID извлекает user_id из контекста Gin
func getUserID(c interface{ Get(string) (any, bool) }) (int64, bool) {
	uidVal, ok := c.Get("user_id")
	if !ok {
		return 0, false
	}
	switch v := uidVal.(type) {
	case int64:
		return v, true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}
