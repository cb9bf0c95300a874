package http

import (
	"time"

	"zunda_backend/internal/config"
	"zunda_backend/internal/http/handlers"
	"zunda_backend/internal/http/middleware"
	"zunda_backend/internal/ws"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires every API endpoint. The hub is passed in so main can
// hand it to the gift service as its notifier before routing starts.
func RegisterRoutes(r *gin.Engine, h *handlers.Handler, healthHandler *handlers.HealthHandler, hub *ws.Hub, cfg *config.Config) {
	apiRateLimit := cfg.APIRateLimit
	apiRateWindow := cfg.APIRateWindow

	// Health checks (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)

	api := r.Group("/api")
	api.Use(middleware.RedisRateLimit(apiRateLimit, apiRateWindow))

	// Auth (tighter limit to slow brute force)
	api.POST("/auth/register", middleware.RedisRateLimit(5, time.Minute), h.Register)
	api.POST("/auth/login", middleware.RedisRateLimit(10, time.Minute), h.Login)

	// Profile
	api.GET("/me", middleware.JWT(), h.Me)
	api.PATCH("/me", middleware.JWT(), h.UpdateMe)
	api.GET("/me/stats", middleware.JWT(), h.MyStats)

	// Gifts (per-user send limit on top of the IP limit)
	giftRL := middleware.GiftRateLimit(30, time.Minute)
	api.GET("/gifts", h.ListGifts)
	api.POST("/gifts/send", middleware.JWT(), giftRL, h.SendGift)
	api.GET("/gifts/sent", middleware.JWT(), h.SentGifts)
	api.GET("/gifts/received", middleware.JWT(), h.ReceivedGifts)

	// Coin purchases
	api.GET("/payments/packages", h.Packages)
	api.POST("/payments", middleware.JWT(), h.CreatePayment)
	api.POST("/payments/webhook", h.Webhook)
	api.GET("/payments/transactions", middleware.JWT(), h.Transactions)

	// Withdrawals
	api.POST("/withdrawals", middleware.JWT(), h.RequestWithdrawal)
	api.GET("/withdrawals", middleware.JWT(), h.Withdrawals)
	api.GET("/withdrawals/:id", middleware.JWT(), h.Withdrawal)
	api.POST("/withdrawals/:id/resolve", h.ResolveWithdrawal)

	// WebSocket for live session gift events
	r.GET("/ws", ws.HandleWS(hub))
}
