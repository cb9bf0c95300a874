package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"zunda_backend/internal/http/middleware"
	"zunda_backend/internal/logger"
	"zunda_backend/internal/service"

	"github.com/gin-gonic/gin"
)

// Packages returns the coin price table.
func (h *Handler) Packages(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"packages": h.PaymentService.Packages()})
}

type CreatePaymentRequest struct {
	PackageID string `json:"package_id" binding:"required"`
}

func (h *Handler) CreatePayment(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	var req CreatePaymentRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	result, err := h.PaymentService.CreatePayment(c.Request.Context(), userID, req.PackageID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownPackage):
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown package"})
		case errors.Is(err, service.ErrPaymentFailed):
			c.JSON(http.StatusBadGateway, gin.H{"error": "payment gateway unavailable"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create payment"})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

// webhookNotification is the gateway's event envelope. Metadata values
// arrive as strings, so coins is decoded leniently.
type webhookNotification struct {
	Event  string `json:"event"`
	Object struct {
		ID       string `json:"id"`
		Status   string `json:"status"`
		Metadata struct {
			UserID json.Number `json:"userId"`
			Coins  json.Number `json:"coins"`
			Type   string      `json:"type"`
		} `json:"metadata"`
	} `json:"object"`
}

// Webhook ingests payment outcome notifications. Duplicate and unknown
// notifications are acknowledged with 200 so the gateway stops retrying;
// only transport or storage failures return an error status.
func (h *Handler) Webhook(c *gin.Context) {
	var n webhookNotification
	if err := c.BindJSON(&n); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	var outcome service.ReconcileOutcome
	switch n.Event {
	case "payment.succeeded":
		outcome = service.OutcomeSucceeded
	case "payment.canceled":
		outcome = service.OutcomeCanceled
	default:
		// other event types are acknowledged and ignored
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	if n.Object.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing payment id"})
		return
	}

	coins, _ := n.Object.Metadata.Coins.Int64()

	applied, err := h.PaymentService.Reconcile(c.Request.Context(), n.Object.ID, outcome, coins)
	if err != nil {
		logger.Error("webhook reconcile failed", "payment_id", n.Object.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "reconcile failed"})
		return
	}

	if applied && outcome == service.OutcomeSucceeded {
		middleware.CoinsCredited.Add(float64(coins))
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok", "applied": applied})
}

// Transactions returns the user's purchase history, newest first.
func (h *Handler) Transactions(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	limit := historyLimit(c)
	offset := 0
	if v := c.Query("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}

	txs, err := h.PaymentService.TransactionHistory(c.Request.Context(), userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load transactions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": txs})
}
