package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"zunda_backend/internal/http/middleware"
	"zunda_backend/internal/service"

	"github.com/gin-gonic/gin"
)

// ListGifts returns the active gift catalog, cheapest first.
func (h *Handler) ListGifts(c *gin.Context) {
	gifts, err := h.GiftService.ListActiveGifts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load gifts"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"gifts": gifts})
}

type SendGiftRequest struct {
	ReceiverID int64  `json:"receiver_id" binding:"required"`
	GiftID     int64  `json:"gift_id" binding:"required"`
	LiveID     string `json:"live_id"`
}

func (h *Handler) SendGift(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	var req SendGiftRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	if req.ReceiverID == userID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot send a gift to yourself"})
		return
	}

	result, err := h.GiftService.SendGift(c.Request.Context(), userID, req.ReceiverID, req.GiftID, req.LiveID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInsufficientBalance):
			c.JSON(http.StatusPaymentRequired, gin.H{"error": "insufficient coins"})
		case errors.Is(err, service.ErrReceiverNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "receiver not found"})
		case errors.Is(err, service.ErrGiftNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "gift not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "gift transfer failed"})
		}
		return
	}

	middleware.GiftsSent.WithLabelValues(result.GiftLabel).Inc()

	c.JSON(http.StatusOK, gin.H{
		"gift":    result.GiftLabel,
		"cost":    result.Cost,
		"balance": result.NewBalance,
	})
}

func historyLimit(c *gin.Context) int {
	limit := 50
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	return limit
}

// SentGifts returns gifts the user sent, newest first.
func (h *Handler) SentGifts(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	history, err := h.GiftService.SentHistory(c.Request.Context(), userID, historyLimit(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"gifts": history})
}

// ReceivedGifts returns gifts the user received, newest first.
func (h *Handler) ReceivedGifts(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	history, err := h.GiftService.ReceivedHistory(c.Request.Context(), userID, historyLimit(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"gifts": history})
}
