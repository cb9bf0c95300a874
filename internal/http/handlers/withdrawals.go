package handlers

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"os"
	"strconv"

	"zunda_backend/internal/domain"
	"zunda_backend/internal/http/middleware"
	"zunda_backend/internal/repository"
	"zunda_backend/internal/service"

	"github.com/gin-gonic/gin"
)

type WithdrawalRequest struct {
	Amount     int64  `json:"amount" binding:"required"`
	BankName   string `json:"bank_name" binding:"required"`
	AccountNum string `json:"account_number" binding:"required"`
}

func (h *Handler) RequestWithdrawal(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	var req WithdrawalRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	w, err := h.WithdrawalService.RequestWithdrawal(c.Request.Context(), userID, req.Amount, domain.BankDetails{
		BankName:      req.BankName,
		AccountNumber: req.AccountNum,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBelowMinimum):
			c.JSON(http.StatusBadRequest, gin.H{"error": "amount below withdrawal minimum"})
		case errors.Is(err, service.ErrInvalidBankDetails):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid bank details"})
		case errors.Is(err, repository.ErrInsufficientBalance):
			c.JSON(http.StatusPaymentRequired, gin.H{"error": "insufficient coins"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "withdrawal request failed"})
		}
		return
	}

	middleware.WithdrawalsRequested.Inc()

	c.JSON(http.StatusCreated, w)
}

func (h *Handler) Withdrawals(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	history, err := h.WithdrawalService.History(c.Request.Context(), userID, historyLimit(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load withdrawals"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"withdrawals": history})
}

func (h *Handler) Withdrawal(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid withdrawal id"})
		return
	}

	w, err := h.WithdrawalService.Get(c.Request.Context(), id, userID)
	if err != nil {
		if errors.Is(err, repository.ErrWithdrawalNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "withdrawal not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load withdrawal"})
		return
	}
	c.JSON(http.StatusOK, w)
}

type ResolveWithdrawalRequest struct {
	Status string `json:"status" binding:"required"`
}

// ResolveWithdrawal is the operator endpoint that settles a payout request.
// It is gated on a shared admin token rather than a user session.
func (h *Handler) ResolveWithdrawal(c *gin.Context) {
	adminToken := os.Getenv("ADMIN_TOKEN")
	if adminToken == "" ||
		subtle.ConstantTimeCompare([]byte(c.GetHeader("X-Admin-Token")), []byte(adminToken)) != 1 {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid withdrawal id"})
		return
	}

	var req ResolveWithdrawalRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	w, err := h.WithdrawalService.Resolve(c.Request.Context(), id, domain.WithdrawalStatus(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidResolution):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		case errors.Is(err, service.ErrWithdrawalNotResolved):
			c.JSON(http.StatusConflict, gin.H{"error": "withdrawal not found or already resolved"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "resolution failed"})
		}
		return
	}
	c.JSON(http.StatusOK, w)
}
