package handlers

import (
	"errors"
	"net/http"

	"zunda_backend/internal/domain"
	"zunda_backend/internal/repository"
	"zunda_backend/internal/service"

	"github.com/gin-gonic/gin"
)

type RegisterRequest struct {
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name"`
}

type LoginRequest struct {
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func userResponse(u *domain.User) gin.H {
	return gin.H{
		"id":         u.ID,
		"phone":      u.Phone,
		"name":       u.Name,
		"avatar":     u.Avatar,
		"bio":        u.Bio,
		"coins":      u.Coins,
		"created_at": u.CreatedAt,
	}
}

func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	user, token, err := h.AuthService.Register(c.Request.Context(), req.Phone, req.Password, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrPhoneTaken):
			c.JSON(http.StatusConflict, gin.H{"error": "phone already registered"})
		case errors.Is(err, service.ErrInvalidPhone), errors.Is(err, service.ErrWeakPassword):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"token": token,
		"user":  userResponse(user),
	})
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	user, token, err := h.AuthService.Login(c.Request.Context(), req.Phone, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid phone or password"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  userResponse(user),
	})
}
