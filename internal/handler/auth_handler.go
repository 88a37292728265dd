package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/arnabdutta04/estate-backend/internal/middleware"
	"github.com/arnabdutta04/estate-backend/internal/service"
)

type AuthHandler struct {
	Auth   *service.AuthService
	Logger *zap.Logger
}

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role"`
}

// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid payload"})
		return
	}

	result, err := h.Auth.Register(c.Request.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Registration successful",
		"token":   result.Token,
		"user":    result.User,
	})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Please provide email and password"})
		return
	}

	result, err := h.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Login successful",
		"token":   result.Token,
		"user":    result.User,
	})
}

// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	claims, _ := middleware.Principal(c)
	user, err := h.Auth.Me(c.Request.Context(), claims.UserID)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

// POST /api/auth/logout — токен уходит в чёрный список до истечения срока
func (h *AuthHandler) Logout(c *gin.Context) {
	claims, _ := middleware.Principal(c)
	if err := h.Auth.Logout(c.Request.Context(), claims); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged out successfully"})
}
