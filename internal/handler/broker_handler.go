package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/arnabdutta04/estate-backend/internal/middleware"
	"github.com/arnabdutta04/estate-backend/internal/service"
)

// BrokerHandler — публичный каталог брокеров и кабинет брокера.
type BrokerHandler struct {
	Brokers *service.BrokerService
	Logger  *zap.Logger
}

// GET /api/brokers — только верифицированные
func (h *BrokerHandler) Directory(c *gin.Context) {
	brokers, err := h.Brokers.Directory(c.Request.Context())
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(brokers), "data": brokers})
}

// GET /api/brokers/me
func (h *BrokerHandler) MyProfile(c *gin.Context) {
	claims, _ := middleware.Principal(c)
	broker, err := h.Brokers.MyProfile(c.Request.Context(), claims.UserID)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": broker})
}

type completeProfileRequest struct {
	CompanyName       string `json:"companyName" binding:"required"`
	LicenseNumber     string `json:"licenseNumber" binding:"required"`
	YearsOfExperience int    `json:"yearsOfExperience"`
	City              string `json:"city"`
	About             string `json:"about"`
}

// PUT /api/brokers/complete-profile — правка возвращает профиль на проверку
func (h *BrokerHandler) CompleteProfile(c *gin.Context) {
	claims, _ := middleware.Principal(c)

	var req completeProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid payload"})
		return
	}

	broker, err := h.Brokers.CompleteProfile(c.Request.Context(), claims.UserID, service.CompleteProfileInput{
		CompanyName:       req.CompanyName,
		LicenseNumber:     req.LicenseNumber,
		YearsOfExperience: req.YearsOfExperience,
		City:              req.City,
		About:             req.About,
	})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Broker profile updated successfully",
		"data":    broker,
	})
}

// GET /api/brokers/stats — дашборд брокера
func (h *BrokerHandler) MyStats(c *gin.Context) {
	claims, _ := middleware.Principal(c)
	stats, err := h.Brokers.MyStats(c.Request.Context(), claims.UserID)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": stats})
}
