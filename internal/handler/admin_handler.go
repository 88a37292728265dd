package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/arnabdutta04/estate-backend/internal/middleware"
	"github.com/arnabdutta04/estate-backend/internal/service"
	"github.com/arnabdutta04/estate-backend/internal/verification"
)

// AdminHandler — админские маршруты модерации брокеров.
type AdminHandler struct {
	Brokers *service.BrokerService
	Logger  *zap.Logger
}

// GET /api/admin/brokers?status=pending|verified|rejected|all
func (h *AdminHandler) ListBrokers(c *gin.Context) {
	status := c.DefaultQuery("status", "all")
	brokers, err := h.Brokers.ListForAdmin(c.Request.Context(), status)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(brokers), "data": brokers})
}

// GET /api/admin/brokers/:id
func (h *AdminHandler) GetBroker(c *gin.Context) {
	broker, err := h.Brokers.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": broker})
}

type verifyBrokerRequest struct {
	VerificationStatus string `json:"verificationStatus" binding:"required"`
	RejectionReason    string `json:"rejectionReason"`
}

// PUT /api/admin/brokers/:id/verify — вход в state machine верификации
func (h *AdminHandler) VerifyBroker(c *gin.Context) {
	claims, _ := middleware.Principal(c)

	var req verifyBrokerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid payload"})
		return
	}

	broker, err := h.Brokers.Review(
		c.Request.Context(),
		c.Param("id"),
		claims.UserID,
		verification.Status(req.VerificationStatus),
		req.RejectionReason,
	)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Broker " + req.VerificationStatus + " successfully",
		"data":    broker,
	})
}

// GET /api/admin/stats
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.Brokers.AdminStats(c.Request.Context())
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": stats})
}
