package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/arnabdutta04/estate-backend/internal/apperr"
)

// respondError переводит ошибку таксономии в HTTP-ответ. Всё, что не из
// таксономии — 500 без деталей, подробности только в лог.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	if ae := apperr.From(err); ae != nil {
		body := gin.H{"success": false, "message": ae.Message}
		if ae.VerificationStatus != "" {
			body["verificationStatus"] = ae.VerificationStatus
		}
		if ae.RejectionReason != "" {
			body["rejectionReason"] = ae.RejectionReason
		}
		if ae.Status >= http.StatusInternalServerError {
			logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		}
		c.JSON(ae.Status, body)
		return
	}
	logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error"})
}
