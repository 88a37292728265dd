package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/arnabdutta04/estate-backend/internal/middleware"
	"github.com/arnabdutta04/estate-backend/internal/service"
)

type MessageHandler struct {
	Messages *service.MessageService
	Logger   *zap.Logger
}

type sendMessageRequest struct {
	ReceiverID  string  `json:"receiverId"`
	RecipientID string  `json:"recipientId"` // фронт шлёт и так, и так
	PropertyID  *string `json:"propertyId"`
	Subject     string  `json:"subject"`
	Message     string  `json:"message" binding:"required"`
}

// POST /api/messages
func (h *MessageHandler) Send(c *gin.Context) {
	claims, _ := middleware.Principal(c)

	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Recipient and message are required"})
		return
	}
	receiverID := req.ReceiverID
	if receiverID == "" {
		receiverID = req.RecipientID
	}

	message, err := h.Messages.Send(c.Request.Context(), claims.UserID, service.SendMessageInput{
		ReceiverID: receiverID,
		PropertyID: req.PropertyID,
		Subject:    req.Subject,
		Body:       req.Message,
	})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Message sent successfully",
		"data":    message,
	})
}

// GET /api/messages/conversations
func (h *MessageHandler) Conversations(c *gin.Context) {
	claims, _ := middleware.Principal(c)
	conversations, err := h.Messages.Conversations(c.Request.Context(), claims.UserID)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "conversations": conversations})
}

// GET /api/messages/unread-count
func (h *MessageHandler) UnreadCount(c *gin.Context) {
	claims, _ := middleware.Principal(c)
	count, err := h.Messages.UnreadCount(c.Request.Context(), claims.UserID)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "unreadCount": count})
}

// GET /api/messages/:otherUserId — переписка, входящие помечаются прочитанными
func (h *MessageHandler) Thread(c *gin.Context) {
	claims, _ := middleware.Principal(c)
	messages, err := h.Messages.Thread(c.Request.Context(), claims.UserID, c.Param("otherUserId"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "messages": messages})
}

// PUT /api/messages/:id/read
func (h *MessageHandler) MarkRead(c *gin.Context) {
	claims, _ := middleware.Principal(c)
	message, err := h.Messages.MarkRead(c.Request.Context(), claims.UserID, c.Param("id"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Message marked as read", "data": message})
}

// DELETE /api/messages/:id
func (h *MessageHandler) Delete(c *gin.Context) {
	claims, _ := middleware.Principal(c)
	if err := h.Messages.Delete(c.Request.Context(), claims.UserID, c.Param("id")); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Message deleted successfully"})
}
