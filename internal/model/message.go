package model

import "time"

type Message struct {
	ID         string    `db:"id" json:"id"`
	SenderID   string    `db:"sender_id" json:"senderId"`
	ReceiverID string    `db:"receiver_id" json:"receiverId"`
	PropertyID *string   `db:"property_id" json:"propertyId,omitempty"`
	Subject    string    `db:"subject" json:"subject"`
	Body       string    `db:"message" json:"message"`
	IsRead     bool      `db:"is_read" json:"isRead"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}

// MessageWithUsers — сообщение с именами/ролями обеих сторон (join на users).
type MessageWithUsers struct {
	Message
	SenderName   string `db:"sender_name" json:"senderName"`
	SenderRole   string `db:"sender_role" json:"senderRole"`
	ReceiverName string `db:"receiver_name" json:"receiverName"`
	ReceiverRole string `db:"receiver_role" json:"receiverRole"`
}

// Conversation — сводка переписки с одним собеседником.
// Не хранится в БД: собирается из сообщений на лету.
type Conversation struct {
	PartnerID       string    `json:"partnerId"`
	PartnerName     string    `json:"partnerName"`
	PartnerRole     string    `json:"partnerRole"`
	LastMessage     string    `json:"lastMessage"`
	LastMessageTime time.Time `json:"lastMessageTime"`
	UnreadCount     int       `json:"unreadCount"`
}
