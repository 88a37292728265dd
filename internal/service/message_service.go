package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/arnabdutta04/estate-backend/internal/apperr"
	"github.com/arnabdutta04/estate-backend/internal/model"
)

// MessageService covers messaging between customers and brokers.
type MessageService struct {
	messages MessageStore
	users    UserStore
}

func NewMessageService(messages MessageStore, users UserStore) *MessageService {
	return &MessageService{messages: messages, users: users}
}

type SendMessageInput struct {
	ReceiverID string
	PropertyID *string
	Subject    string
	Body       string
}

func (s *MessageService) Send(ctx context.Context, senderID string, in SendMessageInput) (*model.Message, error) {
	if in.ReceiverID == "" || in.Body == "" {
		return nil, apperr.BadRequest("Recipient and message are required")
	}

	exists, err := s.users.Exists(ctx, in.ReceiverID)
	if err != nil {
		return nil, fmt.Errorf("MessageService.Send: %w", err)
	}
	if !exists {
		return nil, apperr.NotFound("Recipient not found")
	}

	if in.Subject == "" {
		in.Subject = "Property Inquiry"
	}
	m := &model.Message{
		ID:         uuid.NewString(),
		SenderID:   senderID,
		ReceiverID: in.ReceiverID,
		PropertyID: in.PropertyID,
		Subject:    in.Subject,
		Body:       in.Body,
		IsRead:     false,
		CreatedAt:  time.Now(),
	}
	if err := s.messages.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("MessageService.Send: %w", err)
	}
	return m, nil
}

// Conversations собирает сводки переписок пользователя. Хранилище отдаёт
// сообщения createdAt DESC, агрегатор это использует и ничего не пересортировывает.
func (s *MessageService) Conversations(ctx context.Context, userID string) ([]model.Conversation, error) {
	messages, err := s.messages.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("MessageService.Conversations: %w", err)
	}
	return AggregateConversations(messages, userID), nil
}

// Thread отдаёт переписку с собеседником и помечает входящие прочитанными.
func (s *MessageService) Thread(ctx context.Context, userID, otherID string) ([]model.MessageWithUsers, error) {
	messages, err := s.messages.Thread(ctx, userID, otherID)
	if err != nil {
		return nil, fmt.Errorf("MessageService.Thread: %w", err)
	}
	if messages == nil {
		messages = []model.MessageWithUsers{}
	}
	if err := s.messages.MarkThreadRead(ctx, userID, otherID); err != nil {
		return nil, fmt.Errorf("MessageService.Thread mark read: %w", err)
	}
	return messages, nil
}

func (s *MessageService) UnreadCount(ctx context.Context, userID string) (int, error) {
	return s.messages.UnreadCount(ctx, userID)
}

// MarkRead — пометить может только получатель.
func (s *MessageService) MarkRead(ctx context.Context, userID, messageID string) (*model.Message, error) {
	m, err := s.messages.GetByID(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if m.ReceiverID != userID {
		return nil, apperr.NotFound("Message not found")
	}
	if err := s.messages.MarkRead(ctx, messageID); err != nil {
		return nil, err
	}
	m.IsRead = true
	return m, nil
}

// Delete — удалить может любой из участников переписки.
func (s *MessageService) Delete(ctx context.Context, userID, messageID string) error {
	m, err := s.messages.GetByID(ctx, messageID)
	if err != nil {
		return err
	}
	if m.SenderID != userID && m.ReceiverID != userID {
		return apperr.NotFound("Message not found")
	}
	return s.messages.Delete(ctx, messageID)
}
