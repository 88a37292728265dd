package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/arnabdutta04/estate-backend/internal/apperr"
	"github.com/arnabdutta04/estate-backend/internal/model"
)

type MessageRepository struct {
	db *sqlx.DB
}

func NewMessageRepository(db *sqlx.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

const messageUserJoin = `
	m.*,
	s.name AS sender_name,
	s.role AS sender_role,
	r.name AS receiver_name,
	r.role AS receiver_role
	FROM messages m
	JOIN users s ON s.id = m.sender_id
	JOIN users r ON r.id = m.receiver_id`

func (r *MessageRepository) Create(ctx context.Context, m *model.Message) error {
	_, err := r.db.NamedExecContext(ctx, `
        INSERT INTO messages (id, sender_id, receiver_id, property_id, subject, message, is_read, created_at)
        VALUES (:id, :sender_id, :receiver_id, :property_id, :subject, :message, :is_read, :created_at)
    `, m)
	if err != nil {
		return fmt.Errorf("MessageRepository.Create: %w", err)
	}
	return nil
}

func (r *MessageRepository) GetByID(ctx context.Context, id string) (*model.Message, error) {
	var m model.Message
	err := r.db.GetContext(ctx, &m, `SELECT * FROM messages WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("Message not found")
	}
	if err != nil {
		return nil, fmt.Errorf("MessageRepository.GetByID: %w", err)
	}
	return &m, nil
}

// ListForUser — все сообщения пользователя, свежие сверху.
// Порядок важен: агрегатор бесед рассчитывает на createdAt DESC.
func (r *MessageRepository) ListForUser(ctx context.Context, userID string) ([]model.MessageWithUsers, error) {
	var list []model.MessageWithUsers
	err := r.db.SelectContext(ctx, &list, `
		SELECT `+messageUserJoin+`
		WHERE m.sender_id = $1 OR m.receiver_id = $1
		ORDER BY m.created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("MessageRepository.ListForUser: %w", err)
	}
	return list, nil
}

// Thread — переписка двух пользователей в хронологическом порядке
func (r *MessageRepository) Thread(ctx context.Context, userID, otherID string) ([]model.MessageWithUsers, error) {
	var list []model.MessageWithUsers
	err := r.db.SelectContext(ctx, &list, `
		SELECT `+messageUserJoin+`
		WHERE (m.sender_id = $1 AND m.receiver_id = $2)
		   OR (m.sender_id = $2 AND m.receiver_id = $1)
		ORDER BY m.created_at ASC
	`, userID, otherID)
	if err != nil {
		return nil, fmt.Errorf("MessageRepository.Thread: %w", err)
	}
	return list, nil
}

// MarkThreadRead помечает прочитанными все входящие от senderID
func (r *MessageRepository) MarkThreadRead(ctx context.Context, receiverID, senderID string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE messages SET is_read = TRUE
		WHERE sender_id = $1 AND receiver_id = $2 AND is_read = FALSE
	`, senderID, receiverID)
	if err != nil {
		return fmt.Errorf("MessageRepository.MarkThreadRead: %w", err)
	}
	return nil
}

func (r *MessageRepository) MarkRead(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE messages SET is_read = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("MessageRepository.MarkRead: %w", err)
	}
	return nil
}

func (r *MessageRepository) UnreadCount(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(1) FROM messages WHERE receiver_id = $1 AND is_read = FALSE
	`, userID)
	if err != nil {
		return 0, fmt.Errorf("MessageRepository.UnreadCount: %w", err)
	}
	return count, nil
}

func (r *MessageRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM messages WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("MessageRepository.Delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("Message not found")
	}
	return nil
}
