package service

import (
	"context"
	"time"

	"github.com/arnabdutta04/estate-backend/internal/model"
	"github.com/arnabdutta04/estate-backend/internal/search"
	"github.com/arnabdutta04/estate-backend/internal/verification"
)

// Интерфейсы хранилищ объявлены на стороне потребителя: сервисы видят
// только нужные им операции, в тестах подставляются фейки.

type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	PhoneExists(ctx context.Context, phone string) (bool, error)
	Exists(ctx context.Context, id string) (bool, error)
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
	CountByRole(ctx context.Context) (map[string]int, error)
}

type BrokerStore interface {
	Create(ctx context.Context, b *model.Broker) error
	GetByID(ctx context.Context, id string) (*model.BrokerWithUser, error)
	GetByUserID(ctx context.Context, userID string) (*model.Broker, error)
	List(ctx context.Context, status string) ([]model.BrokerWithUser, error)
	UpdateProfile(ctx context.Context, b *model.Broker) error
	ApplyVerification(ctx context.Context, brokerID string, ch verification.Change) error
	CountByStatus(ctx context.Context) (map[string]int, error)
}

type PropertyStore interface {
	Create(ctx context.Context, p *model.Property) error
	GetByID(ctx context.Context, id string) (*model.PropertyWithBroker, error)
	Search(ctx context.Context, q search.SearchQuery) ([]model.PropertyWithBroker, int, error)
	ListByBroker(ctx context.Context, brokerID string) ([]model.Property, error)
	Update(ctx context.Context, p *model.Property) error
	Delete(ctx context.Context, id string) error
	IncrementViews(ctx context.Context, id string) error
	IncrementInquiries(ctx context.Context, id string) error
	SetFeatured(ctx context.Context, id string, featured bool) error
	CreateVisit(ctx context.Context, v *model.VisitRequest) error
	BrokerStats(ctx context.Context, brokerID string) (*model.BrokerPropertyStats, error)
}

type MessageStore interface {
	Create(ctx context.Context, m *model.Message) error
	GetByID(ctx context.Context, id string) (*model.Message, error)
	ListForUser(ctx context.Context, userID string) ([]model.MessageWithUsers, error)
	Thread(ctx context.Context, userID, otherID string) ([]model.MessageWithUsers, error)
	MarkThreadRead(ctx context.Context, receiverID, senderID string) error
	MarkRead(ctx context.Context, id string) error
	UnreadCount(ctx context.Context, userID string) (int, error)
	Delete(ctx context.Context, id string) error
}
