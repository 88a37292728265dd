package service

import (
	"context"
	"sort"
	"time"

	"github.com/arnabdutta04/estate-backend/internal/apperr"
	"github.com/arnabdutta04/estate-backend/internal/model"
	"github.com/arnabdutta04/estate-backend/internal/search"
	"github.com/arnabdutta04/estate-backend/internal/verification"
)

// In-memory хранилища для тестов сервисов. Поведение повторяет
// repository: те же NotFound-сообщения, та же сортировка.

type fakeUserStore struct {
	users map[string]*model.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[string]*model.User{}}
}

func (f *fakeUserStore) Create(ctx context.Context, u *model.User) error {
	copied := *u
	f.users[u.ID] = &copied
	return nil
}

func (f *fakeUserStore) GetByID(ctx context.Context, id string) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, apperr.NotFound("User not found")
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("User not found")
}

func (f *fakeUserStore) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := f.GetByEmail(ctx, email)
	return err == nil, nil
}

func (f *fakeUserStore) PhoneExists(ctx context.Context, phone string) (bool, error) {
	for _, u := range f.users {
		if u.Phone == phone {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserStore) Exists(ctx context.Context, id string) (bool, error) {
	_, ok := f.users[id]
	return ok, nil
}

func (f *fakeUserStore) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	if u, ok := f.users[id]; ok {
		u.LastLogin = &at
	}
	return nil
}

func (f *fakeUserStore) CountByRole(ctx context.Context) (map[string]int, error) {
	counts := map[string]int{}
	for _, u := range f.users {
		counts[u.Role]++
	}
	return counts, nil
}

type fakeBrokerStore struct {
	brokers map[string]*model.Broker
}

func newFakeBrokerStore() *fakeBrokerStore {
	return &fakeBrokerStore{brokers: map[string]*model.Broker{}}
}

func (f *fakeBrokerStore) Create(ctx context.Context, b *model.Broker) error {
	copied := *b
	f.brokers[b.ID] = &copied
	return nil
}

func (f *fakeBrokerStore) GetByID(ctx context.Context, id string) (*model.BrokerWithUser, error) {
	b, ok := f.brokers[id]
	if !ok {
		return nil, apperr.NotFound("Broker not found")
	}
	return &model.BrokerWithUser{Broker: *b}, nil
}

func (f *fakeBrokerStore) GetByUserID(ctx context.Context, userID string) (*model.Broker, error) {
	for _, b := range f.brokers {
		if b.UserID == userID {
			copied := *b
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("Broker profile not found. Please complete your registration.")
}

func (f *fakeBrokerStore) List(ctx context.Context, status string) ([]model.BrokerWithUser, error) {
	var out []model.BrokerWithUser
	for _, b := range f.brokers {
		if status != "" && b.VerificationStatus != status {
			continue
		}
		out = append(out, model.BrokerWithUser{Broker: *b})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeBrokerStore) UpdateProfile(ctx context.Context, b *model.Broker) error {
	if _, ok := f.brokers[b.ID]; !ok {
		return apperr.NotFound("Broker not found")
	}
	copied := *b
	f.brokers[b.ID] = &copied
	return nil
}

func (f *fakeBrokerStore) ApplyVerification(ctx context.Context, brokerID string, ch verification.Change) error {
	b, ok := f.brokers[brokerID]
	if !ok {
		return apperr.NotFound("Broker not found")
	}
	b.VerificationStatus = string(ch.Status)
	b.RejectionReason = ch.RejectionReason
	b.VerifiedAt = ch.VerifiedAt
	b.VerifiedBy = ch.VerifiedBy
	return nil
}

func (f *fakeBrokerStore) CountByStatus(ctx context.Context) (map[string]int, error) {
	counts := map[string]int{}
	for _, b := range f.brokers {
		counts[b.VerificationStatus]++
	}
	return counts, nil
}

type fakePropertyStore struct {
	properties map[string]*model.PropertyWithBroker
	visits     []*model.VisitRequest
}

func newFakePropertyStore() *fakePropertyStore {
	return &fakePropertyStore{properties: map[string]*model.PropertyWithBroker{}}
}

func (f *fakePropertyStore) put(p model.PropertyWithBroker) {
	f.properties[p.ID] = &p
}

func (f *fakePropertyStore) Create(ctx context.Context, p *model.Property) error {
	f.properties[p.ID] = &model.PropertyWithBroker{Property: *p}
	return nil
}

func (f *fakePropertyStore) GetByID(ctx context.Context, id string) (*model.PropertyWithBroker, error) {
	p, ok := f.properties[id]
	if !ok {
		return nil, apperr.NotFound("Property not found")
	}
	copied := *p
	return &copied, nil
}

func (f *fakePropertyStore) Search(ctx context.Context, q search.SearchQuery) ([]model.PropertyWithBroker, int, error) {
	var out []model.PropertyWithBroker
	for _, p := range f.properties {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	total := len(out)
	if q.Offset >= total {
		return nil, total, nil
	}
	end := q.Offset + q.Limit
	if end > total {
		end = total
	}
	return out[q.Offset:end], total, nil
}

func (f *fakePropertyStore) ListByBroker(ctx context.Context, brokerID string) ([]model.Property, error) {
	var out []model.Property
	for _, p := range f.properties {
		if p.BrokerID == brokerID {
			out = append(out, p.Property)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakePropertyStore) Update(ctx context.Context, p *model.Property) error {
	current, ok := f.properties[p.ID]
	if !ok {
		return apperr.NotFound("Property not found")
	}
	current.Property = *p
	return nil
}

func (f *fakePropertyStore) Delete(ctx context.Context, id string) error {
	if _, ok := f.properties[id]; !ok {
		return apperr.NotFound("Property not found")
	}
	delete(f.properties, id)
	return nil
}

func (f *fakePropertyStore) IncrementViews(ctx context.Context, id string) error {
	if p, ok := f.properties[id]; ok {
		p.Views++
	}
	return nil
}

func (f *fakePropertyStore) IncrementInquiries(ctx context.Context, id string) error {
	if p, ok := f.properties[id]; ok {
		p.Inquiries++
	}
	return nil
}

func (f *fakePropertyStore) SetFeatured(ctx context.Context, id string, featured bool) error {
	p, ok := f.properties[id]
	if !ok {
		return apperr.NotFound("Property not found")
	}
	p.IsFeatured = featured
	return nil
}

func (f *fakePropertyStore) CreateVisit(ctx context.Context, v *model.VisitRequest) error {
	copied := *v
	f.visits = append(f.visits, &copied)
	return nil
}

func (f *fakePropertyStore) BrokerStats(ctx context.Context, brokerID string) (*model.BrokerPropertyStats, error) {
	stats := &model.BrokerPropertyStats{}
	for _, p := range f.properties {
		if p.BrokerID != brokerID {
			continue
		}
		stats.TotalProperties++
		if p.Status == model.PropertyStatusActive {
			stats.ActiveListings++
		}
		stats.TotalViews += p.Views
		stats.Inquiries += p.Inquiries
	}
	return stats, nil
}

type fakeMessageStore struct {
	messages []*model.MessageWithUsers
}

func newFakeMessageStore() *fakeMessageStore {
	return &fakeMessageStore{}
}

func (f *fakeMessageStore) Create(ctx context.Context, m *model.Message) error {
	f.messages = append(f.messages, &model.MessageWithUsers{Message: *m})
	return nil
}

func (f *fakeMessageStore) GetByID(ctx context.Context, id string) (*model.Message, error) {
	for _, m := range f.messages {
		if m.ID == id {
			copied := m.Message
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("Message not found")
}

func (f *fakeMessageStore) ListForUser(ctx context.Context, userID string) ([]model.MessageWithUsers, error) {
	var out []model.MessageWithUsers
	for _, m := range f.messages {
		if m.SenderID == userID || m.ReceiverID == userID {
			out = append(out, *m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeMessageStore) Thread(ctx context.Context, userID, otherID string) ([]model.MessageWithUsers, error) {
	var out []model.MessageWithUsers
	for _, m := range f.messages {
		if (m.SenderID == userID && m.ReceiverID == otherID) ||
			(m.SenderID == otherID && m.ReceiverID == userID) {
			out = append(out, *m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeMessageStore) MarkThreadRead(ctx context.Context, receiverID, senderID string) error {
	for _, m := range f.messages {
		if m.ReceiverID == receiverID && m.SenderID == senderID {
			m.IsRead = true
		}
	}
	return nil
}

func (f *fakeMessageStore) MarkRead(ctx context.Context, id string) error {
	for _, m := range f.messages {
		if m.ID == id {
			m.IsRead = true
			return nil
		}
	}
	return apperr.NotFound("Message not found")
}

func (f *fakeMessageStore) UnreadCount(ctx context.Context, userID string) (int, error) {
	count := 0
	for _, m := range f.messages {
		if m.ReceiverID == userID && !m.IsRead {
			count++
		}
	}
	return count, nil
}

func (f *fakeMessageStore) Delete(ctx context.Context, id string) error {
	for i, m := range f.messages {
		if m.ID == id {
			f.messages = append(f.messages[:i], f.messages[i+1:]...)
			return nil
		}
	}
	return apperr.NotFound("Message not found")
}
