package service

import (
	"context"
	"fmt"
	"time"

	"github.com/arnabdutta04/estate-backend/internal/model"
	"github.com/arnabdutta04/estate-backend/internal/verification"
)

// BrokerService covers broker self-service and the admin review workflow.
type BrokerService struct {
	brokers    BrokerStore
	users      UserStore
	properties PropertyStore
}

func NewBrokerService(brokers BrokerStore, users UserStore, properties PropertyStore) *BrokerService {
	return &BrokerService{brokers: brokers, users: users, properties: properties}
}

// Directory — публичный каталог: только верифицированные брокеры.
func (s *BrokerService) Directory(ctx context.Context) ([]model.BrokerWithUser, error) {
	return s.brokers.List(ctx, string(verification.StatusVerified))
}

func (s *BrokerService) GetByID(ctx context.Context, id string) (*model.BrokerWithUser, error) {
	return s.brokers.GetByID(ctx, id)
}

func (s *BrokerService) MyProfile(ctx context.Context, userID string) (*model.Broker, error) {
	return s.brokers.GetByUserID(ctx, userID)
}

type CompleteProfileInput struct {
	CompanyName       string
	LicenseNumber     string
	YearsOfExperience int
	City              string
	About             string
}

// CompleteProfile updates the broker's own profile. Any edit puts the
// profile back under review: status resets to pending, the rejection
// reason is cleared.
func (s *BrokerService) CompleteProfile(ctx context.Context, userID string, in CompleteProfileInput) (*model.Broker, error) {
	broker, err := s.brokers.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	change := verification.EditReset()
	broker.CompanyName = in.CompanyName
	broker.LicenseNumber = in.LicenseNumber
	broker.YearsOfExperience = in.YearsOfExperience
	broker.City = in.City
	broker.About = in.About
	broker.VerificationStatus = string(change.Status)
	broker.RejectionReason = change.RejectionReason

	if err := s.brokers.UpdateProfile(ctx, broker); err != nil {
		return nil, fmt.Errorf("BrokerService.CompleteProfile: %w", err)
	}
	return broker, nil
}

// Review — решение админа: verified/rejected через state machine.
func (s *BrokerService) Review(ctx context.Context, brokerID, adminID string, decision verification.Status, reason string) (*model.BrokerWithUser, error) {
	// Сначала валидируем переход, потом трогаем БД
	change, err := verification.Review(decision, reason, adminID, time.Now())
	if err != nil {
		return nil, err
	}

	if err := s.brokers.ApplyVerification(ctx, brokerID, change); err != nil {
		return nil, err
	}
	return s.brokers.GetByID(ctx, brokerID)
}

// ListForAdmin — все брокеры либо срез по статусу ("all" = без фильтра).
func (s *BrokerService) ListForAdmin(ctx context.Context, status string) ([]model.BrokerWithUser, error) {
	if status == "all" {
		status = ""
	}
	return s.brokers.List(ctx, status)
}

type AdminStats struct {
	Brokers struct {
		Total    int `json:"total"`
		Pending  int `json:"pending"`
		Verified int `json:"verified"`
		Rejected int `json:"rejected"`
	} `json:"brokers"`
	Users struct {
		Total     int `json:"total"`
		Customers int `json:"customers"`
		Brokers   int `json:"brokers"`
		Admins    int `json:"admins"`
	} `json:"users"`
}

func (s *BrokerService) AdminStats(ctx context.Context) (*AdminStats, error) {
	byStatus, err := s.brokers.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("BrokerService.AdminStats: %w", err)
	}
	byRole, err := s.users.CountByRole(ctx)
	if err != nil {
		return nil, fmt.Errorf("BrokerService.AdminStats: %w", err)
	}

	stats := &AdminStats{}
	stats.Brokers.Pending = byStatus[string(verification.StatusPending)]
	stats.Brokers.Verified = byStatus[string(verification.StatusVerified)]
	stats.Brokers.Rejected = byStatus[string(verification.StatusRejected)]
	stats.Brokers.Total = stats.Brokers.Pending + stats.Brokers.Verified + stats.Brokers.Rejected
	stats.Users.Customers = byRole[model.RoleCustomer]
	stats.Users.Brokers = byRole[model.RoleBroker]
	stats.Users.Admins = byRole[model.RoleAdmin]
	stats.Users.Total = stats.Users.Customers + stats.Users.Brokers + stats.Users.Admins
	return stats, nil
}

// MyStats — агрегаты по объявлениям для дашборда брокера.
func (s *BrokerService) MyStats(ctx context.Context, userID string) (*model.BrokerPropertyStats, error) {
	broker, err := s.brokers.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.properties.BrokerStats(ctx, broker.ID)
}
