package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/arnabdutta04/estate-backend/internal/apperr"
	"github.com/arnabdutta04/estate-backend/internal/model"
	"github.com/arnabdutta04/estate-backend/internal/search"
	"github.com/arnabdutta04/estate-backend/internal/verification"
)

// PropertyService orchestrates listing mutations and search. Verification
// gating happens in the route middleware; ownership checks happen here.
type PropertyService struct {
	properties PropertyStore
	brokers    BrokerStore
}

func NewPropertyService(properties PropertyStore, brokers BrokerStore) *PropertyService {
	return &PropertyService{properties: properties, brokers: brokers}
}

// SearchPage — страница результатов в формате фронта.
type SearchPage struct {
	Properties  []model.PropertyWithBroker `json:"properties"`
	TotalCount  int                        `json:"totalCount"`
	CurrentPage int                        `json:"currentPage"`
	TotalPages  int                        `json:"totalPages"`
}

func (s *PropertyService) Search(ctx context.Context, q search.SearchQuery) (*SearchPage, error) {
	list, total, err := s.properties.Search(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("PropertyService.Search: %w", err)
	}
	if list == nil {
		list = []model.PropertyWithBroker{}
	}
	totalPages := (total + q.Limit - 1) / q.Limit
	return &SearchPage{
		Properties:  list,
		TotalCount:  total,
		CurrentPage: q.Page,
		TotalPages:  totalPages,
	}, nil
}

// GetByID отдаёт объявление и атомарно увеличивает счётчик просмотров.
func (s *PropertyService) GetByID(ctx context.Context, id string) (*model.PropertyWithBroker, error) {
	p, err := s.properties.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.properties.IncrementViews(ctx, id); err != nil {
		return nil, fmt.Errorf("PropertyService.GetByID views: %w", err)
	}
	p.Views++
	return p, nil
}

type PropertyInput struct {
	Title        string   `json:"title" binding:"required"`
	Description  string   `json:"description"`
	PropertyType string   `json:"propertyType" binding:"required"`
	ListingType  string   `json:"listingType" binding:"required"`
	Price        float64  `json:"price" binding:"required"`
	Address      string   `json:"address" binding:"required"`
	City         string   `json:"city" binding:"required"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	Bedrooms     int      `json:"bedrooms"`
	Bathrooms    int      `json:"bathrooms"`
	Area         float64  `json:"area"`

	ParkingSlot    bool `json:"parkingSlot"`
	Wifi           bool `json:"wifi"`
	Security       bool `json:"security"`
	Kitchen        bool `json:"kitchen"`
	AC             bool `json:"ac"`
	SwimmingPool   bool `json:"swimmingPool"`
	Gym            bool `json:"gym"`
	PetAllowed     bool `json:"petAllowed"`
	HomeTheater    bool `json:"homeTheater"`
	Spa            bool `json:"spa"`
	Elevator       bool `json:"elevator"`
	ConferenceRoom bool `json:"conferenceRoom"`
	GatedCommunity bool `json:"gatedCommunity"`
	WaterSupply    bool `json:"waterSupply"`
	Electricity    bool `json:"electricity"`

	Status string `json:"status"`
}

func (in *PropertyInput) apply(p *model.Property) {
	p.Title = in.Title
	p.Description = in.Description
	p.PropertyType = in.PropertyType
	p.ListingType = in.ListingType
	p.Price = in.Price
	p.Address = in.Address
	p.City = in.City
	p.Latitude = in.Latitude
	p.Longitude = in.Longitude
	p.Bedrooms = in.Bedrooms
	p.Bathrooms = in.Bathrooms
	p.Area = in.Area
	p.ParkingSlot = in.ParkingSlot
	p.Wifi = in.Wifi
	p.Security = in.Security
	p.Kitchen = in.Kitchen
	p.AC = in.AC
	p.SwimmingPool = in.SwimmingPool
	p.Gym = in.Gym
	p.PetAllowed = in.PetAllowed
	p.HomeTheater = in.HomeTheater
	p.Spa = in.Spa
	p.Elevator = in.Elevator
	p.ConferenceRoom = in.ConferenceRoom
	p.GatedCommunity = in.GatedCommunity
	p.WaterSupply = in.WaterSupply
	p.Electricity = in.Electricity
	if in.Status != "" {
		p.Status = in.Status
	}
}

// Create: вызывается только после RequireVerifiedBroker, профиль приходит
// из контекста запроса.
func (s *PropertyService) Create(ctx context.Context, broker *model.Broker, in PropertyInput) (*model.Property, error) {
	now := time.Now()
	p := &model.Property{
		ID:        uuid.NewString(),
		BrokerID:  broker.ID,
		Status:    model.PropertyStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	in.apply(p)
	if err := s.properties.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("PropertyService.Create: %w", err)
	}
	return p, nil
}

// requireVerified: мутации объявлений требуют действующей верификации.
// Отзыв или сброс статуса замораживает и уже опубликованные объявления.
func (s *PropertyService) requireVerified(ctx context.Context, userID string) error {
	broker, err := s.brokers.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}
	switch verification.Status(broker.VerificationStatus) {
	case verification.StatusVerified:
		return nil
	case verification.StatusRejected:
		return apperr.ForbiddenVerification(
			"Your broker verification was rejected.",
			broker.VerificationStatus, broker.RejectionReason)
	default:
		return apperr.ForbiddenVerification(
			"Your broker account is under verification. Please wait for admin approval.",
			broker.VerificationStatus, "")
	}
}

// Update разрешён админу и владельцу-брокеру с действующей верификацией.
func (s *PropertyService) Update(ctx context.Context, userID, role, propertyID string, in PropertyInput) (*model.Property, error) {
	current, err := s.properties.GetByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if role != model.RoleAdmin {
		if current.BrokerUserID != userID {
			return nil, apperr.Forbidden("Not authorized to update this property")
		}
		if err := s.requireVerified(ctx, userID); err != nil {
			return nil, err
		}
	}

	p := current.Property
	in.apply(&p)
	if err := s.properties.Update(ctx, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PropertyService) Delete(ctx context.Context, userID, role, propertyID string) error {
	current, err := s.properties.GetByID(ctx, propertyID)
	if err != nil {
		return err
	}
	if role != model.RoleAdmin {
		if current.BrokerUserID != userID {
			return apperr.Forbidden("Not authorized to delete this property")
		}
		if err := s.requireVerified(ctx, userID); err != nil {
			return err
		}
	}
	return s.properties.Delete(ctx, propertyID)
}

func (s *PropertyService) MyProperties(ctx context.Context, userID string) ([]model.Property, error) {
	broker, err := s.brokers.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	list, err := s.properties.ListByBroker(ctx, broker.ID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []model.Property{}
	}
	return list, nil
}

type VisitInput struct {
	Date    string `json:"date" binding:"required"`
	Time    string `json:"time" binding:"required"`
	Message string `json:"message"`
}

// ScheduleVisit сохраняет заявку на просмотр и увеличивает inquiries.
func (s *PropertyService) ScheduleVisit(ctx context.Context, userID, propertyID string, in VisitInput) error {
	if _, err := s.properties.GetByID(ctx, propertyID); err != nil {
		return err
	}
	visit := &model.VisitRequest{
		ID:         uuid.NewString(),
		PropertyID: propertyID,
		UserID:     userID,
		VisitDate:  in.Date,
		VisitTime:  in.Time,
		Message:    in.Message,
		CreatedAt:  time.Now(),
	}
	if err := s.properties.CreateVisit(ctx, visit); err != nil {
		return err
	}
	if err := s.properties.IncrementInquiries(ctx, propertyID); err != nil {
		return fmt.Errorf("PropertyService.ScheduleVisit inquiries: %w", err)
	}
	return nil
}

// SetFeatured — только админ (гард на маршруте).
func (s *PropertyService) SetFeatured(ctx context.Context, propertyID string, featured bool) (*model.PropertyWithBroker, error) {
	if err := s.properties.SetFeatured(ctx, propertyID, featured); err != nil {
		return nil, err
	}
	return s.properties.GetByID(ctx, propertyID)
}
