package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/arnabdutta04/estate-backend/internal/apperr"
	"github.com/arnabdutta04/estate-backend/internal/auth"
	"github.com/arnabdutta04/estate-backend/internal/middleware"
	"github.com/arnabdutta04/estate-backend/internal/model"
	"github.com/arnabdutta04/estate-backend/internal/search"
	"github.com/arnabdutta04/estate-backend/internal/service"
	"github.com/arnabdutta04/estate-backend/internal/verification"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// In-memory хранилища под полный HTTP-стек: маршруты, мидлвары и сервисы
// настоящие, подменён только слой БД.

type memUserStore struct {
	users map[string]*model.User
}

func (s *memUserStore) Create(ctx context.Context, u *model.User) error {
	copied := *u
	s.users[u.ID] = &copied
	return nil
}

func (s *memUserStore) GetByID(ctx context.Context, id string) (*model.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, apperr.NotFound("User not found")
	}
	copied := *u
	return &copied, nil
}

func (s *memUserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("User not found")
}

func (s *memUserStore) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := s.GetByEmail(ctx, email)
	return err == nil, nil
}

func (s *memUserStore) PhoneExists(ctx context.Context, phone string) (bool, error) {
	for _, u := range s.users {
		if u.Phone == phone {
			return true, nil
		}
	}
	return false, nil
}

func (s *memUserStore) Exists(ctx context.Context, id string) (bool, error) {
	_, ok := s.users[id]
	return ok, nil
}

func (s *memUserStore) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	if u, ok := s.users[id]; ok {
		u.LastLogin = &at
	}
	return nil
}

func (s *memUserStore) CountByRole(ctx context.Context) (map[string]int, error) {
	counts := map[string]int{}
	for _, u := range s.users {
		counts[u.Role]++
	}
	return counts, nil
}

type memBrokerStore struct {
	brokers map[string]*model.Broker
}

func (s *memBrokerStore) Create(ctx context.Context, b *model.Broker) error {
	copied := *b
	s.brokers[b.ID] = &copied
	return nil
}

func (s *memBrokerStore) GetByID(ctx context.Context, id string) (*model.BrokerWithUser, error) {
	b, ok := s.brokers[id]
	if !ok {
		return nil, apperr.NotFound("Broker not found")
	}
	return &model.BrokerWithUser{Broker: *b}, nil
}

func (s *memBrokerStore) GetByUserID(ctx context.Context, userID string) (*model.Broker, error) {
	for _, b := range s.brokers {
		if b.UserID == userID {
			copied := *b
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("Broker profile not found. Please complete your registration.")
}

func (s *memBrokerStore) List(ctx context.Context, status string) ([]model.BrokerWithUser, error) {
	var out []model.BrokerWithUser
	for _, b := range s.brokers {
		if status != "" && b.VerificationStatus != status {
			continue
		}
		out = append(out, model.BrokerWithUser{Broker: *b})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memBrokerStore) UpdateProfile(ctx context.Context, b *model.Broker) error {
	if _, ok := s.brokers[b.ID]; !ok {
		return apperr.NotFound("Broker not found")
	}
	copied := *b
	s.brokers[b.ID] = &copied
	return nil
}

func (s *memBrokerStore) ApplyVerification(ctx context.Context, brokerID string, ch verification.Change) error {
	b, ok := s.brokers[brokerID]
	if !ok {
		return apperr.NotFound("Broker not found")
	}
	b.VerificationStatus = string(ch.Status)
	b.RejectionReason = ch.RejectionReason
	b.VerifiedAt = ch.VerifiedAt
	b.VerifiedBy = ch.VerifiedBy
	return nil
}

func (s *memBrokerStore) CountByStatus(ctx context.Context) (map[string]int, error) {
	counts := map[string]int{}
	for _, b := range s.brokers {
		counts[b.VerificationStatus]++
	}
	return counts, nil
}

type memPropertyStore struct {
	properties map[string]*model.PropertyWithBroker
	visits     []*model.VisitRequest
	brokers    *memBrokerStore
}

func (s *memPropertyStore) Create(ctx context.Context, p *model.Property) error {
	s.properties[p.ID] = &model.PropertyWithBroker{Property: *p}
	return nil
}

func (s *memPropertyStore) GetByID(ctx context.Context, id string) (*model.PropertyWithBroker, error) {
	p, ok := s.properties[id]
	if !ok {
		return nil, apperr.NotFound("Property not found")
	}
	copied := *p
	// Реальный репозиторий добирает broker_user_id через JOIN brokers.
	if b, ok := s.brokers.brokers[copied.BrokerID]; ok {
		copied.BrokerUserID = b.UserID
	}
	return &copied, nil
}

func (s *memPropertyStore) Search(ctx context.Context, q search.SearchQuery) ([]model.PropertyWithBroker, int, error) {
	var out []model.PropertyWithBroker
	for _, p := range s.properties {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, len(out), nil
}

func (s *memPropertyStore) ListByBroker(ctx context.Context, brokerID string) ([]model.Property, error) {
	var out []model.Property
	for _, p := range s.properties {
		if p.BrokerID == brokerID {
			out = append(out, p.Property)
		}
	}
	return out, nil
}

func (s *memPropertyStore) Update(ctx context.Context, p *model.Property) error {
	current, ok := s.properties[p.ID]
	if !ok {
		return apperr.NotFound("Property not found")
	}
	current.Property = *p
	return nil
}

func (s *memPropertyStore) Delete(ctx context.Context, id string) error {
	delete(s.properties, id)
	return nil
}

func (s *memPropertyStore) IncrementViews(ctx context.Context, id string) error {
	if p, ok := s.properties[id]; ok {
		p.Views++
	}
	return nil
}

func (s *memPropertyStore) IncrementInquiries(ctx context.Context, id string) error {
	if p, ok := s.properties[id]; ok {
		p.Inquiries++
	}
	return nil
}

func (s *memPropertyStore) SetFeatured(ctx context.Context, id string, featured bool) error {
	p, ok := s.properties[id]
	if !ok {
		return apperr.NotFound("Property not found")
	}
	p.IsFeatured = featured
	return nil
}

func (s *memPropertyStore) CreateVisit(ctx context.Context, v *model.VisitRequest) error {
	copied := *v
	s.visits = append(s.visits, &copied)
	return nil
}

func (s *memPropertyStore) BrokerStats(ctx context.Context, brokerID string) (*model.BrokerPropertyStats, error) {
	stats := &model.BrokerPropertyStats{}
	for _, p := range s.properties {
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

type testAPI struct {
	router  *gin.Engine
	tokens  *auth.TokenService
	users   *memUserStore
	brokers *memBrokerStore
}

// newTestAPI собирает приложение так же, как main, но на in-memory сторах.
func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	logger := zap.NewNop()
	tokens := auth.NewTokenService("test-secret", time.Hour)

	users := &memUserStore{users: map[string]*model.User{}}
	brokers := &memBrokerStore{brokers: map[string]*model.Broker{}}
	properties := &memPropertyStore{properties: map[string]*model.PropertyWithBroker{}, brokers: brokers}

	authService := service.NewAuthService(users, brokers, tokens, nil)
	brokerService := service.NewBrokerService(brokers, users, properties)
	propertyService := service.NewPropertyService(properties, brokers)

	authH := &AuthHandler{Auth: authService, Logger: logger}
	propertyH := &PropertyHandler{Properties: propertyService, Brokers: brokers, Logger: logger}
	brokerH := &BrokerHandler{Brokers: brokerService, Logger: logger}
	adminH := &AdminHandler{Brokers: brokerService, Logger: logger}

	requireAuth := middleware.RequireAuth(tokens, nil)
	adminOnly := middleware.RequireRole(model.RoleAdmin)
	brokerOnly := middleware.RequireRole(model.RoleBroker)
	verifiedBroker := middleware.RequireVerifiedBroker(brokers, logger)

	r := gin.New()
	api := r.Group("/api")
	api.POST("/auth/register", authH.Register)
	api.POST("/auth/login", authH.Login)
	api.GET("/properties", middleware.OptionalAuth(tokens, nil), propertyH.Search)
	api.GET("/properties/:id", propertyH.GetByID)
	api.GET("/brokers", brokerH.Directory)

	protected := api.Group("/")
	protected.Use(requireAuth)
	protected.POST("/properties", brokerOnly, verifiedBroker, propertyH.Create)
	protected.PUT("/properties/:id", propertyH.Update)
	protected.DELETE("/properties/:id", propertyH.Delete)
	protected.GET("/properties/broker/my-properties", brokerOnly, verifiedBroker, propertyH.MyProperties)
	protected.PUT("/brokers/complete-profile", brokerOnly, brokerH.CompleteProfile)
	protected.PUT("/admin/brokers/:id/verify", adminOnly, adminH.VerifyBroker)
	protected.GET("/admin/brokers", adminOnly, adminH.ListBrokers)

	return &testAPI{router: r, tokens: tokens, users: users, brokers: brokers}
}

func (a *testAPI) request(t *testing.T, method, path, token string, payload any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded))
	return w, decoded
}

func (a *testAPI) seedAdmin(t *testing.T) string {
	t.Helper()
	require.NoError(t, a.users.Create(context.Background(), &model.User{
		ID: "admin-1", Name: "Root", Email: "root@example.com", Role: model.RoleAdmin, IsActive: true,
	}))
	token, err := a.tokens.Issue("admin-1", model.RoleAdmin)
	require.NoError(t, err)
	return token
}

func listingPayload() map[string]any {
	return map[string]any{
		"title":        "Lake view flat",
		"propertyType": "residential",
		"listingType":  "rent",
		"price":        25000,
		"address":      "12 Lake Road",
		"city":         "Dhaka",
		"bedrooms":     3,
		"wifi":         true,
	}
}

// Полный путь брокера: регистрация → отказ по pending → верификация
// админом → публикация объявления.
func TestBrokerListingLifecycle(t *testing.T) {
	api := newTestAPI(t)

	w, body := api.request(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"name":     "Bob Broker",
		"email":    "bob@example.com",
		"phone":    "01700000002",
		"password": "secret123",
		"role":     "broker",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	brokerToken, _ := body["token"].(string)
	require.NotEmpty(t, brokerToken)
	user := body["user"].(map[string]any)
	userID := user["id"].(string)

	// Пока pending — создавать объявления нельзя
	w, body = api.request(t, http.MethodPost, "/api/properties", brokerToken, listingPayload())
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "pending", body["verificationStatus"])

	broker, err := api.brokers.GetByUserID(context.Background(), userID)
	require.NoError(t, err)

	adminToken := api.seedAdmin(t)
	w, body = api.request(t, http.MethodPut, "/api/admin/brokers/"+broker.ID+"/verify", adminToken, map[string]any{
		"verificationStatus": "verified",
	})
	require.Equal(t, http.StatusOK, w.Code)
	data := body["data"].(map[string]any)
	assert.Equal(t, "verified", data["verificationStatus"])

	// Теперь публикация проходит
	w, body = api.request(t, http.MethodPost, "/api/properties", brokerToken, listingPayload())
	require.Equal(t, http.StatusCreated, w.Code)
	property := body["property"].(map[string]any)
	assert.Equal(t, "active", property["status"])
	assert.Equal(t, broker.ID, property["brokerId"])

	// И объявление видно в публичном поиске
	w, body = api.request(t, http.MethodGet, "/api/properties", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), body["totalCount"])

	// Дашборд открыт, пока верификация действует
	w, _ = api.request(t, http.MethodGet, "/api/properties/broker/my-properties", brokerToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

// Отзыв верификации замораживает и уже опубликованные объявления:
// правка и удаление дают 403, пока админ не вернёт verified.
func TestRevokedVerificationFreezesExistingListings(t *testing.T) {
	api := newTestAPI(t)

	w, body := api.request(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"name":     "Bob Broker",
		"email":    "bob@example.com",
		"phone":    "01700000002",
		"password": "secret123",
		"role":     "broker",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	brokerToken := body["token"].(string)
	userID := body["user"].(map[string]any)["id"].(string)

	broker, err := api.brokers.GetByUserID(context.Background(), userID)
	require.NoError(t, err)

	adminToken := api.seedAdmin(t)
	w, _ = api.request(t, http.MethodPut, "/api/admin/brokers/"+broker.ID+"/verify", adminToken, map[string]any{
		"verificationStatus": "verified",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w, body = api.request(t, http.MethodPost, "/api/properties", brokerToken, listingPayload())
	require.Equal(t, http.StatusCreated, w.Code)
	propertyID := body["property"].(map[string]any)["id"].(string)

	// Админ отзывает верификацию
	w, _ = api.request(t, http.MethodPut, "/api/admin/brokers/"+broker.ID+"/verify", adminToken, map[string]any{
		"verificationStatus": "rejected",
		"rejectionReason":    "License expired",
	})
	require.Equal(t, http.StatusOK, w.Code)

	update := listingPayload()
	update["title"] = "Renamed while rejected"
	w, body = api.request(t, http.MethodPut, "/api/properties/"+propertyID, brokerToken, update)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "rejected", body["verificationStatus"])
	assert.Equal(t, "License expired", body["rejectionReason"])

	w, _ = api.request(t, http.MethodDelete, "/api/properties/"+propertyID, brokerToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Дашборд тоже закрыт
	w, _ = api.request(t, http.MethodGet, "/api/properties/broker/my-properties", brokerToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Объявление цело, админу мутации доступны
	w, body = api.request(t, http.MethodGet, "/api/properties/"+propertyID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Lake view flat", body["property"].(map[string]any)["title"])

	w, _ = api.request(t, http.MethodDelete, "/api/properties/"+propertyID, adminToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRejectedBrokerSeesReason(t *testing.T) {
	api := newTestAPI(t)

	w, body := api.request(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"name":     "Bob Broker",
		"email":    "bob@example.com",
		"phone":    "01700000002",
		"password": "secret123",
		"role":     "broker",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	brokerToken := body["token"].(string)
	userID := body["user"].(map[string]any)["id"].(string)

	broker, err := api.brokers.GetByUserID(context.Background(), userID)
	require.NoError(t, err)

	adminToken := api.seedAdmin(t)

	// Отказ без причины — 400
	w, _ = api.request(t, http.MethodPut, "/api/admin/brokers/"+broker.ID+"/verify", adminToken, map[string]any{
		"verificationStatus": "rejected",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = api.request(t, http.MethodPut, "/api/admin/brokers/"+broker.ID+"/verify", adminToken, map[string]any{
		"verificationStatus": "rejected",
		"rejectionReason":    "License number does not match",
	})
	require.Equal(t, http.StatusOK, w.Code)

	// Отклонённый брокер видит статус и причину
	w, body = api.request(t, http.MethodPost, "/api/properties", brokerToken, listingPayload())
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "rejected", body["verificationStatus"])
	assert.Equal(t, "License number does not match", body["rejectionReason"])

	// Правка профиля возвращает pending и чистит причину
	w, body = api.request(t, http.MethodPut, "/api/brokers/complete-profile", brokerToken, map[string]any{
		"companyName":   "Fresh Start Realty",
		"licenseNumber": "LIC-99",
	})
	require.Equal(t, http.StatusOK, w.Code)
	data := body["data"].(map[string]any)
	assert.Equal(t, "pending", data["verificationStatus"])
}

func TestVerifyRequiresAdmin(t *testing.T) {
	api := newTestAPI(t)

	w, body := api.request(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"name":     "Carl Customer",
		"email":    "carl@example.com",
		"phone":    "01700000005",
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	customerToken := body["token"].(string)

	w, _ = api.request(t, http.MethodPut, "/api/admin/brokers/any/verify", customerToken, map[string]any{
		"verificationStatus": "verified",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = api.request(t, http.MethodGet, "/api/admin/brokers", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
