package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/arnabdutta04/estate-backend/internal/apperr"
	"github.com/arnabdutta04/estate-backend/internal/auth"
	"github.com/arnabdutta04/estate-backend/internal/model"
	"github.com/arnabdutta04/estate-backend/internal/verification"
)

// AuthService handles registration, login and token lifecycle.
type AuthService struct {
	users   UserStore
	brokers BrokerStore
	tokens  *auth.TokenService
	revoker *auth.Revoker // nil когда Redis не сконфигурирован
}

func NewAuthService(users UserStore, brokers BrokerStore, tokens *auth.TokenService, revoker *auth.Revoker) *AuthService {
	return &AuthService{users: users, brokers: brokers, tokens: tokens, revoker: revoker}
}

type RegisterInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
	Role     string
}

type AuthResult struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// Register creates the user and, for the broker role, bootstraps a pending
// broker profile so the verification lifecycle starts immediately.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	if in.Role == "" {
		in.Role = model.RoleCustomer
	}
	if in.Role != model.RoleCustomer && in.Role != model.RoleBroker {
		return nil, apperr.BadRequest("Role must be customer or broker")
	}

	exists, err := s.users.EmailExists(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("AuthService.Register: %w", err)
	}
	if exists {
		return nil, apperr.BadRequest("Email already exists")
	}
	exists, err = s.users.PhoneExists(ctx, in.Phone)
	if err != nil {
		return nil, fmt.Errorf("AuthService.Register: %w", err)
	}
	if exists {
		return nil, apperr.BadRequest("Phone number already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("AuthService.Register hash: %w", err)
	}

	now := time.Now()
	user := &model.User{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		Password:  string(hash),
		Role:      in.Role,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("AuthService.Register: %w", err)
	}

	if in.Role == model.RoleBroker {
		broker := &model.Broker{
			ID:                 uuid.NewString(),
			UserID:             user.ID,
			VerificationStatus: string(verification.StatusPending),
			CreatedAt:          now,
			UpdatedAt:          now,
		}
		if err := s.brokers.Create(ctx, broker); err != nil {
			return nil, fmt.Errorf("AuthService.Register broker profile: %w", err)
		}
	}

	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("AuthService.Register token: %w", err)
	}
	return &AuthResult{Token: token, User: user}, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	if email == "" || password == "" {
		return nil, apperr.BadRequest("Please provide email and password")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if apperr.From(err) != nil {
			// Не раскрываем, существует ли e-mail
			return nil, apperr.Unauthenticated("Invalid credentials")
		}
		return nil, fmt.Errorf("AuthService.Login: %w", err)
	}
	if !user.IsActive {
		return nil, apperr.Forbidden("Account is deactivated. Please contact support.")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, apperr.Unauthenticated("Invalid credentials")
	}

	now := time.Now()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, fmt.Errorf("AuthService.Login: %w", err)
	}
	user.LastLogin = &now

	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("AuthService.Login token: %w", err)
	}
	return &AuthResult{Token: token, User: user}, nil
}

func (s *AuthService) Me(ctx context.Context, userID string) (*model.User, error) {
	return s.users.GetByID(ctx, userID)
}

// Logout revokes the presented token until its natural expiry. Without a
// configured revocation store logout stays a client-side operation.
func (s *AuthService) Logout(ctx context.Context, claims auth.Claims) error {
	if s.revoker == nil {
		return nil
	}
	if err := s.revoker.Revoke(ctx, claims); err != nil {
		return fmt.Errorf("AuthService.Logout: %w", err)
	}
	return nil
}
