package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/arnabdutta04/estate-backend/internal/apperr"
)

// Claims — личность, зашитая в токен: кто и с какой ролью.
type Claims struct {
	UserID    string
	Role      string
	TokenID   string
	ExpiresAt time.Time
}

// TokenService выпускает и проверяет HS512-токены. Секрет задаётся один раз
// при старте и дальше не меняется.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

func (s *TokenService) Issue(userID, role string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"id":   userID,
		"role": role,
		"jti":  uuid.NewString(),
		"iat":  now.Unix(),
		"exp":  now.Add(s.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("TokenService.Issue: %w", err)
	}
	return signed, nil
}

// Verify разбирает токен и возвращает Claims. Любая проблема (подпись,
// срок, чужой алгоритм, мусор) — Unauthenticated.
func (s *TokenService) Verify(raw string) (Claims, error) {
	token, err := jwt.Parse(raw, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		// Только HS512, как и при выпуске
		if token.Method.Alg() != "HS512" {
			return nil, fmt.Errorf("only HS512 is allowed")
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return Claims{}, apperr.Unauthenticated("Not authorized, token invalid")
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, apperr.Unauthenticated("Not authorized, token invalid")
	}

	userID, _ := mapClaims["id"].(string)
	role, _ := mapClaims["role"].(string)
	if userID == "" || role == "" {
		return Claims{}, apperr.Unauthenticated("Not authorized, token invalid")
	}

	c := Claims{UserID: userID, Role: role}
	if jti, ok := mapClaims["jti"].(string); ok {
		c.TokenID = jti
	}
	if exp, err := mapClaims.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Time
	}
	return c, nil
}
