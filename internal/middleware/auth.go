package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/arnabdutta04/estate-backend/internal/apperr"
	"github.com/arnabdutta04/estate-backend/internal/auth"
	"github.com/arnabdutta04/estate-backend/internal/model"
	"github.com/arnabdutta04/estate-backend/internal/verification"
)

const (
	principalKey = "principal"
	brokerKey    = "brokerProfile"
)

// BrokerLoader — кусочек BrokerStore, который нужен гарду верификации.
type BrokerLoader interface {
	GetByUserID(ctx context.Context, userID string) (*model.Broker, error)
}

// TokenRevoker сообщает, отозван ли токен при logout. nil = отзыв не
// сконфигурирован, все валидные токены принимаются.
type TokenRevoker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// Principal возвращает личность запроса, установленную RequireAuth.
func Principal(c *gin.Context) (auth.Claims, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return auth.Claims{}, false
	}
	claims, ok := v.(auth.Claims)
	return claims, ok
}

// BrokerProfile возвращает профиль, установленный RequireVerifiedBroker.
func BrokerProfile(c *gin.Context) (*model.Broker, bool) {
	v, ok := c.Get(brokerKey)
	if !ok {
		return nil, false
	}
	broker, ok := v.(*model.Broker)
	return broker, ok
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	return strings.TrimPrefix(header, "Bearer "), true
}

// RequireAuth разбирает bearer-токен и кладёт Principal в контекст.
// Любая проблема с токеном — 401, дальше запрос не идёт.
func RequireAuth(tokens *auth.TokenService, revoker TokenRevoker) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authorized, no token"})
			return
		}

		claims, err := tokens.Verify(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authorized, token invalid"})
			return
		}

		if revoker != nil {
			revoked, err := revoker.IsRevoked(c.Request.Context(), claims.TokenID)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error"})
				return
			}
			if revoked {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authorized, token invalid"})
				return
			}
		}

		c.Set(principalKey, claims)
		c.Next()
	}
}

// OptionalAuth — как RequireAuth, но без отказов: валидный токен даёт
// Principal, всё остальное просто пропускается. Нужен публичному поиску,
// где админ и брокер видят неактивные статусы. Отозванный токен ведёт
// себя как отсутствующий.
func OptionalAuth(tokens *auth.TokenService, revoker TokenRevoker) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c)
		if !ok {
			c.Next()
			return
		}
		claims, err := tokens.Verify(raw)
		if err != nil {
			c.Next()
			return
		}
		if revoker != nil {
			revoked, err := revoker.IsRevoked(c.Request.Context(), claims.TokenID)
			if err != nil || revoked {
				c.Next()
				return
			}
		}
		c.Set(principalKey, claims)
		c.Next()
	}
}

// RequireRole пускает дальше только перечисленные роли. Ставится после
// RequireAuth.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := Principal(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authorized"})
			return
		}
		for _, role := range roles {
			if claims.Role == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"success": false,
			"message": "User role '" + claims.Role + "' is not authorized to access this route",
		})
	}
}

// RequireVerifiedBroker — гард мутаций объявлений: брокер должен пройти
// верификацию. Читает профиль и кладёт его в контекст; сам ничего не пишет.
func RequireVerifiedBroker(brokers BrokerLoader, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := Principal(c)
		if !ok || claims.Role != model.RoleBroker {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "message": "Access denied. Broker role required."})
			return
		}

		broker, err := brokers.GetByUserID(c.Request.Context(), claims.UserID)
		if err != nil {
			if ae := apperr.From(err); ae != nil {
				c.AbortWithStatusJSON(ae.Status, gin.H{"success": false, "message": ae.Message})
				return
			}
			logger.Error("broker verification check failed", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error during verification check"})
			return
		}

		switch verification.Status(broker.VerificationStatus) {
		case verification.StatusVerified:
			c.Set(brokerKey, broker)
			c.Next()
		case verification.StatusRejected:
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success":            false,
				"message":            "Your broker verification was rejected.",
				"verificationStatus": broker.VerificationStatus,
				"rejectionReason":    broker.RejectionReason,
			})
		default:
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success":            false,
				"message":            "Your broker account is under verification. Please wait for admin approval.",
				"verificationStatus": broker.VerificationStatus,
			})
		}
	}
}
