package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// Revoker хранит jti разлогиненных токенов в Redis до истечения их срока.
// JWT сам по себе не отзывается, поэтому logout кладёт токен в чёрный список.
type Revoker struct {
	rdb *redis.Client
}

func NewRevoker(rdb *redis.Client) *Revoker {
	return &Revoker{rdb: rdb}
}

func revokedKey(tokenID string) string {
	return "auth:revoked:" + tokenID
}

func (r *Revoker) Revoke(ctx context.Context, c Claims) error {
	if c.TokenID == "" {
		return nil
	}
	ttl := time.Until(c.ExpiresAt)
	if ttl <= 0 {
		// Токен уже истёк — хранить нечего
		return nil
	}
	if err := r.rdb.Set(ctx, revokedKey(c.TokenID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("Revoker.Revoke: %w", err)
	}
	return nil
}

func (r *Revoker) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, nil
	}
	n, err := r.rdb.Exists(ctx, revokedKey(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("Revoker.IsRevoked: %w", err)
	}
	return n > 0, nil
}
