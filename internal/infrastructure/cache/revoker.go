package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Semerokozlyat/drom-de/internal/application/auth"
)

// MemoryRevoker lista de sesiones revocadas en proceso. No sirve con varias instancias.
type MemoryRevoker struct {
	mu      sync.Mutex
	now     func() time.Time
	revoked map[string]time.Time // jti → expiración del token
}

var _ auth.SessionRevoker = (*MemoryRevoker)(nil)

// NewMemoryRevoker construye la lista vacía.
func NewMemoryRevoker() *MemoryRevoker {
	return &MemoryRevoker{now: time.Now, revoked: map[string]time.Time{}}
}

// Revoke marca tokenID como revocado hasta until.
func (r *MemoryRevoker) Revoke(_ context.Context, tokenID string, until time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	for id, exp := range r.revoked {
		if now.After(exp) {
			delete(r.revoked, id)
		}
	}
	if until.After(now) {
		r.revoked[tokenID] = until
	}
	return nil
}

// IsRevoked indica si tokenID sigue revocado.
func (r *MemoryRevoker) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	exp, ok := r.revoked[tokenID]
	if !ok {
		return false, nil
	}
	if r.now().After(exp) {
		delete(r.revoked, tokenID)
		return false, nil
	}
	return true, nil
}

// RedisRevoker lista de sesiones revocadas en Redis (clave session:revoked:<jti> con TTL).
type RedisRevoker struct {
	client *redis.Client
	now    func() time.Time
}

var _ auth.SessionRevoker = (*RedisRevoker)(nil)

// NewRedisRevoker construye la lista sobre un cliente existente.
func NewRedisRevoker(client *redis.Client) *RedisRevoker {
	return &RedisRevoker{client: client, now: time.Now}
}

func revokedKey(tokenID string) string { return "session:revoked:" + tokenID }

// Revoke guarda tokenID con TTL hasta la expiración del token. Un token ya expirado se ignora.
func (r *RedisRevoker) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	ttl := until.Sub(r.now())
	if ttl <= 0 {
		return nil
	}
	if err := r.client.Set(ctx, revokedKey(tokenID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("revocar sesión: %w", err)
	}
	return nil
}

// IsRevoked consulta la clave de revocación.
func (r *RedisRevoker) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := r.client.Exists(ctx, revokedKey(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("consultar revocación: %w", err)
	}
	return n > 0, nil
}
