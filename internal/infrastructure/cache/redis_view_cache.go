package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Semerokozlyat/drom-de/internal/application/billing"
)

// RedisViewCache cache de vistas compartida entre instancias.
//
// Layout de claves:
//
//	view:gen:<path>               contador de generación (INCR al invalidar)
//	view:<path>:<gen>:<key>       cuerpo de la vista, con TTL
//
// Invalidar no borra entradas: las de generaciones viejas dejan de leerse y expiran solas.
type RedisViewCache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ billing.ViewCache = (*RedisViewCache)(nil)

// NewRedisViewCache construye la cache sobre un cliente existente. ttl <= 0 usa DefaultViewTTL.
func NewRedisViewCache(client *redis.Client, ttl time.Duration) *RedisViewCache {
	if ttl <= 0 {
		ttl = DefaultViewTTL
	}
	return &RedisViewCache{client: client, ttl: ttl}
}

func genKey(path string) string { return "view:gen:" + path }

func entryKey(path string, gen int64, key string) string {
	return "view:" + path + ":" + strconv.FormatInt(gen, 10) + ":" + key
}

// setIfCurrent escribe la vista sólo si la generación no cambió desde que se leyó.
var setIfCurrent = redis.NewScript(`
local cur = redis.call('GET', KEYS[1])
if not cur then cur = '0' end
if cur ~= ARGV[1] then return 0 end
redis.call('SET', KEYS[2], ARGV[2], 'PX', ARGV[3])
return 1
`)

// Generation generación actual de path (0 si nunca se invalidó).
func (c *RedisViewCache) Generation(ctx context.Context, path string) (int64, error) {
	gen, err := c.client.Get(ctx, genKey(path)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("cache: leer generación de %s: %w", path, err)
	}
	return gen, nil
}

// Get devuelve la vista de la generación actual.
func (c *RedisViewCache) Get(ctx context.Context, path, key string) ([]byte, bool, error) {
	gen, err := c.Generation(ctx, path)
	if err != nil {
		return nil, false, err
	}
	body, err := c.client.Get(ctx, entryKey(path, gen, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache: leer vista: %w", err)
	}
	return body, true, nil
}

// Set guarda la vista con TTL si gen sigue siendo la generación actual de path.
// La comparación y la escritura son atómicas en Redis.
func (c *RedisViewCache) Set(ctx context.Context, path, key string, gen int64, body []byte) (bool, error) {
	keys := []string{genKey(path), entryKey(path, gen, key)}
	stored, err := setIfCurrent.Run(ctx, c.client, keys, strconv.FormatInt(gen, 10), body, c.ttl.Milliseconds()).Int()
	if err != nil {
		return false, fmt.Errorf("cache: guardar vista: %w", err)
	}
	return stored == 1, nil
}

// Invalidate incrementa la generación de path.
func (c *RedisViewCache) Invalidate(ctx context.Context, path string) error {
	if err := c.client.Incr(ctx, genKey(path)).Err(); err != nil {
		return fmt.Errorf("cache: invalidar %s: %w", path, err)
	}
	return nil
}
