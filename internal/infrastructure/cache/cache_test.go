package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Semerokozlyat/drom-de/internal/application/billing"
)

const invoicesPath = "/dashboard/invoices"

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

// set guarda en la generación actual y exige que se haya escrito.
func set(t *testing.T, c billing.ViewCache, path, key, body string) {
	t.Helper()
	ctx := context.Background()
	gen, err := c.Generation(ctx, path)
	require.NoError(t, err)
	stored, err := c.Set(ctx, path, key, gen, []byte(body))
	require.NoError(t, err)
	require.True(t, stored)
}

// exerciseViewCache contrato común a las dos implementaciones.
func exerciseViewCache(t *testing.T, c billing.ViewCache) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := c.Get(ctx, invoicesPath, "page=1")
	require.NoError(t, err)
	assert.False(t, ok)

	set(t, c, invoicesPath, "page=1", `{"invoices":[]}`)
	set(t, c, invoicesPath, "page=2&query=lee", `{"page":2}`)
	set(t, c, "/dashboard/customers", "", `[]`)

	body, ok, err := c.Get(ctx, invoicesPath, "page=1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"invoices":[]}`, string(body))

	require.NoError(t, c.Invalidate(ctx, invoicesPath))

	for _, key := range []string{"page=1", "page=2&query=lee"} {
		_, ok, err = c.Get(ctx, invoicesPath, key)
		require.NoError(t, err)
		assert.False(t, ok, "la invalidación descarta todas las claves de la ruta (%s)", key)
	}
	_, ok, err = c.Get(ctx, "/dashboard/customers", "")
	require.NoError(t, err)
	assert.True(t, ok, "otras rutas no se ven afectadas")

	set(t, c, invoicesPath, "page=1", `{"v":2}`)
	body, ok, err = c.Get(ctx, invoicesPath, "page=1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"v":2}`, string(body))
}

// exerciseStaleSet un lector que consultó antes de una invalidación concurrente
// no puede dejar su vista vieja en la cache.
func exerciseStaleSet(t *testing.T, c billing.ViewCache) {
	t.Helper()
	ctx := context.Background()

	gen, err := c.Generation(ctx, invoicesPath)
	require.NoError(t, err)
	_, ok, err := c.Get(ctx, invoicesPath, "page=1")
	require.NoError(t, err)
	require.False(t, ok)

	// la mutación confirma e invalida mientras el lector consulta el backend
	require.NoError(t, c.Invalidate(ctx, invoicesPath))

	stored, err := c.Set(ctx, invoicesPath, "page=1", gen, []byte(`{"stale":true}`))
	require.NoError(t, err)
	assert.False(t, stored)

	_, ok, err = c.Get(ctx, invoicesPath, "page=1")
	require.NoError(t, err)
	assert.False(t, ok, "la vista construida antes de invalidar no se sirve")

	set(t, c, invoicesPath, "page=1", `{"fresh":true}`)
	body, ok, err := c.Get(ctx, invoicesPath, "page=1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"fresh":true}`, string(body))
}

// ──────────────────────────────────────────────────────────────────────────────
// View cache
// ──────────────────────────────────────────────────────────────────────────────

func TestMemoryViewCache_Contrato(t *testing.T) {
	c := NewMemoryViewCache(time.Minute)
	exerciseViewCache(t, c)
	gen, err := c.Generation(context.Background(), invoicesPath)
	require.NoError(t, err)
	assert.Equal(t, int64(1), gen)
}

func TestMemoryViewCache_InvalidacionConcurrente(t *testing.T) {
	exerciseStaleSet(t, NewMemoryViewCache(time.Minute))
}

func TestMemoryViewCache_Expira(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	c := NewMemoryViewCache(time.Minute)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	set(t, c, invoicesPath, "k", "x")
	now = now.Add(2 * time.Minute)

	_, ok, err := c.Get(ctx, invoicesPath, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisViewCache_Contrato(t *testing.T) {
	mr, client := newRedis(t)
	exerciseViewCache(t, NewRedisViewCache(client, time.Minute))

	gen, err := mr.Get("view:gen:" + invoicesPath)
	require.NoError(t, err)
	assert.Equal(t, "1", gen)
	assert.True(t, mr.Exists("view:"+invoicesPath+":1:page=1"))
}

func TestRedisViewCache_InvalidacionConcurrente(t *testing.T) {
	mr, client := newRedis(t)
	exerciseStaleSet(t, NewRedisViewCache(client, time.Minute))
	assert.False(t, mr.Exists("view:"+invoicesPath+":0:page=1"))
}

func TestRedisViewCache_TTL(t *testing.T) {
	mr, client := newRedis(t)
	c := NewRedisViewCache(client, time.Minute)
	ctx := context.Background()

	set(t, c, invoicesPath, "k", "x")
	mr.FastForward(2 * time.Minute)

	_, ok, err := c.Get(ctx, invoicesPath, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisViewCache_RedisCaido(t *testing.T) {
	mr, client := newRedis(t)
	c := NewRedisViewCache(client, time.Minute)
	mr.Close()

	assert.Error(t, c.Invalidate(context.Background(), invoicesPath))
}

// ──────────────────────────────────────────────────────────────────────────────
// Revocación de sesiones
// ──────────────────────────────────────────────────────────────────────────────

func TestMemoryRevoker(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	r := NewMemoryRevoker()
	r.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, r.Revoke(ctx, "jti-1", now.Add(time.Hour)))
	require.NoError(t, r.Revoke(ctx, "jti-old", now.Add(-time.Minute)))

	revoked, err := r.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, _ = r.IsRevoked(ctx, "jti-old")
	assert.False(t, revoked, "un token ya expirado no necesita revocarse")

	now = now.Add(2 * time.Hour)
	revoked, _ = r.IsRevoked(ctx, "jti-1")
	assert.False(t, revoked)
}

func TestRedisRevoker(t *testing.T) {
	mr, client := newRedis(t)
	r := NewRedisRevoker(client)
	ctx := context.Background()

	require.NoError(t, r.Revoke(ctx, "jti-1", time.Now().Add(time.Hour)))
	revoked, err := r.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)
	assert.Greater(t, mr.TTL("session:revoked:jti-1"), 59*time.Minute)

	revoked, err = r.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)

	mr.FastForward(2 * time.Hour)
	revoked, _ = r.IsRevoked(ctx, "jti-1")
	assert.False(t, revoked)
}
