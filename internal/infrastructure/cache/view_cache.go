// Package cache implementa la cache de vistas y la lista de sesiones revocadas,
// en memoria (una sola instancia) y sobre Redis (varias instancias).
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/Semerokozlyat/drom-de/internal/application/billing"
)

// DefaultViewTTL vida de una vista cacheada si nadie la invalida antes.
const DefaultViewTTL = 5 * time.Minute

type viewEntry struct {
	body      []byte
	expiresAt time.Time
}

// MemoryViewCache cache de vistas en proceso. Cada ruta tiene un contador de generación;
// Invalidate lo incrementa y descarta las entradas viejas.
type MemoryViewCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	gens    map[string]int64
	entries map[string]map[string]viewEntry // path → key → entrada de la generación actual
}

var _ billing.ViewCache = (*MemoryViewCache)(nil)

// NewMemoryViewCache construye la cache. ttl <= 0 usa DefaultViewTTL.
func NewMemoryViewCache(ttl time.Duration) *MemoryViewCache {
	if ttl <= 0 {
		ttl = DefaultViewTTL
	}
	return &MemoryViewCache{
		ttl:     ttl,
		now:     time.Now,
		gens:    map[string]int64{},
		entries: map[string]map[string]viewEntry{},
	}
}

// Get devuelve la vista si existe y no expiró.
func (c *MemoryViewCache) Get(_ context.Context, path, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[path][key]
	if !ok {
		return nil, false, nil
	}
	if c.now().After(e.expiresAt) {
		delete(c.entries[path], key)
		return nil, false, nil
	}
	return e.body, true, nil
}

// Set guarda la vista sólo si gen sigue siendo la generación actual de path.
// Una vista construida antes de una invalidación se descarta.
func (c *MemoryViewCache) Set(_ context.Context, path, key string, gen int64, body []byte) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gens[path] != gen {
		return false, nil
	}
	m, ok := c.entries[path]
	if !ok {
		m = map[string]viewEntry{}
		c.entries[path] = m
	}
	m[key] = viewEntry{body: append([]byte(nil), body...), expiresAt: c.now().Add(c.ttl)}
	return true, nil
}

// Invalidate descarta todas las vistas de path.
func (c *MemoryViewCache) Invalidate(_ context.Context, path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gens[path]++
	delete(c.entries, path)
	return nil
}

// Generation generación actual de path.
func (c *MemoryViewCache) Generation(_ context.Context, path string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gens[path], nil
}
