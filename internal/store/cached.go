package store

import (
	"context"
	"sync"
	"time"

	"runaway-service/internal/models"
)

// Cached хранит в памяти последний успешно загруженный результат.
// Снимок неизменяем, поэтому параллельные читатели получают его без копирования.
type Cached struct {
	inner ResultStore
	ttl   time.Duration
	now   func() time.Time

	mu       sync.RWMutex
	result   models.PersistedResult
	loaded   bool
	loadedAt time.Time
	// generation растет при каждой инвалидации
	generation uint64
}

// NewCached оборачивает хранилище кэшем. ttl <= 0 означает хранение до явной инвалидации.
func NewCached(inner ResultStore, ttl time.Duration) *Cached {
	return &Cached{
		inner: inner,
		ttl:   ttl,
		now:   time.Now,
	}
}

// Load возвращает закэшированный снимок или читает его из нижележащего хранилища
func (c *Cached) Load(ctx context.Context) (models.PersistedResult, error) {
	c.mu.RLock()
	if c.fresh() {
		result := c.result
		c.mu.RUnlock()
		return result, nil
	}
	gen := c.generation
	c.mu.RUnlock()

	result, err := c.inner.Load(ctx)
	if err != nil {
		return models.PersistedResult{}, err
	}

	// Снимок, прочитанный до инвалидации, не кэшируется
	c.mu.Lock()
	if c.generation == gen {
		c.result = result
		c.loaded = true
		c.loadedAt = c.now()
	}
	c.mu.Unlock()

	return result, nil
}

// Save записывает результат и сбрасывает кэш
func (c *Cached) Save(ctx context.Context, result models.PersistedResult) error {
	defer c.Invalidate()
	return c.inner.Save(ctx, result)
}

// Invalidate сбрасывает закэшированный снимок
func (c *Cached) Invalidate() {
	c.mu.Lock()
	c.loaded = false
	c.result = models.PersistedResult{}
	c.generation++
	c.mu.Unlock()
}

// Ping проксирует проверку здоровья, если нижележащее хранилище ее поддерживает
func (c *Cached) Ping(ctx context.Context) error {
	if p, ok := c.inner.(interface{ Ping(context.Context) error }); ok {
		return p.Ping(ctx)
	}
	return nil
}

func (c *Cached) fresh() bool {
	if !c.loaded {
		return false
	}
	return c.ttl <= 0 || c.now().Sub(c.loadedAt) < c.ttl
}
