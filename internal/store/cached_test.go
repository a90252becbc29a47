package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"runaway-service/internal/models"
)

type countingStore struct {
	result models.PersistedResult
	err    error
	loads  int
	saves  int
}

func (c *countingStore) Save(_ context.Context, r models.PersistedResult) error {
	c.saves++
	c.result = r
	return nil
}

func (c *countingStore) Load(_ context.Context) (models.PersistedResult, error) {
	c.loads++
	return c.result, c.err
}

func TestCached_ServesSnapshot(t *testing.T) {
	ctx := context.Background()
	inner := &countingStore{result: okResult()}
	c := NewCached(inner, 0)

	for i := 0; i < 3; i++ {
		got, err := c.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, okResult(), got)
	}
	assert.Equal(t, 1, inner.loads)

	c.Invalidate()
	_, err := c.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, inner.loads)
}

func TestCached_TTL(t *testing.T) {
	ctx := context.Background()
	inner := &countingStore{result: okResult()}
	c := NewCached(inner, time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	_, _ = c.Load(ctx)
	now = now.Add(30 * time.Second)
	_, _ = c.Load(ctx)
	assert.Equal(t, 1, inner.loads)

	now = now.Add(time.Minute)
	_, _ = c.Load(ctx)
	assert.Equal(t, 2, inner.loads)
}

func TestCached_ErrorsAreNotCached(t *testing.T) {
	ctx := context.Background()
	inner := &countingStore{err: ErrNotFound}
	c := NewCached(inner, 0)

	_, err := c.Load(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	inner.err = nil
	inner.result = okResult()
	got, err := c.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, okResult(), got)
}

func TestCached_SaveInvalidates(t *testing.T) {
	ctx := context.Background()
	inner := &countingStore{result: okResult()}
	c := NewCached(inner, 0)

	_, _ = c.Load(ctx)
	next := models.PersistedResult{Status: models.StatusError, Message: "no data"}
	require.NoError(t, c.Save(ctx, next))

	got, err := c.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, next, got)
	assert.Equal(t, 1, inner.saves)
}

// blockingStore отдает прочитанный результат только после сигнала release
type blockingStore struct {
	mu      sync.Mutex
	result  models.PersistedResult
	read    chan struct{}
	release chan struct{}
	block   bool
}

func (b *blockingStore) Save(_ context.Context, r models.PersistedResult) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.result = r
	return nil
}

func (b *blockingStore) Load(_ context.Context) (models.PersistedResult, error) {
	b.mu.Lock()
	result, block := b.result, b.block
	b.block = false
	b.mu.Unlock()
	if block {
		close(b.read)
		<-b.release
	}
	return result, nil
}

func TestCached_SaveDuringLoadIsNotOverwritten(t *testing.T) {
	ctx := context.Background()
	old := models.PersistedResult{Status: models.StatusOK, Temperatures: []float64{1, 2}, Bandwidth: 1, TempRange: []float64{0, 3}}
	fresh := models.PersistedResult{Status: models.StatusOK, Temperatures: []float64{1, 2}, Bandwidth: 5, TempRange: []float64{0, 3}}

	inner := &blockingStore{result: old, block: true, read: make(chan struct{}), release: make(chan struct{})}
	c := NewCached(inner, 0)

	done := make(chan models.PersistedResult)
	go func() {
		got, _ := c.Load(ctx)
		done <- got
	}()

	<-inner.read
	require.NoError(t, c.Save(ctx, fresh))
	close(inner.release)

	// Загрузка, начатая до Save, видит старый документ, но не кэширует его
	assert.Equal(t, old, <-done)

	got, err := c.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, fresh.Bandwidth, got.Bandwidth)
}
