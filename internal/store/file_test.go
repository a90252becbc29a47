package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"runaway-service/internal/models"
)

func TestFileStore_LoadNotFound(t *testing.T) {
	fs := NewFileStore(filepath.Join(t.TempDir(), "result.json"))
	_, err := fs.Load(context.Background())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileStore_SaveLoad(t *testing.T) {
	ctx := context.Background()
	fs := NewFileStore(filepath.Join(t.TempDir(), "result.json"))

	want := okResult()
	require.NoError(t, fs.Save(ctx, want))

	got, err := fs.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFileStore_OverwritesWholesale(t *testing.T) {
	ctx := context.Background()
	fs := NewFileStore(filepath.Join(t.TempDir(), "result.json"))

	require.NoError(t, fs.Save(ctx, okResult()))
	errResult := models.PersistedResult{Status: models.StatusError, Message: "no data"}
	require.NoError(t, fs.Save(ctx, errResult))

	got, err := fs.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, errResult, got)
	assert.Empty(t, got.Temperatures)
}

func TestFileStore_NoTempFilesLeft(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	fs := NewFileStore(filepath.Join(dir, "result.json"))

	require.NoError(t, fs.Save(ctx, okResult()))

	bad := okResult()
	bad.Bandwidth = -1
	assert.Error(t, fs.Save(ctx, bad))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "result.json", entries[0].Name())

	// invalid save must not clobber the previous result
	got, err := fs.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, okResult(), got)
}

func TestFileStore_LoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"status": "ok", "temperatures": []}`), 0o644))

	_, err := NewFileStore(path).Load(context.Background())
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestFileStore_Ping(t *testing.T) {
	ctx := context.Background()
	assert.NoError(t, NewFileStore(filepath.Join(t.TempDir(), "r.json")).Ping(ctx))
	assert.Error(t, NewFileStore(filepath.Join(t.TempDir(), "missing", "r.json")).Ping(ctx))
}
