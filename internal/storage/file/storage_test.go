package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/musikspil/internal/model"
	"github.com/mcoot/musikspil/internal/storage"
)

func TestMissingFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.json")

	s, err := New(path)
	require.NoError(t, err)

	_, err = s.Get(context.Background(), storage.KeyDeviceID)
	assert.ErrorIs(t, err, model.ErrKeyNotFound)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "file should not exist before the first write")
}

func TestValuesSurviveReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "state.json")

	s, err := New(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, storage.KeyDeviceID, "device-1"))
	require.NoError(t, s.Set(ctx, storage.KeyHistoryCollapsed, "1"))

	reopened, err := New(path)
	require.NoError(t, err)

	v, err := reopened.Get(ctx, storage.KeyDeviceID)
	require.NoError(t, err)
	assert.Equal(t, "device-1", v)

	v, err = reopened.Get(ctx, storage.KeyHistoryCollapsed)
	require.NoError(t, err)
	assert.Equal(t, "1", v)
}

func TestFileIsPrivate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	s, err := New(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(context.Background(), "k", "v"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestDeletePersists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.json")

	s, err := New(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "k", "v"))
	require.NoError(t, s.Delete(ctx, "k"))

	reopened, err := New(path)
	require.NoError(t, err)
	_, err = reopened.Get(ctx, "k")
	assert.ErrorIs(t, err, model.ErrKeyNotFound)
}

func TestCorruptFileIsAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	_, err := New(path)
	assert.Error(t, err)
}
