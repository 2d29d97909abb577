package prefs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/musikspil/internal/storage"
	"github.com/mcoot/musikspil/internal/storage/memory"
	"github.com/mcoot/musikspil/internal/testutil"
)

func TestHistoryExpandedByDefault(t *testing.T) {
	svc := New(memory.New(), testutil.NopLogger())
	assert.False(t, svc.HistoryCollapsed(context.Background()))
}

func TestToggleHistoryPersists(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := New(store, testutil.NopLogger())

	collapsed, err := svc.ToggleHistoryCollapsed(ctx)
	require.NoError(t, err)
	assert.True(t, collapsed)

	raw, err := store.Get(ctx, storage.KeyHistoryCollapsed)
	require.NoError(t, err)
	assert.Equal(t, "1", raw)

	// Survives a new service over the same storage
	assert.True(t, New(store, testutil.NopLogger()).HistoryCollapsed(ctx))

	collapsed, err = svc.ToggleHistoryCollapsed(ctx)
	require.NoError(t, err)
	assert.False(t, collapsed)

	raw, _ = store.Get(ctx, storage.KeyHistoryCollapsed)
	assert.Equal(t, "0", raw)
}

func TestUnknownValueReadsAsExpanded(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	require.NoError(t, store.Set(ctx, storage.KeyHistoryCollapsed, "yes"))

	assert.False(t, New(store, testutil.NopLogger()).HistoryCollapsed(ctx))
}
