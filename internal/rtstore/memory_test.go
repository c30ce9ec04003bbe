package rtstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_WriteGet(t *testing.T) {
	mem := NewMemory()
	ctx := context.Background()

	_, ok, err := mem.Get(ctx, "attendance/RA12/today")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, mem.Write(ctx, "attendance/RA12/today", Doc{"date": "2025-03-10"}))

	doc, ok, err := mem.Get(ctx, "attendance/RA12/today")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "2025-03-10", doc["date"])

	// Writes replace, never merge.
	require.NoError(t, mem.Write(ctx, "attendance/RA12/today", Doc{"other": "x"}))
	doc, _, err = mem.Get(ctx, "attendance/RA12/today")
	require.NoError(t, err)
	assert.NotContains(t, doc, "date")
}

func TestMemory_GetReturnsCopy(t *testing.T) {
	mem := NewMemory()
	ctx := context.Background()
	require.NoError(t, mem.Write(ctx, "p", Doc{"k": "v"}))

	doc, _, err := mem.Get(ctx, "p")
	require.NoError(t, err)
	doc["k"] = "mutated"

	doc2, _, err := mem.Get(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, "v", doc2["k"])
}

func TestMemory_AppendCreatesChildren(t *testing.T) {
	mem := NewMemory()
	ctx := context.Background()

	k1, err := mem.Append(ctx, "attendance/RA12/history", Doc{"n": "1"})
	require.NoError(t, err)
	k2, err := mem.Append(ctx, "attendance/RA12/history", Doc{"n": "2"})
	require.NoError(t, err)
	assert.NotEqual(t, k1, k2)

	snapshot, err := mem.Snapshot(ctx, "attendance/RA12/history")
	require.NoError(t, err)
	assert.Len(t, snapshot, 2)
}

func TestMemory_SnapshotPrefix(t *testing.T) {
	mem := NewMemory()
	ctx := context.Background()
	require.NoError(t, mem.Write(ctx, "attendance/RA12/today", Doc{}))
	require.NoError(t, mem.Write(ctx, "attendance/KK00/today", Doc{}))
	require.NoError(t, mem.Write(ctx, "vacations/RA12", Doc{}))

	snapshot, err := mem.Snapshot(ctx, "attendance")
	require.NoError(t, err)
	assert.Len(t, snapshot, 2)

	// A prefix must match whole path segments.
	snapshot, err = mem.Snapshot(ctx, "attendance/RA1")
	require.NoError(t, err)
	assert.Empty(t, snapshot)

	all, err := mem.Snapshot(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestMemory_Subscribe(t *testing.T) {
	mem := NewMemory()
	ctx := context.Background()

	var got []string
	cancel, err := mem.Subscribe("attendance/RA12", func(path string) {
		got = append(got, path)
	})
	require.NoError(t, err)

	require.NoError(t, mem.Write(ctx, "attendance/RA12/today", Doc{}))
	require.NoError(t, mem.Write(ctx, "attendance/KK00/today", Doc{}))
	assert.Equal(t, []string{"attendance/RA12/today"}, got)

	// After cancel no further notifications arrive; cancel is idempotent.
	cancel()
	cancel()
	require.NoError(t, mem.Write(ctx, "attendance/RA12/today", Doc{}))
	assert.Len(t, got, 1)
}
