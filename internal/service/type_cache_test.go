package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/nomzodai/nomzod-api/internal/cache"
	"github.com/nomzodai/nomzod-api/internal/domain/question"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTypeCache() typeCache {
	return typeCache{
		c:   cache.NewMemory(time.Minute),
		log: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestTypeCacheHitAfterSet(t *testing.T) {
	ctx := context.Background()
	tc := newTypeCache()

	_, key, ok := tc.getType(ctx, 1)
	require.False(t, ok)
	require.NotEmpty(t, key)

	tc.set(ctx, key, question.Type{ID: 1, TypeName: "Go"})

	got, _, ok := tc.getType(ctx, 1)
	require.True(t, ok)
	assert.Equal(t, "Go", got.TypeName)
}

func TestTypeCacheIgnoresReadThatRacedAWrite(t *testing.T) {
	ctx := context.Background()
	tc := newTypeCache()

	// a reader misses and loads the old row from the database
	_, typeKey, ok := tc.getType(ctx, 1)
	require.False(t, ok)
	_, listKey, ok := tc.getList(ctx)
	require.False(t, ok)

	// a writer commits and invalidates before the reader stores its result
	tc.invalidate(ctx)

	tc.set(ctx, typeKey, question.Type{ID: 1, TypeName: "stale"})
	tc.set(ctx, listKey, []question.Type{{ID: 1, TypeName: "stale"}})

	_, nextKey, ok := tc.getType(ctx, 1)
	assert.False(t, ok, "stale entry must not be served")
	assert.NotEqual(t, typeKey, nextKey)

	_, _, ok = tc.getList(ctx)
	assert.False(t, ok, "stale list must not be served")
}

func TestTypeCacheNilIsNoop(t *testing.T) {
	ctx := context.Background()
	tc := typeCache{log: slog.Default()}

	_, key, ok := tc.getType(ctx, 1)
	assert.False(t, ok)
	assert.Empty(t, key)

	tc.set(ctx, key, question.Type{})
	tc.invalidate(ctx)
}
