package ports

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunTaskStoreContract runs a suite of tests to verify that a TaskStore implementation
// adheres to the defined interface contract. newStore must return an empty list.
func RunTaskStoreContract(t *testing.T, newStore func(t *testing.T) TaskStore) {
	ctx := context.Background()

	t.Run("Empty", func(t *testing.T) {
		store := newStore(t)
		items, err := store.Items(ctx)
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("Append Keeps Order", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Append(ctx, "X"))
		require.NoError(t, store.Append(ctx, "Y"))

		items, err := store.Items(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"X", "Y"}, items)
	})

	t.Run("Duplicates Allowed", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Append(ctx, "same"))
		require.NoError(t, store.Append(ctx, "same"))

		items, err := store.Items(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"same", "same"}, items)
	})

	t.Run("Clear", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Append(ctx, "X"))
		require.NoError(t, store.Clear(ctx))

		items, err := store.Items(ctx)
		require.NoError(t, err)
		assert.Empty(t, items)

		// Clearing an empty list is fine too.
		require.NoError(t, store.Clear(ctx))
	})

	t.Run("Items Returns A Copy", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Append(ctx, "X"))

		items, err := store.Items(ctx)
		require.NoError(t, err)
		items[0] = "mutated"

		again, err := store.Items(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"X"}, again)
	})

	t.Run("Concurrent Append", func(t *testing.T) {
		store := newStore(t)
		const n = 50

		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				assert.NoError(t, store.Append(ctx, fmt.Sprintf("task-%d", i)))
			}(i)
		}
		wg.Wait()

		items, err := store.Items(ctx)
		require.NoError(t, err)
		assert.Len(t, items, n)
	})
}
