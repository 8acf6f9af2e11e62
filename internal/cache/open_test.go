package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("memory by default", func(t *testing.T) {
		store, err := Open(ctx, "", "", nil)
		require.NoError(t, err)
		defer store.Close()
		assert.IsType(t, &ExpiringMap{}, store)
	})

	t.Run("unreachable redis falls back to memory", func(t *testing.T) {
		store, err := Open(ctx, BackendRedis, "not a redis url", nil)
		require.NoError(t, err)
		defer store.Close()
		assert.IsType(t, &ExpiringMap{}, store)
	})

	t.Run("unknown backend", func(t *testing.T) {
		_, err := Open(ctx, "memcached", "", nil)
		assert.Error(t, err)
	})
}
