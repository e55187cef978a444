package browser

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHesitate(t *testing.T) {
	t.Run("waits at least the requested duration", func(t *testing.T) {
		start := time.Now()
		require.NoError(t, hesitate(context.Background(), 20*time.Millisecond))
		assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	})

	t.Run("returns immediately on cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		start := time.Now()
		err := hesitate(ctx, 10*time.Second)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Less(t, time.Since(start), time.Second)
	})

	t.Run("non-positive duration is a no-op", func(t *testing.T) {
		require.NoError(t, hesitate(context.Background(), 0))
	})
}

func TestPauseBetween(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	t.Run("duration respects the lower bound", func(t *testing.T) {
		start := time.Now()
		require.NoError(t, pauseBetween(context.Background(), rng, 15*time.Millisecond, 30*time.Millisecond))
		assert.GreaterOrEqual(t, time.Since(start), 15*time.Millisecond)
	})

	t.Run("inverted bounds fall back to the minimum", func(t *testing.T) {
		start := time.Now()
		require.NoError(t, pauseBetween(context.Background(), rng, 10*time.Millisecond, 5*time.Millisecond))
		elapsed := time.Since(start)
		assert.GreaterOrEqual(t, elapsed, 10*time.Millisecond)
		assert.Less(t, elapsed, time.Second)
	})
}
