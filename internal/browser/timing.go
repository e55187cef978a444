// internal/browser/timing.go
package browser

// Pacing primitives used by the Session. Every pause is a blocking
// suspension point that respects context cancellation.

import (
	"context"
	"math/rand"
	"time"
)

// hesitate pauses execution, respecting the context cancellation.
func hesitate(ctx context.Context, duration time.Duration) error {
	if duration <= 0 {
		return ctx.Err()
	}
	select {
	case <-time.After(duration):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// pauseBetween pauses for a uniformly random duration in [min, max].
func pauseBetween(ctx context.Context, rng *rand.Rand, min, max time.Duration) error {
	duration := min
	if max > min {
		duration += time.Duration(rng.Int63n(int64(max-min) + 1))
	}
	return hesitate(ctx, duration)
}
