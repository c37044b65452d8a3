package responder

import (
	"context"
	"time"
)

// withRetry runs op up to attempts times with a fixed delay between tries.
// It exists for the listing query, whose backing store can take a few
// seconds to wake from auto-suspend. The last error is returned after
// exhaustion; callers substitute their own fallback value.
func withRetry[T any](ctx context.Context, attempts int, delay time.Duration, op func(context.Context) (T, error)) (T, error) {
	var result T
	var err error

	for i := 0; i < attempts; i++ {
		result, err = op(ctx)
		if err == nil {
			return result, nil
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		case <-time.After(delay):
		}
	}

	return result, err
}
