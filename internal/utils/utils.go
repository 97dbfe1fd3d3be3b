package utils

import (
	"context"
	"fmt"
	"time"
)

var sleep = time.Sleep

func WaitFor(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		sleep(d)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

// Retry calls fn up to attempts times, waiting step, 2*step, ... between failures.
func Retry[T any](ctx context.Context, attempts int, step time.Duration, fn func() (T, error)) (T, error) {
	var (
		zero    T
		lastErr error
	)

	if attempts < 1 {
		attempts = 1
	}

	for i := 0; i < attempts; i++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if i == attempts-1 {
			break
		}

		if err := WaitFor(ctx, time.Duration(i+1)*step); err != nil {
			return zero, fmt.Errorf("retry interrupted: %w", err)
		}
	}

	return zero, fmt.Errorf("after %d attempts: %w", attempts, lastErr)
}
