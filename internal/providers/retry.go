package providers

import (
	"context"
	"errors"
	"time"
)

type rateLimitError struct{}

func (e *rateLimitError) Error() string { return "rate limited" }

type authError struct {
	message string
}

func (e *authError) Error() string {
	return "authentication error: " + e.message
}

// IsAuthError reports whether err came from a credential problem.
func IsAuthError(err error) bool {
	var ae *authError
	return errors.As(err, &ae)
}

// retryWithBackoff retries fn on rate-limit errors only, doubling the wait
// each attempt. Auth errors and everything else return immediately.
func retryWithBackoff(ctx context.Context, maxRetries int, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		var rle *rateLimitError
		if !errors.As(lastErr, &rle) {
			return lastErr
		}
		if attempt < maxRetries {
			backoff := time.Duration(1<<uint(attempt)) * time.Second
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}
	}
	return lastErr
}
