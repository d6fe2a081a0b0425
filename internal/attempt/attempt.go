// Package attempt runs a randomized search a bounded number of times and stops at the
// first accepted candidate.
package attempt

import (
	"context"
	"errors"
	"time"

	"github.com/sethvargo/go-retry"
)

// ErrExhausted is returned when no attempt produced an accepted candidate.
var ErrExhausted = errors.New("attempts exhausted")

var errRejected = errors.New("candidate rejected")

// TryFunc produces one candidate. It reports whether the candidate is accepted; a non-nil
// error aborts the search immediately.
type TryFunc[T any] func(ctx context.Context, attempt uint64) (T, bool, error)

// Until calls try up to maxAttempts times and returns the first accepted candidate together
// with the number of attempts made. The context is checked between attempts.
func Until[T any](ctx context.Context, maxAttempts uint64, try TryFunc[T]) (T, uint64, error) {
	var (
		result T
		made   uint64
	)
	if maxAttempts == 0 {
		return result, 0, ErrExhausted
	}

	immediate := retry.BackoffFunc(func() (time.Duration, bool) {
		return 0, false
	})
	err := retry.Do(ctx, retry.WithMaxRetries(maxAttempts-1, immediate), func(ctx context.Context) error {
		made++
		candidate, ok, err := try(ctx, made)
		if err != nil {
			return err
		}
		if !ok {
			return retry.RetryableError(errRejected)
		}
		result = candidate
		return nil
	})
	switch {
	case err == nil:
		return result, made, nil
	case errors.Is(err, errRejected):
		var zero T
		return zero, made, ErrExhausted
	default:
		var zero T
		return zero, made, err
	}
}
