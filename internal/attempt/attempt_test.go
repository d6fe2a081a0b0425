package attempt

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUntilStopsOnFirstAcceptance(t *testing.T) {
	calls := 0
	got, made, err := Until(context.Background(), 10, func(_ context.Context, n uint64) (int, bool, error) {
		calls++
		return int(n) * 10, n == 3, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 30, got)
	assert.Equal(t, uint64(3), made)
	assert.Equal(t, 3, calls)
}

func TestUntilExhausts(t *testing.T) {
	calls := 0
	_, made, err := Until(context.Background(), 5, func(context.Context, uint64) (string, bool, error) {
		calls++
		return "nope", false, nil
	})
	assert.ErrorIs(t, err, ErrExhausted)
	assert.Equal(t, uint64(5), made)
	assert.Equal(t, 5, calls)
}

func TestUntilZeroAttempts(t *testing.T) {
	_, made, err := Until(context.Background(), 0, func(context.Context, uint64) (int, bool, error) {
		t.Fatal("try must not be called")
		return 0, true, nil
	})
	assert.ErrorIs(t, err, ErrExhausted)
	assert.Zero(t, made)
}

func TestUntilHardError(t *testing.T) {
	boom := errors.New("boom")
	_, made, err := Until(context.Background(), 10, func(_ context.Context, n uint64) (int, bool, error) {
		if n == 2 {
			return 0, false, boom
		}
		return 0, false, nil
	})
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrExhausted)
	assert.Equal(t, uint64(2), made)
}

func TestUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	_, made, err := Until(ctx, 1000, func(_ context.Context, n uint64) (int, bool, error) {
		if n == 4 {
			cancel()
		}
		return 0, false, nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, uint64(4), made)
}
