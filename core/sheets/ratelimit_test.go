package sheets

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock drives the limiter deterministically: sleeps advance the clock
// instead of blocking.
type fakeClock struct {
	now    time.Time
	sleeps []time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) wire(rl *RateLimiter) {
	rl.now = func() time.Time { return f.now }
	rl.sleep = func(ctx context.Context, d time.Duration) error {
		f.sleeps = append(f.sleeps, d)
		f.now = f.now.Add(d)
		return ctx.Err()
	}
	rl.Reset()
}

func TestRateLimiter_BackoffGrowth(t *testing.T) {
	tests := []struct {
		name     string
		errors   int
		expected time.Duration
	}{
		{"one error doubles", 1, 2 * time.Second},
		{"three errors", 3, 8 * time.Second},
		{"five errors", 5, 32 * time.Second},
		{"six errors capped", 6, 60 * time.Second},
		{"ten errors stay capped", 10, 60 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rl := NewRateLimiter(50)
			newFakeClock().wire(rl)

			for i := 0; i < tt.errors; i++ {
				require.NoError(t, rl.OnQuotaError(context.Background()))
			}
			assert.Equal(t, tt.expected, rl.BackoffDelay())
			assert.Equal(t, tt.errors, rl.ConsecutiveErrors())
		})
	}
}

func TestRateLimiter_SuccessHalvesBackoff(t *testing.T) {
	rl := NewRateLimiter(50)
	newFakeClock().wire(rl)

	for i := 0; i < 3; i++ {
		require.NoError(t, rl.OnQuotaError(context.Background()))
	}
	require.Equal(t, 8*time.Second, rl.BackoffDelay())

	rl.OnSuccess()
	assert.Equal(t, 4*time.Second, rl.BackoffDelay())
	assert.Equal(t, 0, rl.ConsecutiveErrors())

	// Halving floors at the 1s base
	rl.OnSuccess()
	rl.OnSuccess()
	rl.OnSuccess()
	assert.Equal(t, 1*time.Second, rl.BackoffDelay())
}

func TestRateLimiter_WindowCap(t *testing.T) {
	rl := NewRateLimiter(2)
	clock := newFakeClock()
	clock.wire(rl)
	ctx := context.Background()

	// First two requests only pay the base backoff delay
	require.NoError(t, rl.BeforeRequest(ctx))
	require.NoError(t, rl.BeforeRequest(ctx))
	assert.Equal(t, []time.Duration{time.Second, time.Second}, clock.sleeps)

	// Third request must wait out the rest of the 60s window
	require.NoError(t, rl.BeforeRequest(ctx))
	require.Len(t, clock.sleeps, 4)
	assert.Equal(t, 58*time.Second, clock.sleeps[2])
	assert.Equal(t, time.Second, clock.sleeps[3])
}

func TestRateLimiter_WindowExpiryResetsCount(t *testing.T) {
	rl := NewRateLimiter(2)
	clock := newFakeClock()
	clock.wire(rl)
	ctx := context.Background()

	require.NoError(t, rl.BeforeRequest(ctx))
	require.NoError(t, rl.BeforeRequest(ctx))

	// After the window elapses the counter resets without waiting
	clock.now = clock.now.Add(2 * time.Minute)
	require.NoError(t, rl.BeforeRequest(ctx))
	assert.Len(t, clock.sleeps, 3) // only backoff sleeps, no window wait
}

func TestRateLimiter_Reset(t *testing.T) {
	rl := NewRateLimiter(50)
	newFakeClock().wire(rl)

	for i := 0; i < 4; i++ {
		require.NoError(t, rl.OnQuotaError(context.Background()))
	}
	require.NotEqual(t, time.Second, rl.BackoffDelay())

	rl.Reset()
	assert.Equal(t, time.Second, rl.BackoffDelay())
	assert.Equal(t, 0, rl.ConsecutiveErrors())
}

func TestRateLimiter_CancelledContext(t *testing.T) {
	rl := NewRateLimiter(50)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := rl.BeforeRequest(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
