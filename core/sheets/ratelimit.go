package sheets

import (
	"context"
	"time"
)

const (
	defaultWindow      = 60 * time.Second
	defaultBaseBackoff = 1 * time.Second
	defaultMaxBackoff  = 60 * time.Second
)

// RateLimiter tracks request counts per window and the adaptive backoff delay
// for one client instance. Execution is single-threaded by design, so no
// locking is needed; the orchestrator resets the limiter at the start of each
// full run.
type RateLimiter struct {
	maxPerWindow int
	window       time.Duration
	baseBackoff  time.Duration
	maxBackoff   time.Duration

	requestsInWindow  int
	windowStart       time.Time
	backoffDelay      time.Duration
	consecutiveErrors int

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewRateLimiter creates a limiter allowing maxPerWindow requests per 60s
// window with exponential backoff starting at 1s and capped at 60s.
func NewRateLimiter(maxPerWindow int) *RateLimiter {
	if maxPerWindow <= 0 {
		maxPerWindow = 50
	}
	rl := &RateLimiter{
		maxPerWindow: maxPerWindow,
		window:       defaultWindow,
		baseBackoff:  defaultBaseBackoff,
		maxBackoff:   defaultMaxBackoff,
		now:          time.Now,
		sleep:        sleepContext,
	}
	rl.Reset()
	return rl
}

// Reset clears all window and backoff state. Called once per sync run so that
// backoff accumulated in a previous run does not throttle the next one.
func (rl *RateLimiter) Reset() {
	rl.requestsInWindow = 0
	rl.windowStart = rl.now()
	rl.backoffDelay = rl.baseBackoff
	rl.consecutiveErrors = 0
}

// BeforeRequest blocks until the request may be dispatched: it waits out the
// current window when the request cap is reached and always sleeps the current
// backoff delay. Returns early with the context error on cancellation.
func (rl *RateLimiter) BeforeRequest(ctx context.Context) error {
	elapsed := rl.now().Sub(rl.windowStart)
	if elapsed >= rl.window {
		rl.requestsInWindow = 0
		rl.windowStart = rl.now()
	} else if rl.requestsInWindow >= rl.maxPerWindow {
		if err := rl.sleep(ctx, rl.window-elapsed); err != nil {
			return err
		}
		rl.requestsInWindow = 0
		rl.windowStart = rl.now()
	}

	if err := rl.sleep(ctx, rl.backoffDelay); err != nil {
		return err
	}

	rl.requestsInWindow++
	return nil
}

// OnSuccess records a successful request: the error streak ends and the
// backoff delay is halved down to its 1s floor.
func (rl *RateLimiter) OnSuccess() {
	rl.consecutiveErrors = 0
	rl.backoffDelay /= 2
	if rl.backoffDelay < rl.baseBackoff {
		rl.backoffDelay = rl.baseBackoff
	}
}

// OnQuotaError records a quota rejection: the backoff delay doubles per
// consecutive error up to the 60s cap, and the new delay is slept immediately
// before the caller retries.
func (rl *RateLimiter) OnQuotaError(ctx context.Context) error {
	rl.consecutiveErrors++
	delay := rl.baseBackoff << rl.consecutiveErrors
	if delay > rl.maxBackoff || delay <= 0 {
		delay = rl.maxBackoff
	}
	rl.backoffDelay = delay
	return rl.sleep(ctx, rl.backoffDelay)
}

// BackoffDelay exposes the current delay for logging and tests.
func (rl *RateLimiter) BackoffDelay() time.Duration {
	return rl.backoffDelay
}

// ConsecutiveErrors exposes the current error streak length.
func (rl *RateLimiter) ConsecutiveErrors() int {
	return rl.consecutiveErrors
}

// sleepContext waits for d without busy-waiting, honoring ctx cancellation.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
