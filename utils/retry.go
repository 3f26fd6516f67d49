package utils

import (
	"context"
	"time"
)

const DefaultMaxAttempts = 3

// Backoff returns how long to wait after the given failed attempt (0-indexed).
type Backoff func(attempt int) time.Duration

// LinearBackoff waits base, 2*base, 3*base, ... between attempts.
func LinearBackoff(base time.Duration) Backoff {
	return func(attempt int) time.Duration {
		return base * time.Duration(attempt+1)
	}
}

func NopBackoff(int) time.Duration {
	return 0
}

// Sleeper blocks for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

type retryConfig struct {
	maxAttempts int
	backoff     Backoff
	sleep       Sleeper
	log         SimpleLogger
	name        string
}

type RetryOption func(*retryConfig)

func WithMaxAttempts(n int) RetryOption {
	return func(c *retryConfig) {
		if n > 0 {
			c.maxAttempts = n
		}
	}
}

func WithBackoff(b Backoff) RetryOption {
	return func(c *retryConfig) {
		if b != nil {
			c.backoff = b
		}
	}
}

func WithSleeper(s Sleeper) RetryOption {
	return func(c *retryConfig) {
		if s != nil {
			c.sleep = s
		}
	}
}

// WithRetryLogger logs every failed attempt of the operation called name.
func WithRetryLogger(log SimpleLogger, name string) RetryOption {
	return func(c *retryConfig) {
		if log != nil {
			c.log = log
		}
		c.name = name
	}
}

// Retry calls op until it succeeds or the attempt budget is spent. The wait
// between attempts is given by the backoff; nothing is waited after the final
// attempt. The error of the final attempt is returned as is.
func Retry[T any](ctx context.Context, op func(context.Context) (T, error), opts ...RetryOption) (T, error) {
	cfg := retryConfig{
		maxAttempts: DefaultMaxAttempts,
		backoff:     LinearBackoff(time.Second),
		sleep:       sleep,
		log:         NewNopZapLogger(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	var (
		result T
		err    error
	)
	for attempt := range cfg.maxAttempts {
		result, err = op(ctx)
		if err == nil {
			return result, nil
		}

		if attempt == cfg.maxAttempts-1 {
			break
		}

		wait := cfg.backoff(attempt)
		cfg.log.Debugw("Attempt failed, retrying...",
			"operation", cfg.name,
			"attempt", attempt+1,
			"maxAttempts", cfg.maxAttempts,
			"retryAfter", wait.String(),
			"err", err,
		)
		if sleepErr := cfg.sleep(ctx, wait); sleepErr != nil {
			var zero T
			return zero, sleepErr
		}
	}

	cfg.log.Debugw("Giving up", "operation", cfg.name, "attempts", cfg.maxAttempts, "err", err)
	return result, err
}
