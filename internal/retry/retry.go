// Package retry runs an operation under an explicit retry policy with
// exponential backoff.
package retry

import (
	"context"
	"errors"
	"math"
	"time"
)

// Policy describes how many times to try and how long to wait in between.
// The wait before attempt n+1 is BaseDelay × Factor^(n-1).
type Policy struct {
	MaxAttempts int           `yaml:"max_attempts"`
	BaseDelay   time.Duration `yaml:"base_delay"`
	Factor      float64       `yaml:"factor"`
}

// DefaultPolicy is used for every provider call unless configured otherwise.
var DefaultPolicy = Policy{MaxAttempts: 3, BaseDelay: time.Second, Factor: 2}

// Delay returns the wait after the given failed attempt (1-based).
func (p Policy) Delay(attempt int) time.Duration {
	factor := p.Factor
	if factor < 1 {
		factor = 1
	}
	return time.Duration(float64(p.BaseDelay) * math.Pow(factor, float64(attempt-1)))
}

// MaxWait is the total time spent sleeping when every attempt fails.
func (p Policy) MaxWait() time.Duration {
	var total time.Duration
	for a := 1; a < p.attempts(); a++ {
		total += p.Delay(a)
	}
	return total
}

func (p Policy) attempts() int {
	if p.MaxAttempts < 1 {
		return 1
	}
	return p.MaxAttempts
}

// Do calls fn until it succeeds or the policy is exhausted, and returns the
// last error. No wait follows the final attempt. Cancelling ctx stops the
// loop and returns the context error joined with the last failure.
func Do(ctx context.Context, p Policy, fn func(ctx context.Context) error) error {
	var lastErr error
	for attempt := 1; attempt <= p.attempts(); attempt++ {
		if err := ctx.Err(); err != nil {
			return errors.Join(err, lastErr)
		}
		if lastErr = fn(ctx); lastErr == nil {
			return nil
		}
		if attempt == p.attempts() {
			break
		}

		timer := time.NewTimer(p.Delay(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return errors.Join(ctx.Err(), lastErr)
		case <-timer.C:
		}
	}
	return lastErr
}

// DoValue is Do for operations that produce a value.
func DoValue[T any](ctx context.Context, p Policy, fn func(ctx context.Context) (T, error)) (T, error) {
	var out T
	err := Do(ctx, p, func(ctx context.Context) error {
		v, err := fn(ctx)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	return out, err
}
