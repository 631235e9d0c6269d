// Package retry runs functions with bounded retries and exponential
// backoff. Only errors marked recoverable are retried; anything else
// fails the call immediately.
package retry

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"
)

const (
	DefaultMaxRetries = 3
	DefaultBaseWait   = 1 * time.Second
)

// Option configures a call to Do.
type Option func(*config)

type config struct {
	maxRetries int
	baseWait   time.Duration
}

// WithMaxRetries sets the total number of attempts, including the first.
func WithMaxRetries(n int) Option {
	return func(c *config) { c.maxRetries = n }
}

// WithBaseWait sets the wait before the second attempt. Each later wait
// doubles the previous one, plus jitter.
func WithBaseWait(d time.Duration) Option {
	return func(c *config) { c.baseWait = d }
}

// Do runs f until it succeeds, fails with an unrecoverable error, or all
// attempts are used. Waits between attempts honor ctx cancellation.
func Do(ctx context.Context, f func() error, opts ...Option) error {
	c := &config{
		maxRetries: DefaultMaxRetries,
		baseWait:   DefaultBaseWait,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.maxRetries < 1 {
		c.maxRetries = 1
	}

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(float64(c.baseWait) * math.Pow(2, float64(attempt-1)))
			jitter := time.Duration(rand.Float64() * float64(backoff) * 0.1)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff + jitter):
			}
		}
		err := f()
		if err == nil {
			return nil
		}
		if !IsRecoverable(err) {
			return err
		}
		lastErr = err
	}
	return lastErr
}

// Recoverable marks errors that are worth retrying.
type Recoverable interface {
	IsRecoverable() bool
}

type recoverableError struct {
	err error
}

// NewRecoverableError wraps err so that IsRecoverable reports true for it.
func NewRecoverableError(err error) error {
	return &recoverableError{err: err}
}

func (e *recoverableError) Error() string {
	return e.err.Error()
}

func (e *recoverableError) Unwrap() error {
	return e.err
}

func (e *recoverableError) IsRecoverable() bool {
	return true
}

// IsRecoverable reports whether err, or any error in its chain, marks
// itself recoverable.
func IsRecoverable(err error) bool {
	var r Recoverable
	if errors.As(err, &r) {
		return r.IsRecoverable()
	}
	return false
}
