// Package retry wraps upstream calls with bounded exponential backoff and
// transient/permanent error classification.
package retry

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/elnpack/eln-packager-app/internal/helpers"
	"github.com/elnpack/eln-packager-app/internal/metrics"
)

// Option is a functional option used to configure an Executor instance.
type Option func(*Executor)

// WithLogger sets the logger instance for the executor.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Executor) {
		e.logger = logger
	}
}

// WithMaxAttempts sets the total attempt ceiling, first attempt included.
func WithMaxAttempts(n int) Option {
	return func(e *Executor) {
		e.maxAttempts = n
	}
}

// WithBackoff sets the initial and maximum backoff delays.
func WithBackoff(base, max time.Duration) Option {
	return func(e *Executor) {
		e.baseDelay = base
		e.maxDelay = max
	}
}

// WithCallTimeout applies a timeout to every individual attempt.
func WithCallTimeout(d time.Duration) Option {
	return func(e *Executor) {
		e.callTimeout = d
	}
}

// Executor retries transient upstream failures with exponential backoff and
// jitter. Permanent failures propagate immediately.
type Executor struct {
	logger      *slog.Logger
	maxAttempts int
	baseDelay   time.Duration
	maxDelay    time.Duration
	callTimeout time.Duration
}

// NewExecutor initializes an Executor with the provided options, setting defaults where necessary.
func NewExecutor(opts ...Option) *Executor {
	_inst := &Executor{
		maxAttempts: 3,
		baseDelay:   200 * time.Millisecond,
		maxDelay:    5 * time.Second,
	}
	for _, opt := range opts {
		opt(_inst)
	}
	if _inst.logger == nil {
		_inst.logger = helpers.NewNoopLogger()
	}
	if _inst.maxAttempts < 1 {
		_inst.maxAttempts = 1
	}
	return _inst
}

// Do runs op, retrying transient failures until the attempt ceiling is
// reached. The operation name is used for logging and metrics only.
func (e *Executor) Do(ctx context.Context, operation string, op func(ctx context.Context) error) error {
	attempt := 0

	wrapped := func() error {
		attempt++
		opCtx := ctx
		if e.callTimeout > 0 {
			var cancel context.CancelFunc
			opCtx, cancel = context.WithTimeout(ctx, e.callTimeout)
			defer cancel()
		}
		err := op(opCtx)
		if err == nil {
			return nil
		}
		if errors.Is(err, ErrPermanent) || errors.Is(err, context.Canceled) {
			return backoff.Permanent(err)
		}
		return err
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = e.baseDelay
	bo.MaxInterval = e.maxDelay
	bo.Multiplier = 2
	bo.MaxElapsedTime = 0

	notify := func(err error, delay time.Duration) {
		metrics.RetryAttempts.WithLabelValues(operation).Inc()
		e.logger.Warn("retrying upstream call",
			slog.String("operation", operation),
			slog.Int("attempt", attempt),
			slog.Duration("delay", delay),
			slog.Any("error", err))
	}

	err := backoff.RetryNotify(wrapped,
		backoff.WithContext(backoff.WithMaxRetries(bo, uint64(e.maxAttempts-1)), ctx),
		notify)
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrPermanent) || ctx.Err() != nil {
		return err
	}
	return &ExhaustedError{Attempts: attempt, Cause: err}
}
