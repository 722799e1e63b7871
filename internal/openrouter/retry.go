package openrouter

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// Retry defaults.
const (
	DefaultMaxAttempts = 3
	DefaultBaseDelay   = time.Second
)

// RetryPolicy controls how many attempts a request gets and how long to wait
// between them. The wait before retry n is n * BaseDelay.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

// DefaultRetryPolicy returns three attempts with a one second linear backoff.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: DefaultMaxAttempts, BaseDelay: DefaultBaseDelay}
}

func (p RetryPolicy) attempts() int {
	if p.MaxAttempts <= 0 {
		return 1
	}
	return p.MaxAttempts
}

func (p RetryPolicy) delay(retry int) time.Duration {
	if p.BaseDelay <= 0 || retry <= 0 {
		return 0
	}
	return time.Duration(retry) * p.BaseDelay
}

// Sleeper waits for d, returning early with ctx.Err() when ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// SleepContext is the default Sleeper.
func SleepContext(ctx context.Context, d time.Duration) error {
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

// Retrier runs an operation until it succeeds, fails terminally, or runs out
// of attempts.
type Retrier struct {
	Policy RetryPolicy
	Sleep  Sleeper
	Logger *slog.Logger
}

// Do calls op at most Policy.MaxAttempts times. op receives the 1-based
// attempt number. 5xx API errors and unstructured errors are retried; any
// other ServiceError is returned as-is. Context cancellation surfaces as
// REQUEST_CANCELLED.
func (r Retrier) Do(ctx context.Context, op func(ctx context.Context, attempt int) error) error {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}
	sleep := r.Sleep
	if sleep == nil {
		sleep = SleepContext
	}
	maxAttempts := r.Policy.attempts()

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			delay := r.Policy.delay(attempt - 1)
			logger.InfoContext(ctx, "Retrying after delay",
				"attempt", attempt,
				"delay_ms", delay.Milliseconds())
			if err := sleep(ctx, delay); err != nil {
				logger.WarnContext(ctx, "Request cancelled during retry delay",
					"attempt", attempt,
					"error", err)
				return cancelled(err, lastErr)
			}
		}

		logger.DebugContext(ctx, "Making chat completion call",
			"attempt", attempt,
			"max_attempts", maxAttempts)

		err := op(ctx, attempt)
		if err == nil {
			return nil
		}
		lastErr = err

		if !retryable(ctx, err) {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return cancelled(ctxErr, err)
			}
			return terminal(err)
		}

		logger.WarnContext(ctx, "Chat completion attempt failed",
			"attempt", attempt,
			"max_attempts", maxAttempts,
			"error", err)
	}

	logger.WarnContext(ctx, "Maximum retry attempts reached", "attempts", maxAttempts)
	return wrapError(KindMaxRetriesExceeded, "Request failed after retries",
		map[string]any{"attempts": maxAttempts, "last_error": errorCode(lastErr)}, lastErr)
}

func retryable(ctx context.Context, err error) bool {
	if isContextErr(err) || ctx.Err() != nil {
		return false
	}
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Retryable()
	}
	return true
}

func terminal(err error) error {
	var se *ServiceError
	if errors.As(err, &se) {
		return err
	}
	return cancelled(err, nil)
}

func cancelled(err, last error) error {
	details := map[string]any{"reason": err.Error()}
	if last != nil {
		details["last_error"] = errorCode(last)
	}
	return wrapError(KindRequestCancelled, "Request cancelled", details, err)
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func errorCode(err error) string {
	if se, ok := AsServiceError(err); ok {
		return se.Code()
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
