package openrouter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSleeper struct {
	mu     sync.Mutex
	delays []time.Duration
	err    error
}

func (r *recordingSleeper) Sleep(ctx context.Context, d time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.delays = append(r.delays, d)
	if r.err != nil {
		return r.err
	}
	return ctx.Err()
}

func (r *recordingSleeper) Delays() []time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]time.Duration(nil), r.delays...)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRetrier(s *recordingSleeper) Retrier {
	return Retrier{Policy: DefaultRetryPolicy(), Sleep: s.Sleep, Logger: quietLogger()}
}

func TestRetrierClassification(t *testing.T) {
	tests := []struct {
		name      string
		errs      []error
		wantCalls int
		wantErr   *ServiceError
		wantCause *ServiceError
	}{
		{
			name:      "success first try",
			errs:      []error{nil},
			wantCalls: 1,
		},
		{
			name:      "recovers after two server errors",
			errs:      []error{apiError(500, nil), apiError(502, nil), nil},
			wantCalls: 3,
		},
		{
			name:      "always server error",
			errs:      []error{apiError(500, nil), apiError(500, nil), apiError(500, nil)},
			wantCalls: 3,
			wantErr:   ErrMaxRetriesExceeded,
			wantCause: &ServiceError{Kind: KindAPIError, Status: 500},
		},
		{
			name:      "client error is terminal",
			errs:      []error{apiError(400, nil)},
			wantCalls: 1,
			wantErr:   &ServiceError{Kind: KindAPIError, Status: 400},
		},
		{
			name:      "rate limit is terminal",
			errs:      []error{apiError(429, nil)},
			wantCalls: 1,
			wantErr:   &ServiceError{Kind: KindAPIError, Status: 429},
		},
		{
			name:      "structural error is terminal",
			errs:      []error{newError(KindMissingContent, "m", nil)},
			wantCalls: 1,
			wantErr:   ErrMissingContent,
		},
		{
			name:      "unstructured errors are retried",
			errs:      []error{errors.New("connection refused"), fmt.Errorf("dial: %w", io.ErrUnexpectedEOF), nil},
			wantCalls: 3,
		},
		{
			name:      "context error is terminal",
			errs:      []error{fmt.Errorf("post: %w", context.DeadlineExceeded)},
			wantCalls: 1,
			wantErr:   ErrRequestCancelled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sleeper := &recordingSleeper{}
			calls := 0
			err := newTestRetrier(sleeper).Do(context.Background(), func(ctx context.Context, attempt int) error {
				calls++
				assert.Equal(t, calls, attempt)
				return tt.errs[calls-1]
			})

			assert.Equal(t, tt.wantCalls, calls)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			if tt.wantCause != nil {
				assert.True(t, errors.Is(errors.Unwrap(err), tt.wantCause), "cause %v", errors.Unwrap(err))
			}
		})
	}
}

func TestRetrierLinearBackoff(t *testing.T) {
	sleeper := &recordingSleeper{}
	_ = newTestRetrier(sleeper).Do(context.Background(), func(ctx context.Context, attempt int) error {
		return apiError(503, nil)
	})

	delays := sleeper.Delays()
	require.Len(t, delays, 2)
	assert.Equal(t, time.Second, delays[0])
	assert.Equal(t, 2*time.Second, delays[1])
	assert.Greater(t, delays[1], delays[0])
}

func TestRetrierCancelledDuringBackoff(t *testing.T) {
	sleeper := &recordingSleeper{err: context.Canceled}
	calls := 0
	err := newTestRetrier(sleeper).Do(context.Background(), func(ctx context.Context, attempt int) error {
		calls++
		return apiError(500, nil)
	})

	assert.Equal(t, 1, calls)
	assert.True(t, errors.Is(err, ErrRequestCancelled))
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRetrierStopsWhenContextDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := newTestRetrier(&recordingSleeper{}).Do(ctx, func(ctx context.Context, attempt int) error {
		calls++
		cancel()
		return errors.New("connection reset")
	})

	assert.Equal(t, 1, calls)
	assert.True(t, errors.Is(err, ErrRequestCancelled))
}

func TestRetrierCancelledDuringServerError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := newTestRetrier(&recordingSleeper{}).Do(ctx, func(ctx context.Context, attempt int) error {
		calls++
		cancel()
		return apiError(503, nil)
	})

	assert.Equal(t, 1, calls)
	assert.True(t, errors.Is(err, ErrRequestCancelled), "got %v", err)
	assert.True(t, errors.Is(err, context.Canceled))
	se, ok := AsServiceError(err)
	require.True(t, ok)
	details, ok := se.Details.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "API_ERROR_503", details["last_error"])
}

func TestRetryPolicyDefaults(t *testing.T) {
	var zero RetryPolicy
	assert.Equal(t, 1, zero.attempts())
	assert.Equal(t, time.Duration(0), zero.delay(1))

	p := DefaultRetryPolicy()
	assert.Equal(t, 3, p.attempts())
	assert.Equal(t, 3*time.Second, p.delay(3))
}

func TestSleepContext(t *testing.T) {
	require.NoError(t, SleepContext(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := SleepContext(ctx, time.Hour)
	assert.ErrorIs(t, err, context.Canceled)
}
