package retry_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/elnpack/eln-packager-app/internal/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastExecutor(attempts int) *retry.Executor {
	return retry.NewExecutor(
		retry.WithMaxAttempts(attempts),
		retry.WithBackoff(time.Millisecond, 2*time.Millisecond),
	)
}

func TestExecutor_TransientThenSuccess(t *testing.T) {
	calls := 0
	err := fastExecutor(3).Do(context.Background(), "list-attachments", func(context.Context) error {
		calls++
		if calls < 3 {
			return retry.Transient(io.ErrUnexpectedEOF)
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestExecutor_PermanentFailsFast(t *testing.T) {
	calls := 0
	cause := errors.New("unknown entry")
	err := fastExecutor(3).Do(context.Background(), "get-entry", func(context.Context) error {
		calls++
		return retry.Permanent(cause)
	})

	assert.ErrorIs(t, err, retry.ErrPermanent)
	assert.Equal(t, 1, calls)
}

func TestExecutor_Exhaustion(t *testing.T) {
	calls := 0
	cause := errors.New("connection reset")
	err := fastExecutor(3).Do(context.Background(), "download", func(context.Context) error {
		calls++
		return retry.Transient(cause)
	})

	var exhausted *retry.ExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, 3, exhausted.Attempts)
	assert.Equal(t, 3, calls)
	assert.ErrorIs(t, err, retry.ErrTransient)
	assert.Contains(t, exhausted.Error(), "connection reset")
}

func TestExecutor_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := fastExecutor(5).Do(ctx, "download", func(context.Context) error {
		calls++
		cancel()
		return retry.Transient(errors.New("timeout"))
	})

	assert.Error(t, err)
	var exhausted *retry.ExhaustedError
	assert.False(t, errors.As(err, &exhausted), "cancellation must not be reported as exhaustion")
	assert.LessOrEqual(t, calls, 2)
}

func TestClassifyStatus(t *testing.T) {
	testCases := []struct {
		Name      string
		Status    int
		Transient bool
	}{
		{Name: "too_many_requests", Status: http.StatusTooManyRequests, Transient: true},
		{Name: "internal_server_error", Status: http.StatusInternalServerError, Transient: true},
		{Name: "bad_gateway", Status: http.StatusBadGateway, Transient: true},
		{Name: "not_found", Status: http.StatusNotFound, Transient: false},
		{Name: "unauthorized", Status: http.StatusUnauthorized, Transient: false},
		{Name: "unprocessable", Status: http.StatusUnprocessableEntity, Transient: false},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			err := retry.ClassifyStatus(tc.Status, errors.New("upstream status"))
			if tc.Transient {
				assert.ErrorIs(t, err, retry.ErrTransient)
			} else {
				assert.ErrorIs(t, err, retry.ErrPermanent)
			}
		})
	}
}
