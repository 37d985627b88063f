package retry

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrTransient and ErrPermanent are the sentinel errors upstream callers use
// when classifying failures. Transient failures are retried, permanent ones
// propagate immediately.
var (
	ErrTransient = errors.New("transient upstream error")
	ErrPermanent = errors.New("permanent upstream error")
)

// Transient annotates an error so the executor will retry it.
func Transient(err error) error {
	if err == nil {
		return ErrTransient
	}
	return fmt.Errorf("%w: %v", ErrTransient, err)
}

// Permanent annotates an error so the executor fails fast.
func Permanent(err error) error {
	if err == nil {
		return ErrPermanent
	}
	return fmt.Errorf("%w: %v", ErrPermanent, err)
}

// ClassifyStatus maps an upstream HTTP status code to the retry taxonomy.
// Timeouts, 429 and 5xx are transient; any other non-2xx is permanent.
func ClassifyStatus(statusCode int, cause error) error {
	switch {
	case statusCode == http.StatusTooManyRequests:
		return Transient(cause)
	case statusCode >= http.StatusInternalServerError:
		return Transient(cause)
	default:
		return Permanent(cause)
	}
}

// ExhaustedError reports that the attempt ceiling was reached without success.
// It carries the last underlying cause.
type ExhaustedError struct {
	Attempts int
	Cause    error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("retries exhausted after %d attempts: %v", e.Attempts, e.Cause)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Cause
}
