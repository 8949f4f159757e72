package catalog

import (
	"context"
	"errors"
	"math"
	"net"
	"net/http"
	"strings"
	"time"
)

// ErrorType classifies a catalog fetch error for retry purposes
type ErrorType int

const (
	// ErrorTypeRetryable indicates the error is transient and can be retried
	ErrorTypeRetryable ErrorType = iota
	// ErrorTypeNonRetryable indicates the error is permanent
	ErrorTypeNonRetryable
	// ErrorTypeUnknown is never retried
	ErrorTypeUnknown
)

// String returns the string representation of ErrorType
func (e ErrorType) String() string {
	switch e {
	case ErrorTypeRetryable:
		return "Retryable"
	case ErrorTypeNonRetryable:
		return "NonRetryable"
	default:
		return "Unknown"
	}
}

// HTTPStatusError is implemented by errors that carry an HTTP status code
type HTTPStatusError interface {
	error
	HTTPStatusCode() int
}

// ClassifyError determines if a catalog fetch error is worth retrying
func ClassifyError(err error) ErrorType {
	if err == nil {
		return ErrorTypeNonRetryable
	}

	if errors.Is(err, context.Canceled) {
		return ErrorTypeNonRetryable
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorTypeRetryable
	}

	var netErr *net.OpError
	if errors.As(err, &netErr) {
		return ErrorTypeRetryable
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return ErrorTypeRetryable
	}

	var statusErr HTTPStatusError
	if errors.As(err, &statusErr) && statusErr.HTTPStatusCode() != 0 {
		return classifyHTTPStatus(statusErr.HTTPStatusCode())
	}

	if strings.Contains(strings.ToLower(err.Error()), "timeout") {
		return ErrorTypeRetryable
	}

	return ErrorTypeUnknown
}

func classifyHTTPStatus(statusCode int) ErrorType {
	switch statusCode {
	case http.StatusTooManyRequests,
		http.StatusServiceUnavailable,
		http.StatusBadGateway,
		http.StatusGatewayTimeout:
		return ErrorTypeRetryable
	case http.StatusBadRequest,
		http.StatusUnauthorized,
		http.StatusForbidden,
		http.StatusNotFound:
		return ErrorTypeNonRetryable
	default:
		if statusCode >= 500 {
			return ErrorTypeRetryable
		}
		if statusCode >= 400 {
			return ErrorTypeNonRetryable
		}
		return ErrorTypeUnknown
	}
}

// CalculateBackoff returns min(base * 2^(attempt-1), max) seconds
func CalculateBackoff(attempt int, base, max float64) time.Duration {
	if attempt < 1 {
		attempt = 1
	}

	backoff := base * math.Pow(2, float64(attempt-1))
	if backoff > max {
		backoff = max
	}

	return time.Duration(backoff * float64(time.Second))
}

// RetryConfig holds configuration for catalog fetch retries
type RetryConfig struct {
	Enabled     bool
	MaxAttempts int     // retries after the first attempt
	BackoffBase float64 // seconds
	BackoffMax  float64 // seconds
}

// DefaultRetryConfig returns the default retry configuration
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		Enabled:     true,
		MaxAttempts: 3,
		BackoffBase: 1.0,
		BackoffMax:  8.0,
	}
}

// Validate validates the retry configuration
func (c *RetryConfig) Validate() error {
	if c.MaxAttempts < 0 {
		return errors.New("max_attempts must be non-negative")
	}
	if c.BackoffBase < 0 {
		return errors.New("backoff_base must be non-negative")
	}
	if c.BackoffMax < c.BackoffBase {
		return errors.New("backoff_max must be greater than or equal to backoff_base")
	}
	return nil
}

// Fetch runs fn, retrying transient failures with exponential backoff. Only
// catalog listing goes through here; invocations are never retried.
func Fetch(ctx context.Context, cfg RetryConfig, fn FetchFunc) ([]Model, error) {
	if !cfg.Enabled || cfg.MaxAttempts <= 0 {
		return fn(ctx)
	}

	var lastErr error
	for attempt := 1; attempt <= cfg.MaxAttempts+1; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		models, err := fn(ctx)
		if err == nil {
			return models, nil
		}
		lastErr = err

		if ClassifyError(err) != ErrorTypeRetryable || attempt > cfg.MaxAttempts {
			return nil, err
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(CalculateBackoff(attempt, cfg.BackoffBase, cfg.BackoffMax)):
		}
	}

	return nil, lastErr
}
