package imagesession

import (
	"errors"
	"fmt"
	"time"
)

// ErrNoImageProduced is returned by extraction when a structurally valid
// response contained no inline image part. It is a normal outcome variant,
// not a transport failure; callers should branch on it with errors.Is and
// typically display AggregatedText as the explanation.
var ErrNoImageProduced = errors.New("no image produced in response")

// ErrStorageNotConfigured is returned when storage operations are attempted
// without a configured storage backend.
var ErrStorageNotConfigured = errors.New("storage not configured")

// ConfigurationError reports required configuration missing at session or
// client construction: an absent credential, an unusable modality set.
// It is fatal to the call that surfaced it and is never retried.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Reason)
}

// IsConfigurationError checks if an error is a ConfigurationError.
func IsConfigurationError(err error) bool {
	var cfgErr *ConfigurationError
	return errors.As(err, &cfgErr)
}

// TransportError reports that the call to the generation service itself
// failed (network, auth, quota). It is propagated unchanged to the caller;
// no retry or backoff is performed at this layer.
type TransportError struct {
	Model string
	Err   error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error calling %s: %v", e.Model, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsTransportError checks if an error is a TransportError.
func IsTransportError(err error) bool {
	var tErr *TransportError
	return errors.As(err, &tErr)
}

// WriteError reports that persisting extracted bytes to the local
// filesystem failed. The extracted bytes are not lost; the caller may retry
// the write independently since extraction already succeeded.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("writing image to %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// IsWriteError checks if an error is a WriteError.
func IsWriteError(err error) bool {
	var wErr *WriteError
	return errors.As(err, &wErr)
}

// RateLimitError is returned when a client-side rate limit is hit.
type RateLimitError struct {
	RetryAfter time.Duration
	LimitType  string
	Model      string
	Err        error // Underlying error from the provider
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded for %s: %s limit, retry after %v",
		e.Model, e.LimitType, e.RetryAfter)
}

func (e *RateLimitError) Unwrap() error {
	return e.Err
}

// IsRateLimitError checks if an error is a RateLimitError.
func IsRateLimitError(err error) bool {
	var rlErr *RateLimitError
	return errors.As(err, &rlErr)
}
