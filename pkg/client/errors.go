package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
)

// ConfigurationError reports invalid credentials or options passed to New.
type ConfigurationError struct {
	Field   string
	Message string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Message)
}

// TransportError reports a request that never produced an HTTP response:
// connection refused, DNS failure, timeout or cancellation. Err is the
// transport's error, unchanged.
//
// Error omits the request's query string, which carries the signed
// credentials. Err itself still holds the full URL.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport: %s", e.Op, redactError(e.Err))
}

// redactError renders err with the query string of any *url.Error removed.
func redactError(err error) string {
	var urlErr *url.Error
	if !errors.As(err, &urlErr) {
		return fmt.Sprint(err)
	}

	target := "request"
	if u, perr := url.Parse(urlErr.URL); perr == nil {
		u.RawQuery = ""
		u.ForceQuery = false
		target = u.String()
	}
	return fmt.Sprintf("%s %q: %v", urlErr.Op, target, urlErr.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ProtocolError reports a non-2xx response. Body is the raw response body,
// kept verbatim for diagnostics.
type ProtocolError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *ProtocolError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("%s: unexpected status %d: %s", e.Op, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s: unexpected status %d", e.Op, e.StatusCode)
}

// ValidationError reports a request rejected before it was sent.
type ValidationError struct {
	Op      string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: invalid request: %s: %v", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: invalid request: %s", e.Op, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// IsConfigurationError returns true if New rejected its arguments.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

// IsTransportError returns true if no response was received.
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsProtocolError returns true if the server answered with a non-2xx status.
func IsProtocolError(err error) bool {
	var pe *ProtocolError
	return errors.As(err, &pe)
}

// IsValidationError returns true if the request was rejected locally.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsAuthError returns true if the server rejected the credentials. A dev_hash
// computed on a clock too far from the server's also lands here.
func IsAuthError(err error) bool {
	var pe *ProtocolError
	return errors.As(err, &pe) &&
		(pe.StatusCode == http.StatusUnauthorized || pe.StatusCode == http.StatusForbidden)
}

// IsRetryable reports whether repeating the call may succeed: transport
// failures other than cancellation, 429 and 5xx responses.
func IsRetryable(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	if IsTransportError(err) {
		return true
	}
	var pe *ProtocolError
	if errors.As(err, &pe) {
		return pe.StatusCode == http.StatusTooManyRequests || pe.StatusCode >= 500
	}
	return false
}
