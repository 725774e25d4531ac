package tools

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// FailureMarker prefixes every failure text a tool returns.
const FailureMarker = "❌"

// ErrNoBackend is returned when no generative model could be resolved.
var ErrNoBackend = errors.New("no generative backend available")

// InputError is a missing or invalid parameter, detected before any call.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string { return e.Reason }

func invalid(field, format string, args ...interface{}) error {
	return &InputError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// ConfigError is a setting the tool needs but the process does not have.
type ConfigError struct {
	Setting string
}

func (e *ConfigError) Error() string { return e.Setting + " is not set" }

// UpstreamError is a negative success indicator from an external service.
type UpstreamError struct {
	Service string
	Status  int
	Detail  string
	Err     error
}

func (e *UpstreamError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Service, e.Detail)
	}
	if e.Status != 0 {
		return fmt.Sprintf("%s: status %d", e.Service, e.Status)
	}
	return e.Service + ": request failed"
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// PayloadError is a response that does not match the expected schema.
type PayloadError struct {
	Service string
	Err     error
}

func (e *PayloadError) Error() string {
	return fmt.Sprintf("unexpected payload from %s: %v", e.Service, e.Err)
}

func (e *PayloadError) Unwrap() error { return e.Err }

// Outcome classes used in logs and metrics.
const (
	outcomeOK            = "ok"
	outcomeInvalidInput  = "invalid_input"
	outcomeNoBackend     = "no_backend"
	outcomeNotConfigured = "not_configured"
	outcomeUpstream      = "upstream"
	outcomeUnexpected    = "unexpected"
)

func classify(err error) string {
	var (
		inErr  *InputError
		cfgErr *ConfigError
		upErr  *UpstreamError
	)
	switch {
	case err == nil:
		return outcomeOK
	case errors.As(err, &inErr):
		return outcomeInvalidInput
	case errors.Is(err, ErrNoBackend):
		return outcomeNoBackend
	case errors.As(err, &cfgErr):
		return outcomeNotConfigured
	case errors.As(err, &upErr):
		return outcomeUpstream
	}
	return outcomeUnexpected
}

// Describe renders err as the user-facing failure text for tool.
func Describe(tool string, err error) string {
	var (
		inErr      *InputError
		cfgErr     *ConfigError
		upErr      *UpstreamError
		payloadErr *PayloadError
	)
	switch {
	case errors.As(err, &inErr):
		return fmt.Sprintf("%s Invalid input: %s", FailureMarker, inErr.Reason)
	case errors.Is(err, ErrNoBackend):
		return FailureMarker + " No AI model is available right now. Check the configured API keys and model list, then try again."
	case errors.As(err, &cfgErr):
		return fmt.Sprintf("%s %s is not configured: %s is not set.", FailureMarker, tool, cfgErr.Setting)
	case errors.As(err, &upErr):
		if upErr.Detail != "" {
			return fmt.Sprintf("%s %s error: %s", FailureMarker, upErr.Service, upErr.Detail)
		}
		if upErr.Status != 0 {
			return fmt.Sprintf("%s %s request failed (%d %s).", FailureMarker, upErr.Service, upErr.Status, http.StatusText(upErr.Status))
		}
		return fmt.Sprintf("%s %s request failed.", FailureMarker, upErr.Service)
	case errors.As(err, &payloadErr):
		return fmt.Sprintf("%s Unexpected response from %s.", FailureMarker, payloadErr.Service)
	}
	return fmt.Sprintf("%s Unexpected error in %s: %v", FailureMarker, tool, err)
}

// IsFailure reports whether text is a failure result.
func IsFailure(text string) bool {
	return strings.HasPrefix(text, FailureMarker)
}
