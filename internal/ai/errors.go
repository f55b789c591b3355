package ai

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrorKind classifies a gateway failure.
type ErrorKind string

const (
	KindInvalidRequest ErrorKind = "invalid_request" // caller sent an unusable request
	KindConfiguration  ErrorKind = "configuration"   // settings incomplete, no network call made
	KindTimeout        ErrorKind = "timeout"
	KindCanceled       ErrorKind = "canceled" // caller abandoned its own context
	KindNetwork        ErrorKind = "network"
	KindHTTP           ErrorKind = "http"
	KindProtocol       ErrorKind = "protocol"
)

// NoResponseText is returned in place of a missing text field in a successful response.
const NoResponseText = "No response text available"

// Error is the single failure type produced by the gateway and its adapters.
// Message is the human-readable text surfaced to the UI as-is.
type Error struct {
	Kind     ErrorKind
	Provider Provider
	Status   int // HTTP status for KindHTTP
	Message  string
	Err      error
}

func (e *Error) Error() string { return e.Message }
func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the classification of err, or "" when err is not a gateway error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func configError(msg string) *Error {
	return &Error{Kind: KindConfiguration, Message: msg}
}

func invalidRequest(msg string) *Error {
	return &Error{Kind: KindInvalidRequest, Message: msg}
}

// transportError classifies a failure from http.Client.Do or a body read.
func transportError(ctx context.Context, p Provider, baseURL string, err error) *Error {
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		return &Error{Kind: KindTimeout, Provider: p, Message: "Request timed out", Err: err}
	case errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled):
		return &Error{Kind: KindCanceled, Provider: p, Message: "Request was cancelled before " + p.DisplayName() + " responded", Err: err}
	}

	var msg string
	if p.IsCloud() {
		msg = fmt.Sprintf("Failed to connect to the %s API at %s. Check your network connection and API base URL.", p.DisplayName(), baseURL)
	} else {
		msg = fmt.Sprintf("Failed to connect to Ollama at %s. Make sure Ollama is running and accessible.", baseURL)
	}
	return &Error{Kind: KindNetwork, Provider: p, Message: msg, Err: err}
}

// withTimeoutMessage rewrites a timeout error for the operation that hit it.
// The gateway bound is named only when it expired before the caller's own deadline.
func withTimeoutMessage(err error, caller context.Context, op string, bound time.Duration, hint string) error {
	var e *Error
	if !errors.As(err, &e) || e.Kind != KindTimeout {
		return err
	}
	if caller.Err() != nil {
		e.Message = fmt.Sprintf("%s timed out: the caller's deadline passed before %s responded", op, e.Provider.DisplayName())
		return err
	}
	e.Message = fmt.Sprintf("%s timed out after %s. %s", op, formatDuration(bound), hint)
	return err
}

func formatDuration(d time.Duration) string {
	switch {
	case d == time.Minute:
		return "1 minute"
	case d > time.Minute && d%time.Minute == 0:
		return fmt.Sprintf("%d minutes", int(d/time.Minute))
	case d >= time.Second && d%time.Second == 0:
		return fmt.Sprintf("%d seconds", int(d/time.Second))
	default:
		return d.String()
	}
}
