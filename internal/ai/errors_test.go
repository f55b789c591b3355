package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{2 * time.Minute, "2 minutes"},
		{time.Minute, "1 minute"},
		{15 * time.Second, "15 seconds"},
		{90 * time.Second, "90 seconds"},
		{50 * time.Millisecond, "50ms"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%s) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestExtractAPIError(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{`{"error":"model not found"}`, "model not found"},
		{`{"error":{"message":"rate limited","type":"rate_limit_error"}}`, "rate limited"},
		{`{"type":"error","error":{"type":"overloaded_error","message":"Overloaded"}}`, "Overloaded"},
		{`{"detail":"nope"}`, ""},
		{`<html>502</html>`, ""},
		{``, ""},
	}
	for _, tt := range tests {
		if got := extractAPIError([]byte(tt.body)); got != tt.want {
			t.Errorf("extractAPIError(%q) = %q, want %q", tt.body, got, tt.want)
		}
	}
}

func TestKindOf(t *testing.T) {
	base := &Error{Kind: KindHTTP, Status: 429, Message: "too many"}
	wrapped := fmt.Errorf("calling provider: %w", base)

	if KindOf(wrapped) != KindHTTP {
		t.Errorf("KindOf(wrapped) = %q, want http", KindOf(wrapped))
	}
	if KindOf(errors.New("plain")) != "" {
		t.Error("KindOf(plain) should be empty")
	}
	if KindOf(nil) != "" {
		t.Error("KindOf(nil) should be empty")
	}
}

func TestTransportErrorClassification(t *testing.T) {
	expired, cancel := context.WithTimeout(context.Background(), -time.Second)
	defer cancel()
	canceled, cancel2 := context.WithCancel(context.Background())
	cancel2()

	tests := []struct {
		name string
		ctx  context.Context
		p    Provider
		err  error
		want ErrorKind
	}{
		{"deadline", expired, ProviderOllama, context.DeadlineExceeded, KindTimeout},
		{"canceled", canceled, ProviderOpenAI, context.Canceled, KindCanceled},
		{"refused", context.Background(), ProviderAnthropic, errors.New("connection refused"), KindNetwork},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := transportError(tt.ctx, tt.p, "http://x", tt.err)
			if got.Kind != tt.want {
				t.Errorf("Kind = %q, want %q", got.Kind, tt.want)
			}
			if !errors.Is(got, tt.err) {
				t.Error("transportError should wrap the cause")
			}
		})
	}
}

func TestWithTimeoutMessage(t *testing.T) {
	timeout := func() *Error {
		return &Error{Kind: KindTimeout, Provider: ProviderOllama, Message: "Request timed out"}
	}

	err := withTimeoutMessage(timeout(), context.Background(), "Request", 2*time.Minute, "The model might be too slow or unavailable.")
	want := "Request timed out after 2 minutes. The model might be too slow or unavailable."
	if err.Error() != want {
		t.Errorf("message = %q, want %q", err.Error(), want)
	}

	err = withTimeoutMessage(timeout(), context.Background(), "Connection test", 15*time.Second, "Make sure Ollama is reachable.")
	if want := "Connection test timed out after 15 seconds. Make sure Ollama is reachable."; err.Error() != want {
		t.Errorf("message = %q, want %q", err.Error(), want)
	}

	expired, cancel := context.WithTimeout(context.Background(), -time.Second)
	defer cancel()
	err = withTimeoutMessage(timeout(), expired, "Request", 2*time.Minute, "ignored")
	if strings.Contains(err.Error(), "2 minutes") || !strings.Contains(err.Error(), "caller's deadline") {
		t.Errorf("message = %q, want the caller's deadline named instead of the gateway bound", err.Error())
	}

	other := &Error{Kind: KindHTTP, Message: "Ollama API error (500): boom"}
	if withTimeoutMessage(other, context.Background(), "Request", time.Minute, "").Error() != other.Message {
		t.Error("non-timeout errors must keep their message")
	}
	if withTimeoutMessage(nil, context.Background(), "Request", time.Minute, "") != nil {
		t.Error("nil should stay nil")
	}
}
