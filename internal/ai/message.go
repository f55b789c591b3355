package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Message types posted by the extension UI.
const (
	MessageQuery      = "OLLAMA_QUERY"
	MessageOllamaTest = "OLLAMA_TEST"
	MessageAPITest    = "API_TEST"
)

// Message is the inbound envelope from UI collaborators.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Handle dispatches a UI message. The response is always a Result.
func (g *Gateway) Handle(ctx context.Context, msg Message) Result {
	switch msg.Type {
	case MessageQuery:
		var req QueryRequest
		if err := decodePayload(msg.Payload, &req); err != nil {
			return payloadError(err)
		}
		return g.Query(ctx, req)

	case MessageOllamaTest:
		var p struct {
			Host string `json:"host"`
		}
		if err := decodePayload(msg.Payload, &p); err != nil {
			return payloadError(err)
		}
		return g.Test(ctx, TestRequest{Provider: string(ProviderOllama), Host: p.Host})

	case MessageAPITest:
		var req TestRequest
		if err := decodePayload(msg.Payload, &req); err != nil {
			return payloadError(err)
		}
		return g.TestCloud(ctx, req)

	default:
		return Result{Error: fmt.Sprintf("Unsupported message type %q", msg.Type)}
	}
}

// decodePayload accepts a missing or null payload as the zero value.
func decodePayload(raw json.RawMessage, v any) error {
	if len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	return nil
}

func payloadError(err error) Result {
	return Result{Error: "Invalid message payload: " + errors.Unwrap(err).Error()}
}
