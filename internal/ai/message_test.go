package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

func TestHandleDispatchesByType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/generate":
			writeJSON(w, http.StatusOK, map[string]any{"response": "enhanced"})
		case "/api/tags":
			writeJSON(w, http.StatusOK, map[string]any{"models": []any{}})
		case "/models":
			writeJSON(w, http.StatusOK, map[string]any{"data": []any{}})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	g := NewGateway(newSettings(KeyOllamaHost, "http://127.0.0.1:1"))

	tests := []struct {
		name    string
		msg     Message
		wantOK  bool
		wantTxt string
	}{
		{
			name:    "query",
			msg:     Message{Type: MessageQuery, Payload: json.RawMessage(`{"prompt":"hi","host":"` + srv.URL + `"}`)},
			wantOK:  true,
			wantTxt: "enhanced",
		},
		{
			name:   "ollama test",
			msg:    Message{Type: MessageOllamaTest, Payload: json.RawMessage(`{"host":"` + srv.URL + `"}`)},
			wantOK: true,
		},
		{
			name:   "api test",
			msg:    Message{Type: MessageAPITest, Payload: json.RawMessage(`{"provider":"openrouter","apiKey":"sk","apiBaseUrl":"` + srv.URL + `"}`)},
			wantOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := g.Handle(context.Background(), tt.msg)
			if res.OK != tt.wantOK || res.Text != tt.wantTxt {
				t.Errorf("Handle() = %+v, want OK=%v Text=%q", res, tt.wantOK, tt.wantTxt)
			}
		})
	}
}

func TestHandleOllamaTestIgnoresStoredCloudProvider(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			t.Errorf("path = %s, want /api/tags", r.URL.Path)
		}
		writeJSON(w, http.StatusOK, map[string]any{"models": []any{}})
	}))
	defer srv.Close()

	g := NewGateway(newSettings(KeyProvider, "openai", KeyOllamaHost, srv.URL))
	res := g.Handle(context.Background(), Message{Type: MessageOllamaTest})
	if !res.OK {
		t.Errorf("Handle() = %+v, want OK", res)
	}
}

func TestHandleRejectsBadMessages(t *testing.T) {
	g := NewGateway(newSettings())

	tests := []struct {
		name string
		msg  Message
		want string
	}{
		{"unknown type", Message{Type: "SUMMARIZE"}, `Unsupported message type "SUMMARIZE"`},
		{"empty type", Message{}, "Unsupported message type"},
		{"malformed payload", Message{Type: MessageQuery, Payload: json.RawMessage(`{"prompt":`)}, "Invalid message payload"},
		{"wrong payload shape", Message{Type: MessageAPITest, Payload: json.RawMessage(`["openai"]`)}, "Invalid message payload"},
		{"null query payload", Message{Type: MessageQuery, Payload: json.RawMessage(`null`)}, "prompt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := g.Handle(context.Background(), tt.msg)
			if res.OK || !strings.Contains(res.Error, tt.want) {
				t.Errorf("Handle() = %+v, want error containing %q", res, tt.want)
			}
		})
	}
}

func TestMessageDecodesFromEnvelope(t *testing.T) {
	var msg Message
	if err := json.Unmarshal([]byte(`{"type":"OLLAMA_QUERY","payload":{"prompt":"p","model":"m"}}`), &msg); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	var req QueryRequest
	if err := decodePayload(msg.Payload, &req); err != nil {
		t.Fatalf("decodePayload: %v", err)
	}
	if msg.Type != MessageQuery || req.Prompt != "p" || req.Model != "m" {
		t.Errorf("decoded %q %+v", msg.Type, req)
	}
}

func TestHandleAPITestRejectsOllama(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(w, http.StatusOK, map[string]any{"models": []any{}})
	}))
	defer srv.Close()

	g := NewGateway(newSettings(KeyProvider, "ollama", KeyOllamaHost, srv.URL))

	for _, payload := range []string{`{"provider":"ollama"}`, `{}`} {
		res := g.Handle(context.Background(), Message{Type: MessageAPITest, Payload: json.RawMessage(payload)})
		if res.OK || !strings.Contains(res.Error, "Unsupported provider: ollama") {
			t.Errorf("Handle(API_TEST %s) = %+v, want unsupported provider", payload, res)
		}
	}
	if n := calls.Load(); n != 0 {
		t.Errorf("provider called %d times, want 0", n)
	}

	// Test itself still covers Ollama.
	if res := g.Test(context.Background(), TestRequest{Provider: "ollama"}); !res.OK {
		t.Errorf("Test(ollama) = %+v, want OK", res)
	}
}
