package ai

import (
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync"
	"testing"

	"github.com/thinkscotty/promptify/internal/models"
)

// memSettings is an in-memory SettingsGetter. Missing keys behave like the
// database and return sql.ErrNoRows.
type memSettings struct {
	mu     sync.Mutex
	values map[string]string
}

func newSettings(kv ...string) *memSettings {
	m := &memSettings{values: make(map[string]string)}
	for i := 0; i+1 < len(kv); i += 2 {
		m.values[kv[i]] = kv[i+1]
	}
	return m
}

func (m *memSettings) GetSetting(key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	if !ok {
		return "", sql.ErrNoRows
	}
	return v, nil
}

func (m *memSettings) set(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
}

type memRecorder struct {
	mu      sync.Mutex
	entries []models.QueryLog
}

func (r *memRecorder) LogQuery(entry models.QueryLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
	return nil
}

func (r *memRecorder) all() []models.QueryLog {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.QueryLog(nil), r.entries...)
}

// capturedRequest is what a stub provider saw.
type capturedRequest struct {
	Method string
	Path   string
	Header http.Header
	Body   map[string]any
}

func capture(t *testing.T, r *http.Request) capturedRequest {
	t.Helper()
	c := capturedRequest{Method: r.Method, Path: r.URL.Path, Header: r.Header.Clone()}
	data, err := io.ReadAll(r.Body)
	if err != nil {
		t.Errorf("reading request body: %v", err)
		return c
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &c.Body); err != nil {
			t.Errorf("decoding request body %q: %v", data, err)
		}
	}
	return c
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// firstMessageContent pulls messages[0].content out of a decoded chat body.
func firstMessageContent(body map[string]any) string {
	msgs, _ := body["messages"].([]any)
	if len(msgs) == 0 {
		return ""
	}
	m, _ := msgs[0].(map[string]any)
	s, _ := m["content"].(string)
	return s
}

// flakySettings fails reads of one key with a non-ErrNoRows error.
type flakySettings struct {
	*memSettings
	failKey string
}

func (f flakySettings) GetSetting(key string) (string, error) {
	if key == f.failKey {
		return "", errors.New("database is locked")
	}
	return f.memSettings.GetSetting(key)
}
