package server

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/thinkscotty/promptify/internal/ai"
	"github.com/thinkscotty/promptify/internal/auth"
)

func (s *Server) handleSettingsGet(w http.ResponseWriter, r *http.Request) {
	settings, err := s.publicSettings()
	if err != nil {
		slog.Error("Failed to load settings", "error", err)
		jsonError(w, "Failed to load settings", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, map[string]any{"settings": settings})
}

// handleSettingsUpdate applies a partial update in one transaction. An empty
// value deletes the key so that resolution falls back to the default. An apiKey
// equal to the masked form of the stored key is the GET response echoed back
// and leaves the stored key alone.
func (s *Server) handleSettingsUpdate(w http.ResponseWriter, r *http.Request) {
	var updates map[string]string
	if err := decodeBody(w, r, &updates); err != nil {
		invalidJSON(w, err)
		return
	}

	for key, value := range updates {
		if err := ai.ValidateSetting(key, value); err != nil {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	batch := make(map[string]string, len(updates))
	for key, value := range updates {
		batch[key] = strings.TrimSpace(value)
	}
	if v, ok := batch[ai.KeyAPIKey]; ok && v != "" {
		stored, err := s.db.GetSetting(ai.KeyAPIKey)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			slog.Error("Failed to read setting", "key", ai.KeyAPIKey, "error", err)
			jsonError(w, "Failed to save settings", http.StatusInternalServerError)
			return
		}
		if stored != "" && v == ai.MaskSecret(stored) {
			delete(batch, ai.KeyAPIKey)
		}
	}

	if err := s.db.UpdateSettings(batch); err != nil {
		slog.Error("Failed to save settings", "error", err)
		jsonError(w, "Failed to save settings", http.StatusInternalServerError)
		return
	}
	if len(batch) > 0 {
		slog.Info("Settings updated", "keys", len(batch))
	}

	s.handleSettingsGet(w, r)
}

// publicSettings returns the store with the access key hash removed and the
// provider API key masked.
func (s *Server) publicSettings() (map[string]string, error) {
	settings, err := s.db.GetAllSettings()
	if err != nil {
		return nil, err
	}
	delete(settings, auth.HashSetting)
	if v, ok := settings[ai.KeyAPIKey]; ok {
		settings[ai.KeyAPIKey] = ai.MaskSecret(v)
	}
	return settings, nil
}
