package server

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/thinkscotty/promptify/internal/models"
)

const (
	defaultLogLimit = 50
	maxLogLimit     = 500
)

func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	limit := defaultLogLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			jsonError(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = min(n, maxLogLimit)
	}

	logs, err := s.db.RecentQueryLogs(limit)
	if err != nil {
		slog.Error("Failed to read query log", "error", err)
		jsonError(w, "Failed to read query log", http.StatusInternalServerError)
		return
	}
	if logs == nil {
		logs = []models.QueryLog{}
	}
	jsonResponse(w, map[string]any{"logs": logs})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.db.QueryStats()
	if err != nil {
		slog.Error("Failed to get stats", "error", err)
		jsonError(w, "Failed to get stats", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, stats)
}
