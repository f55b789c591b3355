package server

import (
	"log/slog"
	"net/http"

	"github.com/thinkscotty/promptify/internal/ai"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, map[string]string{"status": "ok", "version": s.version})
}

// handleMessage accepts the extension's {type, payload} envelope.
// Gateway failures are reported in the Result body with HTTP 200.
func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	var msg ai.Message
	if err := decodeBody(w, r, &msg); err != nil {
		invalidJSON(w, err)
		return
	}
	jsonResponse(w, s.gateway.Handle(r.Context(), msg))
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req ai.QueryRequest
	if err := decodeBody(w, r, &req); err != nil {
		invalidJSON(w, err)
		return
	}
	jsonResponse(w, s.gateway.Query(r.Context(), req))
}

func (s *Server) handleTest(w http.ResponseWriter, r *http.Request) {
	var req ai.TestRequest
	if err := decodeBody(w, r, &req); err != nil {
		invalidJSON(w, err)
		return
	}
	jsonResponse(w, s.gateway.Test(r.Context(), req))
}

func (s *Server) handleModels(w http.ResponseWriter, r *http.Request) {
	models, err := s.gateway.ListModels(r.Context(), r.URL.Query().Get("host"))
	if err != nil {
		slog.Warn("Failed to list Ollama models", "error", err)
		jsonError(w, err.Error(), http.StatusBadGateway)
		return
	}
	if models == nil {
		models = []ai.OllamaModel{}
	}
	jsonResponse(w, map[string]any{"models": models})
}
