package handlers

import (
	"log/slog"
	"net/http"
)

// HealthResponse представляет ответ health check
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

// HealthHandler обрабатывает GET /health
type HealthHandler struct {
	logger  *slog.Logger
	version string
}

// NewHealthHandler создает новый health handler
func NewHealthHandler(logger *slog.Logger, version string) *HealthHandler {
	return &HealthHandler{logger: logger, version: version}
}

// Health отвечает 200, пока процесс жив
func (h *HealthHandler) Health(w http.ResponseWriter, _ *http.Request) {
	sendJSON(h.logger, w, HealthResponse{Status: "ok", Version: h.version}, http.StatusOK)
}
