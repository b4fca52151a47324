package handler

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/user/sitekit/internal/delivery/http/response"
	"github.com/user/sitekit/internal/entity"
)

// Handler serves the development endpoints of a watching audit.
type Handler struct {
	started time.Time
	logger  *zap.Logger

	mu     sync.RWMutex
	latest *entity.ValidationResult
}

// NewHandler creates a handler with no audit published yet.
func NewHandler(logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{started: time.Now(), logger: logger}
}

// Publish replaces the result returned by HandleLatestAudit.
func (h *Handler) Publish(result entity.ValidationResult) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.latest = &result
}

// HandleHealthCheck reports liveness and uptime.
func (h *Handler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, response.HealthResponse{
		Status: "ok",
		Uptime: time.Since(h.started).Round(time.Second).String(),
	})
}

// HandleLatestAudit returns the last published result, or 404 before the first one.
func (h *Handler) HandleLatestAudit(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	latest := h.latest
	h.mu.RUnlock()

	if latest == nil {
		h.writeJSONError(w, "No audit has completed yet", http.StatusNotFound)
		return
	}

	h.writeJSON(w, http.StatusOK, response.AuditResponse{
		Source:   latest.Source,
		Errors:   latest.Count(entity.IssueError),
		Warnings: latest.Count(entity.IssueWarning),
		Info:     latest.Count(entity.IssueInfo),
		Result:   *latest,
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}

func (h *Handler) writeJSONError(w http.ResponseWriter, message string, status int) {
	h.writeJSON(w, status, response.ErrorResponse{Error: message})
}
