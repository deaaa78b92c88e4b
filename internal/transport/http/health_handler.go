package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	api "sheetsight/pkg/contracts/api/v1"
)

// HealthHandler handles health-related HTTP requests
type HealthHandler struct {
	service HealthServiceInterface
	logger  *slog.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(service HealthServiceInterface, logger *slog.Logger) *HealthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "health")),
	}
}

// HealthCheck handles GET /api/health
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status := h.service.Check(r.Context())
	render.JSON(w, r, api.HealthResponse{
		Status:    status.Status,
		Version:   status.Version,
		Sessions:  status.Sessions,
		Uptime:    status.Uptime.String(),
		Timestamp: status.Timestamp.UTC().Format(time.RFC3339),
	})
}
