package http

import (
	"net/http"

	"github.com/go-chi/render"

	"refundlens/internal/infrastructure"
)

// HealthHandler answers liveness probes.
type HealthHandler struct{}

// NewHealthHandler creates a health handler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// Health reports the service name and version.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{
		"status":  "ok",
		"service": infrastructure.ServiceName,
		"version": infrastructure.ServiceVersion,
	})
}
