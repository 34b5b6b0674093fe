package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Pratham-Dabhane/Smart-Coupons/internal/api/dto"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	transport string
}

// NewHealthHandler creates a new health handler reporting the advisory transport.
func NewHealthHandler(transport string) *HealthHandler {
	return &HealthHandler{transport: transport}
}

// ServeHTTP handles the health check request.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	response := dto.NewHealthResponse(h.transport)
	_ = json.NewEncoder(w).Encode(response)
}
