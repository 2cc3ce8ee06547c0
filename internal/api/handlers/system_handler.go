package handlers

import (
	"net/http"

	"github.com/dferrans/itemstash-be/internal/monitoring"
	"github.com/rs/zerolog/log"
)

// SystemHandler exposes host-level stats to administrators.
type SystemHandler struct{}

// NewSystemHandler creates a new SystemHandler.
func NewSystemHandler() *SystemHandler {
	return &SystemHandler{}
}

// GetStats handles the request for a host CPU/memory snapshot.
func (h *SystemHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := monitoring.SnapshotHostStats()
	if err != nil {
		log.Error().Err(err).Msg("Failed to collect host stats")
		writeError(w, http.StatusInternalServerError, "Failed to collect stats")
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
