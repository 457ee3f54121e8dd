package handlers

import (
	"net/http"

	"frameflow/internal/logging"
)

// GetAvailableMemory reports system memory available to new allocations.
// GET /api/memory
func (h *Handlers) GetAvailableMemory(w http.ResponseWriter, _ *http.Request) {
	available, err := h.availableMemory()
	if err != nil {
		logging.Error("Failed to read available memory: %v", err)
		writeJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	writeJSON(w, map[string]uint64{"availableBytes": available})
}
