package handlers

import (
	"net/http"

	"frameflow/internal/logging"
)

// SaveProjectRequest is the body of POST /api/project/save.
type SaveProjectRequest struct {
	Path    string `json:"path" validate:"required"`
	Content string `json:"content"`
}

// SaveProject writes the serialized project to disk, replacing any existing
// file.
// POST /api/project/save
func (h *Handlers) SaveProject(w http.ResponseWriter, r *http.Request) {
	var req SaveProjectRequest
	if err := h.decodeAndValidate(w, r, &req); err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.writeFile(req.Path, []byte(req.Content)); err != nil {
		logging.Error("Failed to save project %s: %v", req.Path, err)
		writeJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	logging.Info("Project saved: %s (%d bytes)", req.Path, len(req.Content))
	writeJSONStatus(w, "saved")
}
