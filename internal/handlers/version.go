package handlers

import (
	"net/http"

	"frameflow/internal/mediatypes"
	"frameflow/internal/startup"
)

// VersionResponse is build information plus what this host can serve.
type VersionResponse struct {
	startup.BuildInfo
	Tools      map[string]string `json:"tools,omitempty"`
	Extensions []string          `json:"extensions"`
}

// GetVersion returns the application version, media tool versions and the
// file extensions served with a specific content type.
func (h *Handlers) GetVersion(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	writeJSON(w, VersionResponse{
		BuildInfo:  startup.GetBuildInfo(),
		Tools:      h.tools,
		Extensions: mediatypes.SupportedExtensions(),
	})
}
