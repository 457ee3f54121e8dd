package handlers

import (
	"errors"
	"io/fs"
	"net/http"

	"github.com/gabriel-vasile/mimetype"

	"frameflow/internal/filesystem"
	"frameflow/internal/logging"
	"frameflow/internal/mediatypes"
	"frameflow/internal/probe"
)

// MediaInfo describes a media file on disk.
type MediaInfo struct {
	Path         string              `json:"path"`
	Size         int64               `json:"size"`
	ModTime      string              `json:"modTime"`
	MimeType     string              `json:"mimeType"`
	DetectedType string              `json:"detectedType"`
	FileType     mediatypes.FileType `json:"fileType"`
	Metadata     *probe.Metadata     `json:"metadata,omitempty"`
	ProbeError   string              `json:"probeError,omitempty"`
}

// ProxyRequest is the body of POST /api/proxy.
type ProxyRequest struct {
	InputPath  string `json:"inputPath" validate:"required"`
	OutputPath string `json:"outputPath" validate:"required,nefield=InputPath"`
}

// GetMetadata returns width, height and duration of a video.
// GET /api/metadata?path=
func (h *Handlers) GetMetadata(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		writeJSONError(w, "path is required", http.StatusBadRequest)
		return
	}

	meta, err := h.prober.Probe(r.Context(), path)
	if err != nil {
		logging.Warn("Metadata probe failed for %s: %v", path, err)
		writeJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, meta)
}

// GetMediaInfo returns size, content types and, when ffprobe can read the
// file, its metadata. A probe failure is reported in the body rather than
// failing the request.
// GET /api/media/info?path=
func (h *Handlers) GetMediaInfo(w http.ResponseWriter, r *http.Request) {
	rawPath := r.URL.Query().Get("path")
	if rawPath == "" {
		writeJSONError(w, "path is required", http.StatusBadRequest)
		return
	}
	path := probe.CleanPath(rawPath)

	info, err := filesystem.StatWithRetry(path, h.retry)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			writeJSONError(w, "File not found", http.StatusNotFound)
			return
		}
		logging.Error("Failed to stat %s: %v", path, err)
		writeJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if info.IsDir() {
		writeJSONError(w, "path is a directory", http.StatusBadRequest)
		return
	}

	ext := mediatypes.Extension(path)
	result := MediaInfo{
		Path:     path,
		Size:     info.Size(),
		ModTime:  info.ModTime().UTC().Format("2006-01-02T15:04:05Z07:00"),
		MimeType: mediatypes.GetMimeType(ext),
		FileType: mediatypes.GetFileType(ext),
	}

	if detected, err := mimetype.DetectFile(path); err != nil {
		logging.Debug("Content sniffing failed for %s: %v", path, err)
		result.DetectedType = mediatypes.DefaultMimeType
	} else {
		result.DetectedType = detected.String()
	}

	// The prober decodes identifiers itself; hand it the raw value
	if meta, err := h.prober.Probe(r.Context(), rawPath); err != nil {
		result.ProbeError = err.Error()
	} else {
		result.Metadata = meta
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, result)
}

// CreateProxy renders a 540p editing proxy and returns its path. The request
// blocks until ffmpeg finishes; canceling it kills the encode.
// POST /api/proxy
func (h *Handlers) CreateProxy(w http.ResponseWriter, r *http.Request) {
	var req ProxyRequest
	if err := h.decodeAndValidate(w, r, &req); err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	out, err := h.proxies.GenerateProxy(r.Context(), req.InputPath, req.OutputPath)
	if err != nil {
		logging.Error("Proxy generation failed for %s: %v", req.InputPath, err)
		writeJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	logging.Info("Proxy created: %s", out)
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, map[string]string{"outputPath": out})
}
