package handlers

import (
	"errors"
	"io"
	"net/http"

	"frameflow/internal/lut"
)

// maxLUTBodyBytes fits a 256³ table at roughly 30 bytes per row.
const maxLUTBodyBytes = 512 << 20

// ParseLUT parses the .cube file in the request body and returns its table.
// POST /api/lut
func (h *Handlers) ParseLUT(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxLUTBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSONError(w, "LUT file too large", http.StatusRequestEntityTooLarge)
			return
		}
		writeJSONError(w, "failed to read request body", http.StatusBadRequest)
		return
	}

	table, err := lut.Parse(string(body))
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, table)
}
