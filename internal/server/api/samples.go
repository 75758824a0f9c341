package api

import (
	"net/http"
	"strings"

	"github.com/LeCadavrExquis/mierzo-puls/internal/store"
)

// SamplesHandler handles HTTP requests for the samples of a session:
// GET /api/sessions/{id}/samples.
type SamplesHandler struct {
	store *store.Store
}

// NewSamplesHandler creates a new SamplesHandler with the given store.
func NewSamplesHandler(s *store.Store) *SamplesHandler {
	return &SamplesHandler{store: s}
}

type listSamplesResponse struct {
	Samples []store.Sample `json:"samples"`
}

// ServeHTTP implements the http.Handler interface.
func (h *SamplesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Expected path: /api/sessions/{id}/samples
	path := strings.TrimPrefix(r.URL.Path, "/api/sessions/")
	id := strings.TrimSuffix(path, "/samples")
	if id == "" || id == path {
		writeError(w, http.StatusBadRequest, "Missing session ID")
		return
	}

	// Distinguish "unknown session" from "session with no samples yet".
	if _, err := h.store.Sessions().GetByID(id); err != nil {
		writeError(w, http.StatusNotFound, "Session not found")
		return
	}

	samples, err := h.store.Samples().BySession(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list samples")
		return
	}
	if samples == nil {
		samples = []store.Sample{}
	}

	writeJSON(w, http.StatusOK, listSamplesResponse{Samples: samples})
}
