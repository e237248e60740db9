package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/cwbudde/algo-modal/control"
)

type errorResponse struct {
	Error string `json:"error"`
}

type hitResponse struct {
	Queued bool `json:"queued"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.stats.Stats())
}

// handleHit answers 202 when the strike was queued and 503 when the engine
// inbox was full.
func (s *Server) handleHit(w http.ResponseWriter, r *http.Request) {
	var m control.Impact
	if !s.decode(w, r, &m) {
		return
	}
	if !s.adapter.Impact(m) {
		writeJSON(w, http.StatusServiceUnavailable, hitResponse{Queued: false})
		return
	}
	writeJSON(w, http.StatusAccepted, hitResponse{Queued: true})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	var m control.State
	if !s.decode(w, r, &m) {
		return
	}
	s.adapter.State(m)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePlate(w http.ResponseWriter, r *http.Request) {
	var m control.Plate
	if !s.decode(w, r, &m) {
		return
	}
	s.adapter.Plate(m)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleParams(w http.ResponseWriter, r *http.Request) {
	var m control.Settings
	if !s.decode(w, r, &m) {
		return
	}
	s.adapter.Apply(m)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		s.log.Debug().Err(err).Str("path", r.URL.Path).Msg("rejected request body")
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("decode: %v", err)})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
