package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/claude/notionfit/internal/ingest"
	"github.com/claude/notionfit/internal/models"
	"github.com/claude/notionfit/internal/notion"
	"github.com/claude/notionfit/internal/storage"
)

func (s *Server) handleSleep(w http.ResponseWriter, r *http.Request) {
	var payload models.SleepPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	res, err := s.svc.IngestSleep(r.Context(), payload)
	s.respond(w, res, err)
}

func (s *Server) handleWorkout(w http.ResponseWriter, r *http.Request) {
	var payload models.WorkoutPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	res, err := s.svc.IngestWorkout(r.Context(), payload)
	s.respond(w, res, err)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	var payload models.HealthExport
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	res, err := s.svc.IngestHealth(r.Context(), payload)
	s.respond(w, res, err)
}

// respond maps an ingest outcome to its response: validation errors are
// the client's fault, upstream Notion failures are a bad gateway, anything
// else is a server error.
func (s *Server) respond(w http.ResponseWriter, result *ingest.Result, err error) {
	if err == nil {
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "result": result})
		return
	}

	var verr *ingest.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": verr.Error()})
		return
	}

	s.log.Error("ingest error", "error", err)
	var apiErr *notion.APIError
	if errors.As(err, &apiErr) {
		writeJSON(w, http.StatusBadGateway, map[string]any{"success": false, "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "error": err.Error()})
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRecentIngests(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeJSON(w, http.StatusOK, []any{})
		return
	}
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	recs, err := s.store.RecentIngests(r.Context(), limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if recs == nil {
		recs = []storage.IngestRecord{}
	}
	writeJSON(w, http.StatusOK, recs)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
