package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/desertthunder/mixtape/internal/formatter"
	"github.com/desertthunder/mixtape/internal/models"
	"github.com/desertthunder/mixtape/internal/shared"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "mixtape"})
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	criteria := map[string]any{"latest": true}

	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		criteria["limit"] = limit
	}

	runs, err := s.runs.List(criteria)
	if err != nil {
		s.fail(w, err)
		return
	}

	summaries := make([]models.RunSummary, 0, len(runs))
	for _, run := range runs {
		summaries = append(summaries, run.Summary())
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run, err := s.runs.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, run.Summary())
}

func (s *Server) handleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := s.snapshots.Load(chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, err)
		return
	}

	data, err := formatter.ToJSON(snap, formatter.DefaultIndent)
	if err != nil {
		s.fail(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// fail maps unknown runs to 404 and logs everything else as a 500.
func (s *Server) fail(w http.ResponseWriter, err error) {
	if errors.Is(err, shared.ErrRunNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	s.logger.Error("request failed", "error", err)
	writeError(w, http.StatusInternalServerError, "internal error")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
