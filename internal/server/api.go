package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/lox/blackjack-advisor/internal/history"
	"github.com/lox/blackjack-advisor/internal/statistics"
)

const maxImportSize = 10 << 20

type importResponse struct {
	Imported int `json:"imported"`
}

func (s *Server) handleListHistory(w http.ResponseWriter, r *http.Request) {
	if !s.historyEnabled(w) {
		return
	}
	snapshots, err := s.history.List(r.Context())
	if err != nil {
		s.internalError(w, "list history", err)
		return
	}
	if snapshots == nil {
		snapshots = []statistics.Snapshot{}
	}
	s.writeJSON(w, http.StatusOK, snapshots)
}

func (s *Server) handleHistorySummary(w http.ResponseWriter, r *http.Request) {
	if !s.historyEnabled(w) {
		return
	}
	summary, err := history.Summary(r.Context(), s.history)
	if err != nil {
		s.internalError(w, "summarize history", err)
		return
	}
	s.writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleDeleteSnapshot(w http.ResponseWriter, r *http.Request) {
	if !s.historyEnabled(w) {
		return
	}
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "invalid snapshot id", http.StatusBadRequest)
		return
	}
	switch err := s.history.Delete(r.Context(), id); {
	case errors.Is(err, history.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case err != nil:
		s.internalError(w, "delete snapshot", err)
	default:
		s.logger.Info("Deleted snapshot", "id", id)
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	if !s.historyEnabled(w) {
		return
	}
	if err := s.history.Clear(r.Context()); err != nil {
		s.internalError(w, "clear history", err)
		return
	}
	s.logger.Info("Cleared history")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExportHistory(w http.ResponseWriter, r *http.Request) {
	if !s.historyEnabled(w) {
		return
	}
	var buf bytes.Buffer
	n, err := history.Export(r.Context(), s.history, &buf)
	if err != nil {
		s.internalError(w, "export history", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="`+history.ExportFilename(s.clock.Now())+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
	s.logger.Debug("Exported history", "records", n)
}

func (s *Server) handleImportHistory(w http.ResponseWriter, r *http.Request) {
	if !s.historyEnabled(w) {
		return
	}
	n, err := history.Import(r.Context(), s.history, http.MaxBytesReader(w, r.Body, maxImportSize))
	switch {
	case errors.Is(err, history.ErrInvalidImport):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case err != nil:
		s.internalError(w, "import history", err)
	default:
		s.logger.Info("Imported history", "records", n)
		s.writeJSON(w, http.StatusOK, importResponse{Imported: n})
	}
}

func (s *Server) historyEnabled(w http.ResponseWriter) bool {
	if s.history == nil {
		http.Error(w, "history is not configured", http.StatusNotFound)
		return false
	}
	return true
}

func (s *Server) internalError(w http.ResponseWriter, what string, err error) {
	s.logger.Error("Request failed", "op", what, "error", err)
	http.Error(w, what+" failed", http.StatusInternalServerError)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Debug("Failed to write response", "error", err)
	}
}
