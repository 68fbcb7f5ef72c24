package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/custodia-labs/scoperag/internal/core/domain"
)

// handleHealth reports liveness. It never fails.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	_ = writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady reports 200 once an index has been built.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if !s.ports.Retrieval.Stats().Built {
		s.writeError(w, r, domain.ErrIndexNotBuilt)
		return
	}
	_ = writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleStats handles GET /stats.
func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	stats := s.ports.Retrieval.Stats()
	resp := StatsResponse{
		Built:      stats.Built,
		Entries:    stats.Entries,
		Dimensions: stats.Dimensions,
		Model:      stats.Model,
	}
	if !stats.LoadedAt.IsZero() {
		resp.LoadedAt = stats.LoadedAt.UTC().Format(time.RFC3339)
	}
	_ = writeJSON(w, http.StatusOK, resp)
}

// handleEntry handles GET /entries/{position}.
func (s *Server) handleEntry(w http.ResponseWriter, r *http.Request) {
	position, err := strconv.Atoi(chi.URLParam(r, "position"))
	if err != nil {
		s.writeError(w, r, &ValidationError{Fields: map[string]string{"position": "position must be an integer"}})
		return
	}

	entry, err := s.ports.Retrieval.Entry(position)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	_ = writeJSON(w, http.StatusOK, EntryResponse{
		Position: position,
		Question: entry.Question,
		Answer:   entry.Answer,
	})
}

// handleQuery handles POST /query.
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, r, &ValidationError{Fields: map[string]string{"body": "body must be a JSON object"}})
		return
	}
	if err := validateRequest(&req); err != nil {
		s.writeError(w, r, err)
		return
	}

	results, err := s.ports.Retrieval.Query(r.Context(), *req.Text, req.NumResults)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := QueryResponse{
		Results:   make([]QAPair, len(results)),
		Scores:    make([]float64, len(results)),
		Positions: make([]int, len(results)),
	}
	for i, res := range results {
		resp.Results[i] = QAPair{Question: res.Entry.Question, Answer: res.Entry.Answer}
		resp.Scores[i] = res.Score
		resp.Positions[i] = res.Position
	}

	if err := writeJSON(w, http.StatusOK, resp); err != nil {
		s.logger.Error("failed to write query response", zap.Error(err))
	}
}

// handleLoad handles POST /load. The body is raw corpus text.
func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			_ = writeJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{
				Error:   "too_large",
				Message: "corpus exceeds " + strconv.FormatInt(tooLarge.Limit, 10) + " bytes",
			})
			return
		}
		s.writeError(w, r, err)
		return
	}

	report, err := s.ports.Retrieval.Load(r.Context(), string(body))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	_ = writeJSON(w, http.StatusOK, loadResponse(report))
}

// handleReload handles POST /reload, re-reading the configured corpus file.
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if s.ports.Corpus == nil {
		_ = writeJSON(w, http.StatusNotImplemented, ErrorResponse{
			Error:   "not_implemented",
			Message: "no corpus source configured",
		})
		return
	}

	report, err := s.ports.Corpus.Load(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	_ = writeJSON(w, http.StatusOK, loadResponse(report))
}

func loadResponse(report domain.LoadReport) LoadResponse {
	return LoadResponse{
		Entries:    report.Entries,
		Skipped:    report.Skipped,
		Dimensions: report.Dimensions,
		DurationMS: report.Duration.Milliseconds(),
	}
}
