package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/custodia-labs/scoperag/internal/core/domain"
)

// QAPair is one matched question-answer pair.
type QAPair struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// QueryResponse is the body returned by POST /query.
// Results, Scores and Positions are parallel arrays, nearest first.
type QueryResponse struct {
	Results   []QAPair  `json:"results"`
	Scores    []float64 `json:"scores"`
	Positions []int     `json:"positions"`
}

// LoadResponse is the body returned by POST /load and POST /reload.
type LoadResponse struct {
	Entries    int   `json:"entries"`
	Skipped    int   `json:"skipped"`
	Dimensions int   `json:"dimensions"`
	DurationMS int64 `json:"duration_ms"`
}

// StatsResponse is the body returned by GET /stats.
type StatsResponse struct {
	Built      bool   `json:"built"`
	Entries    int    `json:"entries"`
	Dimensions int    `json:"dimensions"`
	Model      string `json:"model"`
	LoadedAt   string `json:"loaded_at,omitempty"`
}

// EntryResponse is the body returned by GET /entries/{position}.
type EntryResponse struct {
	Position int    `json:"position"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// writeJSON writes data as JSON with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return nil
	}
	return json.NewEncoder(w).Encode(data)
}

// errorStatus maps an error to its HTTP status and short code.
func errorStatus(err error) (int, string) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr), errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, domain.ErrIndexNotBuilt):
		return http.StatusServiceUnavailable, "index_not_built"
	case errors.Is(err, domain.ErrNoCorpusLoaded):
		return http.StatusUnprocessableEntity, "no_corpus_loaded"
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests, "rate_limited"
	case errors.Is(err, domain.ErrEmbeddingFailure), errors.Is(err, domain.ErrEmbeddingUnavailable):
		return http.StatusBadGateway, "embedding_failure"
	case errors.Is(err, domain.ErrDimensionMismatch):
		return http.StatusInternalServerError, "dimension_mismatch"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// writeError maps err to a status and writes it as an ErrorResponse.
// Internal errors are logged and their message withheld.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := errorStatus(err)

	resp := ErrorResponse{Error: code, Message: err.Error()}
	var verr *ValidationError
	if errors.As(err, &verr) {
		resp.Fields = verr.Fields
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("request_id", requestIDFrom(r.Context())),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		if code == "internal_error" {
			resp.Message = "an internal error occurred"
		}
	}

	if werr := writeJSON(w, status, resp); werr != nil {
		s.logger.Error("failed to write error response", zap.Error(werr))
	}
}
