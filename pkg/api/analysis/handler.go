// Package analysis exposes the analyzer over HTTP: one multipart upload in,
// one AnalysisResult JSON out.
package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"finlens/pkg/core/analyzer"
	"finlens/pkg/core/ingest"
	"finlens/pkg/core/insight"
	"finlens/pkg/core/llm"
	"finlens/pkg/core/table"
)

const maxUploadBytes = 5 << 20 // 5 MB

// Handler serves analysis requests.
type Handler struct {
	orchestrator *analyzer.Orchestrator
	timeout      time.Duration
}

func NewHandler(o *analyzer.Orchestrator, timeout time.Duration) *Handler {
	return &Handler{orchestrator: o, timeout: timeout}
}

// HandleAnalyze accepts POST multipart/form-data with a "file" part and an
// optional "context" field, runs the pipeline, and returns the result JSON.
func (h *Handler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file upload")
		return
	}
	defer file.Close()

	// The file readers work from paths, so the upload lands in a temp file
	// that keeps its original extension for format detection.
	tmp, err := os.CreateTemp("", "upload-*"+filepath.Ext(header.Filename))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to store upload")
		return
	}
	defer os.Remove(tmp.Name())
	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		writeError(w, http.StatusInternalServerError, "failed to store upload")
		return
	}
	tmp.Close()

	tbl, err := ingest.ParseFile(tmp.Name())
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	result, err := h.orchestrator.Analyze(ctx, tbl, r.FormValue("context"))
	if err != nil {
		status, msg := classifyError(err)
		log.Printf("[API] analysis failed (%d): %v", status, err)
		writeError(w, status, msg)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// classifyError maps pipeline failures onto HTTP statuses. User-fixable data
// problems are 422; provider trouble is 503; a hopeless model response is 502.
func classifyError(err error) (int, string) {
	var missing *table.MissingColumnError
	var dup *table.DuplicatePeriodError
	var insufficient *analyzer.InsufficientDataError
	var transport *llm.TransportError
	var unparseable *insight.UnparseableResponseError
	var empty *insight.NoInsightsError

	switch {
	case errors.As(err, &missing), errors.As(err, &dup), errors.As(err, &insufficient):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.As(err, &transport):
		return http.StatusServiceUnavailable, "analysis service unavailable, please retry later"
	case errors.As(err, &unparseable), errors.As(err, &empty):
		return http.StatusBadGateway, err.Error()
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
