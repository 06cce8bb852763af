package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/muresults/gazette"
	"github.com/muresults/gazette/stats"
)

const (
	serviceName    = "mu-result-parser"
	serviceVersion = "2.0.0"
)

type handler struct {
	engine gazette.Engine
	cfg    gazette.Config
}

func newHandler(e gazette.Engine, cfg gazette.Config) *handler {
	return &handler{engine: e, cfg: cfg}
}

// GET /
func (h *handler) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "MU Result Parser API",
		"version": serviceVersion,
		"status":  "active",
	})
}

// GET /health
func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": serviceName,
		"version": serviceVersion,
	})
}

// parseMetadata is the metadata envelope of a /parse response; field names
// match what the result frontend expects.
type parseMetadata struct {
	SourceFile    string `json:"sourceFile"`
	TotalPages    int    `json:"totalPages"`
	ParsedAt      string `json:"parsedAt"`
	ParseTimeMs   int64  `json:"parseTimeMs"`
	ExamSession   string `json:"examSession"`
	University    string `json:"university"`
	TotalStudents int    `json:"totalStudents"`
}

// POST /parse
// Accepts a multipart gazette upload and returns the parsed records with
// run metadata and the aggregate analysis.
func (h *handler) handleParse(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Minute)
	defer cancel()

	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("invalid upload; files are limited to %d MB", h.cfg.MaxUploadBytes>>20))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "multipart 'file' field is required")
		return
	}
	defer file.Close()

	// Sanitise filename to prevent path traversal.
	safeName := filepath.Base(header.Filename)
	ext := strings.ToLower(filepath.Ext(safeName))
	if ext != ".pdf" && ext != ".txt" {
		writeError(w, http.StatusBadRequest, "file must be a PDF or text gazette")
		return
	}

	tmp, err := os.CreateTemp("", "gazette-*"+ext)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to process file")
		slog.Error("creating temp file", "error", err)
		return
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		writeError(w, http.StatusInternalServerError, "failed to save file")
		slog.Error("saving uploaded file", "error", err)
		return
	}
	tmp.Close()

	res, err := h.engine.ParseFile(ctx, tmpPath, gazette.WithSourceName(safeName))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, gazette.ErrFileTooLarge) || errors.Is(err, gazette.ErrUnsupportedFormat) {
			status = http.StatusBadRequest
		}
		writeError(w, status, fmt.Sprintf("parsing failed: %v", err))
		slog.Error("parse error", "file", safeName, "error", err)
		return
	}

	students := res.Students()
	writeJSON(w, http.StatusOK, map[string]any{
		"students": students,
		"metadata": parseMetadata{
			SourceFile:    res.SourceFile,
			TotalPages:    res.Pages,
			ParsedAt:      time.Now().UTC().Format(time.RFC3339),
			ParseTimeMs:   res.Elapsed.Milliseconds(),
			ExamSession:   h.cfg.ExamSession,
			University:    h.cfg.University,
			TotalStudents: len(students),
		},
		"analysis": stats.Compute(students),
	})
}

// GET /runs
func (h *handler) handleListRuns(w http.ResponseWriter, r *http.Request) {
	st := h.engine.Store()
	if st == nil {
		writeError(w, http.StatusNotFound, "run archive is not configured")
		return
	}

	runs, err := st.ListRuns(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list runs")
		slog.Error("list runs error", "error", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

// GET /runs/{id}
func (h *handler) handleGetRun(w http.ResponseWriter, r *http.Request) {
	st := h.engine.Store()
	if st == nil {
		writeError(w, http.StatusNotFound, "run archive is not configured")
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid run id")
		return
	}

	run, err := st.GetRun(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "run not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load run")
		slog.Error("get run error", "run_id", id, "error", err)
		return
	}

	students, err := st.Students(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load run students")
		slog.Error("run students error", "run_id", id, "error", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"run":      run,
		"students": students,
	})
}

// DELETE /runs/{id}
func (h *handler) handleDeleteRun(w http.ResponseWriter, r *http.Request) {
	st := h.engine.Store()
	if st == nil {
		writeError(w, http.StatusNotFound, "run archive is not configured")
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid run id")
		return
	}

	if err := st.DeleteRun(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "run not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "delete failed")
		slog.Error("delete run error", "run_id", id, "error", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
