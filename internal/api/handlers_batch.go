package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dgallion1/blogsum/internal/pipeline"
	"github.com/dgallion1/blogsum/internal/scrape"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type batchRequest struct {
	URLs      []string `json:"urls"`
	Sentences int      `json:"sentences"`
}

// handleBatch queues one job per URL and returns immediately.
func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if len(req.URLs) == 0 {
		jsonError(w, "at least one URL is required", http.StatusBadRequest)
		return
	}
	if len(req.URLs) > s.cfg.MaxBatchURLs {
		jsonError(w, fmt.Sprintf("at most %d URLs per batch", s.cfg.MaxBatchURLs), http.StatusBadRequest)
		return
	}
	n, err := s.sentenceCount(req.Sentences)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	batchID := uuid.NewString()
	results := make([]map[string]any, 0, len(req.URLs))
	for _, raw := range req.URLs {
		raw = strings.TrimSpace(raw)
		if _, err := scrape.ValidateURL(raw); err != nil {
			results = append(results, map[string]any{
				"url":   raw,
				"error": msgInvalidURL,
			})
			continue
		}

		job := pipeline.NewJob(uuid.NewString(), raw, n)
		job.BatchID = batchID
		if err := s.orchestrator.Submit(job); err != nil {
			msg := err.Error()
			if errors.Is(err, pipeline.ErrQueueFull) {
				msg = "server is busy, try again later"
			}
			results = append(results, map[string]any{
				"url":    raw,
				"job_id": job.ID,
				"error":  msg,
			})
			continue
		}

		results = append(results, map[string]any{
			"url":      raw,
			"job_id":   job.ID,
			"status":   pipeline.StatusQueued,
			"poll_url": fmt.Sprintf("/api/jobs/%s", job.ID),
		})
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"batch_id": batchID,
		"jobs":     results,
	})
}

func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, job.Snapshot())
}
