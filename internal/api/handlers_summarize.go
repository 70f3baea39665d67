package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dgallion1/blogsum/internal/parser"
	"github.com/dgallion1/blogsum/internal/pipeline"
	"github.com/dgallion1/blogsum/internal/scrape"
	"github.com/dgallion1/blogsum/internal/summarizer"
	"github.com/dgallion1/blogsum/internal/translate"
)

const maxJSONBody = 1 << 20

// User-facing error messages for the URL summary endpoint.
const (
	msgURLRequired  = "URL is required"
	msgInvalidURL   = "A valid http or https URL is required."
	msgBlocked      = "Could not access the URL. The website may be blocking scrapers."
	msgNoText       = "Could not extract text from the URL."
	msgNoSummary    = "Failed to generate a summary from the content."
	msgBusy         = "Translation service is temporarily unavailable. Please try again later."
	msgProcessError = "Failed to process the request."
)

type summarizeRequest struct {
	URL       string `json:"url"`
	Sentences int    `json:"sentences"`
}

func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	var req summarizeRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	req.URL = strings.TrimSpace(req.URL)
	if req.URL == "" {
		jsonError(w, msgURLRequired, http.StatusBadRequest)
		return
	}
	n, err := s.sentenceCount(req.Sentences)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	res, err := s.orchestrator.Worker().Run(r.Context(), req.URL, n)
	if err != nil {
		msg, code := classifyError(err)
		s.log.Error("summarize url failed", "url", req.URL, "status", code, "error", err)
		jsonError(w, msg, code)
		return
	}

	body := map[string]any{
		"url":                res.URL,
		"title":              res.Title,
		"summary_en":         res.SummaryEN,
		"summary_translated": res.SummaryTranslated,
		"language":           res.Language,
		"record_id":          res.RecordID,
		"content_hash":       res.ContentHash,
		"warnings":           nonNil(res.Warnings),
	}
	// Clients of the first release read the translation as summary_<lang>.
	if res.Language != "" && res.Language != "en" && res.SummaryTranslated != "" {
		body["summary_"+res.Language] = res.SummaryTranslated
	}
	writeJSON(w, http.StatusOK, body)
}

// classifyError maps pipeline failures to a message and status code.
func classifyError(err error) (string, int) {
	var statusErr *scrape.StatusError
	switch {
	case errors.Is(err, scrape.ErrInvalidURL):
		return msgInvalidURL, http.StatusBadRequest
	case errors.As(err, &statusErr) && statusErr.Blocked():
		return msgBlocked, http.StatusBadGateway
	case errors.Is(err, scrape.ErrNoText):
		return msgNoText, http.StatusBadRequest
	case errors.Is(err, pipeline.ErrNoSummary):
		return msgNoSummary, http.StatusInternalServerError
	case errors.Is(err, translate.ErrBusy):
		return msgBusy, http.StatusServiceUnavailable
	default:
		return msgProcessError, http.StatusInternalServerError
	}
}

type summarizeTextRequest struct {
	Text      string `json:"text"`
	Sentences int    `json:"sentences"`
	Detail    bool   `json:"detail"`
}

// handleSummarizeText runs the summarizer on posted text. Nothing is fetched,
// translated or stored.
func (s *Server) handleSummarizeText(w http.ResponseWriter, r *http.Request) {
	var req summarizeTextRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		jsonError(w, "text is required", http.StatusBadRequest)
		return
	}
	n, err := s.sentenceCount(req.Sentences)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, summaryBody(req.Text, n, req.Detail, nil))
}

// handleSummarizeFile parses an uploaded document and summarizes its text.
func (s *Server) handleSummarizeFile(w http.ResponseWriter, r *http.Request) {
	// Limit total request size.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !parser.IsSupportedExtension(filename) {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return
	}
	if header.Size > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return
	}

	requested := 0
	if v := r.FormValue("sentences"); v != "" {
		if requested, err = strconv.Atoi(v); err != nil {
			jsonError(w, "sentences must be a number", http.StatusBadRequest)
			return
		}
	}
	n, err := s.sentenceCount(requested)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	p, err := parser.ForFile(filename, parser.Options{PDFFallbackPdftotext: s.cfg.PDFFallbackPdftotext})
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	doc, err := p.Parse(file, filename)
	if err != nil {
		s.log.Error("parse upload failed", "filename", filename, "error", err)
		jsonError(w, "could not read the file", http.StatusUnprocessableEntity)
		return
	}
	if strings.TrimSpace(doc.Text) == "" {
		jsonError(w, "Could not extract text from the file.", http.StatusBadRequest)
		return
	}

	body := summaryBody(doc.Text, n, r.FormValue("detail") == "true", map[string]any{
		"filename": filename,
		"title":    doc.Title,
	})
	writeJSON(w, http.StatusOK, body)
}

// summaryBody builds the response for the text and file endpoints.
func summaryBody(text string, n int, detail bool, extra map[string]any) map[string]any {
	ranked := summarizer.Rank(text)
	picked := summarizer.Select(ranked, n)

	body := map[string]any{
		"summary":    summarizer.Render(picked),
		"candidates": len(ranked),
	}
	if detail {
		body["sentences"] = nonNil(picked)
		body["ranked"] = nonNil(ranked)
	}
	for k, v := range extra {
		body[k] = v
	}
	return body
}

// sentenceCount resolves a requested summary length, where 0 means the
// configured default.
func (s *Server) sentenceCount(requested int) (int, error) {
	if requested == 0 {
		return s.cfg.DefaultSentences, nil
	}
	if requested < 0 || requested > s.cfg.MaxSentences {
		return 0, fmt.Errorf("sentences must be between 1 and %d", s.cfg.MaxSentences)
	}
	return requested, nil
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody)).Decode(v); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	// Remove any path separators that might have survived.
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
