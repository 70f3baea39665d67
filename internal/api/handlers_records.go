package api

import (
	"net/http"
	"strconv"

	"github.com/dgallion1/blogsum/internal/scrape"
)

const maxListLimit = 100

// handleRecent lists the most recently saved summaries, newest first.
func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	if s.summaries == nil {
		jsonError(w, "summary storage is not configured", http.StatusServiceUnavailable)
		return
	}
	limit, ok := listLimit(w, r, s.cfg.RecentLimit)
	if !ok {
		return
	}

	records, err := s.summaries.Recent(r.Context(), limit)
	if err != nil {
		s.log.Error("list recent summaries failed", "error", err)
		jsonError(w, "Failed to fetch recent summaries.", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(records))
}

// handleArchive returns the archived article text for a URL, newest first.
func (s *Server) handleArchive(w http.ResponseWriter, r *http.Request) {
	if s.archive == nil {
		jsonError(w, "text archive is not configured", http.StatusServiceUnavailable)
		return
	}
	u, err := scrape.ValidateURL(r.URL.Query().Get("url"))
	if err != nil {
		jsonError(w, msgInvalidURL, http.StatusBadRequest)
		return
	}
	limit, ok := listLimit(w, r, 1)
	if !ok {
		return
	}

	texts, err := s.archive.FullTexts(r.Context(), u.String(), limit)
	if err != nil {
		s.log.Error("read archive failed", "url", u.String(), "error", err)
		jsonError(w, "Failed to fetch archived text.", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(texts))
}

// listLimit parses the limit query parameter. It writes the error response
// and returns false when the value is invalid.
func listLimit(w http.ResponseWriter, r *http.Request, fallback int) (int, bool) {
	v := r.URL.Query().Get("limit")
	if v == "" {
		return fallback, true
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 || n > maxListLimit {
		jsonError(w, "limit must be between 1 and 100", http.StatusBadRequest)
		return 0, false
	}
	return n, true
}
