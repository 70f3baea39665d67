package api

import (
	"net/http"

	"github.com/dgallion1/blogsum/internal/translate"
)

func (s *Server) handleTranslationStats(w http.ResponseWriter, r *http.Request) {
	claude, ok := s.translator.(*translate.ClaudeTranslator)
	if !ok || claude.Stats == nil {
		jsonError(w, "translation stats unavailable", http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"translator": claude.Name(),
		"model":      claude.Model(),
		"stats":      claude.Stats.Snapshot(),
	})
}
