package server

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/jonathan/resume-builder/internal/types"
)

// handleGenerate proxies a prompt to the configured provider. It makes a
// single attempt; retrying is left to the caller.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if s.llm == nil {
		writeError(w, http.StatusInternalServerError, "AI service unavailable")
		return
	}

	var req types.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Prompt = strings.TrimSpace(req.Prompt)
	if err := s.validator.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "prompt is required")
		return
	}

	text, err := s.llm.GenerateText(r.Context(), req.Prompt, req.Model)
	if err != nil {
		log.Printf("[ai] generation failed (model=%q): %v", req.Model, err)
		writeError(w, http.StatusInternalServerError, "Failed to generate text")
		return
	}

	writeJSON(w, http.StatusOK, types.GenerateResponse{Text: text})
}
