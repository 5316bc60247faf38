package server

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/jonathan/resume-builder/internal/types"
)

func (s *Server) handleGetLanguage(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		writeError(w, http.StatusInternalServerError, ErrDatabaseUnavailable.Error())
		return
	}

	language, err := s.db.GetLanguage(r.Context())
	if err != nil {
		log.Printf("[db] get language: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to load language")
		return
	}
	writeJSON(w, http.StatusOK, types.LanguageSetting{Language: language})
}

func (s *Server) handlePutLanguage(w http.ResponseWriter, r *http.Request) {
	var req types.LanguageSetting
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Language = strings.TrimSpace(req.Language)
	if err := s.validator.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	if s.db == nil {
		writeError(w, http.StatusInternalServerError, ErrDatabaseUnavailable.Error())
		return
	}
	if err := s.db.SetLanguage(r.Context(), req.Language); err != nil {
		log.Printf("[db] set language: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to save language")
		return
	}
	writeJSON(w, http.StatusOK, req)
}
