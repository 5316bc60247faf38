package server

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/jonathan/resume-builder/internal/types"
)

// maxClientLogBody caps how much of a telemetry report is read.
const maxClientLogBody = 64 << 10

// handleClientLog stores a browser error report. It always answers 204;
// a report that cannot be parsed or stored is logged and dropped.
func (s *Server) handleClientLog(w http.ResponseWriter, r *http.Request) {
	defer w.WriteHeader(http.StatusNoContent)

	var entry types.ClientLogEntry
	if err := json.NewDecoder(io.LimitReader(r.Body, maxClientLogBody)).Decode(&entry); err != nil {
		log.Printf("[client-log] dropped unreadable report: %v", err)
		return
	}
	if entry.UserAgent == "" {
		entry.UserAgent = r.UserAgent()
	}

	if s.db == nil {
		log.Printf("[client-log] %s", entry.Message)
		return
	}
	if _, err := s.db.InsertClientLog(r.Context(), entry); err != nil {
		log.Printf("[client-log] failed to store report: %v", err)
	}
}
