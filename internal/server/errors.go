package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}

// respondInternal hides the error behind a reference ID the client can
// quote; the detail goes to the log only.
func (s *Server) respondInternal(w http.ResponseWriter, context string, err error) {
	ref := uuid.New().String()
	s.logger.Error("internal error",
		zap.String("ref", ref),
		zap.String("context", context),
		zap.Error(err),
	)
	s.respondJSON(w, http.StatusInternalServerError, map[string]string{
		"error":     "internal error",
		"reference": ref,
	})
}
