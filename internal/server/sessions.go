package server

import (
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/resume-tailor/internal/types"
)

// Session bookkeeping is best effort: persistence failures are logged and the
// request proceeds without a session.

func (s *Server) startSession(r *http.Request, req *TailorRequest) string {
	if s.store == nil {
		return ""
	}
	id, err := s.store.StartSession(r.Context(), &req.Resume, req.JobDescription)
	if err != nil {
		s.log.Warn("failed to record session", zap.Error(err))
		return ""
	}
	return id.String()
}

func (s *Server) completeSession(r *http.Request, sessionID string, result *types.TailorResult) {
	if s.store == nil || sessionID == "" {
		return
	}
	id, err := uuid.Parse(sessionID)
	if err != nil {
		return
	}
	if err := s.store.CompleteSession(r.Context(), id, result); err != nil {
		s.log.Warn("failed to complete session", zap.String("session_id", sessionID), zap.Error(err))
	}
}

func (s *Server) failSession(r *http.Request, sessionID string) {
	if s.store == nil || sessionID == "" {
		return
	}
	id, err := uuid.Parse(sessionID)
	if err != nil {
		return
	}
	if err := s.store.FailSession(r.Context(), id); err != nil {
		s.log.Warn("failed to mark session failed", zap.String("session_id", sessionID), zap.Error(err))
	}
}

func (s *Server) saveArtifact(r *http.Request, sessionID, kind, filename, contentType string, data []byte) {
	if s.store == nil || sessionID == "" {
		return
	}
	id, err := uuid.Parse(sessionID)
	if err != nil {
		s.log.Warn("invalid session id on generate request", zap.String("session_id", sessionID))
		return
	}
	if err := s.store.SaveArtifact(r.Context(), id, kind, filename, contentType, data); err != nil {
		s.log.Warn("failed to store artifact", zap.String("session_id", sessionID), zap.Error(err))
	}
}
