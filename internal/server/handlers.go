package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/jonathan/resume-tailor/internal/artifacts"
	"github.com/jonathan/resume-tailor/internal/ingestion"
	"github.com/jonathan/resume-tailor/internal/rendering"
	"github.com/jonathan/resume-tailor/internal/types"
)

// TailorRequest is the request body for /api/tailor
type TailorRequest struct {
	Resume         types.Resume `json:"resume" validate:"required"`
	JobDescription string       `json:"jobDescription" validate:"required,min=50"`
}

// TailorResponse is the response body for /api/tailor
type TailorResponse struct {
	SessionID string             `json:"sessionId,omitempty"`
	Result    types.TailorResult `json:"result"`
}

// KeywordsRequest is the request body for /api/keywords
type KeywordsRequest struct {
	JobDescription string `json:"jobDescription" validate:"required,min=50"`
}

// GenerateRequest is the request body for the document generation endpoints
type GenerateRequest struct {
	Resume    types.Resume `json:"resume" validate:"required"`
	Template  string       `json:"template,omitempty"`
	SessionID string       `json:"sessionId,omitempty"`
}

// StatusResponse is the response body for /api/tailor/status
type StatusResponse struct {
	SessionID   string `json:"sessionId"`
	ResumeID    string `json:"resumeId"`
	Status      string `json:"status"`
	ATSScore    *int   `json:"atsScore,omitempty"`
	CreatedAt   string `json:"createdAt"`
	CompletedAt string `json:"completedAt,omitempty"`
}

// handleTailor runs the tailoring pipeline on the posted resume and job
// description.
func (s *Server) handleTailor(w http.ResponseWriter, r *http.Request) {
	var req TailorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	req.JobDescription = ingestion.CleanText(req.JobDescription)
	if err := s.validate.Struct(&req); err != nil {
		s.errorResponse(w, http.StatusUnprocessableEntity,
			fmt.Sprintf("job description must be at least %d characters and a resume is required",
				ingestion.MinJobDescriptionLength))
		return
	}

	sessionID := s.startSession(r, &req)

	result, err := s.tailorer.Tailor(r.Context(), &req.Resume, req.JobDescription)
	if err != nil {
		s.failSession(r, sessionID)
		s.log.Error("tailoring failed", zap.Error(err))
		s.errorResponse(w, statusForError(err), publicMessage(err))
		return
	}

	s.completeSession(r, sessionID, result)
	s.jsonResponse(w, http.StatusOK, TailorResponse{SessionID: sessionID, Result: *result})
}

// handleKeywords extracts structured keywords from a job description.
func (s *Server) handleKeywords(w http.ResponseWriter, r *http.Request) {
	var req KeywordsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	req.JobDescription = ingestion.CleanText(req.JobDescription)
	if err := s.validate.Struct(&req); err != nil {
		s.errorResponse(w, http.StatusUnprocessableEntity,
			fmt.Sprintf("job description must be at least %d characters", ingestion.MinJobDescriptionLength))
		return
	}

	analysis, err := s.tailorer.ExtractKeywords(r.Context(), req.JobDescription)
	if err != nil {
		s.log.Error("keyword extraction failed", zap.Error(err))
		s.errorResponse(w, statusForError(err), publicMessage(err))
		return
	}
	s.jsonResponse(w, http.StatusOK, analysis)
}

// handleGeneratePDF renders the posted resume to PDF
func (s *Server) handleGeneratePDF(w http.ResponseWriter, r *http.Request) {
	s.handleGenerate(w, r, rendering.FormatPDF)
}

// handleGenerateDOCX renders the posted resume to DOCX
func (s *Server) handleGenerateDOCX(w http.ResponseWriter, r *http.Request) {
	s.handleGenerate(w, r, rendering.FormatDOCX)
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request, format rendering.Format) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		s.errorResponse(w, http.StatusUnprocessableEntity, "a resume is required")
		return
	}

	data, err := rendering.Render(r.Context(), &req.Resume, format, req.Template)
	if err != nil {
		s.log.Error("rendering failed", zap.String("format", string(format)), zap.Error(err))
		s.errorResponse(w, statusForError(err), publicMessage(err))
		return
	}

	filename := artifacts.ArtifactFilename(req.Resume.PersonalInfo.Name, string(format))
	s.saveArtifact(r, req.SessionID, string(format), filename, format.ContentType(), data)

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		s.log.Warn("failed to write document response", zap.Error(err))
	}
}

// handleStatus reports service readiness, or the latest tailoring session
// when a resumeId is given.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	resumeID := r.URL.Query().Get("resumeId")
	if resumeID == "" {
		s.jsonResponse(w, http.StatusOK, map[string]any{
			"status":          "ready",
			"model":           s.model,
			"sessionsEnabled": s.store != nil,
		})
		return
	}
	if s.store == nil {
		s.errorResponse(w, http.StatusNotFound, "session persistence is not configured")
		return
	}

	session, err := s.store.LatestSession(r.Context(), resumeID)
	if err != nil {
		s.log.Error("session lookup failed", zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "failed to look up session")
		return
	}
	if session == nil {
		s.errorResponse(w, http.StatusNotFound, "no sessions for resume "+resumeID)
		return
	}

	resp := StatusResponse{
		SessionID: session.ID.String(),
		ResumeID:  session.ResumeID,
		Status:    session.Status,
		ATSScore:  session.ATSScore,
		CreatedAt: session.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if session.CompletedAt != nil {
		resp.CompletedAt = session.CompletedAt.Format("2006-01-02T15:04:05Z07:00")
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// handleTemplates lists the available resume templates
func (s *Server) handleTemplates(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"templates": rendering.TemplateNames(),
		"default":   rendering.DefaultTemplate,
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Warn("failed to encode response", zap.Error(err))
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}
