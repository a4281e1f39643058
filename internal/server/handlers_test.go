package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-tailor/internal/llm"
	"github.com/jonathan/resume-tailor/internal/tailoring"
	"github.com/jonathan/resume-tailor/internal/types"
)

type fakeTailorer struct {
	result   *types.TailorResult
	analysis *types.KeywordAnalysis
	err      error
	gotJD    string
}

func (f *fakeTailorer) Tailor(_ context.Context, original *types.Resume, jd string) (*types.TailorResult, error) {
	f.gotJD = jd
	if f.err != nil {
		return nil, f.err
	}
	if f.result != nil {
		return f.result, nil
	}
	clone, err := original.Clone()
	if err != nil {
		return nil, err
	}
	return &types.TailorResult{
		TailoredResume:  *clone,
		ATSScore:        73,
		MatchedKeywords: []string{"Go"},
		MissingKeywords: []string{},
		Suggestions:     []string{},
		Changes:         []string{},
	}, nil
}

func (f *fakeTailorer) ExtractKeywords(_ context.Context, jd string) (*types.KeywordAnalysis, error) {
	f.gotJD = jd
	if f.err != nil {
		return nil, f.err
	}
	if f.analysis != nil {
		return f.analysis, nil
	}
	return &types.KeywordAnalysis{TechnicalSkills: []string{"Go"}}, nil
}

const serverTestJD = "We are hiring a senior backend engineer to build Go services, " +
	"own PostgreSQL schemas, and run workloads on Kubernetes."

func serverTestResume() types.Resume {
	return types.Resume{
		ID: "resume-1",
		PersonalInfo: types.PersonalInfo{
			Name:  "Jane Smith",
			Email: "jane@example.com",
		},
		Experience: []types.Experience{
			{Company: "Acme", Position: "Engineer", StartDate: "2020-01", Description: []string{"Built APIs"}},
		},
		Skills: types.SkillList{"Go", "PostgreSQL"},
	}
}

func newTestServer(t *testing.T, tailorer Tailorer) *Server {
	t.Helper()
	s := New(Config{Port: 0, Model: "gemini-2.5-flash"}, tailorer, nil, nil)
	t.Cleanup(s.rateLimiter.Stop)
	return s
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.RemoteAddr = "10.0.0.1:55000"
	rec := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, req)
	return rec
}

func TestHandleTailor(t *testing.T) {
	fake := &fakeTailorer{}
	s := newTestServer(t, fake)

	rec := doJSON(t, s, http.MethodPost, "/api/tailor", TailorRequest{
		Resume:         serverTestResume(),
		JobDescription: serverTestJD,
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var resp TailorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 73, resp.Result.ATSScore)
	assert.Equal(t, []string{"Go"}, resp.Result.MatchedKeywords)
	assert.Empty(t, resp.SessionID)
	assert.Equal(t, serverTestJD, fake.gotJD)
}

func TestHandleTailor_ShortJobDescription(t *testing.T) {
	s := newTestServer(t, &fakeTailorer{})

	rec := doJSON(t, s, http.MethodPost, "/api/tailor", TailorRequest{
		Resume:         serverTestResume(),
		JobDescription: "too short",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "at least 50 characters")
}

func TestHandleTailor_WhitespacePaddingDoesNotCount(t *testing.T) {
	s := newTestServer(t, &fakeTailorer{})

	rec := doJSON(t, s, http.MethodPost, "/api/tailor", TailorRequest{
		Resume:         serverTestResume(),
		JobDescription: "short" + strings.Repeat(" ", 100),
	})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestHandleTailor_InvalidBody(t *testing.T) {
	s := newTestServer(t, &fakeTailorer{})

	req := httptest.NewRequest(http.MethodPost, "/api/tailor", strings.NewReader("{not json"))
	req.RemoteAddr = "10.0.0.1:55000"
	rec := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleTailor_GatewayErrorIsBadGateway(t *testing.T) {
	fake := &fakeTailorer{err: &llm.GatewayError{Model: "gemini-2.5-flash", Attempts: 3, Cause: fmt.Errorf("quota")}}
	s := newTestServer(t, fake)

	rec := doJSON(t, s, http.MethodPost, "/api/tailor", TailorRequest{
		Resume:         serverTestResume(),
		JobDescription: serverTestJD,
	})

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	// Internal detail stays out of the response body.
	assert.NotContains(t, rec.Body.String(), "quota")
}

func TestHandleTailor_ParseErrorIsBadGateway(t *testing.T) {
	fake := &fakeTailorer{err: &tailoring.ParseError{Message: "model returned unparseable JSON"}}
	s := newTestServer(t, fake)

	rec := doJSON(t, s, http.MethodPost, "/api/tailor", TailorRequest{
		Resume:         serverTestResume(),
		JobDescription: serverTestJD,
	})

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestHandleTailor_ReconciliationErrorIsInternal(t *testing.T) {
	fake := &fakeTailorer{err: &tailoring.ReconciliationError{Message: "schema validation failed"}}
	s := newTestServer(t, fake)

	rec := doJSON(t, s, http.MethodPost, "/api/tailor", TailorRequest{
		Resume:         serverTestResume(),
		JobDescription: serverTestJD,
	})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "schema")
}

func TestHandleKeywords(t *testing.T) {
	s := newTestServer(t, &fakeTailorer{})

	rec := doJSON(t, s, http.MethodPost, "/api/keywords", KeywordsRequest{JobDescription: serverTestJD})
	require.Equal(t, http.StatusOK, rec.Code)

	var analysis types.KeywordAnalysis
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &analysis))
	assert.Equal(t, []string{"Go"}, analysis.TechnicalSkills)
}

func TestHandleGenerateDOCX(t *testing.T) {
	s := newTestServer(t, &fakeTailorer{})

	rec := doJSON(t, s, http.MethodPost, "/api/generate-docx", GenerateRequest{Resume: serverTestResume()})
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t,
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		rec.Header().Get("Content-Type"))
	disposition := rec.Header().Get("Content-Disposition")
	assert.Contains(t, disposition, "attachment")
	assert.Contains(t, disposition, "Jane_Smith_Resume_")
	assert.Contains(t, disposition, ".docx")
	// Zip magic.
	assert.Equal(t, "PK", rec.Body.String()[:2])
}

func TestHandleGenerate_UnknownTemplate(t *testing.T) {
	s := newTestServer(t, &fakeTailorer{})

	rec := doJSON(t, s, http.MethodPost, "/api/generate-pdf", GenerateRequest{
		Resume:   serverTestResume(),
		Template: "parchment",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "parchment")
}

func TestHandleStatus_NoStore(t *testing.T) {
	s := newTestServer(t, &fakeTailorer{})

	rec := doJSON(t, s, http.MethodGet, "/api/tailor/status?resumeId=resume-1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleStatus_Readiness(t *testing.T) {
	s := newTestServer(t, &fakeTailorer{})

	rec := doJSON(t, s, http.MethodGet, "/api/tailor/status", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Status          string `json:"status"`
		Model           string `json:"model"`
		SessionsEnabled bool   `json:"sessionsEnabled"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ready", resp.Status)
	assert.Equal(t, "gemini-2.5-flash", resp.Model)
	assert.False(t, resp.SessionsEnabled)
}

func TestHandleTemplates(t *testing.T) {
	s := newTestServer(t, &fakeTailorer{})

	rec := doJSON(t, s, http.MethodGet, "/api/templates", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Templates []string `json:"templates"`
		Default   string   `json:"default"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Templates, "modern")
	assert.Equal(t, "modern", resp.Default)
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(t, &fakeTailorer{})

	rec := doJSON(t, s, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, &fakeTailorer{})

	rec := doJSON(t, s, http.MethodOptions, "/api/tailor", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimitHeadersPresent(t *testing.T) {
	s := newTestServer(t, &fakeTailorer{})

	rec := doJSON(t, s, http.MethodPost, "/api/tailor", TailorRequest{
		Resume:         serverTestResume(),
		JobDescription: serverTestJD,
	})
	assert.NotEmpty(t, rec.Header().Get("X-RateLimit-Limit"))
	assert.NotEmpty(t, rec.Header().Get("X-RateLimit-Remaining"))
}

func TestRateLimitExceeded(t *testing.T) {
	s := newTestServer(t, &fakeTailorer{})

	var last *httptest.ResponseRecorder
	for i := 0; i < 6; i++ {
		last = doJSON(t, s, http.MethodPost, "/api/tailor", TailorRequest{
			Resume:         serverTestResume(),
			JobDescription: serverTestJD,
		})
	}
	assert.Equal(t, http.StatusTooManyRequests, last.Code)
	assert.NotEmpty(t, last.Header().Get("Retry-After"))
}
