package tailoring

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/jonathan/resume-tailor/internal/llm"
	"github.com/jonathan/resume-tailor/internal/prompts"
	"github.com/jonathan/resume-tailor/internal/repair"
	"github.com/jonathan/resume-tailor/internal/schemas"
	"github.com/jonathan/resume-tailor/internal/types"
)

// Service runs the tailoring pipeline. The gateway is injected so tests can
// substitute a fake model; the service itself holds no per-request state and
// is safe for concurrent use.
type Service struct {
	gateway *llm.Gateway
	log     *zap.Logger
}

// New creates a tailoring service around a model gateway.
func New(gateway *llm.Gateway, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{gateway: gateway, log: log}
}

// Tailor rewrites the resume for the job description and returns the result
// with a deterministic ATS score.
//
// The run is linear: build prompt, call model, parse (with one regeneration
// attempt when the response looked truncated), reconcile, one forced retry
// when the model returned a no-op, score, assemble. Terminal failure occurs
// only when the gateway exhausts retries on the initial call or parsing
// fails after the regeneration attempt; everything else degrades to a
// best-effort result. The caller's resume is never modified.
func (s *Service) Tailor(ctx context.Context, original *types.Resume, jobDescription string) (*types.TailorResult, error) {
	resumeJSON, err := json.MarshalIndent(original, "", "  ")
	if err != nil {
		return nil, &ReconciliationError{Message: "failed to serialize resume", Cause: err}
	}

	system := prompts.SystemInstruction()
	prompt := prompts.BuildTailoringPrompt(string(resumeJSON), jobDescription, false)

	s.log.Info("starting resume tailoring",
		zap.String("candidate", original.PersonalInfo.Name),
		zap.Int("job_description_length", len(jobDescription)),
	)

	resp, err := s.gateway.Request(ctx, prompt, system)
	if err != nil {
		return nil, err
	}

	outcome := repair.Parse(resp.Text)
	if outcome.Failed() && resp.Truncated {
		s.log.Warn("response appears truncated, requesting full regeneration")
		regenResp, regenErr := s.gateway.Request(ctx, prompts.AppendTruncationNotice(prompt), system)
		if regenErr == nil {
			outcome = repair.Parse(regenResp.Text)
		}
	}
	if outcome.Failed() {
		return nil, &ParseError{Message: "model response unparseable after repair", Cause: outcome.Err}
	}
	if outcome.Status == repair.StatusRepaired {
		s.log.Info("model response required structural repair")
	}

	payload := outcome.Object()
	if payload == nil {
		return nil, &ParseError{Message: "model response is not a JSON object"}
	}

	tailored, err := s.reconcile(original, payload)
	if err != nil {
		return nil, err
	}

	if IsUnchanged(original, tailored) {
		s.log.Warn("tailored resume matches original, retrying with strict change requirements")
		tailored, payload = s.forcedRetry(ctx, original, string(resumeJSON), jobDescription, system, tailored, payload)
	}

	matched := stringSlice(payload["matchedKeywords"])
	if len(matched) == 0 {
		matched = FallbackMatchKeywords(tailored, jobDescription)
	}

	score := CalculateScore(tailored, jobDescription, matched)

	result := &types.TailorResult{
		TailoredResume:  *tailored,
		ATSScore:        score,
		MatchedKeywords: matched,
		MissingKeywords: stringSlice(payload["missingKeywords"]),
		Suggestions:     stringSlice(payload["suggestions"]),
		Changes:         stringSlice(payload["changes"]),
	}

	s.log.Info("resume tailored",
		zap.Int("ats_score", result.ATSScore),
		zap.Int("matched_keywords", len(result.MatchedKeywords)),
		zap.Int("missing_keywords", len(result.MissingKeywords)),
	)

	return result, nil
}

// forcedRetry issues one additional model call with the strict-change
// directive. A retry that no-ops again, or fails at any stage, keeps the
// pre-retry result: a valid if unimproved resume beats no resume.
func (s *Service) forcedRetry(
	ctx context.Context,
	original *types.Resume,
	resumeJSON, jobDescription, system string,
	previous *types.Resume,
	previousPayload map[string]any,
) (*types.Resume, map[string]any) {
	retryPrompt := prompts.BuildTailoringPrompt(resumeJSON, jobDescription, true)
	resp, err := s.gateway.Request(ctx, retryPrompt, system)
	if err != nil {
		s.log.Warn("forced retry failed, keeping previous result", zap.Error(err))
		return previous, previousPayload
	}

	outcome := repair.Parse(resp.Text)
	if outcome.Failed() {
		s.log.Warn("forced retry response unparseable, keeping previous result", zap.Error(outcome.Err))
		return previous, previousPayload
	}
	payload := outcome.Object()
	if payload == nil {
		return previous, previousPayload
	}

	tailored, err := s.reconcile(original, payload)
	if err != nil {
		s.log.Warn("forced retry reconciliation failed, keeping previous result", zap.Error(err))
		return previous, previousPayload
	}
	if IsUnchanged(original, tailored) {
		s.log.Warn("forced retry still returned an unchanged resume")
		return previous, previousPayload
	}

	return tailored, payload
}

// reconcile merges the model's tailoredResume with the original, validates
// the merged document against the resume schema, and decodes it.
func (s *Service) reconcile(original *types.Resume, payload map[string]any) (*types.Resume, error) {
	data, ok := payload["tailoredResume"].(map[string]any)
	if !ok || len(data) == 0 {
		return nil, &ParseError{Message: "missing tailoredResume in model response"}
	}

	merged, err := MergeWithOriginal(original, data)
	if err != nil {
		return nil, &ReconciliationError{Message: "failed to merge model output", Cause: err}
	}

	if err := schemas.ValidateResumeDocument(merged); err != nil {
		return nil, &ReconciliationError{Message: "merged resume failed schema validation", Cause: err}
	}

	resume, err := decodeResume(merged)
	if err != nil {
		return nil, &ReconciliationError{Message: "failed to decode merged resume", Cause: err}
	}
	return resume, nil
}

// ExtractKeywords runs the standalone keyword-extraction prompt against the
// job description.
func (s *Service) ExtractKeywords(ctx context.Context, jobDescription string) (*types.KeywordAnalysis, error) {
	prompt := prompts.BuildKeywordExtractionPrompt(jobDescription)

	resp, err := s.gateway.Request(ctx, prompt, prompts.SystemInstruction())
	if err != nil {
		return nil, err
	}

	outcome := repair.Parse(resp.Text)
	if outcome.Failed() {
		return nil, &ParseError{Message: "keyword extraction response unparseable", Cause: outcome.Err}
	}

	data, err := json.Marshal(outcome.Value)
	if err != nil {
		return nil, &ParseError{Message: "failed to reserialize keyword analysis", Cause: err}
	}
	var analysis types.KeywordAnalysis
	if err := json.Unmarshal(data, &analysis); err != nil {
		return nil, &ParseError{Message: "keyword analysis has unexpected shape", Cause: err}
	}
	return &analysis, nil
}

// stringSlice converts a parsed JSON array to []string, skipping non-string
// elements. Returns an empty slice, never nil, so results serialize as [].
func stringSlice(value any) []string {
	items, ok := value.([]any)
	if !ok {
		return []string{}
	}
	result := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			result = append(result, s)
		}
	}
	return result
}
