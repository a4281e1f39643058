package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_KnownKey(t *testing.T) {
	prompt, err := Get("tailoring.json", "system_instruction")
	require.NoError(t, err)
	assert.Contains(t, prompt, "NEVER invent or fabricate")
}

func TestGet_UnknownKey(t *testing.T) {
	_, err := Get("tailoring.json", "does_not_exist")
	assert.Error(t, err)
}

func TestGet_UnknownFile(t *testing.T) {
	_, err := Get("missing.json", "key")
	assert.Error(t, err)
}

func TestFormat(t *testing.T) {
	result := Format("Hello {{.Name}}, job: {{.Job}}", map[string]string{
		"Name": "John",
		"Job":  "engineer",
	})
	assert.Equal(t, "Hello John, job: engineer", result)
}

func TestBuildTailoringPrompt_EmbedsInputs(t *testing.T) {
	prompt := BuildTailoringPrompt(`{"id": "resume-1"}`, "Looking for a Go engineer", false)

	assert.Contains(t, prompt, `{"id": "resume-1"}`)
	assert.Contains(t, prompt, "Looking for a Go engineer")
	assert.NotContains(t, prompt, "STRICT REQUIREMENTS")
	// JSON enforcement suffix is always last.
	assert.True(t, strings.HasSuffix(strings.TrimSpace(prompt), "Start your response with { and end with }"))
}

func TestBuildTailoringPrompt_Forced(t *testing.T) {
	prompt := BuildTailoringPrompt("{}", "jd", true)

	assert.Contains(t, prompt, "STRICT REQUIREMENTS")
	assert.Contains(t, prompt, "Rewrite the professional summary")
	assert.Contains(t, prompt, "at least 2 bullet points")
	// Enforcement suffix still follows the forced directive.
	forcedIdx := strings.Index(prompt, "STRICT REQUIREMENTS")
	enforcementIdx := strings.Index(prompt, "CRITICAL: Your response must be ONLY a valid JSON object")
	assert.Greater(t, enforcementIdx, forcedIdx)
}

func TestBuildTailoringPrompt_Pure(t *testing.T) {
	a := BuildTailoringPrompt("{}", "jd", false)
	b := BuildTailoringPrompt("{}", "jd", false)
	assert.Equal(t, a, b)
}

func TestBuildKeywordExtractionPrompt(t *testing.T) {
	prompt := BuildKeywordExtractionPrompt("Senior Go developer with Kubernetes")

	assert.Contains(t, prompt, "Senior Go developer with Kubernetes")
	assert.Contains(t, prompt, "technical_skills")
	assert.Contains(t, prompt, "ONLY a valid JSON object")
}

func TestAppendTruncationNotice(t *testing.T) {
	prompt := AppendTruncationNotice("base prompt")
	assert.True(t, strings.HasPrefix(prompt, "base prompt"))
	assert.Contains(t, prompt, "previous response was truncated")
}
