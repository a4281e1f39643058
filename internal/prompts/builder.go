package prompts

const tailoringFile = "tailoring.json"

// SystemInstruction returns the fixed system-level policy sent with every
// tailoring request: preserve facts, rephrase only, forbid fabrication.
func SystemInstruction() string {
	return MustGet(tailoringFile, "system_instruction")
}

// BuildTailoringPrompt constructs the tailoring instruction embedding the
// serialized resume and job description. When forced is true, a stricter
// directive is appended requiring visible edits to the summary, at least two
// experience bullets, and a skills reorder; used only on the no-op retry.
// The JSON-enforcement suffix is always appended last.
// Pure function of its inputs.
func BuildTailoringPrompt(resumeJSON, jobDescription string, forced bool) string {
	prompt := Format(MustGet(tailoringFile, "tailoring"), map[string]string{
		"ResumeJSON":     resumeJSON,
		"JobDescription": jobDescription,
	})

	if forced {
		prompt += MustGet(tailoringFile, "forced_requirements")
	}

	return prompt + MustGet(tailoringFile, "json_enforcement")
}

// BuildKeywordExtractionPrompt constructs the standalone keyword-extraction
// prompt for a job description.
func BuildKeywordExtractionPrompt(jobDescription string) string {
	prompt := Format(MustGet(tailoringFile, "keyword_extraction"), map[string]string{
		"JobDescription": jobDescription,
	})
	return prompt + MustGet(tailoringFile, "json_enforcement")
}

// AppendTruncationNotice extends a prompt with an explicit instruction to
// regenerate the full JSON after a truncated response.
func AppendTruncationNotice(prompt string) string {
	return prompt + MustGet(tailoringFile, "truncation_notice")
}
