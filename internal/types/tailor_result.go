package types

// TailorResult is the output of one tailoring run. It is constructed once per
// successful orchestration call and not modified afterwards.
type TailorResult struct {
	TailoredResume  Resume   `json:"tailoredResume"`
	ATSScore        int      `json:"atsScore"`
	MatchedKeywords []string `json:"matchedKeywords"`
	MissingKeywords []string `json:"missingKeywords"`
	Suggestions     []string `json:"suggestions"`
	Changes         []string `json:"changes"`
}

// KeywordAnalysis is the structured output of standalone keyword extraction
// from a job description.
type KeywordAnalysis struct {
	TechnicalSkills        []string `json:"technical_skills"`
	SoftSkills             []string `json:"soft_skills"`
	Qualifications         []string `json:"qualifications"`
	ExperienceRequirements []string `json:"experience_requirements"`
	KeyResponsibilities    []string `json:"key_responsibilities"`
}
