package tailoring

import (
	"strings"

	"github.com/jonathan/resume-tailor/internal/types"
)

// punctuation stripped from job description tokens.
const tokenCutset = ".,!?;:"

// fallbackCutset is the wider cutset used for fallback keyword matching.
const fallbackCutset = ".,!?;:/()[]{}"

// scoreBase rewards structural completeness independent of keyword overlap.
const scoreBase = 20

// CalculateScore derives the deterministic 0-100 ATS score. It is not
// model-derived: identical inputs always yield identical scores.
//
//	score = min(40, 3 * matched) + 40 * (found / totalLongJDWords) + 20
//
// where JD words are case-folded, punctuation-stripped tokens longer than 4
// characters, and a word counts as found when it is a substring of the
// lower-cased resume text.
func CalculateScore(resume *types.Resume, jobDescription string, matchedKeywords []string) int {
	resumeText := strings.ToLower(resume.PlainText())

	jdWords := make(map[string]struct{})
	for _, token := range strings.Fields(strings.ToLower(jobDescription)) {
		word := strings.Trim(token, tokenCutset)
		if len(word) > 4 {
			jdWords[word] = struct{}{}
		}
	}

	wordMatches := 0
	for word := range jdWords {
		if strings.Contains(resumeText, word) {
			wordMatches++
		}
	}

	keywordScore := len(matchedKeywords) * 3
	if keywordScore > 40 {
		keywordScore = 40
	}

	wordMatchScore := 0.0
	if len(jdWords) > 0 {
		wordMatchScore = float64(wordMatches) / float64(len(jdWords)) * 40
	}

	total := int(float64(keywordScore) + wordMatchScore + scoreBase)
	if total > 100 {
		total = 100
	}
	if total < 0 {
		total = 0
	}
	return total
}

// FallbackMatchKeywords computes matched keywords when the model did not
// supply any: a case-insensitive intersection between the resume's skills and
// job description tokens, preserving the resume's original skill ordering.
func FallbackMatchKeywords(resume *types.Resume, jobDescription string) []string {
	jdTokens := make(map[string]struct{})
	for _, token := range strings.Fields(jobDescription) {
		cleaned := strings.ToLower(strings.Trim(token, fallbackCutset))
		if len(cleaned) >= 2 {
			jdTokens[cleaned] = struct{}{}
		}
	}

	matched := make([]string, 0, len(resume.Skills))
	for _, skill := range resume.Skills {
		if _, ok := jdTokens[strings.ToLower(skill)]; ok {
			matched = append(matched, skill)
		}
	}
	return matched
}
