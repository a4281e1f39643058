// Package repair turns possibly-malformed model output into well-formed JSON.
//
// Generative models are non-deterministic and frequently truncate output near
// a token limit, mid-string or mid-structure. A single strict parse would
// reject a large fraction of otherwise-salvageable responses, so parsing is
// layered: fence cleanup, strict parse, then structural repair on the raw
// string. The repair step is a pure function over strings, deliberately kept
// apart from any parsing-library internals.
package repair

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Status tags the outcome of a parse attempt.
type Status string

const (
	// StatusParsed means the cleaned text parsed directly.
	StatusParsed Status = "parsed"
	// StatusRepaired means parsing succeeded only after structural repair.
	StatusRepaired Status = "repaired"
	// StatusFailed means the text is unrecoverable at this layer; the caller
	// decides whether to request regeneration.
	StatusFailed Status = "failed"
)

// Outcome is the tagged result of parsing raw model output. Callers branch on
// Status rather than on a nil value.
type Outcome struct {
	Status Status
	Value  any
	Err    error
}

// Failed reports whether no JSON value could be recovered.
func (o Outcome) Failed() bool {
	return o.Status == StatusFailed
}

// Object returns the parsed value as a JSON object, or nil when the value is
// absent or not an object.
func (o Outcome) Object() map[string]any {
	obj, _ := o.Value.(map[string]any)
	return obj
}

// Parse applies cleanup, a strict parse, and structural repair in order,
// stopping as soon as one succeeds.
func Parse(raw string) Outcome {
	cleaned := CleanFences(raw)

	var value any
	if err := json.Unmarshal([]byte(cleaned), &value); err == nil {
		return Outcome{Status: StatusParsed, Value: value}
	}

	repaired := RepairText(cleaned)
	if err := json.Unmarshal([]byte(repaired), &value); err != nil {
		return Outcome{Status: StatusFailed, Err: err}
	}
	return Outcome{Status: StatusRepaired, Value: value}
}

// CleanFences strips a leading ```json or ``` fence and a trailing ``` fence,
// then trims whitespace. Models often wrap JSON in markdown fences even when
// instructed not to.
func CleanFences(text string) string {
	cleaned := strings.TrimSpace(text)
	if strings.HasPrefix(cleaned, "```json") {
		cleaned = cleaned[len("```json"):]
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = cleaned[len("```"):]
	}
	if strings.HasSuffix(cleaned, "```") {
		cleaned = cleaned[:len(cleaned)-len("```")]
	}
	return strings.TrimSpace(cleaned)
}

// trailingCommaRe matches a comma immediately preceding an object or array
// closer, a common artifact of truncated generations.
var trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)

// RepairText applies structural repair heuristics to text that failed a
// strict JSON parse:
//
//  1. an odd count of unescaped double quotes gets a closing quote appended
//     (the text was likely cut mid-string);
//  2. missing closing braces, then brackets, are appended to balance counts;
//  3. commas immediately before a } or ] are removed;
//  4. a dangling comma at the very end is dropped.
//
// The result is not guaranteed to parse; callers re-attempt a JSON parse.
func RepairText(text string) string {
	repaired := text

	if countUnescapedQuotes(repaired)%2 == 1 {
		repaired += `"`
	}

	openBraces := strings.Count(repaired, "{")
	closeBraces := strings.Count(repaired, "}")
	if openBraces > closeBraces {
		repaired += strings.Repeat("}", openBraces-closeBraces)
	}

	openBrackets := strings.Count(repaired, "[")
	closeBrackets := strings.Count(repaired, "]")
	if openBrackets > closeBrackets {
		repaired += strings.Repeat("]", openBrackets-closeBrackets)
	}

	repaired = trailingCommaRe.ReplaceAllString(repaired, "$1")

	trimmed := strings.TrimRight(repaired, " \t\r\n")
	if strings.HasSuffix(trimmed, ",") {
		repaired = trimmed[:len(trimmed)-1]
	}

	return repaired
}

// countUnescapedQuotes counts double quotes not preceded by an odd run of
// backslashes.
func countUnescapedQuotes(text string) int {
	count := 0
	backslashes := 0
	for _, r := range text {
		switch r {
		case '\\':
			backslashes++
			continue
		case '"':
			if backslashes%2 == 0 {
				count++
			}
		}
		backslashes = 0
	}
	return count
}
