package tailoring

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/jonathan/resume-tailor/internal/types"
)

// MergeWithOriginal backfills the model's output with the original resume so
// the result is schema-complete. The model is asked to rewrite content, not
// to guarantee completeness; this stage guarantees the contract the rest of
// the system depends on.
//
// Backfill rules:
//   - personalInfo sub-fields are filled individually where the model
//     returned null or omitted them;
//   - experience and skills are restored wholesale when empty or missing —
//     they must never end up empty;
//   - education, projects and certifications are restored only when the
//     model returned null or dropped the key entirely; an explicit empty
//     list is honored as intentional removal. A section absent from both
//     inputs becomes an empty list so the document stays schema-complete;
//   - createdAt/updatedAt are restored when null.
//
// Neither input is mutated; the returned document is a fresh map.
func MergeWithOriginal(original *types.Resume, aiData map[string]any) (map[string]any, error) {
	orig, err := resumeToDocument(original)
	if err != nil {
		return nil, err
	}

	merged := make(map[string]any, len(aiData))
	for key, value := range aiData {
		merged[key] = value
	}

	if aiInfo, ok := merged["personalInfo"].(map[string]any); ok {
		info := make(map[string]any, len(aiInfo))
		for key, value := range aiInfo {
			info[key] = value
		}
		if origInfo, ok := orig["personalInfo"].(map[string]any); ok {
			for key, value := range origInfo {
				if info[key] == nil {
					info[key] = value
				}
			}
		}
		merged["personalInfo"] = info
	} else {
		merged["personalInfo"] = orig["personalInfo"]
	}

	if isEmptyValue(merged["experience"]) {
		merged["experience"] = orig["experience"]
	}
	if isEmptyValue(merged["skills"]) {
		merged["skills"] = orig["skills"]
	}

	for _, section := range []string{"education", "projects", "certifications"} {
		if merged[section] == nil {
			merged[section] = orig[section]
		}
		if merged[section] == nil {
			merged[section] = []any{}
		}
	}

	for _, ts := range []string{"createdAt", "updatedAt"} {
		if merged[ts] == nil && orig[ts] != nil {
			merged[ts] = orig[ts]
		}
	}

	return merged, nil
}

// IsUnchanged reports whether the tailored resume is structurally identical
// to the original: a full, order-sensitive, value-by-value comparison of the
// serialized documents. The comparison is literal — a paraphrase with
// different text is a change even when it carries no new information.
func IsUnchanged(original, tailored *types.Resume) bool {
	origJSON, err := json.Marshal(original)
	if err != nil {
		return false
	}
	tailoredJSON, err := json.Marshal(tailored)
	if err != nil {
		return false
	}
	return bytes.Equal(origJSON, tailoredJSON)
}

// resumeToDocument converts a resume to its raw JSON document form.
func resumeToDocument(r *types.Resume) (map[string]any, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize resume: %w", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode resume document: %w", err)
	}
	return doc, nil
}

// decodeResume converts a merged document back into the typed resume.
func decodeResume(document map[string]any) (*types.Resume, error) {
	data, err := json.Marshal(document)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize merged document: %w", err)
	}
	var resume types.Resume
	if err := json.Unmarshal(data, &resume); err != nil {
		return nil, fmt.Errorf("failed to decode merged resume: %w", err)
	}
	return &resume, nil
}

// isEmptyValue reports whether a JSON value is null, absent, or an empty
// list/map/string.
func isEmptyValue(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case []any:
		return len(v) == 0
	case map[string]any:
		return len(v) == 0
	case string:
		return v == ""
	default:
		return false
	}
}
