// Package schemas validates reconciled resume documents against the resume
// JSON Schema. The schema ships embedded in the binary.
package schemas

import (
	"fmt"
	"strings"

	_ "embed"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed resume_schema.json
var resumeSchemaJSON string

// resumeSchema is compiled once at init; the schema is a build-time asset and
// a compile failure is a programming error.
var resumeSchema = gojsonschema.NewStringLoader(resumeSchemaJSON)

// ValidationError reports schema violations with field paths.
type ValidationError struct {
	Errors []FieldError
}

// FieldError is a single validation error at a specific field.
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("resume validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// ValidateResumeDocument validates a decoded resume document (as produced by
// the reconciliation merge) against the resume schema. Returns a
// *ValidationError listing every violation, or nil when the document is valid.
func ValidateResumeDocument(document map[string]any) error {
	result, err := gojsonschema.Validate(resumeSchema, gojsonschema.NewGoLoader(document))
	if err != nil {
		return fmt.Errorf("failed to run schema validation: %w", err)
	}

	if result.Valid() {
		return nil
	}

	ve := &ValidationError{}
	for _, desc := range result.Errors() {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   desc.Field(),
			Message: desc.Description(),
		})
	}
	return ve
}
