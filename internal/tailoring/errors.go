// Package tailoring reconciles model output with the original resume and
// orchestrates the tailoring pipeline.
package tailoring

import "fmt"

// ParseError indicates the model response stayed unparseable after repair and
// the one regeneration attempt. Terminal.
type ParseError struct {
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("parse error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("parse error: %s", e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// ReconciliationError indicates a schema-valid resume could not be
// constructed from the merged data, e.g. a required field's type is
// fundamentally wrong. Terminal, and distinct from a no-op response, which is
// not an error.
type ReconciliationError struct {
	Message string
	Cause   error
}

func (e *ReconciliationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("reconciliation error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("reconciliation error: %s", e.Message)
}

func (e *ReconciliationError) Unwrap() error {
	return e.Cause
}
