package llm

import "fmt"

// GatewayError indicates that all retries to the model were exhausted. It is
// terminal: callers see one failure signal, not one per attempt.
type GatewayError struct {
	Model    string
	Attempts int
	Cause    error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("model request failed after %d attempts (model %s): %v", e.Attempts, e.Model, e.Cause)
}

func (e *GatewayError) Unwrap() error {
	return e.Cause
}
