package server

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/resume-tailor/internal/llm"
	"github.com/jonathan/resume-tailor/internal/rendering"
	"github.com/jonathan/resume-tailor/internal/tailoring"
)

// statusForError maps pipeline errors to HTTP status codes. Upstream model
// failures are bad-gateway, our own reconciliation failures are internal.
func statusForError(err error) int {
	var (
		gatewayErr   *llm.GatewayError
		parseErr     *tailoring.ParseError
		reconcileErr *tailoring.ReconciliationError
		templateErr  *rendering.TemplateError
		validateErrs validator.ValidationErrors
	)
	switch {
	case errors.As(err, &gatewayErr), errors.As(err, &parseErr):
		return http.StatusBadGateway
	case errors.As(err, &reconcileErr):
		return http.StatusInternalServerError
	case errors.As(err, &templateErr):
		return http.StatusBadRequest
	case errors.As(err, &validateErrs):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage returns the client-safe description of an error. Causes and
// model output stay in the logs.
func publicMessage(err error) string {
	var (
		gatewayErr  *llm.GatewayError
		parseErr    *tailoring.ParseError
		templateErr *rendering.TemplateError
	)
	switch {
	case errors.As(err, &gatewayErr):
		return "the AI service is unavailable, try again shortly"
	case errors.As(err, &parseErr):
		return "the AI service returned an unusable response, try again"
	case errors.As(err, &templateErr):
		return err.Error()
	default:
		return "resume tailoring failed"
	}
}
