// Package http provides the JSON API server and its handlers.
//
// This file implements a small builder for JSON responses and the standard
// error bodies every handler shares.

package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"teachjournal/internal/core"
)

const (
	msgValidationFailed = "The given data was invalid."
	msgForbidden        = "Unauthorized access to journal entry."
	msgProfileMissing   = "Teacher profile not found."
	msgProfileSetup     = "Teacher profile not found. Please contact administrator."
	msgInternal         = "Something went wrong. Please try again later."
	msgBadRequest       = "Invalid request body."
	msgRateLimited      = "Rate limit exceeded. Please try again later."

	msgEntryCreated = "Journal entry created successfully."
	msgEntryUpdated = "Journal entry updated successfully."
	msgEntryDeleted = "Journal entry deleted successfully."
)

// Error codes carried in the "code" field of error bodies.
const (
	codeForbidden       = "forbidden"
	codeProfileNotFound = "profile_not_found"
	codeBadRequest      = "bad_request"
	codeInternal        = "internal_error"
	codeRateLimited     = "rate_limited"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type validationBody struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}

type messageBody struct {
	Message string `json:"message"`
}

type entryBody struct {
	Message string            `json:"message,omitempty"`
	Entry   core.JournalEntry `json:"entry"`
}

// JSONResponseBuilder provides a fluent API for building JSON responses.
type JSONResponseBuilder struct {
	statusCode int
	headers    map[string]string
	body       any
}

// NewJSONResponse creates a new response builder with default 200 status.
func NewJSONResponse() *JSONResponseBuilder {
	return &JSONResponseBuilder{
		statusCode: http.StatusOK,
		headers:    make(map[string]string),
	}
}

func (b *JSONResponseBuilder) Status(code int) *JSONResponseBuilder {
	b.statusCode = code
	return b
}

func (b *JSONResponseBuilder) Header(name, value string) *JSONResponseBuilder {
	b.headers[name] = value
	return b
}

// Body sets the value encoded as the response body.
func (b *JSONResponseBuilder) Body(v any) *JSONResponseBuilder {
	b.body = v
	return b
}

// Write sends the built response to the http.ResponseWriter.
func (b *JSONResponseBuilder) Write(w http.ResponseWriter) {
	for name, value := range b.headers {
		w.Header().Set(name, value)
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")

	if b.body == nil {
		w.WriteHeader(b.statusCode)
		return
	}
	payload, err := json.Marshal(b.body)
	if err != nil {
		slog.Error("Failed to encode response body", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"code":"internal_error","message":"` + msgInternal + `"}`))
		return
	}
	w.WriteHeader(b.statusCode)
	_, _ = w.Write(append(payload, '\n'))
}

// ErrorResponse creates a standard {"code","message"} error response.
func ErrorResponse(statusCode int, code, message string) *JSONResponseBuilder {
	return NewJSONResponse().
		Status(statusCode).
		Body(errorBody{Code: code, Message: message})
}

// ValidationErrorResponse lists one message per invalid field with 422.
func ValidationErrorResponse(ve *core.ValidationError) *JSONResponseBuilder {
	fields := ve.Fields
	if fields == nil {
		fields = map[string]string{}
	}
	return NewJSONResponse().
		Status(http.StatusUnprocessableEntity).
		Body(validationBody{Message: msgValidationFailed, Errors: fields})
}

// ForbiddenError is the single refusal for foreign and missing entries.
func ForbiddenError() *JSONResponseBuilder {
	return ErrorResponse(http.StatusForbidden, codeForbidden, msgForbidden)
}

func ProfileNotFoundError() *JSONResponseBuilder {
	return ErrorResponse(http.StatusForbidden, codeProfileNotFound, msgProfileMissing)
}

func BadRequestError(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusBadRequest, codeBadRequest, message)
}

func InternalServerError() *JSONResponseBuilder {
	return ErrorResponse(http.StatusInternalServerError, codeInternal, msgInternal)
}

func RateLimitedError() *JSONResponseBuilder {
	return ErrorResponse(http.StatusTooManyRequests, codeRateLimited, msgRateLimited).
		Header("Retry-After", "60")
}
