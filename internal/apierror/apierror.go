// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package so internal details
// (database errors, stack traces) never reach the operator's screen.
package apierror

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Campos obrigatórios ausentes ou inválidos", Fields: fields}
}

// ImportError is returned when a load-order import stops part-way through.
// Written counts the queue items persisted before the failure; they are kept.
type ImportError struct {
	Detail  string `json:"detail"`
	Written int    `json:"written"`
}

func NewImport(msg string, written int) *ImportError {
	return &ImportError{Detail: msg, Written: written}
}
