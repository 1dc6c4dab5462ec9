package core

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrUnauthorized = errors.New("session expired or not logged in")
	ErrNotFound     = errors.New("not found")
)

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"message"`
}

// ValidationError carries per-field errors, either computed locally before a request
// or returned by the backend in its `errors` collection.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err != nil {
		return err.Err.Error()
	}
	if len(err.Fields) > 0 {
		return "validation failed: " + err.Format("; ")
	}
	return "validation failed"
}

// FieldMap indexes the field errors by field name; the first message wins.
func (err ValidationError) FieldMap() map[string]string {
	m := make(map[string]string, len(err.Fields))
	for _, f := range err.Fields {
		if _, ok := m[f.Field]; !ok {
			m[f.Field] = f.Error
		}
	}
	return m
}

// Format renders one "field: message" entry per field error, sorted by field.
func (err ValidationError) Format(sep string) string {
	lines := make([]string, 0, len(err.Fields))
	for _, f := range err.Fields {
		if f.Field == "" {
			lines = append(lines, f.Error)
			continue
		}
		lines = append(lines, f.Field+": "+f.Error)
	}
	sort.SliceStable(lines, func(i, j int) bool { return lines[i] < lines[j] })
	return strings.Join(lines, sep)
}

// APIError is any non-validation failure reported by the backend.
type APIError struct {
	StatusCode int
	Message    string
}

func (err *APIError) Error() string {
	msg := err.Message
	if msg == "" {
		msg = http.StatusText(err.StatusCode)
	}
	if err.StatusCode == 0 {
		return msg
	}
	return fmt.Sprintf("api error %d: %s", err.StatusCode, msg)
}

func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// AsValidationError unwraps err into a *ValidationError if it is one.
func AsValidationError(err error) (*ValidationError, bool) {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr, true
	}
	return nil, false
}

// AsAPIError unwraps err into an *APIError if it is one.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsAPIFailure reports whether err was produced by the backend rather than the transport.
func IsAPIFailure(err error) bool {
	if IsUnauthorized(err) || IsNotFound(err) {
		return true
	}
	if _, ok := AsValidationError(err); ok {
		return true
	}
	_, ok := AsAPIError(err)
	return ok
}
