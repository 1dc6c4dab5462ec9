package core

import (
	"context"
	"encoding/json"
	"io"
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

const (
	EnvelopeStatusSuccess = "success"
	EnvelopeStatusFail    = "fail"
	EnvelopeStatusError   = "error"
)

type (
	// Request describes one call to the REST backend.
	Request struct {
		Method   string
		Path     string // e.g. /api/buildings/42
		Query    url.Values
		Body     interface{}       // JSON body; ignored when Files are set
		Form     map[string]string // multipart fields, sent with Files
		Files    []File
		SkipAuth bool // never attach the session token (login)
	}

	// File is a multipart upload.
	File struct {
		Field    string
		Filename string
		Reader   io.Reader
	}

	// Requester is anything able to send a Request and unwrap the backend's envelope.
	Requester interface {
		Do(ctx context.Context, req Request) (*Envelope, error)
	}

	Pagination struct {
		Page       int `json:"page"`
		Limit      int `json:"limit"`
		Total      int `json:"total"`
		TotalPages int `json:"totalPages"`
	}

	// Envelope is the union of the two response shapes used by the backend:
	//   {status: "success", data, total, results}
	//   {success, data, message, errors}
	Envelope struct {
		Status     string          `json:"status"`
		Success    *bool           `json:"success"`
		Data       json.RawMessage `json:"data"`
		Total      *int            `json:"total"`
		Results    *int            `json:"results"`
		Message    string          `json:"message"`
		ErrorText  json.RawMessage `json:"error"`
		Errors     FieldErrors     `json:"errors"`
		Pagination *Pagination     `json:"pagination"`

		// Raw keeps the whole body for endpoints returning values outside `data`.
		Raw json.RawMessage `json:"-"`
	}
)

// ParseEnvelope decodes a response body. An empty body yields an empty envelope.
func ParseEnvelope(body []byte) (*Envelope, error) {
	env := &Envelope{}
	if len(strings.TrimSpace(string(body))) == 0 {
		return env, nil
	}
	if err := json.Unmarshal(body, env); err != nil {
		return nil, errors.Wrap(err, "decoding response envelope")
	}
	env.Raw = append(json.RawMessage(nil), body...)
	return env, nil
}

// Failed reports whether the envelope signals a failure despite a 2xx status.
func (env *Envelope) Failed() bool {
	if env.Success != nil && !*env.Success {
		return true
	}
	switch strings.ToLower(env.Status) {
	case EnvelopeStatusFail, EnvelopeStatusError:
		return true
	}
	return false
}

// Text is the envelope's human readable message: `message`, else `error`.
func (env *Envelope) Text() string {
	if env.Message != "" {
		return env.Message
	}
	if len(env.ErrorText) > 0 && string(env.ErrorText) != "null" {
		return rawMessage(env.ErrorText)
	}
	return ""
}

// Err converts a failed envelope into a *ValidationError or an *APIError.
func (env *Envelope) Err(statusCode int) error {
	msg := env.Text()
	if len(env.Errors) > 0 {
		var err error
		if msg != "" {
			err = errors.New(msg)
		}
		return NewValidationError(err, env.Errors...)
	}
	if msg == "" {
		msg = "request failed"
	}
	return &APIError{StatusCode: statusCode, Message: msg}
}

// HasData reports whether the envelope carries a non-null data member.
func (env *Envelope) HasData() bool {
	d := strings.TrimSpace(string(env.Data))
	return d != "" && d != "null"
}

// Decode unmarshals the data member into out. Absent or null data leaves out untouched.
func (env *Envelope) Decode(out interface{}) error {
	if !env.HasData() {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return errors.Wrap(err, "decoding response data")
	}
	return nil
}

// DecodeRaw unmarshals the whole response body into out.
func (env *Envelope) DecodeRaw(out interface{}) error {
	if len(env.Raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Raw, out); err != nil {
		return errors.Wrap(err, "decoding response")
	}
	return nil
}

// FieldErrors decodes the `errors` member. The backend sends it as a list of
// {field|path|param, message|msg} objects, a list of strings or a {field: message} object.
type FieldErrors []FieldError

func (fe *FieldErrors) UnmarshalJSON(b []byte) error {
	trimmed := strings.TrimSpace(string(b))
	if trimmed == "" || trimmed == "null" {
		*fe = nil
		return nil
	}

	if strings.HasPrefix(trimmed, "{") {
		var m map[string]json.RawMessage
		if err := json.Unmarshal(b, &m); err != nil {
			return err
		}
		out := make(FieldErrors, 0, len(m))
		for field, raw := range m {
			out = append(out, FieldError{Field: field, Error: rawMessage(raw)})
		}
		*fe = out
		return nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(b, &items); err != nil {
		// a single message string
		var s string
		if sErr := json.Unmarshal(b, &s); sErr == nil {
			*fe = FieldErrors{{Error: s}}
			return nil
		}
		return err
	}
	out := make(FieldErrors, 0, len(items))
	for _, raw := range items {
		var item struct {
			Field   string `json:"field"`
			Path    string `json:"path"`
			Param   string `json:"param"`
			Message string `json:"message"`
			Msg     string `json:"msg"`
		}
		if err := json.Unmarshal(raw, &item); err != nil {
			out = append(out, FieldError{Error: rawMessage(raw)})
			continue
		}
		fld := FieldError{Field: item.Field, Error: item.Message}
		if fld.Field == "" {
			fld.Field = item.Path
		}
		if fld.Field == "" {
			fld.Field = item.Param
		}
		if fld.Error == "" {
			fld.Error = item.Msg
		}
		out = append(out, fld)
	}
	*fe = out
	return nil
}

// rawMessage returns a JSON string's value, the first string of an array, or the raw text.
func rawMessage(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 {
		return list[0]
	}
	return strings.TrimSpace(string(raw))
}
