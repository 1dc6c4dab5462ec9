// Package testutil fakes the dormitory backend for package tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"net/http/httptest"
	"net/url"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/dormadmin/storage/session"
)

var secretKey = []byte("secret")

type (
	// Recorded is a request as received by the stub.
	Recorded struct {
		Method string
		Path   string
		Query  url.Values
		Header http.Header
		Body   []byte
		Form   map[string]string
		Files  map[string]RecordedFile
	}

	RecordedFile struct {
		Filename string
		Content  []byte
	}

	// APIStub is an echo app served over httptest, standing in for the REST backend.
	APIStub struct {
		Echo   *echo.Echo
		Server *httptest.Server

		mu       sync.Mutex
		requests []Recorded
	}
)

func NewAPIStub(t *testing.T) *APIStub {
	stub := &APIStub{Echo: echo.New()}
	stub.Echo.HideBanner = true
	stub.Echo.HidePort = true
	stub.Echo.Logger.SetOutput(io.Discard)
	stub.Echo.Pre(stub.record)
	stub.Server = httptest.NewServer(stub.Echo)
	t.Cleanup(stub.Server.Close)
	return stub
}

func (s *APIStub) URL() string { return s.Server.URL }

// Handle registers a handler; path uses echo syntax (/api/rooms/:id).
func (s *APIStub) Handle(method, path string, h echo.HandlerFunc) {
	s.Echo.Add(method, path, h)
}

// Reply registers a handler always answering code with body.
func (s *APIStub) Reply(method, path string, code int, body interface{}) {
	s.Handle(method, path, func(c echo.Context) error {
		if body == nil {
			return c.NoContent(code)
		}
		if raw, ok := body.(string); ok {
			return c.Blob(code, echo.MIMEApplicationJSONCharsetUTF8, []byte(raw))
		}
		return c.JSON(code, body)
	})
}

func (s *APIStub) Requests() []Recorded {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Recorded(nil), s.requests...)
}

func (s *APIStub) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

// Last returns the last received request, failing the test if there is none.
func (s *APIStub) Last(t *testing.T) Recorded {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		t.Fatalf("APIStub.Last(): no request received")
	}
	return s.requests[len(s.requests)-1]
}

func (s *APIStub) record(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		body, _ := io.ReadAll(req.Body)
		_ = req.Body.Close()
		req.Body = io.NopCloser(bytes.NewReader(body))

		rec := Recorded{
			Method: req.Method,
			Path:   req.URL.Path,
			Query:  req.URL.Query(),
			Header: req.Header.Clone(),
			Body:   body,
		}
		if mt, _, _ := mime.ParseMediaType(req.Header.Get("Content-Type")); mt == "multipart/form-data" {
			rec.Form, rec.Files = parseMultipart(req, body)
		}

		s.mu.Lock()
		s.requests = append(s.requests, rec)
		s.mu.Unlock()
		return next(c)
	}
}

func parseMultipart(req *http.Request, body []byte) (map[string]string, map[string]RecordedFile) {
	clone := req.Clone(req.Context())
	clone.Body = io.NopCloser(bytes.NewReader(body))
	form := make(map[string]string)
	files := make(map[string]RecordedFile)
	if err := clone.ParseMultipartForm(32 << 20); err != nil {
		return form, files
	}
	for k, v := range clone.MultipartForm.Value {
		if len(v) > 0 {
			form[k] = v[0]
		}
	}
	for k, fhs := range clone.MultipartForm.File {
		if len(fhs) == 0 {
			continue
		}
		f, err := fhs[0].Open()
		if err != nil {
			continue
		}
		content, _ := io.ReadAll(f)
		_ = f.Close()
		files[k] = RecordedFile{Filename: fhs[0].Filename, Content: content}
	}
	return form, files
}

// Success wraps data in the {status, data, total, results} envelope.
func Success(data interface{}, total ...int) echo.Map {
	m := echo.Map{"status": "success", "data": data}
	if len(total) > 0 {
		m["total"] = total[0]
		if v := reflect.ValueOf(data); v.Kind() == reflect.Slice {
			m["results"] = v.Len()
		}
	}
	return m
}

// Ok wraps data in the {success, data, message} envelope.
func Ok(data interface{}, message ...string) echo.Map {
	m := echo.Map{"success": true, "data": data}
	if len(message) > 0 {
		m["message"] = message[0]
	}
	return m
}

// Fail builds a {success: false, message, errors} body.
func Fail(message string, fieldErrs ...map[string]string) echo.Map {
	m := echo.Map{"success": false, "message": message}
	if len(fieldErrs) > 0 {
		errs := make([]echo.Map, 0, len(fieldErrs[0]))
		for fld, msg := range fieldErrs[0] {
			errs = append(errs, echo.Map{"field": fld, "message": msg})
		}
		m["errors"] = errs
	}
	return m
}

// Bearer extracts the bearer token a request was sent with.
func (r Recorded) Bearer() string {
	return strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
}

// Decode unmarshals the recorded JSON body into out.
func (r Recorded) Decode(t *testing.T, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(r.Body, out); err != nil {
		t.Fatalf("Recorded.Decode() failed: %v (body %q)", err, r.Body)
	}
}

// MintToken signs a JWT for claims; exp defaults to one hour from now.
func MintToken(t *testing.T, claims session.Claims) string {
	t.Helper()
	if claims.ExpiresAt == 0 {
		claims.ExpiresAt = time.Now().Add(time.Hour).Unix()
	}
	if claims.IssuedAt == 0 {
		claims.IssuedAt = time.Now().Unix()
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secretKey)
	if err != nil {
		t.Fatalf("MintToken() failed: %v", err)
	}
	return token
}

// ExpiredToken signs a JWT that expired a minute ago.
func ExpiredToken(t *testing.T, username string) string {
	t.Helper()
	claims := session.Claims{Username: username}
	claims.ExpiresAt = time.Now().Add(-time.Minute).Unix()
	return MintToken(t, claims)
}

func MarshalObj(t *testing.T, obj interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("MarshalObj() failed: %v", err)
	}
	return data
}

// JSONEqual asserts that two JSON documents are semantically equal.
func JSONEqual(t *testing.T, want, got []byte) bool {
	t.Helper()
	var j1, j2 interface{}
	if err := json.Unmarshal(want, &j1); err != nil {
		t.Fatalf("JSONEqual(): bad want: %v", err)
	}
	if err := json.Unmarshal(got, &j2); err != nil {
		t.Fatalf("JSONEqual(): bad got: %v", err)
	}
	return assert.Equal(t, j1, j2)
}
