// Package api is the one configured HTTP client every resource service goes through.
// It injects the session token into outgoing requests and normalizes failed responses
// into core errors, logging the session out on 401.
package api

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"

	"github.com/trezcool/dormadmin/core"
	"github.com/trezcool/dormadmin/storage/session"
)

type (
	Options struct {
		BaseURL   string
		Timeout   time.Duration
		UserAgent string
		Session   session.Store
		Logger    core.Logger

		// OnLogout is called after the session has been cleared because the
		// backend rejected the token (or the token expired locally).
		OnLogout func()

		// Debug dumps request and response details through Logger.
		Debug bool

		// Transport overrides the HTTP transport (tests).
		Transport http.RoundTripper
	}

	Client struct {
		opts Options
		rest *resty.Client

		logoutMu sync.Mutex
	}

	skipAuthKey struct{}
)

var _ core.Requester = (*Client)(nil)

func NewClient(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "dormadmin"
	}

	c := &Client{opts: opts}
	c.rest = resty.New().
		SetBaseURL(strings.TrimSuffix(opts.BaseURL, "/")).
		SetTimeout(opts.Timeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", opts.UserAgent).
		SetLogger(restyLogger{opts.Logger}).
		OnBeforeRequest(c.attachToken).
		OnAfterResponse(c.normalizeResponse)
	if opts.Debug && opts.Logger != nil {
		c.rest.SetDebug(true)
	}
	if opts.Transport != nil {
		c.rest.SetTransport(opts.Transport)
	}
	return c
}

// Do sends req and returns the unwrapped envelope of a successful response.
func (c *Client) Do(ctx context.Context, req core.Request) (*core.Envelope, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if req.SkipAuth {
		ctx = context.WithValue(ctx, skipAuthKey{}, true)
	}
	if req.Method == "" {
		req.Method = http.MethodGet
	}

	r := c.rest.R().SetContext(ctx)
	if len(req.Query) > 0 {
		r.SetQueryParamsFromValues(req.Query)
	}
	switch {
	case len(req.Files) > 0:
		if len(req.Form) > 0 {
			r.SetFormData(req.Form)
		}
		for _, f := range req.Files {
			r.SetFileReader(f.Field, f.Filename, f.Reader)
		}
	case req.Body != nil:
		r.SetHeader("Content-Type", "application/json").SetBody(req.Body)
	}

	start := time.Now()
	resp, err := r.Execute(req.Method, req.Path)
	if err != nil {
		if core.IsAPIFailure(err) {
			return nil, err
		}
		return nil, errors.Wrapf(err, "%s %s", req.Method, req.Path)
	}
	c.debug("%s %s -> %d (%s)", req.Method, req.Path, resp.StatusCode(), time.Since(start).Round(time.Millisecond))

	env, err := core.ParseEnvelope(resp.Body())
	if err != nil {
		return nil, errors.Wrapf(err, "%s %s: unexpected response (%s)", req.Method, req.Path, resp.Header().Get("Content-Type"))
	}
	if env.Failed() {
		err = env.Err(resp.StatusCode())
		c.warn(req.Method, req.Path, err)
		return nil, err
	}
	return env, nil
}

// attachToken is the outgoing interceptor: it sets the bearer token of the current session.
func (c *Client) attachToken(_ *resty.Client, r *resty.Request) error {
	if skipAuth(r.Context()) || c.opts.Session == nil {
		return nil
	}
	token, err := c.opts.Session.Token()
	if err != nil {
		return errors.Wrap(err, "loading session")
	}
	if token == "" {
		return nil
	}
	if session.TokenExpired(token) {
		c.logout()
		return errors.Wrap(core.ErrUnauthorized, "token expired")
	}
	r.SetHeader("Authorization", "Bearer "+token)
	return nil
}

// normalizeResponse is the incoming interceptor: it turns error responses into core errors.
func (c *Client) normalizeResponse(_ *resty.Client, resp *resty.Response) error {
	if !resp.IsError() {
		return nil
	}
	err := c.responseError(resp)
	c.warn(resp.Request.Method, resp.Request.URL, err)
	return err
}

func (c *Client) responseError(resp *resty.Response) error {
	code := resp.StatusCode()
	env, parseErr := core.ParseEnvelope(resp.Body())
	if parseErr != nil {
		env = &core.Envelope{}
	}
	msg := env.Text()

	switch {
	case code == http.StatusUnauthorized:
		if skipAuth(resp.Request.Context()) {
			// bad credentials on login: not a session problem
			if msg == "" {
				msg = "invalid credentials"
			}
			return &core.APIError{StatusCode: code, Message: msg}
		}
		c.logout()
		if msg == "" {
			return errors.WithStack(core.ErrUnauthorized)
		}
		return errors.Wrap(core.ErrUnauthorized, msg)

	case (code == http.StatusBadRequest || code == http.StatusUnprocessableEntity) && len(env.Errors) > 0:
		return env.Err(code)

	case code == http.StatusNotFound:
		if msg == "" {
			return errors.WithStack(core.ErrNotFound)
		}
		return errors.Wrap(core.ErrNotFound, msg)
	}

	if msg == "" {
		msg = http.StatusText(code)
	}
	return &core.APIError{StatusCode: code, Message: msg}
}

// logout clears the session and notifies the application, once per failing request.
func (c *Client) logout() {
	c.logoutMu.Lock()
	defer c.logoutMu.Unlock()

	if c.opts.Session != nil {
		if err := c.opts.Session.Clear(); err != nil && c.opts.Logger != nil {
			c.opts.Logger.Error("clearing session", err)
		}
	}
	if c.opts.OnLogout != nil {
		c.opts.OnLogout()
	}
}

func (c *Client) debug(format string, args ...interface{}) {
	if c.opts.Logger != nil {
		c.opts.Logger.Debug(sprintf(format, args...))
	}
}

func (c *Client) warn(method, path string, err error) {
	if c.opts.Logger != nil && err != nil {
		c.opts.Logger.Warn(sprintf("%s %s failed: %v", method, path, err))
	}
}

func skipAuth(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	skip, _ := ctx.Value(skipAuthKey{}).(bool)
	return skip
}
