// Package auth logs the console in and out of the backend.
package auth

import (
	"context"
	"net/http"

	"github.com/pkg/errors"

	"github.com/trezcool/dormadmin/core"
	"github.com/trezcool/dormadmin/storage/session"
)

const (
	loginPath = "/api/auth/login"
	mePath    = "/api/auth/me"
)

var errNoToken = errors.New("login succeeded but no token was returned")

type Service struct {
	req      core.Requester
	store    session.Store
	validate *core.Validator
}

func NewService(req core.Requester, store session.Store, v *core.Validator) *Service {
	if v == nil {
		v = core.NewValidator()
	}
	return &Service{req: req, store: store, validate: v}
}

// Login exchanges credentials for a token and saves it as the current session.
func (svc *Service) Login(ctx context.Context, creds Credentials) (User, error) {
	if err := creds.Validate(svc.validate); err != nil {
		return User{}, err
	}

	env, err := svc.req.Do(ctx, core.Request{Method: http.MethodPost, Path: loginPath, Body: creds, SkipAuth: true})
	if err != nil {
		return User{}, err
	}

	var data, top loginResponse
	if err = env.Decode(&data); err != nil {
		return User{}, err
	}
	if err = env.DecodeRaw(&top); err != nil {
		return User{}, err
	}
	token := data.Token
	if token == "" {
		token = top.Token
	}
	if token == "" {
		return User{}, errNoToken
	}
	usr := data.User
	if usr.ID == "" {
		usr = top.User
	}

	sess := session.Session{Token: token, Username: usr.Username, Role: usr.Role}
	if claims, err := session.ParseClaims(token); err == nil {
		if sess.Username == "" {
			sess.Username = claims.Username
		}
		if sess.Role == "" {
			sess.Role = claims.Role
		}
	}
	if sess.Username == "" {
		sess.Username = creds.Username
	}
	if err = svc.store.Save(sess); err != nil {
		return User{}, errors.Wrap(err, "saving session")
	}
	return usr, nil
}

// Me returns the account of the current session.
func (svc *Service) Me(ctx context.Context) (User, error) {
	token, err := svc.store.Token()
	if err != nil {
		return User{}, errors.Wrap(err, "loading session")
	}
	if token == "" {
		return User{}, core.ErrUnauthorized
	}
	env, err := svc.req.Do(ctx, core.Request{Method: http.MethodGet, Path: mePath})
	if err != nil {
		return User{}, err
	}

	var wrapped struct {
		User User `json:"user"`
	}
	if err = env.Decode(&wrapped); err == nil && wrapped.User.ID != "" {
		return wrapped.User, nil
	}
	var usr User
	if err = env.Decode(&usr); err != nil {
		return User{}, err
	}
	return usr, nil
}

// Logout forgets the current session. The backend keeps no session state.
func (svc *Service) Logout() error {
	return svc.store.Clear()
}

// Current returns the stored session and its token claims.
// Opaque tokens yield empty claims.
func (svc *Service) Current() (session.Session, session.Claims, error) {
	sess, err := svc.store.Load()
	if err != nil {
		return sess, session.Claims{}, err
	}
	if sess.IsZero() {
		return sess, session.Claims{}, core.ErrUnauthorized
	}
	claims, err := session.ParseClaims(sess.Token)
	if err != nil {
		return sess, session.Claims{}, nil
	}
	return sess, claims, nil
}
