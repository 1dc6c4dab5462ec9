package auth

import (
	"context"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/dormadmin/core"
	"github.com/trezcool/dormadmin/services/api"
	"github.com/trezcool/dormadmin/storage/session"
	"github.com/trezcool/dormadmin/tests"
)

type fixture struct {
	stub    *testutil.APIStub
	store   *session.MemStore
	svc     *Service
	logouts int
}

func setup(t *testing.T, token string) *fixture {
	f := &fixture{stub: testutil.NewAPIStub(t), store: session.NewMemStore(token)}
	client := api.NewClient(api.Options{
		BaseURL:  f.stub.URL(),
		Session:  f.store,
		OnLogout: func() { f.logouts++ },
	})
	f.svc = NewService(client, f.store, nil)
	return f
}

func TestService_Login(t *testing.T) {
	jwtToken := testutil.MintToken(t, session.Claims{Username: "manager1", Role: RoleManager})

	tests := []struct {
		name         string
		creds        Credentials
		body         interface{}
		code         int
		wantErr      string
		wantFields   map[string]string
		wantSession  session.Session
		wantUsername string
		wantSent     string
	}{
		{
			name:  "blank credentials",
			creds: Credentials{Username: " "},
			wantFields: map[string]string{
				"username": "this field cannot be blank",
				"password": "this field is required",
			},
		},
		{
			name:    "bad credentials",
			creds:   Credentials{Username: "admin", Password: "nope"},
			code:    http.StatusUnauthorized,
			body:    testutil.Fail("Invalid username or password"),
			wantErr: "api error 401: Invalid username or password",
		},
		{
			name:         "token in data",
			creds:        Credentials{Username: "Admin", Password: "secret"},
			code:         http.StatusOK,
			body:         testutil.Ok(echo.Map{"token": "opaque", "user": echo.Map{"_id": "u1", "username": "admin", "role": "admin"}}),
			wantSession:  session.Session{Token: "opaque", Username: "admin", Role: RoleAdmin},
			wantUsername: "admin",
		},
		{
			name:         "username sent as typed",
			creds:        Credentials{Username: " NguyenVanA ", Password: "secret"},
			code:         http.StatusOK,
			body:         testutil.Ok(echo.Map{"token": "opaque", "user": echo.Map{"_id": "u3", "username": "NguyenVanA", "role": "staff"}}),
			wantSession:  session.Session{Token: "opaque", Username: "NguyenVanA", Role: RoleStaff},
			wantUsername: "NguyenVanA",
			wantSent:     "NguyenVanA",
		},
		{
			name:        "top-level token",
			creds:       Credentials{Username: "manager1", Password: "secret"},
			code:        http.StatusOK,
			body:        echo.Map{"success": true, "token": jwtToken},
			wantSession: session.Session{Token: jwtToken, Username: "manager1", Role: RoleManager},
		},
		{
			name:    "no token",
			creds:   Credentials{Username: "admin", Password: "secret"},
			code:    http.StatusOK,
			body:    testutil.Ok(echo.Map{"user": echo.Map{"_id": "u1"}}),
			wantErr: errNoToken.Error(),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setup(t, "")
			f.stub.Reply(http.MethodPost, loginPath, tt.code, tt.body)

			usr, err := f.svc.Login(context.Background(), tt.creds)
			switch {
			case tt.wantFields != nil:
				vErr, ok := core.AsValidationError(err)
				require.True(t, ok, "want validation error, got %v", err)
				assert.Equal(t, tt.wantFields, vErr.FieldMap())
				assert.Equal(t, 0, f.stub.Count())
				return
			case tt.wantErr != "":
				assert.EqualError(t, err, tt.wantErr)
				assert.Equal(t, 0, f.logouts, "a failed login is not a logout")
				sess, _ := f.store.Load()
				assert.True(t, sess.IsZero())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantUsername, usr.Username)
			assert.Empty(t, f.stub.Last(t).Header.Get("Authorization"))
			if tt.wantSent != "" {
				var body map[string]string
				f.stub.Last(t).Decode(t, &body)
				assert.Equal(t, tt.wantSent, body["username"])
			}

			sess, _ := f.store.Load()
			sess.SavedAt = tt.wantSession.SavedAt
			assert.Equal(t, tt.wantSession, sess)
		})
	}
}

func TestService_Me(t *testing.T) {
	f := setup(t, "tok")
	f.stub.Reply(http.MethodGet, mePath, http.StatusOK, testutil.Success(echo.Map{"user": echo.Map{"_id": "u1", "username": "admin", "role": "admin"}}))

	usr, err := f.svc.Me(context.Background())
	require.NoError(t, err)
	assert.True(t, usr.IsAdmin())
	assert.Equal(t, "tok", f.stub.Last(t).Bearer())
}

func TestService_Me_flat(t *testing.T) {
	f := setup(t, "tok")
	f.stub.Reply(http.MethodGet, mePath, http.StatusOK, testutil.Ok(echo.Map{"_id": "u2", "username": "staff1", "role": "staff"}))

	usr, err := f.svc.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "staff1", usr.Username)
}

func TestService_Me_expiredSession(t *testing.T) {
	f := setup(t, "tok")
	f.stub.Reply(http.MethodGet, mePath, http.StatusUnauthorized, testutil.Fail("Token expired"))

	_, err := f.svc.Me(context.Background())
	assert.True(t, core.IsUnauthorized(err))
	assert.Equal(t, 1, f.logouts)

	// no session left: nothing is sent
	_, err = f.svc.Me(context.Background())
	assert.True(t, core.IsUnauthorized(err))
	assert.Equal(t, 1, f.stub.Count())
}

func TestService_LogoutCurrent(t *testing.T) {
	token := testutil.MintToken(t, session.Claims{UserID: "u1", Username: "admin", Role: RoleAdmin})
	f := setup(t, token)

	sess, claims, err := f.svc.Current()
	require.NoError(t, err)
	assert.Equal(t, token, sess.Token)
	assert.Equal(t, "u1", claims.Identity())
	assert.False(t, claims.Expired(session.NowFunc()))

	require.NoError(t, f.svc.Logout())
	_, _, err = f.svc.Current()
	assert.True(t, core.IsUnauthorized(err))
}

func TestService_Current_opaqueToken(t *testing.T) {
	f := setup(t, "opaque")
	sess, claims, err := f.svc.Current()
	require.NoError(t, err)
	assert.Equal(t, "opaque", sess.Token)
	assert.Equal(t, session.Claims{}, claims)
}
