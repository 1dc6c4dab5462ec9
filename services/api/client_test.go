package api_test

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync"
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
	client  *api.Client
	logouts int
}

func setup(t *testing.T, token string) *fixture {
	f := &fixture{stub: testutil.NewAPIStub(t), store: session.NewMemStore(token)}
	f.client = api.NewClient(api.Options{
		BaseURL:  f.stub.URL(),
		Session:  f.store,
		OnLogout: func() { f.logouts++ },
	})
	return f
}

func TestClient_Do_attachesToken(t *testing.T) {
	token := testutil.MintToken(t, session.Claims{Username: "admin"})
	f := setup(t, token)
	f.stub.Reply(http.MethodGet, "/api/buildings", http.StatusOK, testutil.Success([]echo.Map{}, 0))

	_, err := f.client.Do(context.Background(), core.Request{Method: http.MethodGet, Path: "/api/buildings"})
	require.NoError(t, err)
	assert.Equal(t, token, f.stub.Last(t).Bearer())
}

func TestClient_Do_skipAuth(t *testing.T) {
	f := setup(t, testutil.MintToken(t, session.Claims{Username: "admin"}))
	f.stub.Reply(http.MethodPost, "/api/auth/login", http.StatusOK, testutil.Ok(echo.Map{"token": "abc"}))

	_, err := f.client.Do(context.Background(), core.Request{Method: http.MethodPost, Path: "/api/auth/login", SkipAuth: true})
	require.NoError(t, err)
	assert.Empty(t, f.stub.Last(t).Header.Get("Authorization"))
}

func TestClient_Do_noSession(t *testing.T) {
	f := setup(t, "")
	f.stub.Reply(http.MethodGet, "/api/rooms", http.StatusOK, testutil.Success([]echo.Map{}, 0))

	_, err := f.client.Do(context.Background(), core.Request{Path: "/api/rooms"})
	require.NoError(t, err)
	assert.Empty(t, f.stub.Last(t).Header.Get("Authorization"))
}

func TestClient_Do_queryAndBody(t *testing.T) {
	f := setup(t, "opaque-token")
	f.stub.Reply(http.MethodPost, "/api/fees", http.StatusCreated, testutil.Ok(echo.Map{"_id": "f1"}))

	q := url.Values{"dryRun": {"true"}}
	env, err := f.client.Do(context.Background(), core.Request{
		Method: http.MethodPost,
		Path:   "/api/fees",
		Query:  q,
		Body:   map[string]interface{}{"name": "Water", "unitPrice": 15000},
	})
	require.NoError(t, err)

	var data struct {
		ID string `json:"_id"`
	}
	require.NoError(t, env.Decode(&data))
	assert.Equal(t, "f1", data.ID)

	rec := f.stub.Last(t)
	assert.Equal(t, "true", rec.Query.Get("dryRun"))
	assert.Equal(t, "opaque-token", rec.Bearer())
	testutil.JSONEqual(t, []byte(`{"name":"Water","unitPrice":15000}`), rec.Body)
}

func TestClient_Do_multipart(t *testing.T) {
	f := setup(t, "tok")
	f.stub.Reply(http.MethodPost, "/api/vehicles", http.StatusCreated, testutil.Ok(echo.Map{"_id": "v1"}))

	_, err := f.client.Do(context.Background(), core.Request{
		Method: http.MethodPost,
		Path:   "/api/vehicles",
		Form:   map[string]string{"licensePlate": "29A-12345"},
		Files:  []core.File{{Field: "image", Filename: "bike.png", Reader: strings.NewReader("png-bytes")}},
	})
	require.NoError(t, err)

	rec := f.stub.Last(t)
	assert.Equal(t, "29A-12345", rec.Form["licensePlate"])
	if assert.Contains(t, rec.Files, "image") {
		assert.Equal(t, "bike.png", rec.Files["image"].Filename)
		assert.Equal(t, "png-bytes", string(rec.Files["image"].Content))
	}
}

func TestClient_Do_errors(t *testing.T) {
	tests := []struct {
		name       string
		code       int
		body       interface{}
		skipAuth   bool
		wantLogout bool
		check      func(t *testing.T, err error)
	}{
		{
			name:       "401 logs out",
			code:       http.StatusUnauthorized,
			body:       testutil.Fail("jwt expired"),
			wantLogout: true,
			check: func(t *testing.T, err error) {
				assert.True(t, core.IsUnauthorized(err))
				assert.Contains(t, err.Error(), "jwt expired")
			},
		},
		{
			name:     "401 on login keeps session",
			code:     http.StatusUnauthorized,
			body:     testutil.Fail("Invalid credentials"),
			skipAuth: true,
			check: func(t *testing.T, err error) {
				assert.False(t, core.IsUnauthorized(err))
				apiErr, ok := core.AsAPIError(err)
				require.True(t, ok)
				assert.Equal(t, "Invalid credentials", apiErr.Message)
			},
		},
		{
			name: "400 with field errors",
			code: http.StatusBadRequest,
			body: testutil.Fail("Validation failed", map[string]string{"roomNumber": "Room number is required"}),
			check: func(t *testing.T, err error) {
				vErr, ok := core.AsValidationError(err)
				require.True(t, ok)
				assert.Equal(t, map[string]string{"roomNumber": "Room number is required"}, vErr.FieldMap())
				assert.Equal(t, "Validation failed", vErr.Error())
			},
		},
		{
			name: "422 with map errors",
			code: http.StatusUnprocessableEntity,
			body: `{"success":false,"errors":{"month":"invalid"}}`,
			check: func(t *testing.T, err error) {
				vErr, ok := core.AsValidationError(err)
				require.True(t, ok)
				assert.Equal(t, "invalid", vErr.FieldMap()["month"])
			},
		},
		{
			name: "400 without field errors",
			code: http.StatusBadRequest,
			body: testutil.Fail("Room is full"),
			check: func(t *testing.T, err error) {
				apiErr, ok := core.AsAPIError(err)
				require.True(t, ok)
				assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
				assert.Equal(t, "Room is full", apiErr.Message)
			},
		},
		{
			name: "404",
			code: http.StatusNotFound,
			body: `{"status":"fail","message":"No building found with that ID"}`,
			check: func(t *testing.T, err error) {
				assert.True(t, core.IsNotFound(err))
			},
		},
		{
			name: "500 without body",
			code: http.StatusInternalServerError,
			check: func(t *testing.T, err error) {
				apiErr, ok := core.AsAPIError(err)
				require.True(t, ok)
				assert.Equal(t, "Internal Server Error", apiErr.Message)
			},
		},
		{
			name: "200 with success false",
			code: http.StatusOK,
			body: testutil.Fail("Nothing to generate"),
			check: func(t *testing.T, err error) {
				apiErr, ok := core.AsAPIError(err)
				require.True(t, ok)
				assert.Equal(t, "Nothing to generate", apiErr.Message)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setup(t, "tok")
			f.stub.Reply(http.MethodPost, "/api/things", tt.code, tt.body)

			_, err := f.client.Do(context.Background(), core.Request{Method: http.MethodPost, Path: "/api/things", SkipAuth: tt.skipAuth})
			require.Error(t, err)
			tt.check(t, err)

			tok, _ := f.store.Token()
			if tt.wantLogout {
				assert.Equal(t, 1, f.logouts)
				assert.Empty(t, tok)
			} else {
				assert.Equal(t, 0, f.logouts)
				assert.Equal(t, "tok", tok)
			}
		})
	}
}

func TestClient_Do_expiredToken(t *testing.T) {
	f := setup(t, testutil.ExpiredToken(t, "admin"))
	f.stub.Reply(http.MethodGet, "/api/rooms", http.StatusOK, testutil.Success([]echo.Map{}, 0))

	_, err := f.client.Do(context.Background(), core.Request{Path: "/api/rooms"})
	assert.True(t, core.IsUnauthorized(err))
	assert.Equal(t, 1, f.logouts)
	assert.Equal(t, 0, f.stub.Count())
	tok, _ := f.store.Token()
	assert.Empty(t, tok)
}

func TestClient_Do_transportError(t *testing.T) {
	f := setup(t, "tok")
	f.stub.Server.Close()

	_, err := f.client.Do(context.Background(), core.Request{Path: "/api/rooms"})
	require.Error(t, err)
	assert.False(t, core.IsAPIFailure(err))
	assert.Contains(t, err.Error(), "GET /api/rooms")
}

func TestClient_Do_nonJSON(t *testing.T) {
	f := setup(t, "tok")
	f.stub.Handle(http.MethodGet, "/api/rooms", func(c echo.Context) error {
		return c.HTML(http.StatusOK, "<html></html>")
	})

	_, err := f.client.Do(context.Background(), core.Request{Path: "/api/rooms"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected response")
}

func TestClient_Do_noContent(t *testing.T) {
	f := setup(t, "tok")
	f.stub.Handle(http.MethodDelete, "/api/rooms/:id", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})

	env, err := f.client.Do(context.Background(), core.Request{Method: http.MethodDelete, Path: "/api/rooms/r1"})
	require.NoError(t, err)
	assert.False(t, env.HasData())
	assert.False(t, env.Failed())
}

func TestClient_Do_concurrentUnauthorized(t *testing.T) {
	f := setup(t, "tok")
	f.stub.Reply(http.MethodGet, "/api/rooms", http.StatusUnauthorized, testutil.Fail("Token expired"))

	const n = 5
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.client.Do(context.Background(), core.Request{Path: "/api/rooms"})
			assert.True(t, core.IsUnauthorized(err))
		}()
	}
	wg.Wait()

	// every rejected request logs out, one at a time
	assert.Equal(t, n, f.logouts)
	tok, _ := f.store.Token()
	assert.Empty(t, tok)
}
