package core

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnvelope(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantFailed bool
		wantText   string
		wantFields []FieldError
	}{
		{name: "empty body", body: "  "},
		{name: "status success", body: `{"status":"success","data":[],"total":0,"results":0}`},
		{name: "success true", body: `{"success":true,"data":{"_id":"1"},"message":"created"}`, wantText: "created"},
		{name: "success false", body: `{"success":false,"message":"Room is full"}`, wantFailed: true, wantText: "Room is full"},
		{name: "status fail", body: `{"status":"fail","error":"bad month"}`, wantFailed: true, wantText: "bad month"},
		{name: "status error, error list", body: `{"status":"error","error":["first","second"]}`, wantFailed: true, wantText: "first"},
		{
			name:       "errors list",
			body:       `{"success":false,"message":"Validation failed","errors":[{"field":"month","message":"Month is required"},{"path":"year","msg":"Invalid year"},{"param":"room","msg":"Invalid room"}]}`,
			wantFailed: true,
			wantText:   "Validation failed",
			wantFields: []FieldError{{"month", "Month is required"}, {"year", "Invalid year"}, {"room", "Invalid room"}},
		},
		{
			name:       "errors strings",
			body:       `{"success":false,"errors":["Room is full"]}`,
			wantFailed: true,
			wantFields: []FieldError{{"", "Room is full"}},
		},
		{
			name:       "errors object",
			body:       `{"status":"fail","errors":{"licensePlate":"License plate already registered"}}`,
			wantFailed: true,
			wantFields: []FieldError{{"licensePlate", "License plate already registered"}},
		},
		{
			name:       "errors string",
			body:       `{"success":false,"errors":"Nothing to generate"}`,
			wantFailed: true,
			wantFields: []FieldError{{"", "Nothing to generate"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, err := ParseEnvelope([]byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.wantFailed, env.Failed())
			assert.Equal(t, tt.wantText, env.Text())
			assert.Equal(t, tt.wantFields, []FieldError(env.Errors))
		})
	}
}

func TestParseEnvelope_notJSON(t *testing.T) {
	_, err := ParseEnvelope([]byte("<html>Bad Gateway</html>"))
	assert.Error(t, err)
}

func TestEnvelope_Err(t *testing.T) {
	env, _ := ParseEnvelope([]byte(`{"success":false,"message":"Validation failed","errors":[{"field":"month","message":"Month is required"}]}`))
	vErr, ok := AsValidationError(env.Err(400))
	require.True(t, ok)
	assert.Equal(t, "Validation failed", vErr.Error())
	assert.Equal(t, map[string]string{"month": "Month is required"}, vErr.FieldMap())

	env, _ = ParseEnvelope([]byte(`{"success":false}`))
	apiErr, ok := AsAPIError(env.Err(200))
	require.True(t, ok)
	assert.Equal(t, "api error 200: request failed", apiErr.Error())
}

func TestEnvelope_Decode(t *testing.T) {
	env, _ := ParseEnvelope([]byte(`{"success":true,"data":null,"paymentUrl":"https://pay"}`))
	assert.False(t, env.HasData())

	obj := struct{ ID string }{ID: "untouched"}
	require.NoError(t, env.Decode(&obj))
	assert.Equal(t, "untouched", obj.ID)

	var top struct {
		PaymentURL string `json:"paymentUrl"`
	}
	require.NoError(t, env.DecodeRaw(&top))
	assert.Equal(t, "https://pay", top.PaymentURL)

	env, _ = ParseEnvelope([]byte(`{"success":true,"data":"oops"}`))
	assert.Error(t, env.Decode(&obj))
}

func TestDecodePage(t *testing.T) {
	type item struct {
		ID string `json:"_id"`
	}
	query := url.Values{"page": {"2"}, "limit": {"2"}}

	tests := []struct {
		name      string
		body      string
		query     url.Values
		wantPage  int
		wantLimit int
		wantTotal int
		wantPages int
		wantNext  bool
	}{
		{
			name:  "total & results",
			body:  `{"status":"success","data":[{"_id":"a"},{"_id":"b"}],"total":5,"results":2}`,
			query: query, wantPage: 2, wantLimit: 2, wantTotal: 5, wantPages: 3, wantNext: true,
		},
		{
			name:  "pagination member",
			body:  `{"success":true,"data":[{"_id":"a"},{"_id":"b"}],"pagination":{"page":3,"limit":2,"total":6,"totalPages":3}}`,
			query: query, wantPage: 3, wantLimit: 2, wantTotal: 6, wantPages: 3,
		},
		{
			name:  "bare list",
			body:  `{"success":true,"data":[{"_id":"a"},{"_id":"b"}]}`,
			query: nil, wantPage: 1, wantTotal: 2, wantPages: 1,
		},
		{
			name:  "bare full page",
			body:  `{"success":true,"data":[{"_id":"a"},{"_id":"b"}]}`,
			query: query, wantPage: 2, wantLimit: 2, wantTotal: 2, wantPages: 1, wantNext: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, err := ParseEnvelope([]byte(tt.body))
			require.NoError(t, err)
			page, err := DecodePage[item](env, tt.query)
			require.NoError(t, err)
			assert.Equal(t, []item{{"a"}, {"b"}}, page.Items)
			assert.Equal(t, 2, page.Results)
			assert.Equal(t, tt.wantPage, page.Page)
			assert.Equal(t, tt.wantLimit, page.Limit)
			assert.Equal(t, tt.wantTotal, page.Total)
			assert.Equal(t, tt.wantPages, page.TotalPages())
			assert.Equal(t, tt.wantNext, page.HasNext())
			assert.Equal(t, page.Page > 1, page.HasPrev())
		})
	}
}

func TestDecodePage_nullData(t *testing.T) {
	env, _ := ParseEnvelope([]byte(`{"status":"success","data":null}`))
	page, err := DecodePage[string](env, nil)
	require.NoError(t, err)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
	assert.Equal(t, 0, page.TotalPages())
}

func TestListParams_Values(t *testing.T) {
	p := ListParams{Page: 2, Limit: 20, Search: "  nguyen ", Sort: "-createdAt"}
	assert.Equal(t, url.Values{
		"page":   {"2"},
		"limit":  {"20"},
		"search": {"nguyen"},
		"sort":   {"-createdAt"},
	}, p.Values())
	assert.Empty(t, ListParams{Search: "  "}.Values())

	v := url.Values{}
	SetIf(v, "status", " ")
	SetIntIf(v, "month", 0)
	assert.Empty(t, v)
}

func TestResource_Path(t *testing.T) {
	res := NewResource[struct{}](nil, "/api/rooms")
	assert.Equal(t, "/api/rooms", res.Path())
	assert.Equal(t, "/api/rooms/building/b%2F1", res.Path("building", "b/1"))
}
