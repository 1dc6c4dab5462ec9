package building

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

func setup(t *testing.T) (*testutil.APIStub, *Service) {
	stub := testutil.NewAPIStub(t)
	client := api.NewClient(api.Options{BaseURL: stub.URL(), Session: session.NewMemStore("tok")})
	return stub, NewService(client, nil)
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

var blockA = echo.Map{
	"_id":           "b1",
	"name":          "Block A",
	"code":          "A",
	"totalFloors":   5,
	"gender":        "male",
	"status":        "active",
	"totalRooms":    40,
	"occupiedRooms": 10,
}

func TestService_List(t *testing.T) {
	stub, svc := setup(t)
	stub.Reply(http.MethodGet, basePath, http.StatusOK, testutil.Success([]echo.Map{blockA}, 21))

	page, err := svc.List(context.Background(), QueryFilter{
		ListParams: core.ListParams{Page: 2, Limit: 10, Search: " block "},
		Gender:     "male",
	})
	require.NoError(t, err)

	q := stub.Last(t).Query
	assert.Equal(t, "2", q.Get("page"))
	assert.Equal(t, "10", q.Get("limit"))
	assert.Equal(t, "block", q.Get("search"))
	assert.Equal(t, "male", q.Get("gender"))
	assert.Empty(t, q.Get("status"))

	require.Len(t, page.Items, 1)
	assert.Equal(t, "Block A", page.Items[0].Name)
	assert.Equal(t, 0.25, page.Items[0].Occupancy())
	assert.Equal(t, 21, page.Total)
	assert.Equal(t, 3, page.TotalPages())
	assert.True(t, page.HasNext())
	assert.True(t, page.HasPrev())
}

func TestService_Get(t *testing.T) {
	stub, svc := setup(t)
	stub.Reply(http.MethodGet, basePath+"/b1", http.StatusOK, testutil.Success(blockA))
	stub.Reply(http.MethodGet, basePath+"/nope", http.StatusNotFound, testutil.Fail("No building found with that ID"))

	b, err := svc.Get(context.Background(), "b1")
	require.NoError(t, err)
	assert.Equal(t, 5, b.Floors)

	_, err = svc.Get(context.Background(), "nope")
	assert.True(t, core.IsNotFound(err))

	n := stub.Count()
	_, err = svc.Get(context.Background(), "  ")
	assert.True(t, core.IsNotFound(err))
	assert.Equal(t, n, stub.Count(), "blank id must not reach the backend")
}

func TestService_Create(t *testing.T) {
	tests := []struct {
		name       string
		nb         NewBuilding
		wantFields map[string]string
	}{
		{
			name:       "missing name",
			nb:         NewBuilding{Name: "  ", Floors: 3, Gender: "male"},
			wantFields: map[string]string{"name": "this field cannot be blank"},
		},
		{
			name:       "no floors",
			nb:         NewBuilding{Name: "Block B", Gender: "female"},
			wantFields: map[string]string{"totalFloors": "totalFloors must be 1 or greater"},
		},
		{
			name:       "bad gender and status",
			nb:         NewBuilding{Name: "Block B", Floors: 2, Gender: "other", Status: "closed"},
			wantFields: map[string]string{"gender": "must be one of: male, female, mixed", "status": "must be one of: active, inactive, maintenance"},
		},
		{
			name: "valid",
			nb:   NewBuilding{Name: " Block B ", Floors: 2, Gender: "Mixed"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub, svc := setup(t)
			stub.Reply(http.MethodPost, basePath, http.StatusCreated, testutil.Success(echo.Map{"_id": "b2", "name": "Block B"}))

			b, err := svc.Create(context.Background(), tt.nb)
			if tt.wantFields != nil {
				vErr, ok := core.AsValidationError(err)
				require.True(t, ok, "want validation error, got %v", err)
				assert.Equal(t, tt.wantFields, vErr.FieldMap())
				assert.Equal(t, 0, stub.Count())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "b2", b.ID)

			var body map[string]interface{}
			stub.Last(t).Decode(t, &body)
			assert.Equal(t, "Block B", body["name"])
			assert.Equal(t, "mixed", body["gender"])
			assert.EqualValues(t, 2, body["totalFloors"])
		})
	}
}

func TestService_Update(t *testing.T) {
	stub, svc := setup(t)
	stub.Reply(http.MethodPut, basePath+"/b1", http.StatusOK, testutil.Success(blockA))

	_, err := svc.Update(context.Background(), "b1", UpdateBuilding{Floors: intPtr(0)})
	_, ok := core.AsValidationError(err)
	assert.True(t, ok)

	_, err = svc.Update(context.Background(), "b1", UpdateBuilding{Status: strPtr("MAINTENANCE")})
	require.NoError(t, err)
	testutil.JSONEqual(t, []byte(`{"status":"maintenance"}`), stub.Last(t).Body)
}

func TestService_Delete(t *testing.T) {
	stub, svc := setup(t)
	stub.Reply(http.MethodDelete, basePath+"/b1", http.StatusNoContent, nil)
	stub.Reply(http.MethodDelete, basePath+"/b2", http.StatusBadRequest, testutil.Fail("Building still has rooms"))

	require.NoError(t, svc.Delete(context.Background(), "b1"))

	err := svc.Delete(context.Background(), "b2")
	apiErr, ok := core.AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, "Building still has rooms", apiErr.Message)
}
