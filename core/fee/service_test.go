package fee

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

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

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestRate_ActiveAt(t *testing.T) {
	closed := Rate{IsActive: true, EffectiveFrom: day(2024, 1, 1), EffectiveTo: null.TimeFrom(day(2024, 7, 1))}
	open := Rate{IsActive: true, EffectiveFrom: day(2024, 7, 1)}

	tests := []struct {
		name string
		rate Rate
		at   time.Time
		want bool
	}{
		{name: "before range", rate: closed, at: day(2023, 12, 31)},
		{name: "range start", rate: closed, at: day(2024, 1, 1), want: true},
		{name: "inside range", rate: closed, at: day(2024, 3, 15), want: true},
		{name: "range end is exclusive", rate: closed, at: day(2024, 7, 1)},
		{name: "open-ended", rate: open, at: day(2030, 1, 1), want: true},
		{name: "inactive", rate: Rate{EffectiveFrom: day(2024, 1, 1)}, at: day(2024, 3, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.rate.ActiveAt(tt.at))
		})
	}
}

func TestPick(t *testing.T) {
	rates := []Rate{
		{ID: "old", IsActive: true, EffectiveFrom: day(2023, 1, 1)},
		{ID: "new", IsActive: true, EffectiveFrom: day(2024, 1, 1)},
		{ID: "future", IsActive: true, EffectiveFrom: day(2025, 1, 1)},
	}

	r, ok := Pick(rates, day(2024, 6, 1))
	require.True(t, ok)
	assert.Equal(t, "new", r.ID)

	r, ok = Pick(rates, day(2023, 6, 1))
	require.True(t, ok)
	assert.Equal(t, "old", r.ID)

	_, ok = Pick(rates, day(2022, 6, 1))
	assert.False(t, ok)
}

func TestService_Create(t *testing.T) {
	tests := []struct {
		name       string
		nr         NewRate
		wantFields map[string]string
	}{
		{
			name: "invalid",
			nr:   NewRate{Name: " ", Type: "internet", UnitPrice: -5},
			wantFields: map[string]string{
				"name":          "this field cannot be blank",
				"feeType":       "must be one of: room, electricity, water, parking_motorbike, parking_car, parking_bicycle, service",
				"unitPrice":     "unitPrice must be 0 or greater",
				"effectiveFrom": "this field is required",
			},
		},
		{
			name:       "range ends before it starts",
			nr:         NewRate{Name: "Water", Type: "water", UnitPrice: 15000, EffectiveFrom: day(2024, 6, 1), EffectiveTo: null.TimeFrom(day(2024, 6, 1))},
			wantFields: map[string]string{"effectiveTo": "must be after the effective from date"},
		},
		{
			name: "valid",
			nr:   NewRate{Name: "Water", Type: "Water", UnitPrice: 15000, Unit: "m³", EffectiveFrom: day(2024, 6, 1)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub, svc := setup(t)
			stub.Reply(http.MethodPost, basePath, http.StatusCreated, testutil.Success(echo.Map{"_id": "f1", "feeType": "water"}))

			r, err := svc.Create(context.Background(), tt.nr)
			if tt.wantFields != nil {
				vErr, ok := core.AsValidationError(err)
				require.True(t, ok, "want validation error, got %v", err)
				assert.Equal(t, tt.wantFields, vErr.FieldMap())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, TypeWater, r.Type)

			var body map[string]interface{}
			stub.Last(t).Decode(t, &body)
			assert.Equal(t, "water", body["feeType"])
			assert.Equal(t, "2024-06-01T00:00:00Z", body["effectiveFrom"])
			assert.Nil(t, body["effectiveTo"])
		})
	}
}

func TestService_Update(t *testing.T) {
	stub, svc := setup(t)
	stub.Reply(http.MethodPut, basePath+"/f1", http.StatusOK, testutil.Success(echo.Map{"_id": "f1"}))

	from, to := day(2024, 6, 1), day(2024, 5, 1)
	_, err := svc.Update(context.Background(), "f1", UpdateRate{EffectiveFrom: &from, EffectiveTo: &to})
	_, ok := core.AsValidationError(err)
	assert.True(t, ok)
	assert.Equal(t, 0, stub.Count())

	price := 16000.0
	_, err = svc.Update(context.Background(), "f1", UpdateRate{UnitPrice: &price})
	require.NoError(t, err)
	testutil.JSONEqual(t, []byte(`{"unitPrice":16000}`), stub.Last(t).Body)
}

func TestService_Active(t *testing.T) {
	stub, svc := setup(t)
	stub.Handle(http.MethodGet, basePath+"/active", func(c echo.Context) error {
		if c.QueryParam("feeType") == TypeParkingCar {
			return c.JSON(http.StatusOK, echo.Map{"success": true, "data": nil})
		}
		return c.JSON(http.StatusOK, testutil.Success(echo.Map{
			"_id":           "f1",
			"feeType":       c.QueryParam("feeType"),
			"unitPrice":     3500,
			"isActive":      true,
			"effectiveFrom": "2024-01-01T00:00:00Z",
		}))
	})

	r, err := svc.Active(context.Background(), "Electricity", day(2024, 3, 15))
	require.NoError(t, err)
	assert.Equal(t, TypeElectricity, r.Type)
	assert.True(t, r.ActiveAt(day(2024, 3, 15)))

	q := stub.Last(t).Query
	assert.Equal(t, "electricity", q.Get("feeType"))
	assert.Equal(t, "2024-03-15", q.Get("date"))

	_, err = svc.Active(context.Background(), TypeParkingCar, time.Time{})
	assert.True(t, core.IsNotFound(err))

	n := stub.Count()
	_, err = svc.Active(context.Background(), "gas", time.Time{})
	_, ok := core.AsValidationError(err)
	assert.True(t, ok)
	assert.Equal(t, n, stub.Count())
}
