package vehicle

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
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

func TestNormalizePlate(t *testing.T) {
	tests := []struct {
		plate string
		want  string
	}{
		{plate: "29a-123.45", want: "29A-123.45"},
		{plate: " 51f1 234 56 ", want: "51F123456"},
		{plate: "\t", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.plate, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePlate(tt.plate))
		})
	}
}

func TestService_Create_validation(t *testing.T) {
	tests := []struct {
		name       string
		nv         NewVehicle
		wantFields map[string]string
	}{
		{
			name: "missing plate and owner",
			nv:   NewVehicle{Type: "car"},
			wantFields: map[string]string{
				"licensePlate": "this field cannot be blank",
				"owner":        "this field cannot be blank",
			},
		},
		{
			name: "bad plate and type",
			nv:   NewVehicle{LicensePlate: "#!", Type: "truck", OwnerID: "s1"},
			wantFields: map[string]string{
				"licensePlate": "must be a valid license plate",
				"vehicleType":  "must be one of: motorbike, car, bicycle, electric_bike",
			},
		},
		{
			name:       "bad image extension",
			nv:         NewVehicle{LicensePlate: "29A-12345", Type: "motorbike", OwnerID: "s1", Image: &Image{Filename: "bike.gif", Size: 10}},
			wantFields: map[string]string{"image": "image must be a jpg, jpeg, png or webp file"},
		},
		{
			name:       "image too large",
			nv:         NewVehicle{LicensePlate: "29A-12345", Type: "motorbike", OwnerID: "s1", Image: &Image{Filename: "bike.JPG", Size: MaxImageSize + 1<<19}},
			wantFields: map[string]string{"image": "image must not be larger than 5 MB (got 5.5 MB)"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub, svc := setup(t)
			_, err := svc.Create(context.Background(), tt.nv)
			vErr, ok := core.AsValidationError(err)
			require.True(t, ok, "want validation error, got %v", err)
			assert.Equal(t, tt.wantFields, vErr.FieldMap())
			assert.Equal(t, 0, stub.Count())
		})
	}
}

func TestService_Create_json(t *testing.T) {
	stub, svc := setup(t)
	stub.Reply(http.MethodPost, basePath, http.StatusCreated, testutil.Success(echo.Map{
		"_id":          "v1",
		"licensePlate": "29A-12345",
		"vehicleType":  "motorbike",
		"owner":        echo.Map{"_id": "s1", "fullName": "Nguyen Van A"},
		"image":        nil,
	}))

	v, err := svc.Create(context.Background(), NewVehicle{LicensePlate: "29a-123 45", Type: "Motorbike", OwnerID: "s1", Color: "red"})
	require.NoError(t, err)
	assert.Equal(t, "Nguyen Van A", v.Owner.String())
	assert.False(t, v.ImageURL.Valid)

	rec := stub.Last(t)
	assert.Contains(t, rec.Header.Get("Content-Type"), "application/json")
	testutil.JSONEqual(t,
		[]byte(`{"licensePlate":"29A-12345","vehicleType":"motorbike","owner":"s1","color":"red"}`),
		rec.Body,
	)
}

func TestService_Create_multipart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bike.png")
	require.NoError(t, os.WriteFile(path, []byte("\x89PNG fake"), 0o600))
	img, f, err := OpenImage(path)
	require.NoError(t, err)
	defer f.Close()

	stub, svc := setup(t)
	stub.Reply(http.MethodPost, basePath, http.StatusCreated, testutil.Success(echo.Map{"_id": "v1", "image": "/uploads/vehicles/v1.png"}))

	v, err := svc.Create(context.Background(), NewVehicle{LicensePlate: "29A-12345", Type: "motorbike", OwnerID: "s1", Image: &img})
	require.NoError(t, err)
	assert.Equal(t, "/uploads/vehicles/v1.png", v.ImageURL.String)

	rec := stub.Last(t)
	assert.Equal(t, map[string]string{"licensePlate": "29A-12345", "vehicleType": "motorbike", "owner": "s1"}, rec.Form)
	require.Contains(t, rec.Files, "image")
	assert.Equal(t, "bike.png", rec.Files["image"].Filename)
	assert.Equal(t, "\x89PNG fake", string(rec.Files["image"].Content))
}

func TestService_Update(t *testing.T) {
	stub, svc := setup(t)
	stub.Reply(http.MethodPut, basePath+"/v1", http.StatusOK, testutil.Success(echo.Map{"_id": "v1", "status": "inactive"}))

	status := "INACTIVE"
	_, err := svc.Update(context.Background(), "v1", UpdateVehicle{Status: &status})
	require.NoError(t, err)
	testutil.JSONEqual(t, []byte(`{"status":"inactive"}`), stub.Last(t).Body)

	color := "blue"
	_, err = svc.Update(context.Background(), "v1", UpdateVehicle{
		Color: &color,
		Image: &Image{Filename: "car.webp", Size: 3, Reader: strings.NewReader("abc")},
	})
	require.NoError(t, err)
	rec := stub.Last(t)
	assert.Equal(t, map[string]string{"color": "blue"}, rec.Form)
	assert.Equal(t, "abc", string(rec.Files["image"].Content))

	_, err = svc.Update(context.Background(), " ", UpdateVehicle{Image: &Image{Filename: "car.webp", Reader: strings.NewReader("")}})
	assert.True(t, core.IsNotFound(err))
}
