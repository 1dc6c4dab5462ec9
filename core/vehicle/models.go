package vehicle

import (
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/dormadmin/core"
)

const (
	TypeMotorbike    = "motorbike"
	TypeCar          = "car"
	TypeBicycle      = "bicycle"
	TypeElectricBike = "electric_bike"

	StatusActive   = "active"
	StatusInactive = "inactive"

	MaxImageSize = 5 << 20 // 5 MiB
	imageField   = "image"
)

var (
	Types           = []string{TypeMotorbike, TypeCar, TypeBicycle, TypeElectricBike}
	Statuses        = []string{StatusActive, StatusInactive}
	ImageExtensions = []string{".jpg", ".jpeg", ".png", ".webp"}

	Headers = []string{"ID", "PLATE", "TYPE", "BRAND", "COLOR", "OWNER", "STATUS"}
)

type Vehicle struct {
	ID           string      `json:"_id"`
	LicensePlate string      `json:"licensePlate"`
	Type         string      `json:"vehicleType"`
	Brand        string      `json:"brand"`
	Model        string      `json:"model"`
	Color        string      `json:"color"`
	Owner        core.Ref    `json:"owner"`
	Status       string      `json:"status"`
	ImageURL     null.String `json:"image"`
	ParkingSlot  null.String `json:"parkingSlot"`
	Notes        string      `json:"notes"`
	RegisteredAt time.Time   `json:"createdAt"`
}

func (v Vehicle) Row() []string {
	return []string{v.ID, v.LicensePlate, v.Type, v.Brand, v.Color, v.Owner.String(), v.Status}
}

// NormalizePlate upper-cases a license plate and removes its whitespace.
func NormalizePlate(plate string) string {
	return strings.ToUpper(strings.Join(strings.Fields(plate), ""))
}

// Image is a picture of the vehicle to upload.
type Image struct {
	Filename string
	Size     int64
	Reader   io.Reader
}

// OpenImage opens a local image file; the caller closes the returned file.
func OpenImage(path string) (Image, *os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return Image{}, nil, errors.Wrap(err, "opening image")
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return Image{}, nil, errors.Wrap(err, "reading image info")
	}
	return Image{Filename: filepath.Base(path), Size: info.Size(), Reader: f}, f, nil
}

func (img *Image) check() []core.FieldError {
	if img == nil {
		return nil
	}
	var flds []core.FieldError
	ext := strings.ToLower(filepath.Ext(img.Filename))
	var okExt bool
	for _, allowed := range ImageExtensions {
		if ext == allowed {
			okExt = true
			break
		}
	}
	if !okExt {
		flds = append(flds, core.FieldError{Field: imageField, Error: "image must be a jpg, jpeg, png or webp file"})
	}
	if img.Size > MaxImageSize {
		flds = append(flds, core.FieldError{Field: imageField, Error: "image must not be larger than 5 MB (got " + SizeLabel(img.Size) + ")"})
	}
	return flds
}

// NewVehicle contains information needed to register a Vehicle.
type NewVehicle struct {
	LicensePlate string `json:"licensePlate" validate:"notblank,plate"`
	Type         string `json:"vehicleType" validate:"vehicletype"`
	Brand        string `json:"brand,omitempty"`
	Model        string `json:"model,omitempty"`
	Color        string `json:"color,omitempty"`
	OwnerID      string `json:"owner" validate:"notblank"`
	ParkingSlot  string `json:"parkingSlot,omitempty"`
	Notes        string `json:"notes,omitempty"`
	Image        *Image `json:"-"`
}

func (nv *NewVehicle) Validate(v *core.Validator) error {
	nv.LicensePlate = NormalizePlate(nv.LicensePlate)
	nv.Type = core.CleanString(nv.Type, true /* lower */)
	nv.OwnerID = core.CleanString(nv.OwnerID)
	nv.Brand = core.CleanString(nv.Brand)
	nv.Model = core.CleanString(nv.Model)
	nv.Color = core.CleanString(nv.Color)
	return mergeErrors(v.Struct(nv), nv.Image.check())
}

func (nv NewVehicle) form() map[string]string {
	form := map[string]string{
		"licensePlate": nv.LicensePlate,
		"vehicleType":  nv.Type,
		"owner":        nv.OwnerID,
	}
	setIf(form, "brand", nv.Brand)
	setIf(form, "model", nv.Model)
	setIf(form, "color", nv.Color)
	setIf(form, "parkingSlot", nv.ParkingSlot)
	setIf(form, "notes", nv.Notes)
	return form
}

// UpdateVehicle defines what information may be provided to modify a Vehicle.
type UpdateVehicle struct {
	LicensePlate *string `json:"licensePlate,omitempty" validate:"omitempty,notblank,plate"`
	Type         *string `json:"vehicleType,omitempty" validate:"omitempty,vehicletype"`
	Brand        *string `json:"brand,omitempty"`
	Model        *string `json:"model,omitempty"`
	Color        *string `json:"color,omitempty"`
	Status       *string `json:"status,omitempty" validate:"omitempty,vehiclestatus"`
	ParkingSlot  *string `json:"parkingSlot,omitempty"`
	Notes        *string `json:"notes,omitempty"`
	Image        *Image  `json:"-"`
}

func (uv *UpdateVehicle) Validate(v *core.Validator) error {
	if uv.LicensePlate != nil {
		p := NormalizePlate(*uv.LicensePlate)
		uv.LicensePlate = &p
	}
	if uv.Type != nil {
		t := core.CleanString(*uv.Type, true /* lower */)
		uv.Type = &t
	}
	if uv.Status != nil {
		s := core.CleanString(*uv.Status, true /* lower */)
		uv.Status = &s
	}
	return mergeErrors(v.Struct(uv), uv.Image.check())
}

func (uv UpdateVehicle) form() map[string]string {
	form := make(map[string]string)
	for key, val := range map[string]*string{
		"licensePlate": uv.LicensePlate,
		"vehicleType":  uv.Type,
		"brand":        uv.Brand,
		"model":        uv.Model,
		"color":        uv.Color,
		"status":       uv.Status,
		"parkingSlot":  uv.ParkingSlot,
		"notes":        uv.Notes,
	} {
		if val != nil {
			form[key] = *val
		}
	}
	return form
}

func setIf(form map[string]string, key, val string) {
	if val != "" {
		form[key] = val
	}
}

// mergeErrors appends flds to the validation error err (if any).
func mergeErrors(err error, flds []core.FieldError) error {
	if err == nil {
		if len(flds) == 0 {
			return nil
		}
		return core.NewValidationError(nil, flds...)
	}
	vErr, ok := core.AsValidationError(err)
	if !ok || len(flds) == 0 {
		return err
	}
	return core.NewValidationError(vErr.Err, append(vErr.Fields, flds...)...)
}

type QueryFilter struct {
	core.ListParams
	Type    string
	Status  string
	OwnerID string
}

func (f QueryFilter) Values() url.Values {
	v := f.ListParams.Values()
	core.SetIf(v, "vehicleType", f.Type)
	core.SetIf(v, "status", f.Status)
	core.SetIf(v, "owner", f.OwnerID)
	return v
}

// SizeLabel renders a byte size for error messages, e.g. 5.2 MB.
func SizeLabel(size int64) string {
	return strconv.FormatFloat(float64(size)/(1<<20), 'f', 1, 64) + " MB"
}
