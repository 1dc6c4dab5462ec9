package building

import (
	"net/url"
	"strconv"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/dormadmin/core"
)

const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderMixed  = "mixed"

	StatusActive      = "active"
	StatusInactive    = "inactive"
	StatusMaintenance = "maintenance"
)

var (
	Genders  = []string{GenderMale, GenderFemale, GenderMixed}
	Statuses = []string{StatusActive, StatusInactive, StatusMaintenance}
)

type Building struct {
	ID            string      `json:"_id"`
	Name          string      `json:"name"`
	Code          string      `json:"code"`
	Address       string      `json:"address"`
	Floors        int         `json:"totalFloors"`
	Gender        string      `json:"gender"`
	Status        string      `json:"status"`
	Description   string      `json:"description"`
	TotalRooms    int         `json:"totalRooms"`
	OccupiedRooms int         `json:"occupiedRooms"`
	Manager       null.String `json:"manager"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

// Occupancy is the share of occupied rooms, between 0 and 1.
func (b Building) Occupancy() float64 {
	if b.TotalRooms <= 0 {
		return 0
	}
	return float64(b.OccupiedRooms) / float64(b.TotalRooms)
}

// NewBuilding contains information needed to create a new Building.
type NewBuilding struct {
	Name        string      `json:"name" validate:"notblank"`
	Code        string      `json:"code,omitempty" validate:"omitempty,alphanum_"`
	Address     string      `json:"address,omitempty"`
	Floors      int         `json:"totalFloors" validate:"min=1"`
	Gender      string      `json:"gender" validate:"buildinggender"`
	Status      string      `json:"status,omitempty" validate:"omitempty,buildingstatus"`
	Description string      `json:"description,omitempty"`
	Manager     null.String `json:"manager,omitempty"`
}

func (nb *NewBuilding) Validate(v *core.Validator) error {
	nb.Name = core.CleanString(nb.Name)
	nb.Code = core.CleanString(nb.Code)
	nb.Address = core.CleanString(nb.Address)
	nb.Gender = core.CleanString(nb.Gender, true /* lower */)
	nb.Status = core.CleanString(nb.Status, true /* lower */)
	return v.Struct(nb)
}

// UpdateBuilding defines what information may be provided to modify an existing Building.
type UpdateBuilding struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,notblank"`
	Code        *string `json:"code,omitempty" validate:"omitempty,alphanum_"`
	Address     *string `json:"address,omitempty"`
	Floors      *int    `json:"totalFloors,omitempty" validate:"omitempty,min=1"`
	Gender      *string `json:"gender,omitempty" validate:"omitempty,buildinggender"`
	Status      *string `json:"status,omitempty" validate:"omitempty,buildingstatus"`
	Description *string `json:"description,omitempty"`
	Manager     *string `json:"manager,omitempty"`
}

func (ub *UpdateBuilding) Validate(v *core.Validator) error {
	if ub.Gender != nil {
		g := core.CleanString(*ub.Gender, true /* lower */)
		ub.Gender = &g
	}
	if ub.Status != nil {
		s := core.CleanString(*ub.Status, true /* lower */)
		ub.Status = &s
	}
	return v.Struct(ub)
}

type QueryFilter struct {
	core.ListParams
	Status string
	Gender string
}

func (f QueryFilter) Values() url.Values {
	v := f.ListParams.Values()
	core.SetIf(v, "status", f.Status)
	core.SetIf(v, "gender", f.Gender)
	return v
}

// Row renders the building as a console/export table row.
func (b Building) Row() []string {
	return []string{
		b.ID, b.Name, b.Code, b.Gender, b.Status,
		strconv.Itoa(b.Floors),
		strconv.Itoa(b.OccupiedRooms) + "/" + strconv.Itoa(b.TotalRooms),
	}
}

var Headers = []string{"ID", "NAME", "CODE", "GENDER", "STATUS", "FLOORS", "ROOMS"}
