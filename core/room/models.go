package room

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/trezcool/dormadmin/core"
)

const (
	StatusAvailable   = "available"
	StatusOccupied    = "occupied"
	StatusMaintenance = "maintenance"
	StatusReserved    = "reserved"

	TypeSingle = "single"
	TypeDouble = "double"
	TypeTriple = "triple"
	TypeQuad   = "quad"
	TypeDorm   = "dormitory"
)

var (
	Statuses = []string{StatusAvailable, StatusOccupied, StatusMaintenance, StatusReserved}
	Types    = []string{TypeSingle, TypeDouble, TypeTriple, TypeQuad, TypeDorm}

	Headers = []string{"ID", "NUMBER", "BUILDING", "FLOOR", "TYPE", "STATUS", "BEDS", "PRICE"}
)

type Room struct {
	ID          string    `json:"_id"`
	Number      string    `json:"roomNumber"`
	Building    core.Ref  `json:"building"`
	Floor       int       `json:"floor"`
	Type        string    `json:"roomType"`
	Capacity    int       `json:"capacity"`
	Occupancy   int       `json:"currentOccupancy"`
	Price       float64   `json:"pricePerMonth"`
	Status      string    `json:"status"`
	Amenities   []string  `json:"amenities"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// FreeBeds is the number of beds left, never negative.
func (r Room) FreeBeds() int {
	if free := r.Capacity - r.Occupancy; free > 0 {
		return free
	}
	return 0
}

func (r Room) IsFull() bool { return r.FreeBeds() == 0 }

func (r Room) Row() []string {
	return []string{
		r.ID, r.Number, r.Building.String(), strconv.Itoa(r.Floor), r.Type, r.Status,
		strconv.Itoa(r.Occupancy) + "/" + strconv.Itoa(r.Capacity),
		core.FormatMoney(r.Price),
	}
}

// NewRoom contains information needed to create a new Room.
type NewRoom struct {
	Number      string   `json:"roomNumber" validate:"notblank"`
	BuildingID  string   `json:"building" validate:"notblank"`
	Floor       int      `json:"floor" validate:"min=0"`
	Type        string   `json:"roomType,omitempty" validate:"omitempty,roomtype"`
	Capacity    int      `json:"capacity" validate:"min=1"`
	Price       float64  `json:"pricePerMonth" validate:"min=0"`
	Status      string   `json:"status,omitempty" validate:"omitempty,roomstatus"`
	Amenities   []string `json:"amenities,omitempty"`
	Description string   `json:"description,omitempty"`
}

func (nr *NewRoom) Validate(v *core.Validator) error {
	nr.Number = strings.ToUpper(core.CleanString(nr.Number))
	nr.BuildingID = core.CleanString(nr.BuildingID)
	nr.Type = core.CleanString(nr.Type, true /* lower */)
	nr.Status = core.CleanString(nr.Status, true /* lower */)
	return v.Struct(nr)
}

// UpdateRoom defines what information may be provided to modify an existing Room.
type UpdateRoom struct {
	Number      *string  `json:"roomNumber,omitempty" validate:"omitempty,notblank"`
	Floor       *int     `json:"floor,omitempty" validate:"omitempty,min=0"`
	Type        *string  `json:"roomType,omitempty" validate:"omitempty,roomtype"`
	Capacity    *int     `json:"capacity,omitempty" validate:"omitempty,min=1"`
	Price       *float64 `json:"pricePerMonth,omitempty" validate:"omitempty,min=0"`
	Status      *string  `json:"status,omitempty" validate:"omitempty,roomstatus"`
	Amenities   []string `json:"amenities,omitempty"`
	Description *string  `json:"description,omitempty"`
}

func (ur *UpdateRoom) Validate(v *core.Validator) error {
	if ur.Number != nil {
		n := strings.ToUpper(core.CleanString(*ur.Number))
		ur.Number = &n
	}
	if ur.Status != nil {
		s := core.CleanString(*ur.Status, true /* lower */)
		ur.Status = &s
	}
	return v.Struct(ur)
}

type QueryFilter struct {
	core.ListParams
	BuildingID string
	Status     string
	Type       string
	Floor      *int
}

func (f QueryFilter) Values() url.Values {
	v := f.ListParams.Values()
	core.SetIf(v, "building", f.BuildingID)
	core.SetIf(v, "status", f.Status)
	core.SetIf(v, "roomType", f.Type)
	if f.Floor != nil {
		v.Set("floor", strconv.Itoa(*f.Floor))
	}
	return v
}
