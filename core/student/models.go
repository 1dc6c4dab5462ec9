package student

import (
	"net/url"
	"strings"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/dormadmin/core"
)

const (
	StatusActive    = "active"
	StatusInactive  = "inactive"
	StatusGraduated = "graduated"
	StatusSuspended = "suspended"
)

var (
	Statuses = []string{StatusActive, StatusInactive, StatusGraduated, StatusSuspended}
	Genders  = []string{"male", "female", "other"}

	Headers = []string{"ID", "CODE", "NAME", "EMAIL", "PHONE", "ROOM", "STATUS"}
)

type Student struct {
	ID          string    `json:"_id"`
	Code        string    `json:"studentCode"`
	FullName    string    `json:"fullName"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Gender      string    `json:"gender"`
	DateOfBirth null.Time `json:"dateOfBirth"`
	University  string    `json:"university"`
	Faculty     string    `json:"faculty"`
	Room        core.Ref  `json:"room"`
	CheckInDate null.Time `json:"checkInDate"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (s Student) Row() []string {
	return []string{s.ID, s.Code, s.FullName, s.Email, s.Phone, s.Room.String(), s.Status}
}

// NewStudent contains information needed to create a new Student.
type NewStudent struct {
	Code        string    `json:"studentCode" validate:"notblank,alphanum_"`
	FullName    string    `json:"fullName" validate:"notblank"`
	Email       string    `json:"email,omitempty" validate:"omitempty,email"`
	Phone       string    `json:"phone,omitempty" validate:"omitempty,phone"`
	Gender      string    `json:"gender,omitempty" validate:"omitempty,studentgender"`
	DateOfBirth null.Time `json:"dateOfBirth,omitempty"`
	University  string    `json:"university,omitempty"`
	Faculty     string    `json:"faculty,omitempty"`
	RoomID      string    `json:"room,omitempty"`
	Status      string    `json:"status,omitempty" validate:"omitempty,studentstatus"`
}

func (ns *NewStudent) Validate(v *core.Validator) error {
	ns.Code = strings.ToUpper(core.CleanString(ns.Code))
	ns.FullName = core.CleanString(ns.FullName)
	ns.Email = core.CleanString(ns.Email, true /* lower */)
	ns.Phone = core.CleanString(ns.Phone)
	ns.Gender = core.CleanString(ns.Gender, true /* lower */)
	ns.RoomID = core.CleanString(ns.RoomID)
	ns.Status = core.CleanString(ns.Status, true /* lower */)
	return v.Struct(ns)
}

// UpdateStudent defines what information may be provided to modify an existing Student.
type UpdateStudent struct {
	FullName   *string `json:"fullName,omitempty" validate:"omitempty,notblank"`
	Email      *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone      *string `json:"phone,omitempty" validate:"omitempty,phone"`
	University *string `json:"university,omitempty"`
	Faculty    *string `json:"faculty,omitempty"`
	RoomID     *string `json:"room,omitempty"`
	Status     *string `json:"status,omitempty" validate:"omitempty,studentstatus"`
}

func (us *UpdateStudent) Validate(v *core.Validator) error {
	if us.Email != nil {
		e := core.CleanString(*us.Email, true /* lower */)
		us.Email = &e
	}
	if us.Status != nil {
		s := core.CleanString(*us.Status, true /* lower */)
		us.Status = &s
	}
	return v.Struct(us)
}

type QueryFilter struct {
	core.ListParams
	RoomID string
	Status string
}

func (f QueryFilter) Values() url.Values {
	v := f.ListParams.Values()
	core.SetIf(v, "room", f.RoomID)
	core.SetIf(v, "status", f.Status)
	return v
}
