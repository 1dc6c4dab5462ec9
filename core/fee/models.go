package fee

import (
	"net/url"
	"strconv"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/dormadmin/core"
)

const (
	TypeRoom             = "room"
	TypeElectricity      = "electricity"
	TypeWater            = "water"
	TypeParkingMotorbike = "parking_motorbike"
	TypeParkingCar       = "parking_car"
	TypeParkingBicycle   = "parking_bicycle"
	TypeService          = "service"
)

var (
	Types = []string{
		TypeRoom, TypeElectricity, TypeWater,
		TypeParkingMotorbike, TypeParkingCar, TypeParkingBicycle,
		TypeService,
	}

	Headers = []string{"ID", "NAME", "TYPE", "UNIT PRICE", "UNIT", "FROM", "TO", "ACTIVE"}
)

// Rate is the unit price of a fee type over an effective date range.
type Rate struct {
	ID            string    `json:"_id"`
	Name          string    `json:"name"`
	Type          string    `json:"feeType"`
	UnitPrice     float64   `json:"unitPrice"`
	Unit          string    `json:"unit"`
	EffectiveFrom time.Time `json:"effectiveFrom"`
	EffectiveTo   null.Time `json:"effectiveTo"`
	IsActive      bool      `json:"isActive"`
	Description   string    `json:"description"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ActiveAt reports whether the rate applies at t: it is active and
// t is in [EffectiveFrom, EffectiveTo). An unset EffectiveTo is open-ended.
func (r Rate) ActiveAt(t time.Time) bool {
	if !r.IsActive || t.Before(r.EffectiveFrom) {
		return false
	}
	return !r.EffectiveTo.Valid || t.Before(r.EffectiveTo.Time)
}

func (r Rate) Row() []string {
	to := ""
	if r.EffectiveTo.Valid {
		to = r.EffectiveTo.Time.Format(core.DateLayout)
	}
	return []string{
		r.ID, r.Name, r.Type, core.FormatMoney(r.UnitPrice), r.Unit,
		r.EffectiveFrom.Format(core.DateLayout), to, strconv.FormatBool(r.IsActive),
	}
}

// Pick returns the rate of rates applying at t; the latest effective one wins.
func Pick(rates []Rate, t time.Time) (Rate, bool) {
	var best Rate
	var found bool
	for _, r := range rates {
		if !r.ActiveAt(t) {
			continue
		}
		if !found || r.EffectiveFrom.After(best.EffectiveFrom) {
			best, found = r, true
		}
	}
	return best, found
}

// NewRate contains information needed to create a fee rate.
type NewRate struct {
	Name          string    `json:"name" validate:"notblank"`
	Type          string    `json:"feeType" validate:"feetype"`
	UnitPrice     float64   `json:"unitPrice" validate:"min=0"`
	Unit          string    `json:"unit,omitempty"`
	EffectiveFrom time.Time `json:"effectiveFrom" validate:"required"`
	EffectiveTo   null.Time `json:"effectiveTo,omitempty"`
	IsActive      *bool     `json:"isActive,omitempty"`
	Description   string    `json:"description,omitempty"`
}

func (nr *NewRate) Validate(v *core.Validator) error {
	nr.Name = core.CleanString(nr.Name)
	nr.Type = core.CleanString(nr.Type, true /* lower */)
	nr.Unit = core.CleanString(nr.Unit)
	return v.Struct(nr)
}

// UpdateRate defines what information may be provided to modify a fee rate.
type UpdateRate struct {
	Name          *string    `json:"name,omitempty" validate:"omitempty,notblank"`
	UnitPrice     *float64   `json:"unitPrice,omitempty" validate:"omitempty,min=0"`
	Unit          *string    `json:"unit,omitempty"`
	EffectiveFrom *time.Time `json:"effectiveFrom,omitempty"`
	EffectiveTo   *time.Time `json:"effectiveTo,omitempty"`
	IsActive      *bool      `json:"isActive,omitempty"`
	Description   *string    `json:"description,omitempty"`
}

type QueryFilter struct {
	core.ListParams
	Type   string
	Active *bool
}

func (f QueryFilter) Values() url.Values {
	v := f.ListParams.Values()
	core.SetIf(v, "feeType", f.Type)
	if f.Active != nil {
		v.Set("isActive", strconv.FormatBool(*f.Active))
	}
	return v
}
