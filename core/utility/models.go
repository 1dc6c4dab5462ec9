package utility

import (
	"net/url"
	"strconv"
	"time"

	"github.com/trezcool/dormadmin/core"
)

var Headers = []string{"ID", "ROOM", "PERIOD", "ELEC (kWh)", "WATER (m³)", "READ ON", "AMOUNT"}

type Reading struct {
	ID                  string    `json:"_id"`
	Room                core.Ref  `json:"room"`
	Building            core.Ref  `json:"building"`
	Month               int       `json:"month"`
	Year                int       `json:"year"`
	PreviousElectricity float64   `json:"previousElectricity"`
	CurrentElectricity  float64   `json:"currentElectricity"`
	PreviousWater       float64   `json:"previousWater"`
	CurrentWater        float64   `json:"currentWater"`
	ElectricityCost     float64   `json:"electricityCost"`
	WaterCost           float64   `json:"waterCost"`
	TotalAmount         float64   `json:"totalAmount"`
	ReadingDate         time.Time `json:"readingDate"`
	Notes               string    `json:"notes"`
	CreatedAt           time.Time `json:"createdAt"`
}

// Consumption is what was used over a reading period.
type Consumption struct {
	Electricity float64
	Water       float64
}

// Consumption returns current minus previous indexes.
func (r Reading) Consumption() Consumption {
	return Consumption{
		Electricity: r.CurrentElectricity - r.PreviousElectricity,
		Water:       r.CurrentWater - r.PreviousWater,
	}
}

func (r Reading) Row() []string {
	c := r.Consumption()
	return []string{
		r.ID, r.Room.String(), strconv.Itoa(r.Month) + "/" + strconv.Itoa(r.Year),
		formatIndex(r.PreviousElectricity) + " → " + formatIndex(r.CurrentElectricity) + " (" + formatIndex(c.Electricity) + ")",
		formatIndex(r.PreviousWater) + " → " + formatIndex(r.CurrentWater) + " (" + formatIndex(c.Water) + ")",
		r.ReadingDate.Format(core.DateLayout),
		core.FormatMoney(r.TotalAmount),
	}
}

func (r Reading) Cells() []interface{} {
	cells := core.Cells(r.Row())
	cells[6] = r.TotalAmount
	return cells
}

func formatIndex(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// NewReading contains information needed to record a meter reading.
type NewReading struct {
	RoomID              string    `json:"room" validate:"notblank"`
	Month               int       `json:"month" validate:"month"`
	Year                int       `json:"year" validate:"min=2000,max=2100"`
	Electricity         float64   `json:"currentElectricity" validate:"min=0"`
	Water               float64   `json:"currentWater" validate:"min=0"`
	PreviousElectricity *float64  `json:"previousElectricity,omitempty"`
	PreviousWater       *float64  `json:"previousWater,omitempty"`
	ReadingDate         time.Time `json:"readingDate"`
	Notes               string    `json:"notes,omitempty"`
}

func (nr *NewReading) Validate(v *core.Validator) error {
	nr.RoomID = core.CleanString(nr.RoomID)
	nr.Notes = core.CleanString(nr.Notes)
	if nr.ReadingDate.IsZero() {
		nr.ReadingDate = nowFunc().UTC().Truncate(24 * time.Hour)
	}
	return v.Struct(nr)
}

// checkAgainst reports indexes going backwards compared to the latest reading.
func (nr *NewReading) checkAgainst(latest Reading) error {
	var flds []core.FieldError
	if nr.Electricity < latest.CurrentElectricity {
		flds = append(flds, core.FieldError{
			Field: "currentElectricity",
			Error: "must not be lower than the previous index (" + formatIndex(latest.CurrentElectricity) + ")",
		})
	}
	if nr.Water < latest.CurrentWater {
		flds = append(flds, core.FieldError{
			Field: "currentWater",
			Error: "must not be lower than the previous index (" + formatIndex(latest.CurrentWater) + ")",
		})
	}
	if len(flds) > 0 {
		return core.NewValidationError(nil, flds...)
	}
	prevElec, prevWater := latest.CurrentElectricity, latest.CurrentWater
	nr.PreviousElectricity = &prevElec
	nr.PreviousWater = &prevWater
	return nil
}

// UpdateReading defines what information may be provided to correct a reading.
type UpdateReading struct {
	Electricity *float64   `json:"currentElectricity,omitempty" validate:"omitempty,min=0"`
	Water       *float64   `json:"currentWater,omitempty" validate:"omitempty,min=0"`
	ReadingDate *time.Time `json:"readingDate,omitempty"`
	Notes       *string    `json:"notes,omitempty"`
}

type QueryFilter struct {
	core.ListParams
	BuildingID string
	RoomID     string
	Month      int
	Year       int
}

func (f QueryFilter) Values() url.Values {
	v := f.ListParams.Values()
	core.SetIf(v, "building", f.BuildingID)
	core.SetIf(v, "room", f.RoomID)
	core.SetIntIf(v, "month", f.Month)
	core.SetIntIf(v, "year", f.Year)
	return v
}
