package invoice

import (
	"net/url"
	"strconv"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/dormadmin/core"
)

const (
	StatusPending       = "pending"
	StatusPaid          = "paid"
	StatusPartiallyPaid = "partially_paid"
	StatusOverdue       = "overdue"
	StatusCancelled     = "cancelled"

	TypeRoom        = "room"
	TypeElectricity = "electricity"
	TypeWater       = "water"
	TypeUtility     = "utility"
	TypeParking     = "parking"
	TypeService     = "service"

	minYear = 2000
	maxYear = 2100
)

var (
	Statuses = []string{StatusPending, StatusPaid, StatusPartiallyPaid, StatusOverdue, StatusCancelled}
	Types    = []string{TypeRoom, TypeElectricity, TypeWater, TypeUtility, TypeParking, TypeService}

	Headers = []string{"ID", "NUMBER", "STUDENT", "ROOM", "TYPE", "PERIOD", "TOTAL", "PAID", "STATUS", "DUE"}
)

type (
	Item struct {
		Description string  `json:"description"`
		Quantity    float64 `json:"quantity"`
		UnitPrice   float64 `json:"unitPrice"`
		Amount      float64 `json:"amount"`
	}

	Invoice struct {
		ID          string    `json:"_id"`
		Number      string    `json:"invoiceNumber"`
		Student     core.Ref  `json:"student"`
		Room        core.Ref  `json:"room"`
		Building    core.Ref  `json:"building"`
		Type        string    `json:"type"`
		Month       int       `json:"month"`
		Year        int       `json:"year"`
		Items       []Item    `json:"items"`
		TotalAmount float64   `json:"totalAmount"`
		PaidAmount  float64   `json:"paidAmount"`
		Status      string    `json:"status"`
		DueDate     null.Time `json:"dueDate"`
		PaidAt      null.Time `json:"paidAt"`
		Notes       string    `json:"notes"`
		CreatedAt   time.Time `json:"createdAt"`
		UpdatedAt   time.Time `json:"updatedAt"`
	}
)

// Outstanding is the amount left to pay, never negative.
func (inv Invoice) Outstanding() float64 {
	if left := inv.TotalAmount - inv.PaidAmount; left > 0 {
		return left
	}
	return 0
}

// Period renders the billing period as MM/YYYY.
func (inv Invoice) Period() string {
	return period(inv.Month, inv.Year)
}

func (inv Invoice) Row() []string {
	due := ""
	if inv.DueDate.Valid {
		due = inv.DueDate.Time.Format(core.DateLayout)
	}
	return []string{
		inv.ID, inv.Number, inv.Student.String(), inv.Room.String(), inv.Type, inv.Period(),
		core.FormatMoney(inv.TotalAmount), core.FormatMoney(inv.PaidAmount), inv.Status, due,
	}
}

// Cells is Row with the amounts left numeric.
func (inv Invoice) Cells() []interface{} {
	cells := core.Cells(inv.Row())
	cells[6], cells[7] = inv.TotalAmount, inv.PaidAmount
	return cells
}

func period(month, year int) string {
	if month < 10 {
		return "0" + strconv.Itoa(month) + "/" + strconv.Itoa(year)
	}
	return strconv.Itoa(month) + "/" + strconv.Itoa(year)
}

// NewInvoice contains information needed to create a single Invoice.
type NewInvoice struct {
	StudentID string    `json:"student,omitempty" validate:"required_without=RoomID"`
	RoomID    string    `json:"room,omitempty"`
	Type      string    `json:"type" validate:"invoicetype"`
	Month     int       `json:"month" validate:"month"`
	Year      int       `json:"year" validate:"min=2000,max=2100"`
	Items     []Item    `json:"items" validate:"required,min=1,dive"`
	DueDate   null.Time `json:"dueDate,omitempty"`
	Notes     string    `json:"notes,omitempty"`
}

// Total is the sum of the items' amounts (quantity × unit price when no amount is set).
func (ni NewInvoice) Total() float64 {
	var total float64
	for _, it := range ni.Items {
		if it.Amount != 0 {
			total += it.Amount
		} else {
			total += it.Quantity * it.UnitPrice
		}
	}
	return total
}

func (ni *NewInvoice) Validate(v *core.Validator) error {
	ni.StudentID = core.CleanString(ni.StudentID)
	ni.RoomID = core.CleanString(ni.RoomID)
	ni.Type = core.CleanString(ni.Type, true /* lower */)
	for i := range ni.Items {
		if ni.Items[i].Amount == 0 {
			ni.Items[i].Amount = ni.Items[i].Quantity * ni.Items[i].UnitPrice
		}
	}
	return v.Struct(ni)
}

// UpdateInvoice defines what information may be provided to modify an existing Invoice.
type UpdateInvoice struct {
	Items   []Item     `json:"items,omitempty" validate:"omitempty,dive"`
	DueDate *time.Time `json:"dueDate,omitempty"`
	Notes   *string    `json:"notes,omitempty"`
}

func (ui *UpdateInvoice) Validate(v *core.Validator) error {
	for i := range ui.Items {
		if ui.Items[i].Amount == 0 {
			ui.Items[i].Amount = ui.Items[i].Quantity * ui.Items[i].UnitPrice
		}
	}
	return v.Struct(ui)
}

type statusUpdate struct {
	Status string `json:"status" validate:"invoicestatus"`
	Note   string `json:"note,omitempty"`
}

// BulkRequest asks the backend to generate the invoices of one billing period.
type BulkRequest struct {
	Month      int       `json:"month" validate:"month"`
	Year       int       `json:"year" validate:"min=2000,max=2100"`
	Types      []string  `json:"types" validate:"required,min=1,invoicetype"`
	BuildingID string    `json:"buildingId,omitempty"`
	DueDate    null.Time `json:"dueDate,omitempty"`
	Overwrite  bool      `json:"overwrite"`
}

// PeriodStart is the first day of the requested period, in UTC.
func (br BulkRequest) PeriodStart() time.Time {
	return time.Date(br.Year, time.Month(br.Month), 1, 0, 0, 0, 0, time.UTC)
}

func (br *BulkRequest) Validate(v *core.Validator) error {
	br.BuildingID = core.CleanString(br.BuildingID)
	types := make([]string, 0, len(br.Types))
	seen := make(map[string]bool, len(br.Types))
	for _, typ := range br.Types {
		typ = core.CleanString(typ, true /* lower */)
		if typ == "" || seen[typ] {
			continue
		}
		seen[typ] = true
		types = append(types, typ)
	}
	br.Types = nil
	if len(types) > 0 {
		br.Types = types
	}
	return v.Struct(br)
}

type (
	// BulkError explains why no invoice was generated for a room.
	BulkError struct {
		RoomID     string `json:"roomId"`
		RoomNumber string `json:"roomNumber"`
		Reason     string `json:"reason"`
	}

	BulkResult struct {
		Created  int         `json:"created"`
		Skipped  int         `json:"skipped"`
		Failed   int         `json:"failed"`
		Errors   []BulkError `json:"errors"`
		Invoices []Invoice   `json:"invoices"`
	}
)

// Total is the sum of the generated invoices' totals.
func (res BulkResult) Total() float64 {
	var total float64
	for _, inv := range res.Invoices {
		total += inv.TotalAmount
	}
	return total
}

type QueryFilter struct {
	core.ListParams
	Status     string
	Type       string
	Month      int
	Year       int
	RoomID     string
	StudentID  string
	BuildingID string
}

func (f QueryFilter) Values() url.Values {
	v := f.ListParams.Values()
	core.SetIf(v, "status", f.Status)
	core.SetIf(v, "type", f.Type)
	core.SetIntIf(v, "month", f.Month)
	core.SetIntIf(v, "year", f.Year)
	core.SetIf(v, "room", f.RoomID)
	core.SetIf(v, "student", f.StudentID)
	core.SetIf(v, "building", f.BuildingID)
	return v
}
