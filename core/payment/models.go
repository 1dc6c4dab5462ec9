package payment

import (
	"net/url"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/dormadmin/core"
)

const (
	MethodCash         = "cash"
	MethodBankTransfer = "bank_transfer"
	MethodVNPay        = "vnpay"
	MethodOther        = "other"

	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusRefunded  = "refunded"
)

var (
	Methods  = []string{MethodCash, MethodBankTransfer, MethodVNPay, MethodOther}
	Statuses = []string{StatusPending, StatusCompleted, StatusFailed, StatusRefunded}

	Headers = []string{"ID", "INVOICE", "STUDENT", "AMOUNT", "METHOD", "STATUS", "PAID AT", "TRANSACTION"}
)

type Payment struct {
	ID            string      `json:"_id"`
	Invoice       core.Ref    `json:"invoice"`
	Student       core.Ref    `json:"student"`
	Amount        float64     `json:"amount"`
	Method        string      `json:"paymentMethod"`
	Status        string      `json:"status"`
	TransactionID null.String `json:"transactionId"`
	PaidAt        null.Time   `json:"paymentDate"`
	Note          string      `json:"note"`
	ReceivedBy    core.Ref    `json:"receivedBy"`
	CreatedAt     time.Time   `json:"createdAt"`
}

func (p Payment) Row() []string {
	paidAt := ""
	if p.PaidAt.Valid {
		paidAt = p.PaidAt.Time.Format(core.DateLayout)
	}
	return []string{
		p.ID, p.Invoice.String(), p.Student.String(), core.FormatMoney(p.Amount),
		p.Method, p.Status, paidAt, p.TransactionID.String,
	}
}

// Cells is Row with the amount left numeric.
func (p Payment) Cells() []interface{} {
	cells := core.Cells(p.Row())
	cells[3] = p.Amount
	return cells
}

// NewPayment records money received for an invoice.
type NewPayment struct {
	InvoiceID     string      `json:"invoice" validate:"notblank"`
	Amount        float64     `json:"amount" validate:"gt=0"`
	Method        string      `json:"paymentMethod" validate:"paymentmethod"`
	TransactionID null.String `json:"transactionId,omitempty"`
	PaidAt        null.Time   `json:"paymentDate,omitempty"`
	Note          string      `json:"note,omitempty"`
}

func (np *NewPayment) Validate(v *core.Validator) error {
	np.InvoiceID = core.CleanString(np.InvoiceID)
	np.Method = core.CleanString(np.Method, true /* lower */)
	np.Note = core.CleanString(np.Note)
	if np.TransactionID.Valid {
		np.TransactionID.String = core.CleanString(np.TransactionID.String)
		np.TransactionID.Valid = np.TransactionID.String != ""
	}
	return v.Struct(np)
}

type QueryFilter struct {
	core.ListParams
	InvoiceID string
	StudentID string
	Method    string
	Status    string
	From      time.Time
	To        time.Time
}

func (f QueryFilter) Values() url.Values {
	v := f.ListParams.Values()
	core.SetIf(v, "invoice", f.InvoiceID)
	core.SetIf(v, "student", f.StudentID)
	core.SetIf(v, "paymentMethod", f.Method)
	core.SetIf(v, "status", f.Status)
	if !f.From.IsZero() {
		v.Set("from", f.From.Format(core.DateLayout))
	}
	if !f.To.IsZero() {
		v.Set("to", f.To.Format(core.DateLayout))
	}
	return v
}

// Sum totals the amounts of completed payments.
func Sum(payments []Payment) float64 {
	var total float64
	for _, p := range payments {
		if p.Status == "" || p.Status == StatusCompleted {
			total += p.Amount
		}
	}
	return total
}
