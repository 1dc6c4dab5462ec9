package invoice

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/dormadmin/core"
)

var (
	typeTag   = "invoicetype"
	statusTag = "invoicestatus"

	dueDateTag  = "duedate"
	dueDateText = "due date cannot be before the start of the billing period"
)

func InitValidators(v *core.Validator) {
	v.RegisterOneOf(typeTag, Types...)
	v.RegisterOneOf(statusTag, Statuses...)
	v.RegisterTranslation(dueDateTag, dueDateText)
	v.RegisterStructValidation(bulkRequestStructValidation, BulkRequest{})
	v.RegisterStructValidation(newInvoiceStructValidation, NewInvoice{})
}

func bulkRequestStructValidation(sl validator.StructLevel) {
	br := sl.Current().Interface().(BulkRequest)
	if br.DueDate.Valid && validPeriod(br.Month, br.Year) && br.DueDate.Time.Before(br.PeriodStart()) {
		sl.ReportError(br.DueDate, "dueDate", "DueDate", dueDateTag, "")
	}
}

func newInvoiceStructValidation(sl validator.StructLevel) {
	ni := sl.Current().Interface().(NewInvoice)
	if !ni.DueDate.Valid || !validPeriod(ni.Month, ni.Year) {
		return
	}
	start := BulkRequest{Month: ni.Month, Year: ni.Year}.PeriodStart()
	if ni.DueDate.Time.Before(start) {
		sl.ReportError(ni.DueDate, "dueDate", "DueDate", dueDateTag, "")
	}
}

func validPeriod(month, year int) bool {
	return month >= 1 && month <= 12 && year >= minYear && year <= maxYear
}
