package payment

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/dormadmin/core"
)

var periodTag = "paymentperiod"

func InitValidators(v *core.Validator) {
	v.RegisterOneOf("paymentmethod", Methods...)
	v.RegisterTranslation(periodTag, "must not be before from")
	v.RegisterStructValidation(filterStructValidation, QueryFilter{})
}

func filterStructValidation(sl validator.StructLevel) {
	f := sl.Current().Interface().(QueryFilter)
	if !f.From.IsZero() && !f.To.IsZero() && f.To.Before(f.From) {
		sl.ReportError(f.To, "to", "To", periodTag, "")
	}
}
