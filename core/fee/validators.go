package fee

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/dormadmin/core"
)

var (
	feeTypeTag = "feetype"

	rangeTag  = "effectiverange"
	rangeText = "must be after the effective from date"
)

func InitValidators(v *core.Validator) {
	v.RegisterOneOf(feeTypeTag, Types...)
	v.RegisterTranslation(rangeTag, rangeText)
	v.RegisterStructValidation(newRateStructValidation, NewRate{})
	v.RegisterStructValidation(updateRateStructValidation, UpdateRate{})
}

func newRateStructValidation(sl validator.StructLevel) {
	nr := sl.Current().Interface().(NewRate)
	if nr.EffectiveTo.Valid && !nr.EffectiveFrom.IsZero() && !nr.EffectiveTo.Time.After(nr.EffectiveFrom) {
		sl.ReportError(nr.EffectiveTo, "effectiveTo", "EffectiveTo", rangeTag, "")
	}
}

// updateRateStructValidation only checks the range when both ends are updated;
// the backend checks it against the stored dates.
func updateRateStructValidation(sl validator.StructLevel) {
	ur := sl.Current().Interface().(UpdateRate)
	if ur.EffectiveFrom != nil && ur.EffectiveTo != nil && !ur.EffectiveTo.After(*ur.EffectiveFrom) {
		sl.ReportError(ur.EffectiveTo, "effectiveTo", "EffectiveTo", rangeTag, "")
	}
}
