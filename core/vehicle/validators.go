package vehicle

import (
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/dormadmin/core"
)

var (
	plateTag   = "plate"
	plateText  = "must be a valid license plate"
	plateRegex = regexp.MustCompile(`^[A-Z0-9][A-Z0-9.\-]{2,14}$`)
)

func InitValidators(v *core.Validator) {
	v.RegisterOneOf("vehicletype", Types...)
	v.RegisterOneOf("vehiclestatus", Statuses...)
	v.RegisterValidation(plateTag, plateText, plateValidation)
}

func plateValidation(fl validator.FieldLevel) bool {
	return plateRegex.MatchString(fl.Field().String())
}
