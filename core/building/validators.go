package building

import "github.com/trezcool/dormadmin/core"

var (
	genderTag = "buildinggender"
	statusTag = "buildingstatus"
)

func InitValidators(v *core.Validator) {
	v.RegisterOneOf(genderTag, Genders...)
	v.RegisterOneOf(statusTag, Statuses...)
}
