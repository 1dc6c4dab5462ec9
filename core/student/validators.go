package student

import "github.com/trezcool/dormadmin/core"

func InitValidators(v *core.Validator) {
	v.RegisterOneOf("studentstatus", Statuses...)
	v.RegisterOneOf("studentgender", Genders...)
}
