package room

import "github.com/trezcool/dormadmin/core"

var (
	typeTag   = "roomtype"
	statusTag = "roomstatus"
)

func InitValidators(v *core.Validator) {
	v.RegisterOneOf(typeTag, Types...)
	v.RegisterOneOf(statusTag, Statuses...)
}
