package maintenance

import (
	"context"

	"github.com/trezcool/dormadmin/core"
)

const basePath = "/api/maintenance"

type Service struct {
	res      core.Resource[Request]
	validate *core.Validator
}

func NewService(req core.Requester, v *core.Validator) *Service {
	if v == nil {
		v = core.NewValidator()
	}
	InitValidators(v)
	return &Service{res: core.NewResource[Request](req, basePath), validate: v}
}

func InitValidators(v *core.Validator) {
	v.RegisterOneOf("maintenancestatus", Statuses...)
}

func (svc *Service) List(ctx context.Context, filter QueryFilter) (core.Page[Request], error) {
	return svc.res.List(ctx, filter.Values())
}

func (svc *Service) Get(ctx context.Context, id string) (Request, error) {
	return svc.res.Get(ctx, id)
}

// UpdateStatus moves a request along its lifecycle, with an optional note for the student.
func (svc *Service) UpdateStatus(ctx context.Context, id, status, note string) (Request, error) {
	su := statusUpdate{Status: core.CleanString(status, true /* lower */), Note: core.CleanString(note)}
	if err := svc.validate.Struct(su); err != nil {
		return Request{}, err
	}
	return svc.res.Patch(ctx, id, "status", su)
}

// Assign hands a request over to a staff member.
func (svc *Service) Assign(ctx context.Context, id, staff string) (Request, error) {
	a := assignment{AssignedTo: core.CleanString(staff)}
	if err := svc.validate.Struct(a); err != nil {
		return Request{}, err
	}
	return svc.res.Patch(ctx, id, "assign", a)
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.res.Delete(ctx, id)
}
