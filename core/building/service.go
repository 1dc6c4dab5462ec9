package building

import (
	"context"

	"github.com/trezcool/dormadmin/core"
)

const basePath = "/api/buildings"

type Service struct {
	res      core.Resource[Building]
	validate *core.Validator
}

func NewService(req core.Requester, v *core.Validator) *Service {
	if v == nil {
		v = core.NewValidator()
	}
	InitValidators(v)
	return &Service{res: core.NewResource[Building](req, basePath), validate: v}
}

func (svc *Service) List(ctx context.Context, filter QueryFilter) (core.Page[Building], error) {
	return svc.res.List(ctx, filter.Values())
}

func (svc *Service) Get(ctx context.Context, id string) (Building, error) {
	return svc.res.Get(ctx, id)
}

func (svc *Service) Create(ctx context.Context, nb NewBuilding) (Building, error) {
	if err := nb.Validate(svc.validate); err != nil {
		return Building{}, err
	}
	return svc.res.Create(ctx, nb)
}

func (svc *Service) Update(ctx context.Context, id string, ub UpdateBuilding) (Building, error) {
	if err := ub.Validate(svc.validate); err != nil {
		return Building{}, err
	}
	return svc.res.Update(ctx, id, ub)
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.res.Delete(ctx, id)
}
