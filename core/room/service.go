package room

import (
	"context"

	"github.com/trezcool/dormadmin/core"
)

const basePath = "/api/rooms"

type Service struct {
	res      core.Resource[Room]
	validate *core.Validator
}

func NewService(req core.Requester, v *core.Validator) *Service {
	if v == nil {
		v = core.NewValidator()
	}
	InitValidators(v)
	return &Service{res: core.NewResource[Room](req, basePath), validate: v}
}

func (svc *Service) List(ctx context.Context, filter QueryFilter) (core.Page[Room], error) {
	return svc.res.List(ctx, filter.Values())
}

// ListByBuilding returns one page of the rooms of a building.
func (svc *Service) ListByBuilding(ctx context.Context, buildingID string, params core.ListParams) (core.Page[Room], error) {
	if buildingID = core.CleanString(buildingID); buildingID == "" {
		return core.Page[Room]{}, core.ErrNotFound
	}
	query := params.Values()
	env, err := svc.res.Requester().Do(ctx, core.Request{Path: svc.res.Path("building", buildingID), Query: query})
	if err != nil {
		return core.Page[Room]{}, err
	}
	return core.DecodePage[Room](env, query)
}

func (svc *Service) Get(ctx context.Context, id string) (Room, error) {
	return svc.res.Get(ctx, id)
}

func (svc *Service) Create(ctx context.Context, nr NewRoom) (Room, error) {
	if err := nr.Validate(svc.validate); err != nil {
		return Room{}, err
	}
	return svc.res.Create(ctx, nr)
}

func (svc *Service) Update(ctx context.Context, id string, ur UpdateRoom) (Room, error) {
	if err := ur.Validate(svc.validate); err != nil {
		return Room{}, err
	}
	return svc.res.Update(ctx, id, ur)
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.res.Delete(ctx, id)
}
