package vehicle

import (
	"context"
	"net/http"

	"github.com/trezcool/dormadmin/core"
)

const basePath = "/api/vehicles"

type Service struct {
	res      core.Resource[Vehicle]
	validate *core.Validator
}

func NewService(req core.Requester, v *core.Validator) *Service {
	if v == nil {
		v = core.NewValidator()
	}
	InitValidators(v)
	return &Service{res: core.NewResource[Vehicle](req, basePath), validate: v}
}

func (svc *Service) List(ctx context.Context, filter QueryFilter) (core.Page[Vehicle], error) {
	return svc.res.List(ctx, filter.Values())
}

func (svc *Service) Get(ctx context.Context, id string) (Vehicle, error) {
	return svc.res.Get(ctx, id)
}

// Create registers a vehicle, as multipart when an image is attached.
func (svc *Service) Create(ctx context.Context, nv NewVehicle) (Vehicle, error) {
	if err := nv.Validate(svc.validate); err != nil {
		return Vehicle{}, err
	}
	if nv.Image == nil {
		return svc.res.Create(ctx, nv)
	}
	return svc.res.Fetch(ctx, core.Request{
		Method: http.MethodPost,
		Path:   svc.res.Path(),
		Form:   nv.form(),
		Files:  []core.File{{Field: imageField, Filename: nv.Image.Filename, Reader: nv.Image.Reader}},
	})
}

// Update modifies a vehicle, as multipart when an image is attached.
func (svc *Service) Update(ctx context.Context, id string, uv UpdateVehicle) (Vehicle, error) {
	if err := uv.Validate(svc.validate); err != nil {
		return Vehicle{}, err
	}
	if uv.Image == nil {
		return svc.res.Update(ctx, id, uv)
	}
	if id = core.CleanString(id); id == "" {
		return Vehicle{}, core.ErrNotFound
	}
	return svc.res.Fetch(ctx, core.Request{
		Method: http.MethodPut,
		Path:   svc.res.Path(id),
		Form:   uv.form(),
		Files:  []core.File{{Field: imageField, Filename: uv.Image.Filename, Reader: uv.Image.Reader}},
	})
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.res.Delete(ctx, id)
}
