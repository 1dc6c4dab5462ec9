package fee

import (
	"context"
	"net/url"
	"time"

	"github.com/trezcool/dormadmin/core"
)

const basePath = "/api/fees"

type Service struct {
	res      core.Resource[Rate]
	validate *core.Validator
}

func NewService(req core.Requester, v *core.Validator) *Service {
	if v == nil {
		v = core.NewValidator()
	}
	InitValidators(v)
	return &Service{res: core.NewResource[Rate](req, basePath), validate: v}
}

func (svc *Service) List(ctx context.Context, filter QueryFilter) (core.Page[Rate], error) {
	return svc.res.List(ctx, filter.Values())
}

func (svc *Service) Get(ctx context.Context, id string) (Rate, error) {
	return svc.res.Get(ctx, id)
}

func (svc *Service) Create(ctx context.Context, nr NewRate) (Rate, error) {
	if err := nr.Validate(svc.validate); err != nil {
		return Rate{}, err
	}
	return svc.res.Create(ctx, nr)
}

func (svc *Service) Update(ctx context.Context, id string, ur UpdateRate) (Rate, error) {
	if err := svc.validate.Struct(ur); err != nil {
		return Rate{}, err
	}
	return svc.res.Update(ctx, id, ur)
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.res.Delete(ctx, id)
}

// Active returns the rate of feeType in effect at the given date (today when zero).
func (svc *Service) Active(ctx context.Context, feeType string, at time.Time) (Rate, error) {
	feeType = core.CleanString(feeType, true /* lower */)
	if err := svc.validate.Struct(activeQuery{Type: feeType}); err != nil {
		return Rate{}, err
	}
	if at.IsZero() {
		at = time.Now()
	}
	query := url.Values{"feeType": {feeType}, "date": {at.Format(core.DateLayout)}}
	r, err := svc.res.Fetch(ctx, core.Request{Path: svc.res.Path("active"), Query: query})
	if err == nil && r.ID == "" {
		return r, core.ErrNotFound
	}
	return r, err
}

type activeQuery struct {
	Type string `json:"feeType" validate:"feetype"`
}
