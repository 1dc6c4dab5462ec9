package invoice

import (
	"context"
	"net/http"

	"github.com/pkg/errors"

	"github.com/trezcool/dormadmin/core"
)

const (
	basePath    = "/api/invoices"
	bulkPath    = basePath + "/generate-bulk"
	previewPath = bulkPath + "/preview"
)

type Service struct {
	res      core.Resource[Invoice]
	validate *core.Validator
}

func NewService(req core.Requester, v *core.Validator) *Service {
	if v == nil {
		v = core.NewValidator()
	}
	InitValidators(v)
	return &Service{res: core.NewResource[Invoice](req, basePath), validate: v}
}

func (svc *Service) List(ctx context.Context, filter QueryFilter) (core.Page[Invoice], error) {
	return svc.res.List(ctx, filter.Values())
}

func (svc *Service) Get(ctx context.Context, id string) (Invoice, error) {
	return svc.res.Get(ctx, id)
}

func (svc *Service) Create(ctx context.Context, ni NewInvoice) (Invoice, error) {
	if err := ni.Validate(svc.validate); err != nil {
		return Invoice{}, err
	}
	return svc.res.Create(ctx, ni)
}

func (svc *Service) Update(ctx context.Context, id string, ui UpdateInvoice) (Invoice, error) {
	if err := ui.Validate(svc.validate); err != nil {
		return Invoice{}, err
	}
	return svc.res.Update(ctx, id, ui)
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.res.Delete(ctx, id)
}

// UpdateStatus moves an invoice to status, e.g. to cancel it or mark it paid.
func (svc *Service) UpdateStatus(ctx context.Context, id, status string, note ...string) (Invoice, error) {
	su := statusUpdate{Status: core.CleanString(status, true /* lower */)}
	if len(note) > 0 {
		su.Note = core.CleanString(note[0])
	}
	if err := svc.validate.Struct(su); err != nil {
		return Invoice{}, err
	}
	return svc.res.Patch(ctx, id, "status", su)
}

// GenerateBulk generates the invoices of a whole period (optionally one building).
func (svc *Service) GenerateBulk(ctx context.Context, br BulkRequest) (BulkResult, error) {
	return svc.bulk(ctx, bulkPath, br)
}

// PreviewBulk computes what GenerateBulk would create without persisting anything.
func (svc *Service) PreviewBulk(ctx context.Context, br BulkRequest) (BulkResult, error) {
	return svc.bulk(ctx, previewPath, br)
}

func (svc *Service) bulk(ctx context.Context, path string, br BulkRequest) (BulkResult, error) {
	var res BulkResult
	if err := br.Validate(svc.validate); err != nil {
		return res, err
	}

	env, err := svc.res.Requester().Do(ctx, core.Request{Method: http.MethodPost, Path: path, Body: br})
	if err != nil {
		return res, err
	}
	if err = env.Decode(&res); err != nil {
		return res, errors.Wrap(err, "decoding bulk result")
	}
	if res.Created == 0 && len(res.Invoices) > 0 {
		res.Created = len(res.Invoices)
	}
	if res.Failed == 0 && len(res.Errors) > 0 {
		res.Failed = len(res.Errors)
	}
	return res, nil
}
