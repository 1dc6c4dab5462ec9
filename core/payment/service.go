package payment

import (
	"context"
	"net/http"

	"github.com/trezcool/dormadmin/core"
)

const basePath = "/api/payments"

type Service struct {
	res      core.Resource[Payment]
	validate *core.Validator
}

func NewService(req core.Requester, v *core.Validator) *Service {
	if v == nil {
		v = core.NewValidator()
	}
	InitValidators(v)
	return &Service{res: core.NewResource[Payment](req, basePath), validate: v}
}

func (svc *Service) List(ctx context.Context, filter QueryFilter) (core.Page[Payment], error) {
	if err := svc.validate.Struct(filter); err != nil {
		return core.Page[Payment]{}, err
	}
	return svc.res.List(ctx, filter.Values())
}

func (svc *Service) Get(ctx context.Context, id string) (Payment, error) {
	return svc.res.Get(ctx, id)
}

func (svc *Service) Record(ctx context.Context, np NewPayment) (Payment, error) {
	if err := np.Validate(svc.validate); err != nil {
		return Payment{}, err
	}
	return svc.res.Create(ctx, np)
}

// ByInvoice lists every payment made for an invoice.
func (svc *Service) ByInvoice(ctx context.Context, invoiceID string) ([]Payment, error) {
	if invoiceID = core.CleanString(invoiceID); invoiceID == "" {
		return nil, core.ErrNotFound
	}
	env, err := svc.res.Requester().Do(ctx, core.Request{Method: http.MethodGet, Path: svc.res.Path("invoice", invoiceID)})
	if err != nil {
		return nil, err
	}
	page, err := core.DecodePage[Payment](env, nil)
	return page.Items, err
}
