package vnpay

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/dormadmin/core"
)

const basePath = "/api/vnpay"

type Service struct {
	req      core.Requester
	validate *core.Validator
}

func NewService(req core.Requester, v *core.Validator) *Service {
	if v == nil {
		v = core.NewValidator()
	}
	InitValidators(v)
	return &Service{req: req, validate: v}
}

func InitValidators(v *core.Validator) {
	v.RegisterOneOf("vnplocale", Locales...)
}

// CreatePaymentURL returns the gateway URL the payer must open.
func (svc *Service) CreatePaymentURL(ctx context.Context, lr LinkRequest) (string, error) {
	if err := lr.Validate(svc.validate); err != nil {
		return "", err
	}
	env, err := svc.req.Do(ctx, core.Request{Method: http.MethodPost, Path: basePath + "/create-payment-url", Body: lr})
	if err != nil {
		return "", err
	}

	link := paymentURL(env)
	if link == "" {
		return "", errors.New("no payment url in response")
	}
	if _, err = url.ParseRequestURI(link); err != nil {
		return "", errors.Wrap(err, "invalid payment url")
	}
	return link, nil
}

// paymentURL finds the link in data.paymentUrl, data (a string) or a top-level paymentUrl.
func paymentURL(env *core.Envelope) string {
	if env.HasData() {
		var obj struct {
			PaymentURL string `json:"paymentUrl"`
		}
		if err := json.Unmarshal(env.Data, &obj); err == nil && obj.PaymentURL != "" {
			return obj.PaymentURL
		}
		var s string
		if err := json.Unmarshal(env.Data, &s); err == nil {
			return strings.TrimSpace(s)
		}
	}
	var top struct {
		PaymentURL string `json:"paymentUrl"`
	}
	if err := env.DecodeRaw(&top); err == nil {
		return top.PaymentURL
	}
	return ""
}

// VerifyReturn forwards the gateway's return parameters to the backend for verification.
func (svc *Service) VerifyReturn(ctx context.Context, params url.Values) (ReturnResult, error) {
	var res ReturnResult
	if len(params) == 0 {
		return res, errors.New("no return parameters")
	}
	env, err := svc.req.Do(ctx, core.Request{Method: http.MethodGet, Path: basePath + "/vnpay-return", Query: params})
	if err != nil {
		return res, err
	}
	var data struct {
		ReturnResult
		Success *bool `json:"success"`
	}
	if err = env.Decode(&data); err != nil {
		return res, errors.Wrap(err, "decoding return result")
	}

	res = data.ReturnResult
	res.fillFrom(params)
	if data.Success != nil {
		res.Success = *data.Success
	} else {
		res.Success = res.ResponseCode == CodeSuccess
	}
	if res.Message == "" {
		res.Message = env.Text()
	}
	return res, nil
}
