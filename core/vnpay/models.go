// Package vnpay creates VNPay payment links for invoices and checks the gateway's return.
package vnpay

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/dormadmin/core"
)

const (
	LocaleVN = "vn"
	LocaleEN = "en"

	CodeSuccess = "00"
)

var (
	Locales = []string{LocaleVN, LocaleEN}

	responseMessages = map[string]string{
		"00": "Transaction successful",
		"07": "Money deducted, transaction suspected of fraud",
		"09": "Card or account not registered for internet banking",
		"10": "Card or account verification failed more than 3 times",
		"11": "Payment session expired",
		"12": "Card or account is locked",
		"13": "Wrong transaction authentication password (OTP)",
		"24": "Transaction cancelled by the customer",
		"51": "Insufficient account balance",
		"65": "Daily transaction limit exceeded",
		"75": "Payment bank under maintenance",
		"79": "Wrong payment password entered too many times",
		"99": "Other error",
	}
)

// ResponseMessage maps a gateway response code (vnp_ResponseCode) to a readable text.
func ResponseMessage(code string) string {
	if msg, ok := responseMessages[strings.TrimSpace(code)]; ok {
		return msg
	}
	return "Unknown response code " + code
}

// LinkRequest asks the backend for a payment URL for (part of) an invoice.
type LinkRequest struct {
	InvoiceID string  `json:"invoiceId" validate:"notblank"`
	Amount    float64 `json:"amount" validate:"gt=0"`
	BankCode  string  `json:"bankCode,omitempty"`
	Locale    string  `json:"locale" validate:"vnplocale"`
	OrderInfo string  `json:"orderInfo,omitempty"`
}

func (lr *LinkRequest) Validate(v *core.Validator) error {
	lr.InvoiceID = core.CleanString(lr.InvoiceID)
	lr.BankCode = strings.ToUpper(core.CleanString(lr.BankCode))
	lr.Locale = core.CleanString(lr.Locale, true /* lower */)
	if lr.Locale == "" {
		lr.Locale = LocaleVN
	}
	lr.OrderInfo = core.CleanString(lr.OrderInfo)
	if lr.OrderInfo == "" {
		lr.OrderInfo = "Thanh toan hoa don " + lr.InvoiceID
	}
	return v.Struct(lr)
}

// ReturnResult is the backend's verdict on a gateway return.
type ReturnResult struct {
	InvoiceID     string  `json:"invoiceId"`
	Amount        float64 `json:"amount"`
	ResponseCode  string  `json:"responseCode"`
	TransactionNo string  `json:"transactionNo"`
	BankCode      string  `json:"bankCode"`
	Success       bool    `json:"success"`
	Message       string  `json:"message"`
}

// fillFrom completes the result with the gateway's own parameters.
func (res *ReturnResult) fillFrom(params url.Values) {
	if res.ResponseCode == "" {
		res.ResponseCode = params.Get("vnp_ResponseCode")
	}
	if res.TransactionNo == "" {
		res.TransactionNo = params.Get("vnp_TransactionNo")
	}
	if res.BankCode == "" {
		res.BankCode = params.Get("vnp_BankCode")
	}
	if res.InvoiceID == "" {
		res.InvoiceID = params.Get("vnp_TxnRef")
	}
	if res.Amount == 0 {
		// vnp_Amount is sent in hundredths of a dong
		if amt, err := strconv.ParseFloat(params.Get("vnp_Amount"), 64); err == nil {
			res.Amount = amt / 100
		}
	}
	if res.Message == "" && res.ResponseCode != "" {
		res.Message = ResponseMessage(res.ResponseCode)
	}
}

// ParseReturnURL extracts the gateway parameters from a pasted return URL
// (or a bare query string).
func ParseReturnURL(raw string) (url.Values, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, errors.New("empty return url")
	}
	query := raw
	if i := strings.Index(raw, "?"); i >= 0 {
		query = raw[i+1:]
	} else if strings.Contains(raw, "://") {
		return nil, errors.New("return url has no query parameters")
	}
	if i := strings.Index(query, "#"); i >= 0 {
		query = query[:i]
	}

	params, err := url.ParseQuery(query)
	if err != nil {
		return nil, errors.Wrap(err, "parsing return url")
	}
	if params.Get("vnp_ResponseCode") == "" || params.Get("vnp_SecureHash") == "" {
		return nil, errors.New("return url is missing the vnp_ResponseCode or vnp_SecureHash parameter")
	}
	return params, nil
}
