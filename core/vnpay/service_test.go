package vnpay

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/dormadmin/core"
	"github.com/trezcool/dormadmin/services/api"
	"github.com/trezcool/dormadmin/storage/session"
	"github.com/trezcool/dormadmin/tests"
)

const gatewayURL = "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html?vnp_Amount=150000000&vnp_TxnRef=i1"

func setup(t *testing.T) (*testutil.APIStub, *Service) {
	stub := testutil.NewAPIStub(t)
	client := api.NewClient(api.Options{BaseURL: stub.URL(), Session: session.NewMemStore("tok")})
	return stub, NewService(client, nil)
}

func TestResponseMessage(t *testing.T) {
	assert.Equal(t, "Transaction successful", ResponseMessage("00"))
	assert.Equal(t, "Transaction cancelled by the customer", ResponseMessage("24"))
	assert.Equal(t, "Insufficient account balance", ResponseMessage(" 51 "))
	assert.Equal(t, "Unknown response code 42", ResponseMessage("42"))
}

func TestParseReturnURL(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr string
		want    url.Values
	}{
		{name: "empty", raw: "  ", wantErr: "empty return url"},
		{name: "no query", raw: "http://localhost:3000/payment/result", wantErr: "return url has no query parameters"},
		{name: "missing hash", raw: "http://localhost:3000/r?vnp_ResponseCode=00", wantErr: "return url is missing the vnp_ResponseCode or vnp_SecureHash parameter"},
		{
			name: "full url",
			raw:  "http://localhost:3000/payment/result?vnp_ResponseCode=00&vnp_TxnRef=i1&vnp_SecureHash=abc#done",
			want: url.Values{"vnp_ResponseCode": {"00"}, "vnp_TxnRef": {"i1"}, "vnp_SecureHash": {"abc"}},
		},
		{
			name: "bare query",
			raw:  "vnp_ResponseCode=24&vnp_SecureHash=abc",
			want: url.Values{"vnp_ResponseCode": {"24"}, "vnp_SecureHash": {"abc"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseReturnURL(tt.raw)
			if tt.wantErr != "" {
				assert.EqualError(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestService_CreatePaymentURL(t *testing.T) {
	tests := []struct {
		name string
		body interface{}
	}{
		{name: "data.paymentUrl", body: testutil.Ok(echo.Map{"paymentUrl": gatewayURL})},
		{name: "data string", body: testutil.Success(gatewayURL)},
		{name: "top-level paymentUrl", body: echo.Map{"success": true, "paymentUrl": gatewayURL}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub, svc := setup(t)
			stub.Reply(http.MethodPost, basePath+"/create-payment-url", http.StatusOK, tt.body)

			link, err := svc.CreatePaymentURL(context.Background(), LinkRequest{InvoiceID: "i1", Amount: 1500000, BankCode: "ncb"})
			require.NoError(t, err)
			assert.Equal(t, gatewayURL, link)
			testutil.JSONEqual(t,
				[]byte(`{"invoiceId":"i1","amount":1500000,"bankCode":"NCB","locale":"vn","orderInfo":"Thanh toan hoa don i1"}`),
				stub.Last(t).Body,
			)
		})
	}
}

func TestService_CreatePaymentURL_errors(t *testing.T) {
	stub, svc := setup(t)
	stub.Reply(http.MethodPost, basePath+"/create-payment-url", http.StatusOK, testutil.Ok(echo.Map{}))

	_, err := svc.CreatePaymentURL(context.Background(), LinkRequest{Amount: -1, Locale: "fr"})
	vErr, ok := core.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, map[string]string{
		"invoiceId": "this field cannot be blank",
		"amount":    "amount must be greater than 0",
		"locale":    "must be one of: vn, en",
	}, vErr.FieldMap())
	assert.Equal(t, 0, stub.Count())

	_, err = svc.CreatePaymentURL(context.Background(), LinkRequest{InvoiceID: "i1", Amount: 1, Locale: "EN"})
	assert.EqualError(t, err, "no payment url in response")
}

func TestService_VerifyReturn(t *testing.T) {
	params := url.Values{
		"vnp_Amount":        {"150000000"},
		"vnp_ResponseCode":  {"00"},
		"vnp_TxnRef":        {"i1"},
		"vnp_TransactionNo": {"14012345"},
		"vnp_SecureHash":    {"abc"},
	}

	tests := []struct {
		name string
		body interface{}
		want ReturnResult
	}{
		{
			name: "verdict from backend",
			body: testutil.Ok(echo.Map{"invoiceId": "i1", "amount": 1500000, "responseCode": "00", "success": true}),
			want: ReturnResult{InvoiceID: "i1", Amount: 1500000, ResponseCode: "00", TransactionNo: "14012345", Success: true, Message: "Transaction successful"},
		},
		{
			name: "bad signature",
			body: testutil.Ok(echo.Map{"success": false, "message": "Invalid signature"}),
			want: ReturnResult{InvoiceID: "i1", Amount: 1500000, ResponseCode: "00", TransactionNo: "14012345", Message: "Invalid signature"},
		},
		{
			name: "verdict from response code",
			body: echo.Map{"success": true, "message": "Payment verified"},
			want: ReturnResult{InvoiceID: "i1", Amount: 1500000, ResponseCode: "00", TransactionNo: "14012345", Success: true, Message: "Transaction successful"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub, svc := setup(t)
			stub.Reply(http.MethodGet, basePath+"/vnpay-return", http.StatusOK, tt.body)

			res, err := svc.VerifyReturn(context.Background(), params)
			require.NoError(t, err)
			assert.Equal(t, tt.want, res)
			assert.Equal(t, params, stub.Last(t).Query)
		})
	}
}

func TestService_VerifyReturn_noParams(t *testing.T) {
	_, svc := setup(t)
	_, err := svc.VerifyReturn(context.Background(), nil)
	assert.EqualError(t, err, "no return parameters")
}
