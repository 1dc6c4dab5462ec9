package main

import (
	"context"
	"fmt"

	"github.com/trezcool/dormadmin/core"
	"github.com/trezcool/dormadmin/core/vnpay"
)

func (cli *commandLine) vnpayCmd() *command {
	return &command{
		name:  "vnpay",
		usage: "online payments through the VNPay gateway",
		actions: []action{
			{name: "link", usage: "-invoice ID -amount A [-bank CODE] [-locale vn|en] [-info TEXT] - create a payment link", run: cli.paymentLink},
			{name: "verify", usage: "-url RETURN_URL - check the gateway's redirect after a payment", run: cli.verifyReturn},
		},
	}
}

func (cli *commandLine) paymentLink(ctx context.Context, args []string) error {
	fs := cli.flags("vnpay link")
	var lr vnpay.LinkRequest
	fs.StringVar(&lr.InvoiceID, "invoice", "", "invoice id (required)")
	fs.Float64Var(&lr.Amount, "amount", 0, "amount to pay, in VND (required)")
	fs.StringVar(&lr.BankCode, "bank", "", "preselected bank code, e.g. NCB")
	fs.StringVar(&lr.Locale, "locale", vnpay.LocaleVN, "vn|en")
	fs.StringVar(&lr.OrderInfo, "info", "", "order description")
	if err := parse(fs, args); err != nil {
		return err
	}

	link, err := cli.vnpSvc.CreatePaymentURL(ctx, lr)
	if err != nil {
		return err
	}
	fmt.Fprintln(cli.out, link)
	return nil
}

func (cli *commandLine) verifyReturn(ctx context.Context, args []string) error {
	fs := cli.flags("vnpay verify")
	raw := fs.String("url", "", "the return url (or its query string) the gateway redirected to (required)")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := required(fs, "url"); err != nil {
		return err
	}
	params, err := vnpay.ParseReturnURL(*raw)
	if err != nil {
		return core.NewValidationError(nil, core.FieldError{Field: "url", Error: err.Error()})
	}

	res, err := cli.vnpSvc.VerifyReturn(ctx, params)
	if err != nil {
		return err
	}
	verdict := "payment failed"
	if res.Success {
		verdict = "payment succeeded"
	}
	fmt.Fprintf(cli.out, "%s: %s\n", verdict, res.Message)

	tw := newTabWriter(cli.out)
	fmt.Fprintf(tw, "INVOICE\t%s\n", res.InvoiceID)
	fmt.Fprintf(tw, "AMOUNT\t%s\n", core.FormatMoney(res.Amount))
	fmt.Fprintf(tw, "CODE\t%s\n", res.ResponseCode)
	fmt.Fprintf(tw, "TRANSACTION\t%s\n", res.TransactionNo)
	fmt.Fprintf(tw, "BANK\t%s\n", res.BankCode)
	return tw.Flush()
}
