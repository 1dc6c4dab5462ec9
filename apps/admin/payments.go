package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/dormadmin/core"
	"github.com/trezcool/dormadmin/core/payment"
)

func (cli *commandLine) paymentsCmd() *command {
	return &command{
		name:  "payments",
		usage: "record and review payments",
		actions: []action{
			{name: "list", usage: "[-invoice ID] [-student ID] [-method M] [-status S] [-from YYYY-MM-DD] [-to YYYY-MM-DD] [-page N] [-limit N]", run: cli.listPayments},
			{name: "get", usage: "-id ID", run: getAction(cli, "payments get", payment.Headers, cli.paySvc.Get)},
			{name: "record", usage: "-invoice ID -amount A -method cash|bank_transfer|vnpay|other [-transaction ID] [-date YYYY-MM-DD] [-note TEXT]", run: cli.recordPayment},
			{name: "export", usage: "[-o FILE] [list filters]", run: cli.exportPayments},
		},
	}
}

type paymentFilterArgs struct {
	from, to *string
}

func paymentFilterFlags(fs *flag.FlagSet, filter *payment.QueryFilter) paymentFilterArgs {
	fs.StringVar(&filter.InvoiceID, "invoice", "", "invoice id")
	fs.StringVar(&filter.StudentID, "student", "", "student id")
	fs.StringVar(&filter.Method, "method", "", "cash|bank_transfer|vnpay|other")
	fs.StringVar(&filter.Status, "status", "", "pending|completed|failed|refunded")
	return paymentFilterArgs{
		from: fs.String("from", "", "paid on or after (YYYY-MM-DD)"),
		to:   fs.String("to", "", "paid on or before (YYYY-MM-DD)"),
	}
}

func (a paymentFilterArgs) apply(filter *payment.QueryFilter) (err error) {
	if filter.From, err = parseDate("from", *a.from); err != nil {
		return err
	}
	filter.To, err = parseDate("to", *a.to)
	return err
}

func (cli *commandLine) listPayments(ctx context.Context, args []string) error {
	fs := cli.flags("payments list")
	var filter payment.QueryFilter
	cli.listFlags(fs, &filter.ListParams)
	period := paymentFilterFlags(fs, &filter)
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := period.apply(&filter); err != nil {
		return err
	}

	page, err := cli.paySvc.List(ctx, filter)
	if err != nil {
		return err
	}
	printPage(cli.out, payment.Headers, page)
	if len(page.Items) > 0 {
		fmt.Fprintf(cli.out, "completed on this page: %s\n", core.FormatMoney(payment.Sum(page.Items)))
	}
	return nil
}

func (cli *commandLine) recordPayment(ctx context.Context, args []string) error {
	fs := cli.flags("payments record")
	var np payment.NewPayment
	fs.StringVar(&np.InvoiceID, "invoice", "", "invoice id (required)")
	fs.Float64Var(&np.Amount, "amount", 0, "amount received, in VND (required)")
	fs.StringVar(&np.Method, "method", "", "cash|bank_transfer|vnpay|other (required)")
	fs.StringVar(&np.Note, "note", "", "free text")
	txn := fs.String("transaction", "", "bank or gateway transaction id")
	date := fs.String("date", "", "payment date (YYYY-MM-DD), defaults to today")
	if err := parse(fs, args); err != nil {
		return err
	}
	np.TransactionID = null.NewString(*txn, *txn != "")
	t, err := parseDate("paymentDate", *date)
	if err != nil {
		return err
	}
	np.PaidAt = null.NewTime(t, !t.IsZero())

	p, err := cli.paySvc.Record(ctx, np)
	if err != nil {
		return err
	}
	printRecord(cli.out, payment.Headers, p)
	fmt.Fprintln(cli.out, "payment recorded")
	return nil
}

func (cli *commandLine) exportPayments(ctx context.Context, args []string) error {
	fs := cli.flags("payments export")
	var filter payment.QueryFilter
	period := paymentFilterFlags(fs, &filter)
	out := fs.String("o", "", "output file (.xlsx), relative to the export dir")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := period.apply(&filter); err != nil {
		return err
	}

	items, err := fetchAll(ctx, func(ctx context.Context, page int) (core.Page[payment.Payment], error) {
		f := filter
		f.Page, f.Limit = page, exportPageSize
		return cli.paySvc.List(ctx, f)
	})
	if err != nil {
		return err
	}
	return exportItems(cli, cli.exportPath(*out, "payments"), "Payments", payment.Headers, items)
}
