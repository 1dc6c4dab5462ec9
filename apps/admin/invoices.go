package main

import (
	"context"
	"flag"
	"fmt"
	"strconv"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/dormadmin/core"
	"github.com/trezcool/dormadmin/core/invoice"
	"github.com/trezcool/dormadmin/core/payment"
)

func (cli *commandLine) invoicesCmd() *command {
	return &command{
		name:  "invoices",
		usage: "manage invoices and generate the monthly ones",
		actions: []action{
			{name: "list", usage: "[-status S] [-type T] [-month M] [-year Y] [-room ID] [-student ID] [-building ID] [-page N] [-limit N]", run: cli.listInvoices},
			{name: "get", usage: "-id ID", run: cli.getInvoice},
			{name: "delete", usage: "-id ID [-yes]", run: deleteAction(cli, "invoices delete", "invoice", cli.invSvc.Delete)},
			{name: "status", usage: "-id ID -status pending|paid|partially_paid|overdue|cancelled [-note TEXT]", run: cli.invoiceStatus},
			{name: "generate", usage: "-month M -year Y -types room,electricity,... [-building ID] [-due YYYY-MM-DD] [-overwrite] [-yes]", run: cli.generateInvoices},
			{name: "preview", usage: "-month M -year Y -types room,electricity,... [-building ID] [-due YYYY-MM-DD]", run: cli.previewInvoices},
			{name: "export", usage: "[-o FILE] [list filters]", run: cli.exportInvoices},
		},
	}
}

func invoiceFilterFlags(fs *flag.FlagSet, filter *invoice.QueryFilter) {
	fs.StringVar(&filter.Status, "status", "", "pending|paid|partially_paid|overdue|cancelled")
	fs.StringVar(&filter.Type, "type", "", "room|electricity|water|utility|parking|service")
	fs.IntVar(&filter.Month, "month", 0, "billing month (1-12)")
	fs.IntVar(&filter.Year, "year", 0, "billing year")
	fs.StringVar(&filter.RoomID, "room", "", "room id")
	fs.StringVar(&filter.StudentID, "student", "", "student id")
	fs.StringVar(&filter.BuildingID, "building", "", "building id")
}

func (cli *commandLine) listInvoices(ctx context.Context, args []string) error {
	fs := cli.flags("invoices list")
	var filter invoice.QueryFilter
	cli.listFlags(fs, &filter.ListParams)
	invoiceFilterFlags(fs, &filter)
	if err := parse(fs, args); err != nil {
		return err
	}

	page, err := cli.invSvc.List(ctx, filter)
	if err != nil {
		return err
	}
	printPage(cli.out, invoice.Headers, page)
	return nil
}

func (cli *commandLine) getInvoice(ctx context.Context, args []string) error {
	fs := cli.flags("invoices get")
	id := fs.String("id", "", "invoice id (required)")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := required(fs, "id"); err != nil {
		return err
	}

	inv, err := cli.invSvc.Get(ctx, *id)
	if err != nil {
		return err
	}
	printRecord(cli.out, invoice.Headers, inv)
	fmt.Fprintf(cli.out, "outstanding: %s\n", core.FormatMoney(inv.Outstanding()))

	if len(inv.Items) > 0 {
		fmt.Fprintln(cli.out)
		tw := newTabWriter(cli.out)
		fmt.Fprintln(tw, "ITEM\tQTY\tUNIT PRICE\tAMOUNT")
		for _, it := range inv.Items {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
				it.Description, strconv.FormatFloat(it.Quantity, 'f', -1, 64),
				core.FormatMoney(it.UnitPrice), core.FormatMoney(it.Amount))
		}
		_ = tw.Flush()
	}

	payments, err := cli.paySvc.ByInvoice(ctx, inv.ID)
	switch {
	case core.IsNotFound(err):
		return nil
	case err != nil:
		return err
	case len(payments) > 0:
		fmt.Fprintln(cli.out)
		printTable(cli.out, payment.Headers, payments)
		fmt.Fprintf(cli.out, "paid: %s\n", core.FormatMoney(payment.Sum(payments)))
	}
	return nil
}

func (cli *commandLine) invoiceStatus(ctx context.Context, args []string) error {
	fs := cli.flags("invoices status")
	id := fs.String("id", "", "invoice id (required)")
	status := fs.String("status", "", "pending|paid|partially_paid|overdue|cancelled (required)")
	note := fs.String("note", "", "reason of the change")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := required(fs, "id", "status"); err != nil {
		return err
	}

	inv, err := cli.invSvc.UpdateStatus(ctx, *id, *status, *note)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "invoice %s is now %s\n", inv.Number, inv.Status)
	return nil
}

func bulkFlags(fs *flag.FlagSet, br *invoice.BulkRequest) (types, due *string) {
	fs.IntVar(&br.Month, "month", 0, "billing month (1-12, required)")
	fs.IntVar(&br.Year, "year", 0, "billing year (required)")
	fs.StringVar(&br.BuildingID, "building", "", "only the rooms of this building")
	types = fs.String("types", "", "comma separated invoice types (required): room,electricity,water,utility,parking,service")
	due = fs.String("due", "", "due date (YYYY-MM-DD)")
	return types, due
}

func (cli *commandLine) bulkRequest(name string, args []string, withOverwrite bool) (invoice.BulkRequest, bool, error) {
	fs := cli.flags(name)
	var br invoice.BulkRequest
	types, due := bulkFlags(fs, &br)
	var yes *bool
	if withOverwrite {
		fs.BoolVar(&br.Overwrite, "overwrite", false, "replace the invoices already generated for the period")
		yes = fs.Bool("yes", false, "do not ask for confirmation")
	}
	if err := parse(fs, args); err != nil {
		return br, false, err
	}
	br.Types = core.SplitList(*types)
	t, err := parseDate("dueDate", *due)
	if err != nil {
		return br, false, err
	}
	br.DueDate = null.NewTime(t, !t.IsZero())
	return br, yes != nil && *yes, nil
}

func (cli *commandLine) generateInvoices(ctx context.Context, args []string) error {
	br, yes, err := cli.bulkRequest("invoices generate", args, true)
	if err != nil {
		return err
	}
	if br.Overwrite && !yes && !cli.confirm(fmt.Sprintf("Replace the invoices of %02d/%d?", br.Month, br.Year)) {
		fmt.Fprintln(cli.out, "aborted")
		return nil
	}

	res, err := cli.invSvc.GenerateBulk(ctx, br)
	if err != nil {
		return err
	}
	cli.printBulkResult(res)
	return nil
}

func (cli *commandLine) previewInvoices(ctx context.Context, args []string) error {
	br, _, err := cli.bulkRequest("invoices preview", args, false)
	if err != nil {
		return err
	}

	res, err := cli.invSvc.PreviewBulk(ctx, br)
	if err != nil {
		return err
	}
	if len(res.Invoices) > 0 {
		printTable(cli.out, invoice.Headers, res.Invoices)
	}
	cli.printBulkResult(res)
	return nil
}

func (cli *commandLine) printBulkResult(res invoice.BulkResult) {
	fmt.Fprintf(cli.out, "created: %d · skipped: %d · failed: %d · total: %s\n",
		res.Created, res.Skipped, res.Failed, core.FormatMoney(res.Total()))
	if len(res.Errors) == 0 {
		return
	}
	tw := newTabWriter(cli.out)
	fmt.Fprintln(tw, "ROOM\tREASON")
	for _, e := range res.Errors {
		label := e.RoomNumber
		if label == "" {
			label = e.RoomID
		}
		fmt.Fprintf(tw, "%s\t%s\n", label, e.Reason)
	}
	_ = tw.Flush()
}

func (cli *commandLine) exportInvoices(ctx context.Context, args []string) error {
	fs := cli.flags("invoices export")
	var filter invoice.QueryFilter
	invoiceFilterFlags(fs, &filter)
	out := fs.String("o", "", "output file (.xlsx), relative to the export dir")
	if err := parse(fs, args); err != nil {
		return err
	}

	items, err := fetchAll(ctx, func(ctx context.Context, page int) (core.Page[invoice.Invoice], error) {
		f := filter
		f.Page, f.Limit = page, exportPageSize
		return cli.invSvc.List(ctx, f)
	})
	if err != nil {
		return err
	}
	return exportItems(cli, cli.exportPath(*out, "invoices"), "Invoices", invoice.Headers, items)
}
