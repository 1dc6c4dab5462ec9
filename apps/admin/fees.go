package main

import (
	"context"
	"fmt"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/dormadmin/core/fee"
)

func (cli *commandLine) feesCmd() *command {
	return &command{
		name:  "fees",
		usage: "manage the fee rates used for billing",
		actions: []action{
			{name: "list", usage: "[-type T] [-active=true|false] [-page N] [-limit N]", run: cli.listRates},
			{name: "get", usage: "-id ID", run: getAction(cli, "fees get", fee.Headers, cli.feeSvc.Get)},
			{name: "create", usage: "-name NAME -type T -price P -from YYYY-MM-DD [-to YYYY-MM-DD] [-unit U] [-inactive]", run: cli.createRate},
			{name: "update", usage: "-id ID [-name NAME] [-price P] [-unit U] [-from YYYY-MM-DD] [-to YYYY-MM-DD] [-active=true|false]", run: cli.updateRate},
			{name: "delete", usage: "-id ID [-yes]", run: deleteAction(cli, "fees delete", "fee rate", cli.feeSvc.Delete)},
			{name: "active", usage: "-type T [-date YYYY-MM-DD]", run: cli.activeRate},
		},
	}
}

func (cli *commandLine) listRates(ctx context.Context, args []string) error {
	fs := cli.flags("fees list")
	var filter fee.QueryFilter
	cli.listFlags(fs, &filter.ListParams)
	fs.StringVar(&filter.Type, "type", "", "fee type")
	fs.Bool("active", false, "only active (true) or inactive (false) rates")
	if err := parse(fs, args); err != nil {
		return err
	}
	filter.Active = visited(fs).bool("active")

	page, err := cli.feeSvc.List(ctx, filter)
	if err != nil {
		return err
	}
	printPage(cli.out, fee.Headers, page)
	return nil
}

func (cli *commandLine) createRate(ctx context.Context, args []string) error {
	fs := cli.flags("fees create")
	var nr fee.NewRate
	fs.StringVar(&nr.Name, "name", "", "rate name (required)")
	fs.StringVar(&nr.Type, "type", "", "room|electricity|water|parking_motorbike|parking_car|parking_bicycle|service (required)")
	fs.Float64Var(&nr.UnitPrice, "price", 0, "unit price, in VND")
	fs.StringVar(&nr.Unit, "unit", "", "billing unit, e.g. kWh")
	fs.StringVar(&nr.Description, "description", "", "free text")
	from := fs.String("from", "", "effective from (YYYY-MM-DD, required)")
	to := fs.String("to", "", "effective until (YYYY-MM-DD, exclusive)")
	inactive := fs.Bool("inactive", false, "create the rate disabled")
	if err := parse(fs, args); err != nil {
		return err
	}
	var err error
	if nr.EffectiveFrom, err = parseDate("effectiveFrom", *from); err != nil {
		return err
	}
	end, err := parseDate("effectiveTo", *to)
	if err != nil {
		return err
	}
	nr.EffectiveTo = null.NewTime(end, !end.IsZero())
	if *inactive {
		active := false
		nr.IsActive = &active
	}

	r, err := cli.feeSvc.Create(ctx, nr)
	if err != nil {
		return err
	}
	printRecord(cli.out, fee.Headers, r)
	fmt.Fprintln(cli.out, "fee rate created")
	return nil
}

func (cli *commandLine) updateRate(ctx context.Context, args []string) error {
	fs := cli.flags("fees update")
	id := fs.String("id", "", "rate id (required)")
	fs.String("name", "", "rate name")
	fs.Float64("price", 0, "unit price, in VND")
	fs.String("unit", "", "billing unit")
	fs.String("description", "", "free text")
	fs.String("from", "", "effective from (YYYY-MM-DD)")
	fs.String("to", "", "effective until (YYYY-MM-DD, exclusive)")
	fs.Bool("active", true, "enable or disable the rate")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := required(fs, "id"); err != nil {
		return err
	}
	set := visited(fs)
	if set.count("id") == 0 {
		fmt.Fprintln(cli.out, "nothing to update")
		fs.Usage()
		return errHelp
	}

	ur := fee.UpdateRate{
		Name:        set.str("name"),
		UnitPrice:   set.float("price"),
		Unit:        set.str("unit"),
		Description: set.str("description"),
		IsActive:    set.bool("active"),
	}
	var err error
	if ur.EffectiveFrom, err = set.date("from"); err != nil {
		return err
	}
	if ur.EffectiveTo, err = set.date("to"); err != nil {
		return err
	}

	r, err := cli.feeSvc.Update(ctx, *id, ur)
	if err != nil {
		return err
	}
	printRecord(cli.out, fee.Headers, r)
	fmt.Fprintln(cli.out, "fee rate updated")
	return nil
}

func (cli *commandLine) activeRate(ctx context.Context, args []string) error {
	fs := cli.flags("fees active")
	typ := fs.String("type", "", "fee type (required)")
	date := fs.String("date", "", "date (YYYY-MM-DD), defaults to today")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := required(fs, "type"); err != nil {
		return err
	}
	at, err := parseDate("date", *date)
	if err != nil {
		return err
	}
	if at.IsZero() {
		at = nowFunc().UTC().Truncate(24 * time.Hour)
	}

	r, err := cli.feeSvc.Active(ctx, *typ, at)
	if err != nil {
		return err
	}
	printRecord(cli.out, fee.Headers, r)
	return nil
}
