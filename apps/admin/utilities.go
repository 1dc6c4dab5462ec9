package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/dormadmin/core"
	"github.com/trezcool/dormadmin/core/utility"
)

func (cli *commandLine) utilitiesCmd() *command {
	return &command{
		name:  "utilities",
		usage: "record electricity & water meter readings",
		actions: []action{
			{name: "list", usage: "[-building ID] [-room ID] [-month M] [-year Y] [-page N] [-limit N]", run: cli.listReadings},
			{name: "get", usage: "-id ID", run: getAction(cli, "utilities get", utility.Headers, cli.utilSvc.Get)},
			{name: "record", usage: "-room ID -month M -year Y -electricity KWH -water M3 [-date YYYY-MM-DD] [-notes TEXT]", run: cli.recordReading},
			{name: "delete", usage: "-id ID [-yes]", run: deleteAction(cli, "utilities delete", "reading", cli.utilSvc.Delete)},
			{name: "import", usage: "-file FILE.xlsx (columns: " + strings.Join(utility.ImportColumns, ", ") + ")", run: cli.importReadings},
			{name: "export", usage: "[-o FILE] [list filters]", run: cli.exportReadings},
		},
	}
}

func readingFilterFlags(fs *flag.FlagSet, filter *utility.QueryFilter) {
	fs.StringVar(&filter.BuildingID, "building", "", "building id")
	fs.StringVar(&filter.RoomID, "room", "", "room id")
	fs.IntVar(&filter.Month, "month", 0, "month (1-12)")
	fs.IntVar(&filter.Year, "year", 0, "year")
}

func (cli *commandLine) listReadings(ctx context.Context, args []string) error {
	fs := cli.flags("utilities list")
	var filter utility.QueryFilter
	cli.listFlags(fs, &filter.ListParams)
	readingFilterFlags(fs, &filter)
	if err := parse(fs, args); err != nil {
		return err
	}

	page, err := cli.utilSvc.List(ctx, filter)
	if err != nil {
		return err
	}
	printPage(cli.out, utility.Headers, page)
	return nil
}

func (cli *commandLine) recordReading(ctx context.Context, args []string) error {
	fs := cli.flags("utilities record")
	var nr utility.NewReading
	fs.StringVar(&nr.RoomID, "room", "", "room id (required)")
	fs.IntVar(&nr.Month, "month", 0, "month (1-12, required)")
	fs.IntVar(&nr.Year, "year", 0, "year (required)")
	fs.Float64Var(&nr.Electricity, "electricity", 0, "current electricity index, in kWh")
	fs.Float64Var(&nr.Water, "water", 0, "current water index, in m³")
	fs.StringVar(&nr.Notes, "notes", "", "free text")
	date := fs.String("date", "", "reading date (YYYY-MM-DD), defaults to today")
	if err := parse(fs, args); err != nil {
		return err
	}
	var err error
	if nr.ReadingDate, err = parseDate("readingDate", *date); err != nil {
		return err
	}

	rd, err := cli.utilSvc.Record(ctx, nr)
	if err != nil {
		return err
	}
	printRecord(cli.out, utility.Headers, rd)
	c := rd.Consumption()
	fmt.Fprintf(cli.out, "consumption: %s kWh · %s m³\n",
		strconv.FormatFloat(c.Electricity, 'f', -1, 64), strconv.FormatFloat(c.Water, 'f', -1, 64))
	return nil
}

func (cli *commandLine) importReadings(ctx context.Context, args []string) error {
	fs := cli.flags("utilities import")
	path := fs.String("file", "", "xlsx workbook to import (required)")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := required(fs, "file"); err != nil {
		return err
	}

	f, err := os.Open(*path)
	if err != nil {
		return errors.Wrap(err, "opening import file")
	}
	defer f.Close()

	res, err := cli.utilSvc.Import(ctx, f)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "recorded %d readings\n", len(res.Recorded))
	for _, rowErr := range res.Errors {
		fmt.Fprintln(cli.out, rowErr.Error())
	}
	if len(res.Errors) > 0 {
		return errors.Errorf("%d rows could not be recorded", len(res.Errors))
	}
	return nil
}

func (cli *commandLine) exportReadings(ctx context.Context, args []string) error {
	fs := cli.flags("utilities export")
	var filter utility.QueryFilter
	readingFilterFlags(fs, &filter)
	out := fs.String("o", "", "output file (.xlsx), relative to the export dir")
	if err := parse(fs, args); err != nil {
		return err
	}

	items, err := fetchAll(ctx, func(ctx context.Context, page int) (core.Page[utility.Reading], error) {
		f := filter
		f.Page, f.Limit = page, exportPageSize
		return cli.utilSvc.List(ctx, f)
	})
	if err != nil {
		return err
	}
	return exportItems(cli, cli.exportPath(*out, "readings"), "Readings", utility.Headers, items)
}
