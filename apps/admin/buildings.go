package main

import (
	"context"
	"fmt"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/dormadmin/core/building"
)

func (cli *commandLine) buildingsCmd() *command {
	return &command{
		name:  "buildings",
		usage: "manage dormitory buildings",
		actions: []action{
			{name: "list", usage: "[-status S] [-gender G] [-search TEXT] [-page N] [-limit N]", run: cli.listBuildings},
			{name: "get", usage: "-id ID", run: getAction(cli, "buildings get", building.Headers, cli.bldSvc.Get)},
			{name: "create", usage: "-name NAME -floors N -gender male|female|mixed [-code C] [-address A] [-status S] [-manager USER_ID]", run: cli.createBuilding},
			{name: "update", usage: "-id ID [-name NAME] [-floors N] [-gender G] [-code C] [-address A] [-status S] [-manager USER_ID]", run: cli.updateBuilding},
			{name: "delete", usage: "-id ID [-yes]", run: deleteAction(cli, "buildings delete", "building", cli.bldSvc.Delete)},
		},
	}
}

func (cli *commandLine) listBuildings(ctx context.Context, args []string) error {
	fs := cli.flags("buildings list")
	var filter building.QueryFilter
	cli.listFlags(fs, &filter.ListParams)
	fs.StringVar(&filter.Status, "status", "", "active|inactive|maintenance")
	fs.StringVar(&filter.Gender, "gender", "", "male|female|mixed")
	if err := parse(fs, args); err != nil {
		return err
	}

	page, err := cli.bldSvc.List(ctx, filter)
	if err != nil {
		return err
	}
	printPage(cli.out, building.Headers, page)
	return nil
}

func (cli *commandLine) createBuilding(ctx context.Context, args []string) error {
	fs := cli.flags("buildings create")
	var nb building.NewBuilding
	fs.StringVar(&nb.Name, "name", "", "building name (required)")
	fs.StringVar(&nb.Code, "code", "", "short code, e.g. A1")
	fs.StringVar(&nb.Address, "address", "", "street address")
	fs.IntVar(&nb.Floors, "floors", 0, "number of floors (required)")
	fs.StringVar(&nb.Gender, "gender", "", "male|female|mixed (required)")
	fs.StringVar(&nb.Status, "status", "", "active|inactive|maintenance")
	fs.StringVar(&nb.Description, "description", "", "free text")
	manager := fs.String("manager", "", "the managing staff's user id")
	if err := parse(fs, args); err != nil {
		return err
	}
	nb.Manager = null.NewString(*manager, *manager != "")

	bld, err := cli.bldSvc.Create(ctx, nb)
	if err != nil {
		return err
	}
	printRecord(cli.out, building.Headers, bld)
	fmt.Fprintln(cli.out, "building created")
	return nil
}

func (cli *commandLine) updateBuilding(ctx context.Context, args []string) error {
	fs := cli.flags("buildings update")
	id := fs.String("id", "", "building id (required)")
	fs.String("name", "", "building name")
	fs.String("code", "", "short code")
	fs.String("address", "", "street address")
	fs.Int("floors", 0, "number of floors")
	fs.String("gender", "", "male|female|mixed")
	fs.String("status", "", "active|inactive|maintenance")
	fs.String("description", "", "free text")
	fs.String("manager", "", "the managing staff's user id")
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

	bld, err := cli.bldSvc.Update(ctx, *id, building.UpdateBuilding{
		Name:        set.str("name"),
		Code:        set.str("code"),
		Address:     set.str("address"),
		Floors:      set.int("floors"),
		Gender:      set.str("gender"),
		Status:      set.str("status"),
		Description: set.str("description"),
		Manager:     set.str("manager"),
	})
	if err != nil {
		return err
	}
	printRecord(cli.out, building.Headers, bld)
	fmt.Fprintln(cli.out, "building updated")
	return nil
}
