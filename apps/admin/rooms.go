package main

import (
	"context"
	"fmt"

	"github.com/trezcool/dormadmin/core"
	"github.com/trezcool/dormadmin/core/room"
)

func (cli *commandLine) roomsCmd() *command {
	return &command{
		name:  "rooms",
		usage: "manage rooms",
		actions: []action{
			{name: "list", usage: "[-building ID] [-status S] [-type T] [-floor N] [-search TEXT] [-page N] [-limit N]", run: cli.listRooms},
			{name: "get", usage: "-id ID", run: getAction(cli, "rooms get", room.Headers, cli.roomSvc.Get)},
			{name: "create", usage: "-number N -building ID -capacity N -price P [-floor N] [-type T] [-status S] [-amenities a,b]", run: cli.createRoom},
			{name: "update", usage: "-id ID [-number N] [-capacity N] [-price P] [-floor N] [-type T] [-status S] [-amenities a,b]", run: cli.updateRoom},
			{name: "delete", usage: "-id ID [-yes]", run: deleteAction(cli, "rooms delete", "room", cli.roomSvc.Delete)},
		},
	}
}

func (cli *commandLine) listRooms(ctx context.Context, args []string) error {
	fs := cli.flags("rooms list")
	var filter room.QueryFilter
	cli.listFlags(fs, &filter.ListParams)
	fs.StringVar(&filter.BuildingID, "building", "", "building id")
	fs.StringVar(&filter.Status, "status", "", "available|occupied|maintenance|reserved")
	fs.StringVar(&filter.Type, "type", "", "single|double|triple|quad|dormitory")
	fs.Int("floor", 0, "floor number")
	if err := parse(fs, args); err != nil {
		return err
	}
	filter.Floor = visited(fs).int("floor")

	var (
		page core.Page[room.Room]
		err  error
	)
	if filter.BuildingID != "" && filter.Status == "" && filter.Type == "" && filter.Floor == nil {
		page, err = cli.roomSvc.ListByBuilding(ctx, filter.BuildingID, filter.ListParams)
	} else {
		page, err = cli.roomSvc.List(ctx, filter)
	}
	if err != nil {
		return err
	}
	printPage(cli.out, room.Headers, page)
	return nil
}

func (cli *commandLine) createRoom(ctx context.Context, args []string) error {
	fs := cli.flags("rooms create")
	var nr room.NewRoom
	fs.StringVar(&nr.Number, "number", "", "room number (required)")
	fs.StringVar(&nr.BuildingID, "building", "", "building id (required)")
	fs.IntVar(&nr.Floor, "floor", 0, "floor number")
	fs.StringVar(&nr.Type, "type", "", "single|double|triple|quad|dormitory")
	fs.IntVar(&nr.Capacity, "capacity", 0, "number of beds (required)")
	fs.Float64Var(&nr.Price, "price", 0, "monthly price per bed")
	fs.StringVar(&nr.Status, "status", "", "available|occupied|maintenance|reserved")
	fs.StringVar(&nr.Description, "description", "", "free text")
	amenities := fs.String("amenities", "", "comma separated list, e.g. wifi,aircon")
	if err := parse(fs, args); err != nil {
		return err
	}
	nr.Amenities = core.SplitList(*amenities)

	r, err := cli.roomSvc.Create(ctx, nr)
	if err != nil {
		return err
	}
	printRecord(cli.out, room.Headers, r)
	fmt.Fprintln(cli.out, "room created")
	return nil
}

func (cli *commandLine) updateRoom(ctx context.Context, args []string) error {
	fs := cli.flags("rooms update")
	id := fs.String("id", "", "room id (required)")
	fs.String("number", "", "room number")
	fs.Int("floor", 0, "floor number")
	fs.String("type", "", "single|double|triple|quad|dormitory")
	fs.Int("capacity", 0, "number of beds")
	fs.Float64("price", 0, "monthly price per bed")
	fs.String("status", "", "available|occupied|maintenance|reserved")
	fs.String("description", "", "free text")
	amenities := fs.String("amenities", "", "comma separated list, replaces the current one")
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

	ur := room.UpdateRoom{
		Number:      set.str("number"),
		Floor:       set.int("floor"),
		Type:        set.str("type"),
		Capacity:    set.int("capacity"),
		Price:       set.float("price"),
		Status:      set.str("status"),
		Description: set.str("description"),
	}
	if set.set["amenities"] {
		ur.Amenities = core.SplitList(*amenities)
	}
	r, err := cli.roomSvc.Update(ctx, *id, ur)
	if err != nil {
		return err
	}
	printRecord(cli.out, room.Headers, r)
	fmt.Fprintln(cli.out, "room updated")
	return nil
}
