package main

import (
	"context"
	"fmt"

	"github.com/trezcool/dormadmin/core/vehicle"
)

func (cli *commandLine) vehiclesCmd() *command {
	return &command{
		name:  "vehicles",
		usage: "manage the vehicles parked by students",
		actions: []action{
			{name: "list", usage: "[-type T] [-status S] [-owner ID] [-search TEXT] [-page N] [-limit N]", run: cli.listVehicles},
			{name: "get", usage: "-id ID", run: getAction(cli, "vehicles get", vehicle.Headers, cli.vhcSvc.Get)},
			{name: "register", usage: "-plate PLATE -type motorbike|car|bicycle|electric_bike -owner STUDENT_ID [-brand B] [-model M] [-color C] [-slot S] [-image FILE]", run: cli.registerVehicle},
			{name: "update", usage: "-id ID [-plate PLATE] [-type T] [-status S] [-brand B] [-model M] [-color C] [-slot S] [-image FILE]", run: cli.updateVehicle},
			{name: "delete", usage: "-id ID [-yes]", run: deleteAction(cli, "vehicles delete", "vehicle", cli.vhcSvc.Delete)},
		},
	}
}

func (cli *commandLine) listVehicles(ctx context.Context, args []string) error {
	fs := cli.flags("vehicles list")
	var filter vehicle.QueryFilter
	cli.listFlags(fs, &filter.ListParams)
	fs.StringVar(&filter.Type, "type", "", "motorbike|car|bicycle|electric_bike")
	fs.StringVar(&filter.Status, "status", "", "active|inactive")
	fs.StringVar(&filter.OwnerID, "owner", "", "owner's student id")
	if err := parse(fs, args); err != nil {
		return err
	}

	page, err := cli.vhcSvc.List(ctx, filter)
	if err != nil {
		return err
	}
	printPage(cli.out, vehicle.Headers, page)
	return nil
}

// openImage opens the image flag's file, if any. The returned func closes it.
func openImage(path string) (*vehicle.Image, func(), error) {
	if path == "" {
		return nil, func() {}, nil
	}
	img, f, err := vehicle.OpenImage(path)
	if err != nil {
		return nil, nil, err
	}
	return &img, func() { _ = f.Close() }, nil
}

func (cli *commandLine) registerVehicle(ctx context.Context, args []string) error {
	fs := cli.flags("vehicles register")
	var nv vehicle.NewVehicle
	fs.StringVar(&nv.LicensePlate, "plate", "", "license plate (required)")
	fs.StringVar(&nv.Type, "type", "", "motorbike|car|bicycle|electric_bike (required)")
	fs.StringVar(&nv.OwnerID, "owner", "", "owner's student id (required)")
	fs.StringVar(&nv.Brand, "brand", "", "brand")
	fs.StringVar(&nv.Model, "model", "", "model")
	fs.StringVar(&nv.Color, "color", "", "color")
	fs.StringVar(&nv.ParkingSlot, "slot", "", "parking slot")
	fs.StringVar(&nv.Notes, "notes", "", "free text")
	image := fs.String("image", "", "picture of the vehicle (jpg, jpeg, png or webp; 5 MB max)")
	if err := parse(fs, args); err != nil {
		return err
	}
	img, closeImg, err := openImage(*image)
	if err != nil {
		return err
	}
	defer closeImg()
	nv.Image = img

	v, err := cli.vhcSvc.Create(ctx, nv)
	if err != nil {
		return err
	}
	printRecord(cli.out, vehicle.Headers, v)
	fmt.Fprintln(cli.out, "vehicle registered")
	return nil
}

func (cli *commandLine) updateVehicle(ctx context.Context, args []string) error {
	fs := cli.flags("vehicles update")
	id := fs.String("id", "", "vehicle id (required)")
	fs.String("plate", "", "license plate")
	fs.String("type", "", "motorbike|car|bicycle|electric_bike")
	fs.String("status", "", "active|inactive")
	fs.String("brand", "", "brand")
	fs.String("model", "", "model")
	fs.String("color", "", "color")
	fs.String("slot", "", "parking slot")
	fs.String("notes", "", "free text")
	image := fs.String("image", "", "new picture of the vehicle")
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
	img, closeImg, err := openImage(*image)
	if err != nil {
		return err
	}
	defer closeImg()

	v, err := cli.vhcSvc.Update(ctx, *id, vehicle.UpdateVehicle{
		LicensePlate: set.str("plate"),
		Type:         set.str("type"),
		Status:       set.str("status"),
		Brand:        set.str("brand"),
		Model:        set.str("model"),
		Color:        set.str("color"),
		ParkingSlot:  set.str("slot"),
		Notes:        set.str("notes"),
		Image:        img,
	})
	if err != nil {
		return err
	}
	printRecord(cli.out, vehicle.Headers, v)
	fmt.Fprintln(cli.out, "vehicle updated")
	return nil
}
