package main

import (
	"context"
	"fmt"

	"github.com/trezcool/dormadmin/core/maintenance"
)

func (cli *commandLine) maintenanceCmd() *command {
	return &command{
		name:  "maintenance",
		usage: "follow up on maintenance requests",
		actions: []action{
			{name: "list", usage: "[-status S] [-priority P] [-room ID] [-search TEXT] [-page N] [-limit N]", run: cli.listMaintenance},
			{name: "get", usage: "-id ID", run: getAction(cli, "maintenance get", maintenance.Headers, cli.maintSvc.Get)},
			{name: "status", usage: "-id ID -status pending|in_progress|completed|cancelled [-note TEXT]", run: cli.maintenanceStatus},
			{name: "assign", usage: "-id ID -staff NAME", run: cli.assignMaintenance},
			{name: "delete", usage: "-id ID [-yes]", run: deleteAction(cli, "maintenance delete", "maintenance request", cli.maintSvc.Delete)},
		},
	}
}

func (cli *commandLine) listMaintenance(ctx context.Context, args []string) error {
	fs := cli.flags("maintenance list")
	var filter maintenance.QueryFilter
	cli.listFlags(fs, &filter.ListParams)
	fs.StringVar(&filter.Status, "status", "", "pending|in_progress|completed|cancelled")
	fs.StringVar(&filter.Priority, "priority", "", "low|medium|high|urgent")
	fs.StringVar(&filter.RoomID, "room", "", "room id")
	if err := parse(fs, args); err != nil {
		return err
	}

	page, err := cli.maintSvc.List(ctx, filter)
	if err != nil {
		return err
	}
	printPage(cli.out, maintenance.Headers, page)
	return nil
}

func (cli *commandLine) maintenanceStatus(ctx context.Context, args []string) error {
	fs := cli.flags("maintenance status")
	id := fs.String("id", "", "request id (required)")
	status := fs.String("status", "", "pending|in_progress|completed|cancelled (required)")
	note := fs.String("note", "", "what was done")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := required(fs, "id", "status"); err != nil {
		return err
	}

	req, err := cli.maintSvc.UpdateStatus(ctx, *id, *status, *note)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "request %q is now %s\n", req.Title, req.Status)
	return nil
}

func (cli *commandLine) assignMaintenance(ctx context.Context, args []string) error {
	fs := cli.flags("maintenance assign")
	id := fs.String("id", "", "request id (required)")
	staff := fs.String("staff", "", "staff member in charge (required)")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := required(fs, "id", "staff"); err != nil {
		return err
	}

	req, err := cli.maintSvc.Assign(ctx, *id, *staff)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "request %q assigned to %s\n", req.Title, req.AssignedTo.String)
	return nil
}
