package main

import (
	"context"
	"fmt"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/dormadmin/core/student"
)

func (cli *commandLine) studentsCmd() *command {
	return &command{
		name:  "students",
		usage: "manage students",
		actions: []action{
			{name: "list", usage: "[-room ID] [-status S] [-search TEXT] [-page N] [-limit N]", run: cli.listStudents},
			{name: "get", usage: "-id ID", run: getAction(cli, "students get", student.Headers, cli.stdSvc.Get)},
			{name: "create", usage: "-code CODE -name NAME [-email E] [-phone P] [-gender G] [-dob YYYY-MM-DD] [-room ID]", run: cli.createStudent},
			{name: "update", usage: "-id ID [-name NAME] [-email E] [-phone P] [-room ID] [-status S]", run: cli.updateStudent},
			{name: "delete", usage: "-id ID [-yes]", run: deleteAction(cli, "students delete", "student", cli.stdSvc.Delete)},
		},
	}
}

func (cli *commandLine) listStudents(ctx context.Context, args []string) error {
	fs := cli.flags("students list")
	var filter student.QueryFilter
	cli.listFlags(fs, &filter.ListParams)
	fs.StringVar(&filter.RoomID, "room", "", "room id")
	fs.StringVar(&filter.Status, "status", "", "active|inactive|graduated|suspended")
	if err := parse(fs, args); err != nil {
		return err
	}

	page, err := cli.stdSvc.List(ctx, filter)
	if err != nil {
		return err
	}
	printPage(cli.out, student.Headers, page)
	return nil
}

func (cli *commandLine) createStudent(ctx context.Context, args []string) error {
	fs := cli.flags("students create")
	var ns student.NewStudent
	fs.StringVar(&ns.Code, "code", "", "student code (required)")
	fs.StringVar(&ns.FullName, "name", "", "full name (required)")
	fs.StringVar(&ns.Email, "email", "", "e-mail address")
	fs.StringVar(&ns.Phone, "phone", "", "phone number")
	fs.StringVar(&ns.Gender, "gender", "", "male|female|other")
	fs.StringVar(&ns.University, "university", "", "university")
	fs.StringVar(&ns.Faculty, "faculty", "", "faculty")
	fs.StringVar(&ns.RoomID, "room", "", "room id")
	fs.StringVar(&ns.Status, "status", "", "active|inactive|graduated|suspended")
	dob := fs.String("dob", "", "date of birth (YYYY-MM-DD)")
	if err := parse(fs, args); err != nil {
		return err
	}
	t, err := parseDate("dob", *dob)
	if err != nil {
		return err
	}
	ns.DateOfBirth = null.NewTime(t, !t.IsZero())

	s, err := cli.stdSvc.Create(ctx, ns)
	if err != nil {
		return err
	}
	printRecord(cli.out, student.Headers, s)
	fmt.Fprintln(cli.out, "student created")
	return nil
}

func (cli *commandLine) updateStudent(ctx context.Context, args []string) error {
	fs := cli.flags("students update")
	id := fs.String("id", "", "student id (required)")
	fs.String("name", "", "full name")
	fs.String("email", "", "e-mail address")
	fs.String("phone", "", "phone number")
	fs.String("university", "", "university")
	fs.String("faculty", "", "faculty")
	fs.String("room", "", "room id")
	fs.String("status", "", "active|inactive|graduated|suspended")
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

	s, err := cli.stdSvc.Update(ctx, *id, student.UpdateStudent{
		FullName:   set.str("name"),
		Email:      set.str("email"),
		Phone:      set.str("phone"),
		University: set.str("university"),
		Faculty:    set.str("faculty"),
		RoomID:     set.str("room"),
		Status:     set.str("status"),
	})
	if err != nil {
		return err
	}
	printRecord(cli.out, student.Headers, s)
	fmt.Fprintln(cli.out, "student updated")
	return nil
}
