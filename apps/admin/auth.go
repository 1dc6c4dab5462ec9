package main

import (
	"context"
	"fmt"
	"syscall"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/dormadmin/core/auth"
)

func (cli *commandLine) loginCmd() *command {
	return &command{name: "login", usage: "-username USERNAME - sign in (the password is prompted next)", run: cli.login}
}

func (cli *commandLine) logoutCmd() *command {
	return &command{name: "logout", usage: "- forget the current session", run: cli.logout}
}

func (cli *commandLine) whoamiCmd() *command {
	return &command{name: "whoami", usage: "- show the signed in account", run: cli.whoami}
}

func (cli *commandLine) login(ctx context.Context, args []string) error {
	fs := cli.flags("login")
	uname := fs.String("username", "", "Your username. The password will be prompted next.")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := required(fs, "username"); err != nil {
		return err
	}

	fmt.Fprint(cli.out, "Enter password:")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Fprintln(cli.out)
	if err != nil {
		return errors.Wrap(err, "reading password")
	}
	if len(pwd) == 0 {
		fs.Usage()
		return errHelp
	}

	usr, err := cli.authSvc.Login(ctx, auth.Credentials{Username: *uname, Password: string(pwd)})
	if err != nil {
		return err
	}
	name := usr.Username
	if name == "" {
		name = *uname
	}
	if usr.Role != "" {
		fmt.Fprintf(cli.out, "logged in as %s (%s)\n", name, usr.Role)
	} else {
		fmt.Fprintf(cli.out, "logged in as %s\n", name)
	}
	return nil
}

func (cli *commandLine) logout(_ context.Context, args []string) error {
	fs := cli.flags("logout")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := cli.authSvc.Logout(); err != nil {
		return err
	}
	fmt.Fprintln(cli.out, "logged out")
	return nil
}

func (cli *commandLine) whoami(ctx context.Context, args []string) error {
	fs := cli.flags("whoami")
	if err := parse(fs, args); err != nil {
		return err
	}
	_, claims, err := cli.authSvc.Current()
	if err != nil {
		return err
	}
	usr, err := cli.authSvc.Me(ctx)
	if err != nil {
		return err
	}

	tw := newTabWriter(cli.out)
	fmt.Fprintf(tw, "USERNAME\t%s\n", usr.Username)
	fmt.Fprintf(tw, "NAME\t%s\n", usr.FullName)
	fmt.Fprintf(tw, "EMAIL\t%s\n", usr.Email)
	fmt.Fprintf(tw, "ROLE\t%s\n", usr.Role)
	if left := claims.ExpiresIn(nowFunc()); left > 0 {
		fmt.Fprintf(tw, "SESSION\texpires in %s\n", left.Round(time.Minute))
	}
	return tw.Flush()
}
