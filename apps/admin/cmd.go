package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/pmezard/go-difflib/difflib"
	"golang.org/x/term"

	"github.com/trezcool/dormadmin/core"
	"github.com/trezcool/dormadmin/core/auth"
	"github.com/trezcool/dormadmin/core/building"
	"github.com/trezcool/dormadmin/core/fee"
	"github.com/trezcool/dormadmin/core/invoice"
	"github.com/trezcool/dormadmin/core/maintenance"
	"github.com/trezcool/dormadmin/core/payment"
	"github.com/trezcool/dormadmin/core/room"
	"github.com/trezcool/dormadmin/core/student"
	"github.com/trezcool/dormadmin/core/utility"
	"github.com/trezcool/dormadmin/core/vehicle"
	"github.com/trezcool/dormadmin/core/vnpay"
	"github.com/trezcool/dormadmin/services/api"
	"github.com/trezcool/dormadmin/storage/session"
)

var (
	readPasswordFunc = term.ReadPassword // mockable
	nowFunc          = time.Now          // mockable

	errHelp = errors.New("help provided")
)

// minimum similarity for a "did you mean" suggestion
const suggestRatio = 0.6

type (
	action struct {
		name  string
		usage string
		run   func(ctx context.Context, args []string) error
	}

	// command is a top level command: either it runs directly or it dispatches to one of its actions.
	command struct {
		name    string
		usage   string
		run     func(ctx context.Context, args []string) error
		actions []action
	}
)

type commandLine struct {
	conf   *core.Config
	logger core.Logger
	store  session.Store
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	authSvc   *auth.Service
	bldSvc    *building.Service
	roomSvc   *room.Service
	stdSvc    *student.Service
	invSvc    *invoice.Service
	utilSvc   *utility.Service
	vhcSvc    *vehicle.Service
	paySvc    *payment.Service
	feeSvc    *fee.Service
	vnpSvc    *vnpay.Service
	maintSvc  *maintenance.Service
	loggedOut bool
	commands  []*command
}

func newCommandLine(conf *core.Config, store session.Store, logger core.Logger, in io.Reader, out, errOut io.Writer) *commandLine {
	cli := &commandLine{
		conf:   conf,
		logger: logger,
		store:  store,
		in:     in,
		out:    out,
		errOut: errOut,
	}

	client := api.NewClient(api.Options{
		BaseURL:   conf.API.BaseURL,
		Timeout:   conf.API.Timeout,
		UserAgent: conf.API.UserAgent,
		Session:   store,
		Logger:    logger,
		Debug:     conf.Debug && !conf.TestMode,
		OnLogout:  func() { cli.loggedOut = true },
	})
	v := core.NewValidator()
	cli.authSvc = auth.NewService(client, store, v)
	cli.bldSvc = building.NewService(client, v)
	cli.roomSvc = room.NewService(client, v)
	cli.stdSvc = student.NewService(client, v)
	cli.invSvc = invoice.NewService(client, v)
	cli.utilSvc = utility.NewService(client, v)
	cli.vhcSvc = vehicle.NewService(client, v)
	cli.paySvc = payment.NewService(client, v)
	cli.feeSvc = fee.NewService(client, v)
	cli.vnpSvc = vnpay.NewService(client, v)
	cli.maintSvc = maintenance.NewService(client, v)

	cli.commands = []*command{
		cli.loginCmd(),
		cli.logoutCmd(),
		cli.whoamiCmd(),
		cli.buildingsCmd(),
		cli.roomsCmd(),
		cli.studentsCmd(),
		cli.invoicesCmd(),
		cli.utilitiesCmd(),
		cli.vehiclesCmd(),
		cli.paymentsCmd(),
		cli.feesCmd(),
		cli.vnpayCmd(),
		cli.maintenanceCmd(),
	}
	return cli
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	for _, cmd := range cli.commands {
		if cmd.run != nil {
			fmt.Fprintf(cli.out, "  %s %s\n", cmd.name, cmd.usage)
			continue
		}
		names := make([]string, 0, len(cmd.actions))
		for _, act := range cmd.actions {
			names = append(names, act.name)
		}
		fmt.Fprintf(cli.out, "  %s %s - %s\n", cmd.name, strings.Join(names, "|"), cmd.usage)
	}
}

func (cli *commandLine) printCommandUsage(cmd *command) {
	fmt.Fprintf(cli.out, "Usage of %s:\n", cmd.name)
	for _, act := range cmd.actions {
		fmt.Fprintf(cli.out, "  %s %s %s\n", cmd.name, act.name, act.usage)
	}
}

func (cli *commandLine) run(ctx context.Context, args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	name := args[1]
	switch name {
	case "help", "-h", "-help", "--help":
		cli.printUsage()
		return errHelp
	}

	var cmd *command
	names := make([]string, 0, len(cli.commands))
	for _, c := range cli.commands {
		names = append(names, c.name)
		if c.name == name {
			cmd = c
		}
	}
	if cmd == nil {
		cli.suggest(name, names)
		cli.printUsage()
		return errHelp
	}
	if cmd.run != nil {
		return cmd.run(ctx, args[2:])
	}

	if len(args) < 3 {
		cli.printCommandUsage(cmd)
		return errHelp
	}
	names = names[:0]
	for _, act := range cmd.actions {
		if act.name == args[2] {
			return act.run(ctx, args[3:])
		}
		names = append(names, act.name)
	}
	cli.suggest(args[2], names)
	cli.printCommandUsage(cmd)
	return errHelp
}

// suggest prints the known names closest to name, if any is close enough.
func (cli *commandLine) suggest(name string, known []string) {
	type match struct {
		name  string
		ratio float64
	}
	var matches []match
	for _, k := range known {
		m := difflib.NewMatcher(strings.Split(name, ""), strings.Split(k, ""))
		if r := m.Ratio(); r >= suggestRatio {
			matches = append(matches, match{k, r})
		}
	}
	fmt.Fprintf(cli.out, "unknown command %q\n", name)
	if len(matches) == 0 {
		return
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].ratio > matches[j].ratio })
	fmt.Fprintf(cli.out, "did you mean %q?\n", matches[0].name)
}

// report prints err the way the console presents failures and returns the exit code.
func (cli *commandLine) report(err error) int {
	if err == nil {
		return 0
	}
	switch {
	case errors.Is(err, errHelp):
		return 1
	case errors.Is(err, context.Canceled):
		fmt.Fprintln(cli.errOut, "\ninterrupted")
		return 130
	case core.IsUnauthorized(err):
		fmt.Fprintln(cli.errOut, cli.loginNotice())
		return 1
	}
	if vErr, ok := core.AsValidationError(err); ok {
		if vErr.Err != nil {
			fmt.Fprintln(cli.errOut, vErr.Err)
		}
		if len(vErr.Fields) > 0 {
			fmt.Fprintln(cli.errOut, vErr.Format("\n"))
		}
		return 1
	}
	if core.IsNotFound(err) {
		fmt.Fprintf(cli.errOut, "error: %s\n", err)
		return 1
	}
	cli.logger.Error("command failed", err)
	return 1
}

func (cli *commandLine) loginNotice() string {
	if cli.loggedOut {
		return "Your session has expired. Sign in again with: dormadmin login -username USERNAME"
	}
	return "You are not logged in. Sign in with: dormadmin login -username USERNAME"
}

// confirm asks a yes/no question on the console; anything but y/yes is a no.
func (cli *commandLine) confirm(question string) bool {
	fmt.Fprintf(cli.out, "%s [y/N]: ", question)
	line, _ := bufio.NewReader(cli.in).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

// Flags

func (cli *commandLine) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(cli.out)
	return fs
}

// parse parses args, turning every usage failure into errHelp (flag already printed the usage).
func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return errHelp
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(fs.Output(), "unexpected argument %q\n", fs.Arg(0))
		fs.Usage()
		return errHelp
	}
	return nil
}

// required prints the usage if any of the named flags is blank.
func required(fs *flag.FlagSet, names ...string) error {
	for _, name := range names {
		if f := fs.Lookup(name); f == nil || core.CleanString(f.Value.String()) == "" {
			fmt.Fprintf(fs.Output(), "missing -%s\n", name)
			fs.Usage()
			return errHelp
		}
	}
	return nil
}

func (cli *commandLine) listFlags(fs *flag.FlagSet, p *core.ListParams) {
	fs.IntVar(&p.Page, "page", 1, "page number")
	fs.IntVar(&p.Limit, "limit", cli.conf.DefaultPageSize, "items per page")
	fs.StringVar(&p.Search, "search", "", "search text")
	fs.StringVar(&p.Sort, "sort", "", "sort field, prefixed with - for descending order")
}

// setFlags gives access to the flags explicitly set on the command line, for partial updates.
type setFlags struct {
	fs  *flag.FlagSet
	set map[string]bool
}

func visited(fs *flag.FlagSet) setFlags {
	sf := setFlags{fs: fs, set: make(map[string]bool)}
	fs.Visit(func(f *flag.Flag) { sf.set[f.Name] = true })
	return sf
}

// count is the number of set flags, ignoring the given ones.
func (sf setFlags) count(ignore ...string) int {
	n := len(sf.set)
	for _, name := range ignore {
		if sf.set[name] {
			n--
		}
	}
	return n
}

func (sf setFlags) get(name string) (interface{}, bool) {
	if !sf.set[name] {
		return nil, false
	}
	return sf.fs.Lookup(name).Value.(flag.Getter).Get(), true
}

func (sf setFlags) str(name string) *string {
	v, ok := sf.get(name)
	if !ok {
		return nil
	}
	s := v.(string)
	return &s
}

func (sf setFlags) int(name string) *int {
	v, ok := sf.get(name)
	if !ok {
		return nil
	}
	i := v.(int)
	return &i
}

func (sf setFlags) float(name string) *float64 {
	v, ok := sf.get(name)
	if !ok {
		return nil
	}
	f := v.(float64)
	return &f
}

func (sf setFlags) bool(name string) *bool {
	v, ok := sf.get(name)
	if !ok {
		return nil
	}
	b := v.(bool)
	return &b
}

func (sf setFlags) date(name string) (*time.Time, error) {
	s := sf.str(name)
	if s == nil {
		return nil, nil
	}
	t, err := parseDate(name, *s)
	if err != nil || t.IsZero() {
		return nil, err
	}
	return &t, nil
}

// parseDate parses a YYYY-MM-DD flag value, reporting failures against the flag's name.
func parseDate(name, value string) (time.Time, error) {
	t, err := core.ParseDate(value)
	if err != nil {
		return t, core.NewValidationError(nil, core.FieldError{Field: name, Error: "must be a date (YYYY-MM-DD)"})
	}
	return t, nil
}

// Shared actions

func getAction[T rower](cli *commandLine, name string, headers []string, get func(ctx context.Context, id string) (T, error)) func(ctx context.Context, args []string) error {
	return func(ctx context.Context, args []string) error {
		fs := cli.flags(name)
		id := fs.String("id", "", "id (required)")
		if err := parse(fs, args); err != nil {
			return err
		}
		if err := required(fs, "id"); err != nil {
			return err
		}
		obj, err := get(ctx, *id)
		if err != nil {
			return err
		}
		printRecord(cli.out, headers, obj)
		return nil
	}
}

func deleteAction(cli *commandLine, name, noun string, del func(ctx context.Context, id string) error) func(ctx context.Context, args []string) error {
	return func(ctx context.Context, args []string) error {
		fs := cli.flags(name)
		id := fs.String("id", "", "id (required)")
		yes := fs.Bool("yes", false, "do not ask for confirmation")
		if err := parse(fs, args); err != nil {
			return err
		}
		if err := required(fs, "id"); err != nil {
			return err
		}
		if !*yes && !cli.confirm(fmt.Sprintf("Delete %s %s?", noun, *id)) {
			fmt.Fprintln(cli.out, "aborted")
			return nil
		}
		if err := del(ctx, *id); err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "%s %s deleted\n", noun, *id)
		return nil
	}
}
