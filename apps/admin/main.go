package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/trezcool/dormadmin/core"
	"github.com/trezcool/dormadmin/services/logger"
	"github.com/trezcool/dormadmin/storage/session"
)

func main() {
	std := log.New(os.Stderr, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()
	if err := conf.Validate(); err != nil {
		std.Fatal(err)
	}
	logger := logsvc.NewRollbarLogger(std, conf)

	// Ctrl-C cancels the request in flight
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	cli := newCommandLine(conf, session.NewFileStore(conf.Session.Path), logger, os.Stdin, os.Stdout, os.Stderr)
	code := cli.report(cli.run(ctx, os.Args))

	stop()
	logger.Close()
	os.Exit(code)
}
