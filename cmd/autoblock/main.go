package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ayoisaiah/autoblock/app"
	"github.com/ayoisaiah/autoblock/report"
)

func run(args []string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	return app.Get().RunContext(ctx, args)
}

func main() {
	err := run(os.Args)
	if err != nil {
		report.Quit(err)
	}
}
