package main

import (
	"context"
	"os"
	"os/signal"

	rollcmd "github.com/louisbranch/rollkeeper/internal/cmd/roll"
	"github.com/louisbranch/rollkeeper/internal/platform/config"
)

// main rolls dice from the command line.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rollcmd.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		config.Exitf("%v", err)
	}
}
