package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	rollercmd "github.com/louisbranch/rollkeeper/internal/cmd/roller"
)

// main starts the roller MCP tools on stdio or HTTP.
func main() {
	cfg, err := rollercmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	log.SetPrefix("[ROLLKEEPER] ")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rollercmd.Run(ctx, cfg); err != nil {
		log.Fatalf("failed to serve roller: %v", err)
	}
}
