// Package cmd holds the shared startup helpers for rollkeeper commands.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/louisbranch/rollkeeper/internal/platform/config"
	"github.com/louisbranch/rollkeeper/internal/platform/otel"
)

// ServiceRoller names the roller service in telemetry and logs.
const ServiceRoller = "roller"

const telemetryShutdownTimeout = 5 * time.Second

// ParseConfig loads environment defaults into cfg.
func ParseConfig[T any](cfg *T) error {
	if cfg == nil {
		return errors.New("config target is required")
	}
	return config.ParseEnv(cfg)
}

// ParseArgs parses command-line flags over values loaded by ParseConfig.
func ParseArgs(fs *flag.FlagSet, args []string) error {
	if fs == nil {
		return errors.New("flag parser is required")
	}
	if args == nil {
		args = []string{}
	}
	return fs.Parse(args)
}

// RunWithTelemetry configures tracing for service, then runs it and logs how
// long it served.
func RunWithTelemetry(ctx context.Context, service string, run func(context.Context) error) error {
	service = strings.TrimSpace(service)
	if service == "" {
		return errors.New("service name is required")
	}
	if run == nil {
		return errors.New("run function is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	shutdown, err := otel.Setup(ctx, service)
	if err != nil {
		return fmt.Errorf("setup %s telemetry: %w", service, err)
	}
	defer flushTelemetry(service, shutdown)

	started := time.Now()
	log.Printf("%s starting", service)
	err = run(ctx)
	log.Printf("%s stopped after %s", service, time.Since(started).Round(time.Millisecond))
	return err
}

func flushTelemetry(service string, shutdown func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), telemetryShutdownTimeout)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		log.Printf("%s otel shutdown: %v", service, err)
	}
}
