package cmd

import (
	"context"
	"errors"
	"flag"
	"testing"
)

type testConfig struct {
	Address string `env:"CMD_TEST_ADDRESS" envDefault:"127.0.0.1:8080"`
	Mode    string `env:"CMD_TEST_MODE" envDefault:"stdio"`
}

func TestParseConfigReadsEnvAndFlags(t *testing.T) {
	t.Setenv("ROLLKEEPER_CMD_TEST_ADDRESS", "env:9000")
	t.Setenv("ROLLKEEPER_CMD_TEST_MODE", "http")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg := testConfig{}
	if err := ParseConfig(&cfg); err != nil {
		t.Fatalf("load config defaults: %v", err)
	}
	fs.StringVar(&cfg.Address, "address", cfg.Address, "address")
	fs.StringVar(&cfg.Mode, "mode", cfg.Mode, "mode")

	if err := ParseArgs(fs, []string{"-address", "flag:9001"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	if cfg.Address != "flag:9001" {
		t.Fatalf("expected flag value for address, got %q", cfg.Address)
	}
	if cfg.Mode != "http" {
		t.Fatalf("expected env mode, got %q", cfg.Mode)
	}
}

func TestParseArgsKeepsEnvDefaults(t *testing.T) {
	cfg := testConfig{}
	if err := ParseConfig(&cfg); err != nil {
		t.Fatalf("load config defaults: %v", err)
	}
	fs := flag.NewFlagSet("defaults", flag.ContinueOnError)
	fs.StringVar(&cfg.Mode, "mode", cfg.Mode, "mode")
	if err := ParseArgs(fs, nil); err != nil {
		t.Fatalf("parse args: %v", err)
	}
	if cfg.Address != "127.0.0.1:8080" || cfg.Mode != "stdio" {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestParseConfigRejectsNilTarget(t *testing.T) {
	if err := ParseConfig[testConfig](nil); err == nil {
		t.Fatal("expected nil target error")
	}
	if err := ParseArgs(nil, []string{}); err == nil {
		t.Fatal("expected parse args to reject nil parser")
	}
}

func TestRunWithTelemetry(t *testing.T) {
	t.Setenv("ROLLKEEPER_OTEL_ENDPOINT", "")

	if err := RunWithTelemetry(context.Background(), "", func(context.Context) error { return nil }); err == nil {
		t.Fatal("expected missing service error")
	}
	if err := RunWithTelemetry(context.Background(), ServiceRoller, nil); err == nil {
		t.Fatal("expected missing run function error")
	}

	var ran bool
	if err := RunWithTelemetry(nil, ServiceRoller, func(ctx context.Context) error {
		ran = ctx != nil
		return nil
	}); err != nil || !ran {
		t.Fatalf("run with nil context: err = %v, ran = %v", err, ran)
	}

	want := errors.New("run failed")
	err := RunWithTelemetry(context.Background(), ServiceRoller, func(context.Context) error { return want })
	if !errors.Is(err, want) {
		t.Fatalf("err = %v, want %v", err, want)
	}
}
