// Package roller parses roller service flags and starts the MCP tool server.
package roller

import (
	"context"
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/louisbranch/rollkeeper/internal/core/dice"
	entrypoint "github.com/louisbranch/rollkeeper/internal/platform/cmd"
	platformgrpc "github.com/louisbranch/rollkeeper/internal/platform/grpc"
	"github.com/louisbranch/rollkeeper/internal/platform/timeouts"
	"github.com/louisbranch/rollkeeper/internal/services/roller"
	server "github.com/louisbranch/rollkeeper/internal/services/roller/app"
	"github.com/louisbranch/rollkeeper/internal/systems/hunger"
)

// Config holds roller command configuration.
type Config struct {
	Port             int    `env:"GRPC_PORT"          envDefault:"8090"`
	Addr             string `env:"GRPC_ADDR"`
	Transport        string `env:"MCP_TRANSPORT"      envDefault:"stdio"`
	HTTPAddr         string `env:"MCP_HTTP_ADDR"      envDefault:"localhost:8081"`
	DBPath           string `env:"DB_PATH"            envDefault:"data/sheets.db"`
	Locale           string `env:"LOCALE"             envDefault:"en-US"`
	CriticalPairRule bool   `env:"CRITICAL_PAIR_RULE"`
	Overlap          string `env:"OVERLAP"            envDefault:"independent"`
	MaxDice          int    `env:"MAX_DICE"`
	// Seed fixes the random source when set.
	Seed string `env:"SEED"`
	// Probe checks a running instance instead of starting one.
	Probe bool `env:"-"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The health server port")
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "The health server listen address (overrides -port)")
	fs.StringVar(&cfg.Transport, "transport", cfg.Transport, "Transport type: stdio or http")
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP server address (for HTTP transport)")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "SQLite database for character sheets")
	fs.StringVar(&cfg.Locale, "locale", cfg.Locale, "Default locale for replies")
	fs.BoolVar(&cfg.CriticalPairRule, "critical-pair-rule", cfg.CriticalPairRule, "Require two standard 10s for a standard critical")
	fs.StringVar(&cfg.Overlap, "overlap", cfg.Overlap, "Keep rule overlap policy: independent or clamp")
	fs.IntVar(&cfg.MaxDice, "max-dice", cfg.MaxDice, "Maximum dice per roll (0 uses the built-in limit)")
	fs.StringVar(&cfg.Seed, "seed", cfg.Seed, "Fixed random seed for reproducible sessions")
	fs.BoolVar(&cfg.Probe, "probe", false, "Check the health of a running server and exit")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseOverlap maps a policy name onto dice.OverlapPolicy.
func ParseOverlap(name string) (dice.OverlapPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "independent":
		return dice.OverlapIndependent, nil
	case "clamp":
		return dice.OverlapClamp, nil
	default:
		return 0, fmt.Errorf("overlap policy %q is not supported", name)
	}
}

func (c Config) serverConfig() (server.Config, error) {
	overlap, err := ParseOverlap(c.Overlap)
	if err != nil {
		return server.Config{}, err
	}
	opts := roller.Options{
		Rules:   hunger.Rules{CriticalRequiresPairOfStandardTens: c.CriticalPairRule},
		Overlap: overlap,
		MaxDice: c.MaxDice,
	}
	if seed := strings.TrimSpace(c.Seed); seed != "" {
		value, err := strconv.ParseInt(seed, 10, 64)
		if err != nil {
			return server.Config{}, fmt.Errorf("parse seed %q: %w", c.Seed, err)
		}
		opts.Seed = &value
	}
	addr := c.Addr
	if addr == "" {
		addr = fmt.Sprintf(":%d", c.Port)
	}
	return server.Config{
		GRPCAddr:  addr,
		Transport: c.Transport,
		HTTPAddr:  c.HTTPAddr,
		DBPath:    c.DBPath,
		Locale:    c.Locale,
		Engine:    opts,
	}, nil
}

func (c Config) probeAddr() string {
	if c.Addr != "" {
		return c.Addr
	}
	return fmt.Sprintf("localhost:%d", c.Port)
}

// Run starts the roller service, or probes a running one when Probe is set.
func Run(ctx context.Context, cfg Config) error {
	if cfg.Probe {
		return platformgrpc.Probe(ctx, cfg.probeAddr(), server.HealthService, timeouts.HealthProbe)
	}
	serverCfg, err := cfg.serverConfig()
	if err != nil {
		return err
	}
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceRoller, func(ctx context.Context) error {
		return server.Run(ctx, serverCfg)
	})
}
