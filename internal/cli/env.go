package cli

import (
	"context"
	"slices"
	"time"

	"github.com/shinji-kodama/port-for/internal/config"
	"github.com/shinji-kodama/port-for/internal/docker"
	"github.com/shinji-kodama/port-for/internal/model"
	"github.com/shinji-kodama/port-for/internal/port"
	"github.com/shinji-kodama/port-for/internal/store"
)

// newUsageChecker builds the prober used by the allocator. Tests replace
// it with a deterministic double.
var newUsageChecker = func(cfg *config.Config) port.UsageChecker {
	return port.NewScanner(
		port.WithHost(cfg.Host),
		port.WithConnectTimeout(time.Duration(cfg.ConnectTimeout)),
	)
}

// publishedPorts lists Docker-published host ports. Tests replace it.
var publishedPorts = func(ctx context.Context) ([]int, error) {
	c, err := docker.NewClient()
	if err != nil {
		return nil, err
	}
	defer func() { _ = c.Close() }()

	if err := c.Ping(ctx); err != nil {
		return nil, err
	}
	return docker.PublishedPorts(ctx, c)
}

// env bundles what a command needs, built from the merged
// configuration.
type env struct {
	// cfg is the merged configuration: defaults, file, environment and
	// finally the global flags.
	cfg *config.Config

	// allocator selects ports from the configured pool, probing the host
	// with the checker returned by newUsageChecker.
	allocator *port.Allocator

	// store is the reservation file. It selects new ports through
	// allocator.
	store *store.Store

	// reserved are ports never handed out besides the pool exclusions,
	// currently the Docker-published ones.
	reserved []int
}

// loadEnv merges configuration sources and flags, then wires the
// allocator and the store.
//
// Configuration problems are returned as CLIError with ExitConfigError;
// Docker failures keep the ExitDockerError code set by the docker package.
func loadEnv(ctx context.Context) (*env, error) {
	// Step 1: load defaults, the configuration file and the environment.
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitConfigError, "failed to load configuration", err)
	}

	// Step 2: global flags take precedence over every other source, so
	// the merged result is validated once more.
	if storePath != "" {
		cfg.Store = storePath
	}
	if excludeDocker {
		cfg.ExcludeDocker = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, model.WrapCLIError(model.ExitConfigError, "invalid configuration", err)
	}
	VerboseLog("using store %s, probing %s", cfg.Store, cfg.Host)

	e := &env{cfg: cfg}

	// Step 3: collect Docker-published ports. The daemon is only contacted
	// when asked to, so port-for works on hosts without Docker.
	if cfg.ExcludeDocker {
		ports, err := publishedPorts(ctx)
		if err != nil {
			return nil, err
		}
		VerboseLog("excluding %d Docker-published ports", len(ports))
		e.reserved = ports
	}

	// Step 4: the allocator's default pool follows the configured bounds,
	// exclusions and good-range parameters.
	e.allocator = port.NewAllocator(newUsageChecker(cfg),
		port.WithLogger(logger),
		port.WithPool(port.Pool{
			Low:         cfg.Low,
			High:        cfg.High,
			Exclude:     cfg.Exclude,
			MinRangeLen: cfg.MinRangeLen,
			Border:      cfg.Border,
		}),
	)

	// Step 5: the store picks new ports through the allocator and skips
	// the reserved ones on top of those already bound.
	opts := []store.Option{
		store.WithLogger(logger),
		store.WithReservedPorts(e.reserved...),
	}
	if cfg.Lock {
		opts = append(opts, store.WithLock())
	}
	e.store = store.New(cfg.Store, e.allocator, opts...)

	return e, nil
}

// isReserved reports whether p is one of the reserved ports.
func (e *env) isReserved(p int) bool {
	return slices.Contains(e.reserved, p)
}
