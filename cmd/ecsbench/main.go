// ecsbench times the core world operations over configurable rounds.
//
// Profiling:
//
//	KESTREL_CONFIG=config/kestrel.toml go run ./cmd/ecsbench
//	go tool pprof -http=":8000" ./ecsbench cpu.pprof
package main

import (
	"fmt"
	"os"

	"github.com/pkg/profile"
	"go.uber.org/zap"

	"github.com/kestrelgo/kestrel/internal/config"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, cfgPath, err := config.LoadEnv()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	// no terminal UI here, so always log to stderr
	cfg.Logging.File = ""
	log, err := config.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	log.Info("bench starting",
		zap.String("config", cfgPath),
		zap.Int("rounds", cfg.Bench.Rounds),
		zap.Int("entities", cfg.Bench.Entities),
		zap.String("profile", cfg.Bench.Profile),
	)

	if err := checkCapacity(cfg); err != nil {
		return err
	}

	if p := startProfile(cfg.Bench); p != nil {
		defer p.Stop()
	}

	opts := config.WorldOptions(cfg, log.Named("ecs"))
	var total roundStats
	for i := range cfg.Bench.Rounds {
		s := runRound(opts, cfg.Bench.Entities)
		total.add(s)
		log.Debug("round done", append([]zap.Field{zap.Int("round", i)}, s.fields()...)...)
	}
	log.Info("bench done", append([]zap.Field{zap.Int("rounds", cfg.Bench.Rounds)}, total.fields()...)...)

	per := total.perEntity(cfg.Bench.Rounds * cfg.Bench.Entities)
	log.Info("per entity", per.fields()...)
	return nil
}

// checkCapacity rejects rounds that cannot fit in one world.
func checkCapacity(cfg *config.Config) error {
	if cfg.Bench.Entities > cfg.World.MaxEntities {
		return fmt.Errorf("bench.entities %d exceeds world.max_entities %d", cfg.Bench.Entities, cfg.World.MaxEntities)
	}
	return nil
}

func startProfile(cfg config.BenchConfig) interface{ Stop() } {
	var mode func(*profile.Profile)
	switch cfg.Profile {
	case "cpu":
		mode = profile.CPUProfile
	case "mem":
		mode = profile.MemProfileAllocs
	default:
		return nil
	}
	return profile.Start(mode, profile.ProfilePath(cfg.ProfilePath), profile.NoShutdownHook, profile.Quiet)
}
