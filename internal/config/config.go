package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"

	"github.com/kestrelgo/kestrel/internal/core/ecs"
	"github.com/kestrelgo/kestrel/internal/core/system"
)

const (
	// DefaultPath is read when EnvPath is unset. A missing file there is
	// not an error.
	DefaultPath = "config/kestrel.toml"
	EnvPath     = "KESTREL_CONFIG"
)

type Config struct {
	World   WorldConfig   `toml:"world"`
	Loop    LoopConfig    `toml:"loop"`
	Logging LoggingConfig `toml:"logging"`
	Sokoban SokobanConfig `toml:"sokoban"`
	Bench   BenchConfig   `toml:"bench"`
}

type WorldConfig struct {
	MaxEntities   int `toml:"max_entities"`
	MaxComponents int `toml:"max_components"`
}

type LoopConfig struct {
	TickRate time.Duration `toml:"tick_rate"`
	MaxSteps int           `toml:"max_steps"` // 0 = unlimited
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
	File   string `toml:"file"`   // empty = stderr
}

type SokobanConfig struct {
	Levels     string `toml:"levels"` // yaml level table
	StartLevel int    `toml:"start_level"`
}

type BenchConfig struct {
	Rounds      int    `toml:"rounds"`
	Entities    int    `toml:"entities"`
	Profile     string `toml:"profile"` // "cpu", "mem" or empty
	ProfilePath string `toml:"profile_path"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadEnv loads the file named by EnvPath, or DefaultPath when it is unset.
// It returns the path it used.
func LoadEnv() (*Config, string, error) {
	if p := os.Getenv(EnvPath); p != "" {
		cfg, err := Load(p)
		return cfg, p, err
	}
	cfg, err := Load(DefaultPath)
	if errors.Is(err, fs.ErrNotExist) {
		return defaults(), "", nil
	}
	return cfg, DefaultPath, err
}

// Default returns the built-in configuration.
func Default() *Config {
	return defaults()
}

func (c *Config) Validate() error {
	switch {
	case c.World.MaxEntities < 1:
		return fmt.Errorf("world.max_entities must be positive, got %d", c.World.MaxEntities)
	case c.World.MaxComponents < 2 || c.World.MaxComponents > ecs.MaskBits:
		// one id is taken by the active marker
		return fmt.Errorf("world.max_components must be in [2, %d], got %d", ecs.MaskBits, c.World.MaxComponents)
	case c.Loop.TickRate <= 0:
		return fmt.Errorf("loop.tick_rate must be positive, got %s", c.Loop.TickRate)
	case c.Loop.MaxSteps < 0:
		return fmt.Errorf("loop.max_steps must not be negative, got %d", c.Loop.MaxSteps)
	case c.Sokoban.StartLevel < 0:
		return fmt.Errorf("sokoban.start_level must not be negative, got %d", c.Sokoban.StartLevel)
	case c.Bench.Rounds < 1 || c.Bench.Entities < 1:
		return fmt.Errorf("bench.rounds and bench.entities must be positive")
	}
	switch c.Bench.Profile {
	case "", "cpu", "mem":
	default:
		return fmt.Errorf("bench.profile must be cpu, mem or empty, got %q", c.Bench.Profile)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	return nil
}

// WorldOptions converts the world section to ecs.Options.
func WorldOptions(c *Config, log *zap.Logger) ecs.Options {
	return ecs.Options{
		MaxEntities:   c.World.MaxEntities,
		MaxComponents: c.World.MaxComponents,
		Logger:        log,
	}
}

// RunnerOptions converts the world and loop sections to system.Options.
func RunnerOptions(c *Config, log *zap.Logger) system.Options {
	return system.Options{
		World:    WorldOptions(c, log.Named("ecs")),
		TickRate: c.Loop.TickRate,
		MaxSteps: c.Loop.MaxSteps,
		Logger:   log,
	}
}

func defaults() *Config {
	return &Config{
		World: WorldConfig{
			MaxEntities:   ecs.DefaultMaxEntities,
			MaxComponents: ecs.DefaultMaxComponents,
		},
		Loop: LoopConfig{
			TickRate: system.DefaultTickRate,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Sokoban: SokobanConfig{
			Levels: "data/yaml/levels.yaml",
		},
		Bench: BenchConfig{
			Rounds:      10,
			Entities:    4000,
			ProfilePath: ".",
		},
	}
}
