package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/kestrelgo/kestrel/internal/config"
	"github.com/kestrelgo/kestrel/internal/core/event"
	"github.com/kestrelgo/kestrel/internal/core/system"
	"github.com/kestrelgo/kestrel/internal/data"
	"github.com/kestrelgo/kestrel/internal/sokoban"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load config
	cfg, cfgPath, err := config.LoadEnv()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := config.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()
	if cfgPath == "" {
		cfgPath = "(defaults)"
	}
	log.Info("config loaded", zap.String("path", cfgPath))

	// 3. Load levels
	levels, err := data.LoadLevelTable(cfg.Sokoban.Levels)
	if err != nil {
		return fmt.Errorf("levels: %w", err)
	}
	if cfg.Sokoban.StartLevel >= levels.Count() {
		return fmt.Errorf("sokoban.start_level %d: only %d levels", cfg.Sokoban.StartLevel, levels.Count())
	}
	log.Info("levels loaded", zap.Int("count", levels.Count()))

	// 4. Open the terminal
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("screen init: %w", err)
	}
	defer screen.Fini()

	// PollEvent blocks, so it gets its own goroutine. It returns nil once
	// the screen is finalized.
	events := make(chan tcell.Event, 100)
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	// 5. Run the game loop
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	game := &sokoban.Game{Levels: levels, Screen: screen}
	runner := system.NewRunner(config.RunnerOptions(cfg, log),
		&sokoban.Title{Game: game, Start: cfg.Sokoban.StartLevel})
	defer runner.Close()

	hooks := system.FrameHooks{
		Pump: func() bool {
			screen.Clear()
			for {
				select {
				case ev := <-events:
					if !handleInput(screen, runner.Events(), ev) {
						return false
					}
				default:
					return true
				}
			}
		},
		Present: screen.Show,
	}

	err = runner.Run(ctx, hooks)
	log.Info("game stopped", zap.Int("steps", runner.Steps()))
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// handleInput forwards key presses to the bus. It returns false when the
// player asked to quit.
func handleInput(screen tcell.Screen, bus *event.Bus, ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		event.Emit(bus, sokoban.KeyDownFrom(ev))
	case *tcell.EventResize:
		screen.Sync()
	}
	return true
}
