package system

import (
	"context"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/kestrelgo/kestrel/internal/core/ecs"
	"github.com/kestrelgo/kestrel/internal/core/event"
)

// DefaultTickRate is the step interval when Options.TickRate is zero.
const DefaultTickRate = 16 * time.Millisecond

type Options struct {
	World    ecs.Options
	TickRate time.Duration
	MaxSteps int // 0 = unlimited
	Logger   *zap.Logger
}

// Runner steps one scene and its world at a fixed rate. Scene switches
// requested during a step take effect after that step's Collect.
type Runner struct {
	opts    Options
	log     *zap.Logger
	world   *ecs.World
	bus     *event.Bus
	scene   Scene
	pending Scene
	steps   int
	quit    bool
}

func NewRunner(opts Options, first Scene) *Runner {
	if opts.TickRate <= 0 {
		opts.TickRate = DefaultTickRate
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.World.Logger == nil {
		opts.World.Logger = opts.Logger.Named("ecs")
	}
	r := &Runner{
		opts:  opts,
		log:   opts.Logger,
		world: ecs.NewWorld(opts.World),
		bus:   event.NewBus(),
	}
	r.enter(first)
	return r
}

func (r *Runner) World() *ecs.World  { return r.world }
func (r *Runner) Events() *event.Bus { return r.bus }
func (r *Runner) Log() *zap.Logger   { return r.log }
func (r *Runner) Scene() Scene       { return r.scene }
func (r *Runner) Steps() int         { return r.steps }

// LoadScene replaces the current scene at the end of the current step.
// The last request in a step wins.
func (r *Runner) LoadScene(s Scene) {
	r.pending = s
}

// Quit stops Run after the current step.
func (r *Runner) Quit() {
	r.quit = true
}

// Step advances the scene and world by dt, running every Stage in order.
func (r *Runner) Step(dt time.Duration) {
	var flushed, collected int
	for st := StageScene; st <= StageSwitch; st++ {
		switch st {
		case StageScene:
			r.scene.Update(r, dt)
		case StageUpdate:
			r.world.UpdateSystems(dt)
		case StageDraw:
			r.world.DrawSystems()
		case StageEvents:
			flushed = r.bus.Flush()
		case StageCollect:
			collected = r.world.Pending()
			r.world.Collect()
			r.steps++
			if ce := r.log.Check(zapcore.DebugLevel, "step"); ce != nil {
				ce.Write(
					zap.Int("step", r.steps),
					zap.Int("entities", r.world.Len()),
					zap.Int("events", flushed),
					zap.Int("collected", collected),
				)
			}
		case StageSwitch:
			r.switchScene()
		}
	}
}

func (r *Runner) switchScene() {
	if r.pending == nil {
		return
	}
	next := r.pending
	r.pending = nil
	r.teardown()
	r.world = ecs.NewWorld(r.opts.World)
	r.enter(next)
}

// Run steps until hooks.Pump returns false, Quit is called, MaxSteps is
// reached or ctx is done. Only a done context is reported as an error.
func (r *Runner) Run(ctx context.Context, hooks FrameHooks) error {
	ticker := time.NewTicker(r.opts.TickRate)
	defer ticker.Stop()

	last := time.Now()
	for !r.quit {
		if r.opts.MaxSteps > 0 && r.steps >= r.opts.MaxSteps {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			if hooks.Pump != nil && !hooks.Pump() {
				return nil
			}
			r.Step(now.Sub(last))
			last = now
			if hooks.Present != nil {
				hooks.Present()
			}
		}
	}
	return nil
}

// Close unloads the current scene and its systems.
func (r *Runner) Close() {
	if r.scene == nil {
		return
	}
	r.teardown()
	r.scene = nil
}

func (r *Runner) enter(s Scene) {
	r.scene = s
	r.log.Info("scene loaded", zap.String("scene", sceneName(s)), zap.Int("step", r.steps))
	s.Load(r)
}

func (r *Runner) teardown() {
	r.log.Info("scene unloaded", zap.String("scene", sceneName(r.scene)), zap.Int("step", r.steps))
	r.scene.Unload(r)
	r.world.DestroyAllSystems()
	r.bus.Clear()
}

func sceneName(s Scene) string {
	if n, ok := s.(interface{ Name() string }); ok {
		return n.Name()
	}
	return "unnamed"
}
