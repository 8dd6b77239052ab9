package system

import (
	"time"
)

// Scene owns the setup and teardown of one world: it registers systems,
// builds entities and subscribes to events in Load, and releases anything
// held outside the world in Unload.
type Scene interface {
	Load(r *Runner)
	Update(r *Runner, dt time.Duration)
	Unload(r *Runner)
}

// Stage names one step of Runner.Step, in execution order.
type Stage int

const (
	StageScene   Stage = iota // 0: scene.Update
	StageUpdate               // 1: World.UpdateSystems
	StageDraw                 // 2: World.DrawSystems
	StageEvents               // 3: Bus.Flush
	StageCollect              // 4: World.Collect
	StageSwitch               // 5: pending scene switch
)

var stageNames = [...]string{"scene", "update", "draw", "events", "collect", "switch"}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return "unknown"
	}
	return stageNames[s]
}

// FrameHooks connects the runner to a platform. Pump runs before each step
// and returns false to stop the loop; Present runs after it.
type FrameHooks struct {
	Pump    func() bool
	Present func()
}
