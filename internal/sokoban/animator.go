package sokoban

import (
	"time"

	"github.com/kestrelgo/kestrel/internal/core/ecs"
	"github.com/kestrelgo/kestrel/internal/core/event"
)

// Animator eases pieces toward their Animation target with a smoothstep
// curve. An animation reaching AnimationTime snaps into place and is
// removed. When the room is solved at that point, Won is posted.
type Animator struct {
	ecs.BaseSystem
	Events *event.Bus

	active bool
}

// Active reports whether any piece was still moving after the last update.
func (a *Animator) Active() bool {
	return a.active
}

func (a *Animator) Update(w *ecs.World, dt time.Duration) {
	a.active = false
	settled := false
	ecs.Each2(w, func(e ecs.Entity, an *Animation, tf *Transform) {
		if an.Elapsed >= AnimationTime {
			tf.Position = an.To
			ecs.Detach[Animation](w, e)
			settled = true
			return
		}
		a.active = true
		an.Elapsed += dt
		t := min(float64(an.Elapsed)/float64(AnimationTime), 1)
		tf.Position = an.From.Lerp(an.To, smoothstep(t))
	})
	if !settled {
		return
	}
	if room := ecs.UnpackOne[Room](w); room.Win && !a.active {
		event.Post(a.Events, Won{Level: room.Level})
	}
}

func smoothstep(t float64) float64 {
	return t * t * (3 - 2*t)
}
