package main

import (
	"time"

	"go.uber.org/zap"

	"github.com/kestrelgo/kestrel/internal/core/ecs"
)

type position struct{ X, Y float64 }
type velocity struct{ DX, DY float64 }
type health struct{ HP int }

type roundStats struct {
	Create  time.Duration
	Attach  time.Duration
	View    time.Duration
	Detach  time.Duration
	Destroy time.Duration
	Collect time.Duration

	Moving    int // matched position+velocity
	Remaining int // still moving after detach
}

func (s *roundStats) add(o roundStats) {
	s.Create += o.Create
	s.Attach += o.Attach
	s.View += o.View
	s.Detach += o.Detach
	s.Destroy += o.Destroy
	s.Collect += o.Collect
	s.Moving += o.Moving
	s.Remaining += o.Remaining
}

func (s roundStats) fields() []zap.Field {
	return []zap.Field{
		zap.Duration("create", s.Create),
		zap.Duration("attach", s.Attach),
		zap.Duration("view", s.View),
		zap.Duration("detach", s.Detach),
		zap.Duration("destroy", s.Destroy),
		zap.Duration("collect", s.Collect),
		zap.Int("moving", s.Moving),
		zap.Int("remaining", s.Remaining),
	}
}

func (s roundStats) perEntity(n int) roundStats {
	if n == 0 {
		return roundStats{}
	}
	d := time.Duration(n)
	return roundStats{
		Create:  s.Create / d,
		Attach:  s.Attach / d,
		View:    s.View / d,
		Detach:  s.Detach / d,
		Destroy: s.Destroy / d,
		Collect: s.Collect / d,
	}
}

// runRound fills a fresh world with n entities and tears it down again.
// Every entity gets a position, even ones a velocity and every third one
// health. Every fourth loses its velocity before the second walk.
func runRound(opts ecs.Options, n int) roundStats {
	var s roundStats
	w := ecs.NewWorld(opts)
	ents := make([]ecs.Entity, n)

	start := time.Now()
	for i := range ents {
		ents[i] = w.Create()
	}
	s.Create = time.Since(start)

	start = time.Now()
	for i, e := range ents {
		ecs.Attach(w, e, position{X: float64(i)})
		if i%2 == 0 {
			ecs.Attach(w, e, velocity{DX: 1, DY: 0.5})
		}
		if i%3 == 0 {
			ecs.Attach(w, e, health{HP: 100})
		}
	}
	s.Attach = time.Since(start)

	start = time.Now()
	s.Moving = integrate(w)
	s.View = time.Since(start)

	start = time.Now()
	for i, e := range ents {
		if i%4 == 0 {
			ecs.Detach[velocity](w, e)
		}
	}
	s.Remaining = integrate(w)
	s.Detach = time.Since(start)

	start = time.Now()
	for _, e := range ents {
		w.Destroy(e)
	}
	s.Destroy = time.Since(start)

	start = time.Now()
	w.Collect()
	s.Collect = time.Since(start)
	return s
}

func integrate(w *ecs.World) int {
	n := 0
	ecs.Each2(w, func(_ ecs.Entity, p *position, v *velocity) {
		p.X += v.DX
		p.Y += v.DY
		n++
	})
	return n
}
