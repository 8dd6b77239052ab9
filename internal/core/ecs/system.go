package ecs

import (
	"fmt"
	"reflect"
	"slices"
	"time"

	"go.uber.org/zap"
)

// System is a stateful unit driven once per step. The World owns every
// registered system; its lifetime ends at DestroySystem or
// DestroyAllSystems. Register pointers: DestroySystem finds a system by
// identity, and a value of a non-comparable type can never be found.
type System interface {
	Load(w *World)
	Update(w *World, dt time.Duration)
	Draw(w *World)
	Unload(w *World)
}

// BaseSystem implements System with no-ops. Embed it and override the hooks
// you need.
type BaseSystem struct{}

func (BaseSystem) Load(*World)                  {}
func (BaseSystem) Update(*World, time.Duration) {}
func (BaseSystem) Draw(*World)                  {}
func (BaseSystem) Unload(*World)                {}

// AddSystem appends s, calls s.Load and returns s. Several instances of one
// type may be registered; registering the same instance twice is not
// allowed.
func AddSystem[T System](w *World, s T) T {
	w.checkNotRegistered(s)
	w.systems = append(w.systems, s)
	w.systemTypes = append(w.systemTypes, reflect.TypeOf(s))
	s.Load(w)
	return s
}

// AddSystemBefore inserts s ahead of the first registered system of type B,
// keeping the relative order of the others. When no B is registered, s is
// neither registered nor loaded and ok is false.
func AddSystemBefore[B, T System](w *World, s T) (T, bool) {
	anchor := reflect.TypeFor[B]()
	pos := slices.Index(w.systemTypes, anchor)
	if pos < 0 {
		w.log.Warn("system anchor not registered, system left unattached",
			zap.Stringer("system", reflect.TypeOf(s)),
			zap.Stringer("before", anchor))
		return s, false
	}
	w.checkNotRegistered(s)
	w.systems = slices.Insert(w.systems, pos, System(s))
	w.systemTypes = slices.Insert(w.systemTypes, pos, reflect.TypeOf(s))
	s.Load(w)
	return s, true
}

// GetSystem returns the first registered system whose concrete type is T.
func GetSystem[T System](w *World) (T, bool) {
	pos := slices.Index(w.systemTypes, reflect.TypeFor[T]())
	if pos < 0 {
		var zero T
		return zero, false
	}
	return w.systems[pos].(T), true
}

// GetAllSystems appends every system of concrete type T to out, in
// registration order.
func GetAllSystems[T System](w *World, out []T) []T {
	want := reflect.TypeFor[T]()
	for i, t := range w.systemTypes {
		if t == want {
			out = append(out, w.systems[i].(T))
		}
	}
	return out
}

// Systems returns the registered systems in order. Do not add or destroy
// systems while ranging over it.
func (w *World) Systems() []System {
	return w.systems
}

// DestroySystem unloads s and drops it. Unknown handles are logged and
// ignored.
func (w *World) DestroySystem(s System) {
	pos := w.indexOf(s)
	if pos < 0 {
		w.log.Warn("destroy of unregistered system ignored", zap.String("system", fmt.Sprintf("%T", s)))
		return
	}
	s.Unload(w)
	w.systems = slices.Delete(w.systems, pos, pos+1)
	w.systemTypes = slices.Delete(w.systemTypes, pos, pos+1)
}

// DestroyAllSystems unloads every system in registration order.
func (w *World) DestroyAllSystems() {
	systems := w.systems
	w.systems = nil
	w.systemTypes = nil
	for _, s := range systems {
		s.Unload(w)
	}
}

// UpdateSystems runs every Update hook in registration order.
func (w *World) UpdateSystems(dt time.Duration) {
	for _, s := range w.systems {
		s.Update(w, dt)
	}
}

// DrawSystems runs every Draw hook in registration order.
func (w *World) DrawSystems() {
	for _, s := range w.systems {
		s.Draw(w)
	}
}

// indexOf returns the position of s, or -1. Values of non-comparable types
// are never found.
func (w *World) indexOf(s System) int {
	if s == nil || !reflect.TypeOf(s).Comparable() {
		return -1
	}
	return slices.Index(w.systems, s)
}

func (w *World) checkNotRegistered(s System) {
	if debugChecks && w.indexOf(s) >= 0 {
		panic("ecs: system instance registered twice")
	}
}
