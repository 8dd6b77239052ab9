package ecs

import "fmt"

// ID returns the ComponentID of T in w, registering T on first use.
func ID[T any](w *World) ComponentID {
	return registerComponent[T](w.registry)
}

// StoreFor returns the packed store of T for direct iteration.
func StoreFor[T any](w *World) *Store[T] {
	s, _ := storeOf[T](w.registry)
	return s
}

// Attach adds or replaces the T component of e and returns a pointer into
// the packed store. Replacing an existing component leaves every view
// untouched.
func Attach[T any](w *World, e Entity, v T) *T {
	w.mustBeAlive(e, "attach to")
	s, id := storeOf[T](w.registry)
	ptr, added := s.Write(e, v)
	if added {
		w.added(e, id)
	}
	return ptr
}

// Unpack returns the T component of e. It panics when e has none; use Has
// or TryUnpack when presence is not guaranteed.
//
// The pointer is valid until the next Remove or appending Write on the T
// store. Store the entity, not the pointer, across frames.
func Unpack[T any](w *World, e Entity) *T {
	s, _, ok := findStore[T](w.registry)
	if !ok {
		var zero T
		fail(ErrMissingComponent, "unpack %T of entity #%d (type never used)", zero, e)
	}
	return s.Read(e)
}

func TryUnpack[T any](w *World, e Entity) (*T, error) {
	s, _, ok := findStore[T](w.registry)
	if ok {
		if ptr, found := s.Lookup(e); found {
			return ptr, nil
		}
	}
	var zero T
	return nil, fmt.Errorf("unpack %T of entity #%d: %w", zero, e, ErrMissingComponent)
}

// Has works for types that were never attached anywhere and does not
// register them.
func Has[T any](w *World, e Entity) bool {
	s, _, ok := findStore[T](w.registry)
	return ok && s.Contains(e)
}

// Detach removes the T component of e, if any.
func Detach[T any](w *World, e Entity) {
	s, id, ok := findStore[T](w.registry)
	if !ok || !s.Contains(e) {
		return
	}
	s.Remove(e)
	w.removed(e, id)
}

func View1[A any](w *World) []Entity {
	return w.View(ID[A](w))
}

func View2[A, B any](w *World) []Entity {
	return w.View(ID[A](w), ID[B](w))
}

func View3[A, B, C any](w *World) []Entity {
	return w.View(ID[A](w), ID[B](w), ID[C](w))
}

func View4[A, B, C, D any](w *World) []Entity {
	return w.View(ID[A](w), ID[B](w), ID[C](w), ID[D](w))
}

// ViewOne1 returns the first active entity with an A. Views keep insertion
// order, so the same entity comes back until it loses A or is destroyed.
func ViewOne1[A any](w *World) (Entity, bool) {
	return first(View1[A](w))
}

func ViewOne2[A, B any](w *World) (Entity, bool) {
	return first(View2[A, B](w))
}

func first(v []Entity) (Entity, bool) {
	if len(v) == 0 {
		return NullEntity, false
	}
	return v[0], true
}

// UnpackOne returns the T of the first active entity that has one. Not
// matching any entity is treated as a contract violation.
func UnpackOne[T any](w *World) *T {
	e, ok := ViewOne1[T](w)
	return unpackFirst[T](w, e, ok)
}

// ViewOneInactive1 is ViewOne1 including inactive entities.
func ViewOneInactive1[A any](w *World) (Entity, bool) {
	return first(w.ViewInactive(ID[A](w)))
}

// UnpackOneInactive is UnpackOne including inactive entities.
func UnpackOneInactive[T any](w *World) *T {
	e, ok := ViewOneInactive1[T](w)
	return unpackFirst[T](w, e, ok)
}

func unpackFirst[T any](w *World, e Entity, ok bool) *T {
	if !ok {
		var zero T
		fail(ErrMissingComponent, "unpack one %T: no entity matched", zero)
	}
	return Unpack[T](w, e)
}

// Each1 visits the active entities with an A. Entities that lose A during
// the walk are skipped.
func Each1[A any](w *World, fn func(Entity, *A)) {
	sa := StoreFor[A](w)
	for _, e := range View1[A](w) {
		if a, ok := sa.Lookup(e); ok {
			fn(e, a)
		}
	}
}

// Each2 visits the active entities having both A and B.
func Each2[A, B any](w *World, fn func(Entity, *A, *B)) {
	sa, sb := StoreFor[A](w), StoreFor[B](w)
	for _, e := range View2[A, B](w) {
		a, okA := sa.Lookup(e)
		b, okB := sb.Lookup(e)
		if okA && okB {
			fn(e, a, b)
		}
	}
}

// Each3 visits the active entities having A, B and C.
func Each3[A, B, C any](w *World, fn func(Entity, *A, *B, *C)) {
	sa, sb, sc := StoreFor[A](w), StoreFor[B](w), StoreFor[C](w)
	for _, e := range View3[A, B, C](w) {
		a, okA := sa.Lookup(e)
		b, okB := sb.Lookup(e)
		c, okC := sc.Lookup(e)
		if okA && okB && okC {
			fn(e, a, b, c)
		}
	}
}
