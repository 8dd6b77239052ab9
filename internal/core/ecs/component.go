package ecs

import "reflect"

// ComponentID is the bit position of a component type within a World's masks.
type ComponentID uint8

// Active marks an entity as visible to default views. Create attaches it,
// CreateInactive does not.
type Active struct{}

// storage is implemented by every Store so the World can operate on an
// entity's components without knowing their types (destroy, clone).
type storage interface {
	Remove(e Entity)
	Contains(e Entity) bool
	Len() int
	copyEntity(dst, src Entity)
	elemType() reflect.Type
}

const noSlot = -1

// Store packs every instance of component type T into a contiguous slice
// and keeps an entity<->slot bijection over [0, Len()).
//
// Removing a component moves the last slot into the hole, so a pointer
// returned by Read or Write is only valid until the next Remove or the next
// Write that appends.
type Store[T any] struct {
	packed []T
	// slot -> entity, parallel to packed.
	entities []Entity
	// entity -> slot, noSlot when absent. Indexed by entity id.
	slots []int32
}

func NewStore[T any](capacity int) *Store[T] {
	return &Store[T]{
		packed:   make([]T, 0, capacity),
		entities: make([]Entity, 0, capacity),
	}
}

func (s *Store[T]) slot(e Entity) int32 {
	if int(e) >= len(s.slots) {
		return noSlot
	}
	return s.slots[e]
}

// Write sets the component for e. It reports added == true when e had no
// component of this type before the call, which is the only case where the
// caller has to touch masks and view caches.
func (s *Store[T]) Write(e Entity, v T) (ptr *T, added bool) {
	if pos := s.slot(e); pos != noSlot {
		s.packed[pos] = v
		return &s.packed[pos], false
	}
	for int(e) >= len(s.slots) {
		s.slots = append(s.slots, noSlot)
	}
	pos := int32(len(s.packed))
	s.packed = append(s.packed, v)
	s.entities = append(s.entities, e)
	s.slots[e] = pos
	if debugChecks {
		s.audit()
	}
	return &s.packed[pos], true
}

// Read returns the live value for e. It panics when e has no component
// of this type.
func (s *Store[T]) Read(e Entity) *T {
	pos := s.slot(e)
	if pos == noSlot {
		fail(ErrMissingComponent, "read %s of entity #%d", s.elemType(), e)
	}
	return &s.packed[pos]
}

// Lookup is Read without the panic.
func (s *Store[T]) Lookup(e Entity) (*T, bool) {
	pos := s.slot(e)
	if pos == noSlot {
		return nil, false
	}
	return &s.packed[pos], true
}

// Remove deletes the component of e. Absent components are a no-op, so it
// is safe to call on any entity.
func (s *Store[T]) Remove(e Entity) {
	pos := s.slot(e)
	if pos == noSlot {
		return
	}
	last := int32(len(s.packed) - 1)
	if pos != last {
		moved := s.entities[last]
		s.packed[pos] = s.packed[last]
		s.entities[pos] = moved
		s.slots[moved] = pos
	}
	var zero T
	s.packed[last] = zero
	s.packed = s.packed[:last]
	s.entities = s.entities[:last]
	s.slots[e] = noSlot
	if debugChecks {
		s.audit()
	}
}

func (s *Store[T]) Contains(e Entity) bool {
	return s.slot(e) != noSlot
}

// Copy is Write(dst, *Read(src)).
func (s *Store[T]) Copy(dst, src Entity) *T {
	ptr, _ := s.Write(dst, *s.Read(src))
	return ptr
}

func (s *Store[T]) Len() int {
	return len(s.packed)
}

// Values exposes the packed array. Values()[i] belongs to Entities()[i].
// Both slices are invalidated by the next structural mutation.
func (s *Store[T]) Values() []T {
	return s.packed
}

func (s *Store[T]) Entities() []Entity {
	return s.entities
}

// Each visits every component in slot order. fn must not add or remove
// components of this type.
func (s *Store[T]) Each(fn func(Entity, *T)) {
	for i := range s.packed {
		fn(s.entities[i], &s.packed[i])
	}
}

func (s *Store[T]) copyEntity(dst, src Entity) {
	s.Copy(dst, src)
}

func (s *Store[T]) elemType() reflect.Type {
	return reflect.TypeFor[T]()
}

// audit panics if the slot/entity indexes stop being inverse to each other.
func (s *Store[T]) audit() {
	if len(s.entities) != len(s.packed) {
		panic("ecs: store index length mismatch")
	}
	for i, e := range s.entities {
		if s.slot(e) != int32(i) {
			panic("ecs: store bijection broken")
		}
	}
}
