package ecs

import "reflect"

// registry assigns ComponentIDs to component types on first use and owns
// one Store per type. Each World has its own; nothing here is global.
type registry struct {
	max     int
	initCap int
	ids     map[reflect.Type]ComponentID
	types   []reflect.Type
	stores  []storage
}

func newRegistry(maxComponents, initCap int) *registry {
	return &registry{
		max:     maxComponents,
		initCap: initCap,
		ids:     make(map[reflect.Type]ComponentID, maxComponents),
		types:   make([]reflect.Type, 0, maxComponents),
		stores:  make([]storage, 0, maxComponents),
	}
}

func (r *registry) lookup(t reflect.Type) (ComponentID, bool) {
	id, ok := r.ids[t]
	return id, ok
}

func (r *registry) len() int { return len(r.stores) }

// removeAll clears e from every store. Stores without e ignore the call.
func (r *registry) removeAll(e Entity) {
	for _, s := range r.stores {
		s.Remove(e)
	}
}

func registerComponent[T any](r *registry) ComponentID {
	t := reflect.TypeFor[T]()
	if id, ok := r.ids[t]; ok {
		return id
	}
	if len(r.stores) >= r.max {
		fail(ErrComponentCapacity, "register %s (max %d)", t, r.max)
	}
	id := ComponentID(len(r.stores))
	r.ids[t] = id
	r.types = append(r.types, t)
	r.stores = append(r.stores, NewStore[T](r.initCap))
	return id
}

// storeOf returns the store for T, registering T if needed.
func storeOf[T any](r *registry) (*Store[T], ComponentID) {
	id := registerComponent[T](r)
	return r.stores[id].(*Store[T]), id
}

// findStore returns the store for T without registering it.
func findStore[T any](r *registry) (*Store[T], ComponentID, bool) {
	id, ok := r.ids[reflect.TypeFor[T]()]
	if !ok {
		return nil, 0, false
	}
	return r.stores[id].(*Store[T]), id, true
}
