package event

import "reflect"

// Bus dispatches typed events to subscribers in subscription order. Emit
// delivers immediately; Post queues into the back buffer and Flush delivers
// everything queued since the previous Flush, once per step.
//
// A handler returns true when it consumed the event, which stops delivery
// to later handlers.
type Bus struct {
	handlers map[reflect.Type][]*handler
	front    []func()
	back     []func()
	nextID   uint64
}

type handler struct {
	id uint64
	fn any
}

func NewBus() *Bus {
	return &Bus{
		handlers: make(map[reflect.Type][]*handler),
	}
}

// Subscribe registers fn for events of type T. The returned function
// removes it again.
func Subscribe[T any](b *Bus, fn func(T) bool) (unsubscribe func()) {
	t := reflect.TypeFor[T]()
	b.nextID++
	h := &handler{id: b.nextID, fn: fn}
	b.handlers[t] = append(b.handlers[t], h)
	return func() { b.remove(t, h.id) }
}

// Emit delivers ev now and reports whether a handler consumed it.
func Emit[T any](b *Bus, ev T) bool {
	hs := b.handlers[reflect.TypeFor[T]()]
	if len(hs) == 0 {
		return false
	}
	// Handlers may subscribe or unsubscribe while we deliver.
	snapshot := make([]*handler, len(hs))
	copy(snapshot, hs)
	for _, h := range snapshot {
		if h.fn.(func(T) bool)(ev) {
			return true
		}
	}
	return false
}

// Post queues ev for the next Flush.
func Post[T any](b *Bus, ev T) {
	b.back = append(b.back, func() { Emit(b, ev) })
}

// Flush swaps the buffers and delivers every queued event in posting order.
// Events posted by handlers during Flush wait for the next one.
func (b *Bus) Flush() int {
	b.front, b.back = b.back, b.front[:0]
	for i, deliver := range b.front {
		deliver()
		b.front[i] = nil
	}
	return len(b.front)
}

// Pending is the number of posted events waiting for Flush.
func (b *Bus) Pending() int {
	return len(b.back)
}

// Clear drops every handler and every queued event.
func (b *Bus) Clear() {
	clear(b.handlers)
	clear(b.back)
	b.back = b.back[:0]
}

func (b *Bus) remove(t reflect.Type, id uint64) {
	hs := b.handlers[t]
	for i, h := range hs {
		if h.id == id {
			b.handlers[t] = append(hs[:i:i], hs[i+1:]...)
			return
		}
	}
}
