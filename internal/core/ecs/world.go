package ecs

import (
	"fmt"
	"reflect"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	DefaultMaxEntities   = 4096
	DefaultMaxComponents = 64
)

// Options bounds a World. Zero values select the defaults.
type Options struct {
	MaxEntities   int
	MaxComponents int
	// Initial backing capacity of each component store.
	StoreCapacity int
	Logger        *zap.Logger
}

func (o Options) withDefaults() Options {
	if o.MaxEntities <= 0 {
		o.MaxEntities = DefaultMaxEntities
	}
	if o.MaxComponents <= 0 {
		o.MaxComponents = DefaultMaxComponents
	}
	if o.MaxComponents > MaskBits {
		o.MaxComponents = MaskBits
	}
	if o.StoreCapacity <= 0 {
		o.StoreCapacity = 64
	}
	if o.StoreCapacity > o.MaxEntities {
		o.StoreCapacity = o.MaxEntities
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

// World owns entities, component stores, view caches and systems. It is not
// safe for concurrent use.
type World struct {
	opts     Options
	log      *zap.Logger
	entities *entityTable
	registry *registry
	activeID ComponentID

	caches []*viewCache
	byMask map[Mask]*viewCache

	systems     []System
	systemTypes []reflect.Type
}

func NewWorld(opts Options) *World {
	opts = opts.withDefaults()
	w := &World{
		opts:     opts,
		log:      opts.Logger,
		entities: newEntityTable(opts.MaxEntities),
		registry: newRegistry(opts.MaxComponents, opts.StoreCapacity),
		caches:   make([]*viewCache, 0, 16),
		byMask:   make(map[Mask]*viewCache, 16),
	}
	w.activeID = registerComponent[Active](w.registry)
	return w
}

func (w *World) Options() Options { return w.opts }

func (w *World) Logger() *zap.Logger { return w.log }

// Create returns a new entity with the Active marker attached.
func (w *World) Create() Entity {
	e := w.CreateInactive()
	Attach(w, e, Active{})
	return e
}

// CreateInactive returns a new entity without the Active marker. It still
// exists and can take components, but default views skip it until
// SetActive(e, true).
func (w *World) CreateInactive() Entity {
	return w.entities.alloc()
}

// CreateFrom creates an entity carrying a copy of every component of src,
// including Active if src has it.
func (w *World) CreateFrom(src Entity) Entity {
	w.mustBeAlive(src, "clone")
	dst := w.entities.alloc()
	w.Clone(dst, src)
	return dst
}

// Clone copies every component of src onto dst, replacing components dst
// already has. Components dst has and src lacks are kept.
func (w *World) Clone(dst, src Entity) {
	w.mustBeAlive(dst, "clone into")
	w.mustBeAlive(src, "clone from")
	if dst == src {
		return
	}
	srcMask := w.entities.masks[src]
	srcMask.ForEach(func(id ComponentID) {
		w.registry.stores[id].copyEntity(dst, src)
	})
	w.entities.masks[dst] = w.entities.masks[dst].Or(srcMask)
	mask := w.entities.masks[dst]
	for _, c := range w.caches {
		if mask.Contains(c.key) && !c.member(dst) {
			w.queue(c, diff{dst, diffAdd})
		}
	}
}

// Destroy removes e and all of its components. The id becomes reusable
// after the next Collect. It panics on NullEntity or an entity that is not
// alive.
func (w *World) Destroy(e Entity) {
	if err := w.TryDestroy(e); err != nil {
		panic(err)
	}
}

// TryDestroy is Destroy reporting contract violations as errors.
func (w *World) TryDestroy(e Entity) error {
	if e == NullEntity {
		return fmt.Errorf("destroy: %w", ErrNullEntity)
	}
	if !w.entities.alive(e) {
		return fmt.Errorf("destroy entity #%d: %w", e, ErrNotAlive)
	}
	w.registry.removeAll(e)
	var referenced []*viewCache
	for _, c := range w.caches {
		if c.member(e) {
			w.queue(c, diff{e, diffRemove})
		}
		if c.listed(e) {
			referenced = append(referenced, c)
		}
	}
	w.entities.release(e)
	w.entities.bury(e, referenced)
	return nil
}

// Collect ends a step: caches still listing destroyed entities fold their
// diffs and the destroyed ids return to the free list. Call it exactly once
// per step, after every system has run.
func (w *World) Collect() {
	t := w.entities
	if len(t.graves) == 0 {
		return
	}
	for _, g := range t.graves {
		for _, c := range g.caches {
			if c.dirty() {
				c.apply()
			}
		}
		t.free = append(t.free, g.entity)
	}
	if ce := w.log.Check(zapcore.DebugLevel, "collected destroyed entities"); ce != nil {
		ce.Write(zap.Int("count", len(t.graves)), zap.Int("free", len(t.free)))
	}
	clear(t.graves)
	t.graves = t.graves[:0]
}

// Alive reports whether e exists. Destroyed entities are not alive even
// before Collect.
func (w *World) Alive(e Entity) bool {
	return w.entities.alive(e)
}

// Len is the number of live entities, active or not.
func (w *World) Len() int {
	return len(w.entities.live)
}

// Pending is the number of destroyed ids waiting for Collect.
func (w *World) Pending() int {
	return len(w.entities.graves)
}

// ViewAll returns every live entity, active or not. The slice is owned by
// the World and reordered by Destroy.
func (w *World) ViewAll() []Entity {
	return w.entities.live
}

// SetActive attaches or detaches the Active marker.
func (w *World) SetActive(e Entity, active bool) {
	if active {
		Attach(w, e, Active{})
		return
	}
	Detach[Active](w, e)
}

func (w *World) IsActive(e Entity) bool {
	return w.alive(e) && w.entities.masks[e].Has(w.activeID)
}

// MaskOf returns the component mask of e.
func (w *World) MaskOf(e Entity) Mask {
	if int(e) >= len(w.entities.masks) {
		return Mask{}
	}
	return w.entities.masks[e]
}

// ComponentTypes lists registered component types indexed by ComponentID.
func (w *World) ComponentTypes() []reflect.Type {
	return w.registry.types
}

// Describe names the component types attached to e.
func (w *World) Describe(e Entity) []string {
	var names []string
	w.MaskOf(e).ForEach(func(id ComponentID) {
		names = append(names, w.registry.types[id].String())
	})
	return names
}

// View returns the active entities having every component in ids, in the
// order they started matching. The slice is owned by the cache: do not
// modify it, and do not hold it across a later query of the same view.
func (w *World) View(ids ...ComponentID) []Entity {
	mask := MaskOf(ids...)
	mask.Set(w.activeID)
	return w.query(mask)
}

// ViewInactive is View without the implicit Active requirement. With no
// ids it matches every live entity, like ViewAll.
func (w *World) ViewInactive(ids ...ComponentID) []Entity {
	return w.query(MaskOf(ids...))
}

// ViewMask queries an explicit mask, Active bit included or not.
func (w *World) ViewMask(mask Mask) []Entity {
	return w.query(mask)
}

func (w *World) query(mask Mask) []Entity {
	// Every entity contains the zero mask, and no cache is keyed on it.
	if mask.IsZero() {
		return w.entities.live
	}
	if c, ok := w.byMask[mask]; ok {
		if c.dirty() {
			if ce := w.log.Check(zapcore.DebugLevel, "fold view diffs"); ce != nil {
				ce.Write(zap.Stringer("view", mask), zap.Int("entities", len(c.entities)), zap.Int("diffs", len(c.diffs)))
			}
			c.apply()
		}
		return c.entities
	}
	c := newViewCache(mask)
	c.build(w.entities.live, w.entities.masks)
	w.caches = append(w.caches, c)
	w.byMask[mask] = c
	if ce := w.log.Check(zapcore.DebugLevel, "initial view build"); ce != nil {
		ce.Write(zap.Stringer("view", mask), zap.Int("entities", len(c.entities)))
	}
	return c.entities
}

// added updates masks and views after e gained component id.
func (w *World) added(e Entity, id ComponentID) {
	mask := &w.entities.masks[e]
	mask.Set(id)
	for _, c := range w.caches {
		if !c.key.Has(id) || !mask.Contains(c.key) || c.member(e) {
			continue
		}
		w.queue(c, diff{e, diffAdd})
	}
}

// removed updates masks and views after e lost component id.
func (w *World) removed(e Entity, id ComponentID) {
	for _, c := range w.caches {
		if !c.key.Has(id) || !c.member(e) {
			continue
		}
		w.queue(c, diff{e, diffRemove})
	}
	w.entities.masks[e].Clear(id)
}

func (w *World) queue(c *viewCache, d diff) {
	if !c.invalidate(d) {
		return
	}
	if ce := w.log.Check(zapcore.DebugLevel, "view diff queued"); ce != nil {
		ce.Write(zap.Stringer("view", c.key), zap.Uint32("entity", uint32(d.entity)), zap.Stringer("op", d.op))
	}
}

func (w *World) alive(e Entity) bool {
	return w.entities.alive(e)
}

func (w *World) mustBeAlive(e Entity, what string) {
	if e == NullEntity {
		fail(ErrNullEntity, "%s", what)
	}
	if !w.entities.alive(e) {
		fail(ErrNotAlive, "%s entity #%d", what, e)
	}
}
