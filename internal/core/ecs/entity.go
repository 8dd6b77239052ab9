package ecs

// Entity is an opaque identifier for a game object. Ids are reused after
// Collect and carry no generation, so a stale Entity may alias a newer one.
type Entity uint32

// NullEntity is never returned by Create and never carries components. Use
// it to mark empty slots in entity arrays.
const NullEntity Entity = 0

// tombstone is a destroyed entity whose id waits for Collect.
type tombstone struct {
	entity Entity
	caches []*viewCache
}

// entityTable allocates ids and tracks the live list and per-entity masks.
type entityTable struct {
	max  int
	next Entity
	// Ids released by Collect, reused LIFO.
	free []Entity
	// All live entities, active or not. Order is not stable across Destroy.
	live []Entity
	// entity -> position in live, -1 when not alive.
	livePos []int32
	masks   []Mask
	graves  []tombstone
}

func newEntityTable(maxEntities int) *entityTable {
	t := &entityTable{
		max:     maxEntities,
		next:    NullEntity + 1,
		free:    make([]Entity, 0, 64),
		live:    make([]Entity, 0, maxEntities),
		livePos: make([]int32, maxEntities+1),
		masks:   make([]Mask, maxEntities+1),
		graves:  make([]tombstone, 0, 16),
	}
	for i := range t.livePos {
		t.livePos[i] = -1
	}
	return t
}

func (t *entityTable) alloc() Entity {
	var e Entity
	if n := len(t.free); n > 0 {
		e = t.free[n-1]
		t.free = t.free[:n-1]
	} else {
		if int(t.next) > t.max {
			fail(ErrEntityCapacity, "create entity (max %d, %d awaiting collect)", t.max, len(t.graves))
		}
		e = t.next
		t.next++
	}
	t.livePos[e] = int32(len(t.live))
	t.live = append(t.live, e)
	t.masks[e] = Mask{}
	return e
}

func (t *entityTable) alive(e Entity) bool {
	return e != NullEntity && int(e) < len(t.livePos) && t.livePos[e] >= 0
}

// release swap-removes e from the live list. The id is not reusable until
// reclaim.
func (t *entityTable) release(e Entity) {
	pos := t.livePos[e]
	last := int32(len(t.live) - 1)
	if pos != last {
		moved := t.live[last]
		t.live[pos] = moved
		t.livePos[moved] = pos
	}
	t.live = t.live[:last]
	t.livePos[e] = -1
	t.masks[e] = Mask{}
}

func (t *entityTable) bury(e Entity, caches []*viewCache) {
	t.graves = append(t.graves, tombstone{entity: e, caches: caches})
}
