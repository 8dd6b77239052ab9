package ecs

type diffOp uint8

const (
	diffAdd diffOp = iota
	diffRemove
)

func (op diffOp) String() string {
	if op == diffAdd {
		return "add"
	}
	return "remove"
}

type diff struct {
	entity Entity
	op     diffOp
}

// viewCache memoizes the entities whose mask contains key. Mutations do not
// touch entities directly; they queue diffs that are folded in on the next
// read.
type viewCache struct {
	key Mask
	// Matching entities in the order they were first added.
	entities []Entity
	// entity -> position in entities. Doubles as the membership set.
	index map[Entity]int
	diffs []diff
}

func newViewCache(key Mask) *viewCache {
	return &viewCache{
		key:   key,
		index: make(map[Entity]int),
	}
}

// listed reports whether e is in the folded entity list, ignoring queued
// diffs.
func (c *viewCache) listed(e Entity) bool {
	_, ok := c.index[e]
	return ok
}

// member reports whether e will be in the list once queued diffs are
// folded in.
func (c *viewCache) member(e Entity) bool {
	for i := len(c.diffs) - 1; i >= 0; i-- {
		if c.diffs[i].entity == e {
			return c.diffs[i].op == diffAdd
		}
	}
	return c.listed(e)
}

func (c *viewCache) dirty() bool {
	return len(c.diffs) > 0
}

// invalidate queues d. An identical queued diff makes d a no-op. A queued
// diff of the opposite operation for the same entity cancels out with d, so
// an attach/detach/attach sequence between two reads leaves the entity where
// it was.
func (c *viewCache) invalidate(d diff) bool {
	for i, q := range c.diffs {
		if q.entity != d.entity {
			continue
		}
		if q.op == d.op {
			return false
		}
		c.diffs = append(c.diffs[:i], c.diffs[i+1:]...)
		return true
	}
	c.diffs = append(c.diffs, d)
	return true
}

// apply folds every queued diff into the entity list.
func (c *viewCache) apply() {
	for _, d := range c.diffs {
		switch d.op {
		case diffAdd:
			if c.listed(d.entity) {
				continue
			}
			c.index[d.entity] = len(c.entities)
			c.entities = append(c.entities, d.entity)
		case diffRemove:
			pos, ok := c.index[d.entity]
			if !ok {
				if debugChecks {
					fail(ErrNotAlive, "remove entity #%d missing from view %s", d.entity, c.key)
				}
				continue
			}
			last := len(c.entities) - 1
			if pos != last {
				moved := c.entities[last]
				c.entities[pos] = moved
				c.index[moved] = pos
			}
			c.entities = c.entities[:last]
			delete(c.index, d.entity)
		}
	}
	c.diffs = c.diffs[:0]
}

// build fills an empty cache by scanning the live entity list.
func (c *viewCache) build(live []Entity, masks []Mask) {
	for _, e := range live {
		if masks[e].Contains(c.key) {
			c.index[e] = len(c.entities)
			c.entities = append(c.entities, e)
		}
	}
}
