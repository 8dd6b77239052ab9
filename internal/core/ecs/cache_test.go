package ecs

import (
	"slices"
	"testing"
)

func TestViewCacheDuplicateDiffIsDropped(t *testing.T) {
	once := newViewCache(MaskOf(1))
	twice := newViewCache(MaskOf(1))

	once.invalidate(diff{5, diffAdd})
	twice.invalidate(diff{5, diffAdd})
	if twice.invalidate(diff{5, diffAdd}) {
		t.Fatal("identical diff was queued twice")
	}

	once.apply()
	twice.apply()
	if !slices.Equal(once.entities, twice.entities) {
		t.Fatalf("%v != %v", once.entities, twice.entities)
	}
}

func TestViewCacheOppositeDiffsCancel(t *testing.T) {
	c := newViewCache(MaskOf(1))
	c.build([]Entity{1, 2}, []Mask{{}, MaskOf(1), MaskOf(1)})

	// detach then re-attach before a read
	c.invalidate(diff{1, diffRemove})
	if c.member(1) {
		t.Fatal("member after queued remove")
	}
	c.invalidate(diff{1, diffAdd})
	if !c.member(1) {
		t.Fatal("not a member after re-add")
	}
	if c.dirty() {
		t.Fatalf("diffs left after cancel: %v", c.diffs)
	}
	c.apply()
	if !slices.Equal(c.entities, []Entity{1, 2}) {
		t.Fatalf("entities = %v", c.entities)
	}
}

func TestViewCacheApplySwapRemoves(t *testing.T) {
	c := newViewCache(MaskOf(0))
	for _, e := range []Entity{1, 2, 3, 4} {
		c.invalidate(diff{e, diffAdd})
	}
	c.apply()
	c.invalidate(diff{2, diffRemove})
	c.apply()

	if !slices.Equal(c.entities, []Entity{1, 4, 3}) {
		t.Fatalf("entities = %v", c.entities)
	}
	for i, e := range c.entities {
		if c.index[e] != i {
			t.Fatalf("index[%d] = %d, want %d", e, c.index[e], i)
		}
	}
	if c.listed(2) {
		t.Fatal("2 still listed")
	}
}
