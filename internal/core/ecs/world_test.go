package ecs_test

import (
	"errors"
	"math/rand"
	"slices"
	"testing"

	"github.com/kestrelgo/kestrel/internal/core/ecs"
)

type Position struct{ X, Y float64 }

type Velocity struct{ DX, DY float64 }

type Sprite struct{ Glyph rune }

type Move struct{}

func expectPanic(t *testing.T, target error, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		if r == nil {
			t.Fatalf("expected panic wrapping %v", target)
		}
		err, ok := r.(error)
		if !ok || !errors.Is(err, target) {
			t.Fatalf("recovered %v, want %v", r, target)
		}
	}()
	fn()
}

func TestWorldScenarios(t *testing.T) {
	w := ecs.NewWorld(ecs.Options{})
	w.Create()
	e1, e2 := w.Create(), w.Create()
	w.Create()

	ecs.Attach(w, e1, Position{1, 1})
	ecs.Attach(w, e2, Position{2, 2})
	if got := ecs.View1[Position](w); !slices.Equal(got, []ecs.Entity{e1, e2}) {
		t.Fatalf("view<Position> = %v, want [%d %d]", got, e1, e2)
	}

	ecs.Attach(w, e1, Velocity{1, 0})
	if got := ecs.View2[Position, Velocity](w); !slices.Equal(got, []ecs.Entity{e1}) {
		t.Fatalf("view<Position,Velocity> = %v, want [%d]", got, e1)
	}
	if got := ecs.View1[Position](w); !slices.Equal(got, []ecs.Entity{e1, e2}) {
		t.Fatalf("view<Position> after velocity = %v", got)
	}

	ecs.Detach[Position](w, e2)
	if got := ecs.View1[Position](w); !slices.Equal(got, []ecs.Entity{e1}) {
		t.Fatalf("view<Position> after detach = %v", got)
	}

	w.Destroy(e2)
	fresh := w.Create()
	if fresh == e2 {
		t.Fatalf("id %d reused before Collect", e2)
	}
	w.Collect()
	if reused := w.Create(); reused != e2 {
		t.Fatalf("after Collect got %d, want recycled %d", reused, e2)
	}
}

func TestNullEntityIsNeverCreated(t *testing.T) {
	w := ecs.NewWorld(ecs.Options{MaxEntities: 8})
	for i := 0; i < 8; i++ {
		if e := w.Create(); e == ecs.NullEntity {
			t.Fatal("Create returned NullEntity")
		}
	}
}

func TestEntityCapacity(t *testing.T) {
	w := ecs.NewWorld(ecs.Options{MaxEntities: 3})
	a := w.Create()
	w.Create()
	w.Create()
	expectPanic(t, ecs.ErrEntityCapacity, func() { w.Create() })

	// A destroyed id only becomes available after Collect.
	w.Destroy(a)
	expectPanic(t, ecs.ErrEntityCapacity, func() { w.Create() })
	w.Collect()
	if e := w.Create(); e != a {
		t.Fatalf("got %d, want recycled %d", e, a)
	}
}

func TestComponentCapacity(t *testing.T) {
	w := ecs.NewWorld(ecs.Options{MaxComponents: 2})
	e := w.Create()
	ecs.Attach(w, e, Position{})
	expectPanic(t, ecs.ErrComponentCapacity, func() { ecs.Attach(w, e, Velocity{}) })
}

func TestDestroyContractViolations(t *testing.T) {
	w := ecs.NewWorld(ecs.Options{})
	expectPanic(t, ecs.ErrNullEntity, func() { w.Destroy(ecs.NullEntity) })

	e := w.Create()
	w.Destroy(e)
	if err := w.TryDestroy(e); !errors.Is(err, ecs.ErrNotAlive) {
		t.Fatalf("double destroy: %v", err)
	}
	w.Collect()
	if err := w.TryDestroy(e); !errors.Is(err, ecs.ErrNotAlive) {
		t.Fatalf("destroy after collect: %v", err)
	}
}

func TestUnpackMissing(t *testing.T) {
	w := ecs.NewWorld(ecs.Options{})
	e := w.Create()

	if _, err := ecs.TryUnpack[Position](w, e); !errors.Is(err, ecs.ErrMissingComponent) {
		t.Fatalf("TryUnpack on unregistered type: %v", err)
	}
	expectPanic(t, ecs.ErrMissingComponent, func() { ecs.Unpack[Position](w, e) })

	other := w.Create()
	ecs.Attach(w, other, Position{})
	expectPanic(t, ecs.ErrMissingComponent, func() { ecs.Unpack[Position](w, e) })
	if ecs.Has[Velocity](w, e) {
		t.Fatal("Has on an unregistered type")
	}
	expectPanic(t, ecs.ErrMissingComponent, func() { ecs.UnpackOne[Velocity](w) })
}

func TestReplaceKeepsViewOrder(t *testing.T) {
	w := ecs.NewWorld(ecs.Options{})
	a, b := w.Create(), w.Create()
	ecs.Attach(w, a, Position{})
	ecs.Attach(w, b, Position{})
	ecs.View1[Position](w)

	ecs.Attach(w, a, Position{X: 9})
	if got := ecs.View1[Position](w); !slices.Equal(got, []ecs.Entity{a, b}) {
		t.Fatalf("replace reordered the view: %v", got)
	}
	if ecs.Unpack[Position](w, a).X != 9 {
		t.Fatal("replace did not overwrite")
	}
	if e, ok := ecs.ViewOne1[Position](w); !ok || e != a {
		t.Fatalf("ViewOne1 = %d,%v", e, ok)
	}
}

func TestAttachDetachAttachBeforeRead(t *testing.T) {
	w := ecs.NewWorld(ecs.Options{})
	a := w.Create()
	ecs.Attach(w, a, Position{})
	if got := ecs.View2[Position, Move](w); len(got) != 0 {
		t.Fatalf("view = %v", got)
	}

	ecs.Attach(w, a, Move{})
	ecs.Detach[Move](w, a)
	ecs.Attach(w, a, Move{})
	if got := ecs.View2[Position, Move](w); !slices.Equal(got, []ecs.Entity{a}) {
		t.Fatalf("set/unset/set lost the entity: %v", got)
	}

	ecs.Detach[Move](w, a)
	ecs.Attach(w, a, Move{})
	ecs.Detach[Move](w, a)
	if got := ecs.View2[Position, Move](w); len(got) != 0 {
		t.Fatalf("unset/set/unset kept the entity: %v", got)
	}
}

func TestInactiveEntities(t *testing.T) {
	w := ecs.NewWorld(ecs.Options{})
	hidden := w.CreateInactive()
	shown := w.Create()
	ecs.Attach(w, hidden, Position{})
	ecs.Attach(w, shown, Position{})

	if got := ecs.View1[Position](w); !slices.Equal(got, []ecs.Entity{shown}) {
		t.Fatalf("default view = %v", got)
	}
	posID := ecs.ID[Position](w)
	if got := w.ViewInactive(posID); !slices.Equal(got, []ecs.Entity{hidden, shown}) {
		t.Fatalf("inactive view = %v", got)
	}

	w.SetActive(hidden, true)
	if got := ecs.View1[Position](w); !slices.Equal(got, []ecs.Entity{shown, hidden}) {
		t.Fatalf("view after activation = %v", got)
	}
	w.SetActive(shown, false)
	if got := ecs.View1[Position](w); !slices.Equal(got, []ecs.Entity{hidden}) {
		t.Fatalf("view after deactivation = %v", got)
	}
	if w.IsActive(shown) {
		t.Fatal("shown still active")
	}
}

func TestCloneAndCreateFrom(t *testing.T) {
	w := ecs.NewWorld(ecs.Options{})
	src := w.Create()
	ecs.Attach(w, src, Position{3, 4})
	ecs.Attach(w, src, Velocity{1, 1})
	ecs.View2[Position, Velocity](w)

	dst := w.Create()
	ecs.Attach(w, dst, Sprite{Glyph: '@'})
	ecs.Attach(w, dst, Position{})
	w.Clone(dst, src)

	if p := ecs.Unpack[Position](w, dst); *p != (Position{3, 4}) {
		t.Fatalf("position not copied: %+v", *p)
	}
	if !ecs.Has[Sprite](w, dst) {
		t.Fatal("clone dropped a component the source lacks")
	}
	if got := ecs.View2[Position, Velocity](w); !slices.Equal(got, []ecs.Entity{src, dst}) {
		t.Fatalf("view after clone = %v", got)
	}

	prefab := w.CreateInactive()
	ecs.Attach(w, prefab, Sprite{Glyph: '#'})
	tile := w.CreateFrom(prefab)
	if w.IsActive(tile) {
		t.Fatal("clone of an inactive prefab is active")
	}
	ecs.Unpack[Sprite](w, tile).Glyph = '%'
	if ecs.Unpack[Sprite](w, prefab).Glyph != '#' {
		t.Fatal("clone shares storage with its source")
	}
}

func TestDeferredReuse(t *testing.T) {
	w := ecs.NewWorld(ecs.Options{MaxEntities: 64})
	e := make([]ecs.Entity, 16)
	for i := range e {
		e[i] = w.Create()
		ecs.Attach(w, e[i], Position{})
	}
	ecs.View1[Position](w)

	destroyed := map[ecs.Entity]bool{}
	for i := 0; i < len(e); i += 2 {
		w.Destroy(e[i])
		destroyed[e[i]] = true
	}
	if w.Pending() != len(destroyed) {
		t.Fatalf("Pending = %d", w.Pending())
	}
	for i := 0; i < 8; i++ {
		if n := w.Create(); destroyed[n] {
			t.Fatalf("create returned destroyed id %d before Collect", n)
		}
	}
	w.Collect()
	if w.Pending() != 0 {
		t.Fatalf("Pending after Collect = %d", w.Pending())
	}
	reused := w.Create()
	if !destroyed[reused] {
		t.Fatalf("Collect did not release ids, got %d", reused)
	}
	if ecs.Has[Position](w, reused) {
		t.Fatal("recycled entity kept a component")
	}
	for _, v := range ecs.View1[Position](w) {
		if v == reused {
			t.Fatal("recycled entity still in view")
		}
	}
}

func TestCollectWithoutDestroyIsNoop(t *testing.T) {
	w := ecs.NewWorld(ecs.Options{})
	w.Create()
	w.Collect()
	if w.Len() != 1 || w.Pending() != 0 {
		t.Fatalf("Len=%d Pending=%d", w.Len(), w.Pending())
	}
}

func TestEachSkipsEntitiesMutatedDuringWalk(t *testing.T) {
	w := ecs.NewWorld(ecs.Options{})
	var all []ecs.Entity
	for i := 0; i < 4; i++ {
		e := w.Create()
		ecs.Attach(w, e, Position{X: float64(i)})
		ecs.Attach(w, e, Move{})
		all = append(all, e)
	}

	var visited []ecs.Entity
	ecs.Each2(w, func(e ecs.Entity, p *Position, _ *Move) {
		visited = append(visited, e)
		ecs.Detach[Move](w, e)
		if e == all[0] {
			ecs.Detach[Move](w, all[1])
		}
	})
	if !slices.Equal(visited, []ecs.Entity{all[0], all[2], all[3]}) {
		t.Fatalf("visited %v", visited)
	}
	if got := ecs.View1[Move](w); len(got) != 0 {
		t.Fatalf("moves left: %v", got)
	}
}

func TestDescribe(t *testing.T) {
	w := ecs.NewWorld(ecs.Options{})
	e := w.Create()
	ecs.Attach(w, e, Position{})
	got := w.Describe(e)
	want := []string{"ecs.Active", "ecs_test.Position"}
	if !slices.Equal(got, want) {
		t.Fatalf("Describe = %v, want %v", got, want)
	}
}

// TestViewConsistency drives random mutations and checks every cached view
// against a brute-force scan after each burst.
func TestViewConsistency(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	w := ecs.NewWorld(ecs.Options{MaxEntities: 256})
	ids := []ecs.ComponentID{
		ecs.ID[Position](w),
		ecs.ID[Velocity](w),
		ecs.ID[Sprite](w),
		ecs.ID[Move](w),
	}
	attach := []func(ecs.Entity){
		func(e ecs.Entity) { ecs.Attach(w, e, Position{}) },
		func(e ecs.Entity) { ecs.Attach(w, e, Velocity{}) },
		func(e ecs.Entity) { ecs.Attach(w, e, Sprite{}) },
		func(e ecs.Entity) { ecs.Attach(w, e, Move{}) },
	}
	detach := []func(ecs.Entity){
		func(e ecs.Entity) { ecs.Detach[Position](w, e) },
		func(e ecs.Entity) { ecs.Detach[Velocity](w, e) },
		func(e ecs.Entity) { ecs.Detach[Sprite](w, e) },
		func(e ecs.Entity) { ecs.Detach[Move](w, e) },
	}

	masks := []ecs.Mask{{}}
	for bits := 1; bits < 1<<len(ids); bits++ {
		var m ecs.Mask
		for i, id := range ids {
			if bits&(1<<i) != 0 {
				m.Set(id)
			}
		}
		masks = append(masks, m)
		withActive := m
		withActive.Set(ecs.ID[ecs.Active](w))
		masks = append(masks, withActive)
	}

	pick := func() (ecs.Entity, bool) {
		live := w.ViewAll()
		if len(live) == 0 {
			return 0, false
		}
		return live[rng.Intn(len(live))], true
	}

	for step := 0; step < 300; step++ {
		for op := 0; op < 20; op++ {
			switch r := rng.Intn(10); {
			case r == 0 && w.Len()+w.Pending() < 200:
				if rng.Intn(2) == 0 {
					w.Create()
				} else {
					w.CreateInactive()
				}
			case r == 1:
				if e, ok := pick(); ok {
					w.Destroy(e)
				}
			case r == 2:
				if e, ok := pick(); ok {
					w.SetActive(e, rng.Intn(2) == 0)
				}
			case r == 3:
				dst, ok1 := pick()
				src, ok2 := pick()
				if ok1 && ok2 {
					w.Clone(dst, src)
				}
			case r < 7:
				if e, ok := pick(); ok {
					attach[rng.Intn(len(attach))](e)
				}
			default:
				if e, ok := pick(); ok {
					detach[rng.Intn(len(detach))](e)
				}
			}
		}

		// Query only some views each step so that diffs pile up on the rest.
		for _, m := range masks {
			if rng.Intn(3) != 0 {
				continue
			}
			got := slices.Clone(w.ViewMask(m))
			var want []ecs.Entity
			for _, e := range w.ViewAll() {
				if w.MaskOf(e).Contains(m) {
					want = append(want, e)
				}
			}
			slices.Sort(got)
			slices.Sort(want)
			if !slices.Equal(got, want) {
				t.Fatalf("step %d view %s: got %v want %v", step, m, got, want)
			}
		}
		if rng.Intn(2) == 0 {
			w.Collect()
		}
	}
}

func TestEmptyMaskViewTracksEveryEntity(t *testing.T) {
	w := ecs.NewWorld(ecs.Options{})
	w.Create()
	if got := len(w.ViewInactive()); got != 1 {
		t.Fatalf("empty view = %d entities, want 1", got)
	}

	w.Create()
	hidden := w.CreateInactive()
	got := w.ViewInactive()
	if len(got) != 3 || !slices.Contains(got, hidden) {
		t.Fatalf("empty view = %v, want all 3 live entities", got)
	}

	w.Destroy(hidden)
	if got := w.ViewInactive(); len(got) != 2 || slices.Contains(got, hidden) {
		t.Fatalf("empty view after destroy = %v", got)
	}
}

func TestViewOneInactive(t *testing.T) {
	w := ecs.NewWorld(ecs.Options{})
	prefab := w.CreateInactive()
	ecs.Attach(w, prefab, Position{X: 7})

	if _, ok := ecs.ViewOne1[Position](w); ok {
		t.Fatal("ViewOne1 matched an inactive entity")
	}
	if e, ok := ecs.ViewOneInactive1[Position](w); !ok || e != prefab {
		t.Fatalf("ViewOneInactive1 = %d,%v", e, ok)
	}
	if p := ecs.UnpackOneInactive[Position](w); p.X != 7 {
		t.Fatalf("UnpackOneInactive = %+v", p)
	}
	expectPanic(t, ecs.ErrMissingComponent, func() { ecs.UnpackOne[Position](w) })
	expectPanic(t, ecs.ErrMissingComponent, func() { ecs.UnpackOneInactive[Velocity](w) })
}
