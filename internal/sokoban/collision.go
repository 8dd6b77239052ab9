package sokoban

import (
	"time"

	"github.com/kestrelgo/kestrel/internal/core/ecs"
)

// Collision resolves Move requests against the room and updates the win
// flag. A move pushes a chain of crates as long as the cell past the last
// crate is free floor.
type Collision struct {
	ecs.BaseSystem
}

func (c *Collision) Update(w *ecs.World, _ time.Duration) {
	room := ecs.UnpackOne[Room](w)
	ecs.Each3(w, func(e ecs.Entity, mv *Move, tf *Transform, sprite *Sprite) {
		dir := mv.Dir
		ecs.Detach[Move](w, e)
		if c.move(w, room, tf.Position.Cell(), dir) {
			room.Moves++
		}
		switch {
		case dir.X < 0:
			sprite.Flip = true
		case dir.X > 0:
			sprite.Flip = false
		}
	})
	room.Win = solved(w, room)
}

func (c *Collision) move(w *ecs.World, room *Room, pos, dir Point) bool {
	target := pos.Add(dir)
	entity := room.Top(pos)
	neighbor := room.Top(target)
	if entity == ecs.NullEntity || neighbor == ecs.NullEntity {
		return false
	}
	if ecs.Unpack[Tag](w, entity).Layer == 0 {
		// floor never moves
		return false
	}

	switch ecs.Unpack[Tag](w, neighbor).Kind {
	case KindCrate:
		if !c.move(w, room, target, dir) {
			return false
		}
	case KindGround, KindTarget:
	default:
		return false
	}

	room.Set(pos, 1, ecs.NullEntity)
	room.Set(target, 1, entity)
	from := ecs.Unpack[Transform](w, entity).Position
	ecs.Attach(w, entity, Animation{From: from, To: target.Vec()})
	return true
}

// solved reports whether every target has a crate on it.
func solved(w *ecs.World, room *Room) bool {
	for _, e := range ecs.View2[Transform, Target](w) {
		piece := room.At(ecs.Unpack[Transform](w, e).Position.Cell(), 1)
		if piece == ecs.NullEntity || ecs.Unpack[Tag](w, piece).Kind != KindCrate {
			return false
		}
	}
	return true
}
