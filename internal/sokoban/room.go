package sokoban

import (
	"github.com/gdamore/tcell/v2"

	"github.com/kestrelgo/kestrel/internal/core/ecs"
	"github.com/kestrelgo/kestrel/internal/data"
)

// atlas is the sprite of every kind.
var atlas = [...]Sprite{
	KindGround: {Cells: [2]rune{' ', ' '}, Style: tcell.StyleDefault.Background(roomColor)},
	KindWall:   {Cells: [2]rune{'█', '█'}, Style: tcell.StyleDefault.Foreground(tcell.ColorSlateGray).Background(roomColor)},
	KindCrate:  {Cells: [2]rune{'[', ']'}, Style: tcell.StyleDefault.Foreground(tcell.ColorOrange).Background(roomColor).Bold(true)},
	KindPlayer: {Cells: [2]rune{'@', '>'}, Mirror: [2]rune{'<', '@'}, Style: tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(roomColor).Bold(true)},
	KindTarget: {Cells: [2]rune{'(', ')'}, Style: tcell.StyleDefault.Foreground(tcell.ColorGreen).Background(roomColor)},
}

// LoadRoom builds the entities of level and the Room indexing them. Every
// tile is cloned from an inactive prefab; pieces get a floor tile beneath
// them.
func LoadRoom(w *ecs.World, level *data.Level, index int) *Room {
	prefabs := make([]ecs.Entity, len(atlas))
	for k := range atlas {
		e := w.CreateInactive()
		ecs.Attach(w, e, atlas[k])
		ecs.Attach(w, e, Tag{Kind: Kind(k)})
		ecs.Attach(w, e, Transform{})
		prefabs[k] = e
	}
	spawn := func(k Kind, p Point, layer int) ecs.Entity {
		e := w.CreateFrom(prefabs[k])
		ecs.Unpack[Transform](w, e).Position = p.Vec()
		ecs.Unpack[Tag](w, e).Layer = layer
		ecs.Unpack[Sprite](w, e).Layer = layer
		w.SetActive(e, true)
		return e
	}

	roomEntity := w.Create()
	room := ecs.Attach(w, roomEntity, NewRoom(level.Width(), level.Height()))
	room.Level = index
	room.Name = level.Name

	for y := 0; y < level.Height(); y++ {
		for x := 0; x < level.Width(); x++ {
			p := Point{x, y}
			kind := kindOf(level.At(x, y))
			layer := 0
			if kind == KindPlayer || kind == KindCrate {
				room.Set(p, 0, spawn(KindGround, p, 0))
				layer = 1
			}
			e := spawn(kind, p, layer)
			room.Set(p, layer, e)

			switch kind {
			case KindPlayer:
				ecs.Attach(w, e, Player{})
			case KindTarget:
				ecs.Attach(w, e, Target{})
			}
		}
	}

	for _, e := range prefabs {
		w.Destroy(e)
	}
	return ecs.Unpack[Room](w, roomEntity)
}
