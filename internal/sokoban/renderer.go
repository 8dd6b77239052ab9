package sokoban

import (
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/kestrelgo/kestrel/internal/core/ecs"
)

// CellWidth is the number of terminal columns per room cell.
const CellWidth = 2

// Renderer draws the room sprites, floor first, centered on the screen.
type Renderer struct {
	ecs.BaseSystem
	Screen tcell.Screen
}

func (r *Renderer) Draw(w *ecs.World) {
	room, ok := ecs.ViewOne1[Room](w)
	if !ok {
		return
	}
	rm := ecs.Unpack[Room](w, room)
	cam := ecs.UnpackOne[Camera](w)

	sw, sh := r.Screen.Size()
	cam.X = (sw - rm.Width*CellWidth) / 2
	cam.Y = (sh - rm.Height) / 2

	bg := tcell.StyleDefault.Background(cam.Background)
	for y := 0; y < rm.Height; y++ {
		for x := 0; x < rm.Width*CellWidth; x++ {
			r.Screen.SetContent(cam.X+x, cam.Y+y, ' ', nil, bg)
		}
	}

	for layer := 0; layer < roomLayers; layer++ {
		ecs.Each2(w, func(_ ecs.Entity, s *Sprite, tf *Transform) {
			if s.Layer != layer {
				return
			}
			x := cam.X + int(math.Round(tf.Position.X*CellWidth))
			y := cam.Y + int(math.Round(tf.Position.Y))
			g := s.glyphs()
			r.Screen.SetContent(x, y, g[0], nil, s.Style)
			r.Screen.SetContent(x+1, y, g[1], nil, s.Style)
		})
	}
}
