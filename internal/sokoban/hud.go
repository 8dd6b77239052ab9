package sokoban

import (
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"

	"github.com/kestrelgo/kestrel/internal/core/ecs"
)

// HUD draws Text blocks over everything else.
type HUD struct {
	ecs.BaseSystem
	Screen tcell.Screen
}

func (h *HUD) Draw(w *ecs.World) {
	sw, sh := h.Screen.Size()
	ecs.Each1(w, func(_ ecs.Entity, t *Text) {
		var top int
		switch t.Anchor {
		case AnchorTop:
			top = 1
		case AnchorBottom:
			top = sh - 1 - len(t.Lines)
		default:
			top = (sh - len(t.Lines)) / 2
		}
		for i, line := range t.Lines {
			drawString(h.Screen, (sw-utf8.RuneCountInString(line))/2, top+i, line, t.Style)
		}
	})
}

// drawString writes single-width text starting at x, y.
func drawString(s tcell.Screen, x, y int, text string, style tcell.Style) {
	for i, r := range []rune(text) {
		s.SetContent(x+i, y, r, nil, style)
	}
}
