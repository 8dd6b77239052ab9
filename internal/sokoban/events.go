package sokoban

import "github.com/gdamore/tcell/v2"

// KeyDown is a key press forwarded from the terminal.
type KeyDown struct {
	Key  tcell.Key
	Rune rune
}

// KeyDownFrom converts a tcell key event.
func KeyDownFrom(ev *tcell.EventKey) KeyDown {
	return KeyDown{Key: ev.Key(), Rune: ev.Rune()}
}

// Won is posted when the last crate settles on its target.
type Won struct {
	Level int
}
