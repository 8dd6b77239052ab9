// Package sokoban is a small crate-pushing game built on the ecs core. It
// runs in a terminal through tcell.
package sokoban

import (
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/kestrelgo/kestrel/internal/core/ecs"
	"github.com/kestrelgo/kestrel/internal/data"
)

// Kind is what a room cell holds.
type Kind uint8

const (
	KindGround Kind = iota
	KindWall
	KindCrate
	KindPlayer
	KindTarget
)

var kindNames = [...]string{"ground", "wall", "crate", "player", "target"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

func kindOf(t data.Tile) Kind {
	switch t {
	case data.TileWall:
		return KindWall
	case data.TileCrate:
		return KindCrate
	case data.TilePlayer:
		return KindPlayer
	case data.TileTarget:
		return KindTarget
	}
	return KindGround
}

// Point is a room cell.
type Point struct{ X, Y int }

func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Vec() Vec2         { return Vec2{float64(p.X), float64(p.Y)} }

var (
	Up    = Point{0, -1}
	Down  = Point{0, 1}
	Left  = Point{-1, 0}
	Right = Point{1, 0}
)

// Vec2 is a position in cell units. It is fractional only while animating.
type Vec2 struct{ X, Y float64 }

func (v Vec2) Lerp(to Vec2, t float64) Vec2 {
	return Vec2{v.X + (to.X-v.X)*t, v.Y + (to.Y-v.Y)*t}
}

// Cell rounds v to the nearest room cell.
func (v Vec2) Cell() Point {
	return Point{int(v.X + 0.5), int(v.Y + 0.5)}
}

type Transform struct {
	Position Vec2
}

// Tag classifies a room entity. Layer 0 is the floor, layer 1 holds the
// movable pieces.
type Tag struct {
	Kind  Kind
	Layer int
}

type Player struct{}

type Target struct{}

// AnimationTime is how long one step of a piece takes on screen.
const AnimationTime = 120 * time.Millisecond

// Animation slides a piece from From to To.
type Animation struct {
	From, To Vec2
	Elapsed  time.Duration
}

// Move asks Collision to step an entity one cell in Dir.
type Move struct {
	Dir Point
}

// Sprite is the two terminal columns drawn for a cell. Mirror, when set,
// replaces Cells while Flip is true.
type Sprite struct {
	Cells  [2]rune
	Mirror [2]rune
	Style  tcell.Style
	Layer  int
	Flip   bool
}

func (s *Sprite) glyphs() [2]rune {
	if s.Flip && s.Mirror != ([2]rune{}) {
		return s.Mirror
	}
	return s.Cells
}

// Camera places the room on screen. Renderer recenters it every frame.
type Camera struct {
	Background tcell.Color
	X, Y       int
}

// Anchor picks the screen row of a Text block.
type Anchor uint8

const (
	AnchorCenter Anchor = iota
	AnchorTop
	AnchorBottom
)

// Text is a block of lines centered horizontally by the HUD.
type Text struct {
	Lines  []string
	Style  tcell.Style
	Anchor Anchor
}

const roomLayers = 2

// Room indexes the entities of a level by cell and layer.
type Room struct {
	Width, Height int
	Level         int
	Name          string
	Moves         int
	Win           bool
	cells         []ecs.Entity
}

func NewRoom(width, height int) Room {
	return Room{
		Width:  width,
		Height: height,
		cells:  make([]ecs.Entity, width*height*roomLayers),
	}
}

func (r *Room) In(p Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < r.Width && p.Y < r.Height
}

// At returns the entity on layer at p, or NullEntity outside the room.
func (r *Room) At(p Point, layer int) ecs.Entity {
	if !r.In(p) {
		return ecs.NullEntity
	}
	return r.cells[layer+roomLayers*(p.X+p.Y*r.Width)]
}

// Top returns the piece at p, or the floor when no piece is there.
func (r *Room) Top(p Point) ecs.Entity {
	if e := r.At(p, 1); e != ecs.NullEntity {
		return e
	}
	return r.At(p, 0)
}

func (r *Room) Set(p Point, layer int, e ecs.Entity) {
	r.cells[layer+roomLayers*(p.X+p.Y*r.Width)] = e
}
