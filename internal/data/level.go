package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Tile is the content of one level cell.
type Tile byte

const (
	TileGround Tile = '.'
	TileWall   Tile = '#'
	TileCrate  Tile = '*'
	TilePlayer Tile = 'P'
	TileTarget Tile = 'O'
)

func (t Tile) valid() bool {
	switch t {
	case TileGround, TileWall, TileCrate, TilePlayer, TileTarget:
		return true
	}
	return false
}

// Level is one puzzle. Rows are read top to bottom; every row has the same
// width.
type Level struct {
	Name string   `yaml:"name"`
	Rows []string `yaml:"rows"`
}

func (l *Level) Width() int  { return len(l.Rows[0]) }
func (l *Level) Height() int { return len(l.Rows) }

// At returns the tile at column x, row y.
func (l *Level) At(x, y int) Tile {
	return Tile(l.Rows[y][x])
}

// Validate checks the grid shape and its pieces: one player, at least one
// target and no fewer crates than targets.
func (l *Level) Validate() error {
	if len(l.Rows) == 0 || len(l.Rows[0]) == 0 {
		return fmt.Errorf("level %q: empty grid", l.Name)
	}
	var players, crates, targets int
	w := len(l.Rows[0])
	for y, row := range l.Rows {
		if len(row) != w {
			return fmt.Errorf("level %q: row %d has width %d, want %d", l.Name, y, len(row), w)
		}
		for x := 0; x < w; x++ {
			switch t := Tile(row[x]); t {
			case TilePlayer:
				players++
			case TileCrate:
				crates++
			case TileTarget:
				targets++
			default:
				if !t.valid() {
					return fmt.Errorf("level %q: unknown token %q at %d,%d", l.Name, row[x], x, y)
				}
			}
		}
	}
	switch {
	case players != 1:
		return fmt.Errorf("level %q: %d players, want 1", l.Name, players)
	case targets == 0:
		return fmt.Errorf("level %q: no targets", l.Name)
	case crates < targets:
		return fmt.Errorf("level %q: %d crates for %d targets", l.Name, crates, targets)
	}
	return nil
}

type levelFile struct {
	Levels []Level `yaml:"levels"`
}

// LevelTable holds the puzzles in play order.
type LevelTable struct {
	levels []Level
}

// LoadLevelTable loads levels.yaml.
func LoadLevelTable(path string) (*LevelTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read level list: %w", err)
	}
	return ParseLevelTable(raw)
}

func ParseLevelTable(raw []byte) (*LevelTable, error) {
	var f levelFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse level list: %w", err)
	}
	if len(f.Levels) == 0 {
		return nil, fmt.Errorf("parse level list: no levels")
	}
	for i := range f.Levels {
		if err := f.Levels[i].Validate(); err != nil {
			return nil, fmt.Errorf("level %d: %w", i, err)
		}
	}
	return &LevelTable{levels: f.Levels}, nil
}

// Get returns level i, or nil if out of range.
func (t *LevelTable) Get(i int) *Level {
	if i < 0 || i >= len(t.levels) {
		return nil
	}
	return &t.levels[i]
}

// Next returns the index after i, wrapping to the first level.
func (t *LevelTable) Next(i int) int {
	return (i + 1) % len(t.levels)
}

// Count returns the total number of levels loaded.
func (t *LevelTable) Count() int {
	return len(t.levels)
}
