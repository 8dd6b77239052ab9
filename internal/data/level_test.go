package data

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const twoLevels = `
levels:
  - name: corridor
    rows:
      - "#####"
      - "#P*O#"
      - "#####"
  - name: corner
    rows:
      - "######"
      - "#P...#"
      - "#.*O.#"
      - "######"
`

func TestParseLevelTable(t *testing.T) {
	tbl, err := ParseLevelTable([]byte(twoLevels))
	if err != nil {
		t.Fatal(err)
	}
	if tbl.Count() != 2 {
		t.Fatalf("Count = %d", tbl.Count())
	}
	l := tbl.Get(0)
	if l.Name != "corridor" || l.Width() != 5 || l.Height() != 3 {
		t.Fatalf("level 0 = %s %dx%d", l.Name, l.Width(), l.Height())
	}
	if l.At(1, 1) != TilePlayer || l.At(2, 1) != TileCrate || l.At(3, 1) != TileTarget || l.At(0, 0) != TileWall {
		t.Fatal("tiles misread")
	}
	if tbl.Get(2) != nil || tbl.Get(-1) != nil {
		t.Fatal("out of range Get must be nil")
	}
	if tbl.Next(0) != 1 || tbl.Next(1) != 0 {
		t.Fatal("Next must wrap")
	}
}

func TestLevelValidate(t *testing.T) {
	tests := []struct {
		name string
		rows []string
		want string
	}{
		{"empty", nil, "empty grid"},
		{"ragged", []string{"#P*O#", "##"}, "width"},
		{"unknown token", []string{"#P*Ox"}, "unknown token"},
		{"two players", []string{"PP*O"}, "2 players"},
		{"no target", []string{"P*.."}, "no targets"},
		{"too few crates", []string{"P*OO"}, "1 crates for 2 targets"},
		{"ok", []string{"P*O"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := Level{Name: tt.name, Rows: tt.rows}
			err := l.Validate()
			if tt.want == "" {
				if err != nil {
					t.Fatal(err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestLoadLevelTableErrors(t *testing.T) {
	if _, err := LoadLevelTable(filepath.Join(t.TempDir(), "none.yaml")); err == nil {
		t.Fatal("missing file accepted")
	}
	if _, err := ParseLevelTable([]byte("levels: []\n")); err == nil {
		t.Fatal("empty table accepted")
	}
	if _, err := ParseLevelTable([]byte("levels: [\n")); err == nil {
		t.Fatal("bad yaml accepted")
	}
}

func TestShippedLevels(t *testing.T) {
	path := filepath.Join("..", "..", "data", "yaml", "levels.yaml")
	if _, err := os.Stat(path); err != nil {
		t.Skip("levels.yaml not present")
	}
	tbl, err := LoadLevelTable(path)
	if err != nil {
		t.Fatal(err)
	}
	if tbl.Count() < 1 {
		t.Fatal("no shipped levels")
	}
}
