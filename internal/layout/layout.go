// Package layout holds finished placement runs in a storable form.
package layout

import (
	"encoding/binary"
	"encoding/hex"
	"time"

	"golang.org/x/crypto/blake2b"

	"github.com/lawnchairsociety/tilegen/internal/wfc"
)

// Layout is a finished run: settings, the catalog it drew from, and every
// placement in collapse order.
type Layout struct {
	Seed           uint64      `yaml:"seed" json:"seed"`
	Size           int         `yaml:"size" json:"size"`
	Strategy       string      `yaml:"strategy" json:"strategy"`
	TileSet        string      `yaml:"tile_set,omitempty" json:"tile_set,omitempty"`
	GeneratedAt    time.Time   `yaml:"generated_at" json:"generated_at"`
	Stats          Stats       `yaml:"stats" json:"stats"`
	Tiles          []Tile      `yaml:"tiles" json:"tiles"`
	Placements     []Placement `yaml:"placements" json:"placements"`
	Contradictions []Position  `yaml:"contradictions,omitempty" json:"contradictions,omitempty"`
}

// Stats mirrors wfc.Stats for serialization
type Stats struct {
	Iterations     int `yaml:"iterations" json:"iterations"`
	Placed         int `yaml:"placed" json:"placed"`
	Contradictions int `yaml:"contradictions" json:"contradictions"`
	Unresolved     int `yaml:"unresolved" json:"unresolved"`
}

// Tile is one catalog entry referenced by placements
type Tile struct {
	Name     string    `yaml:"name" json:"name"`
	Model    string    `yaml:"model" json:"model"`
	Rotation int       `yaml:"rotation" json:"rotation"`
	Weight   int       `yaml:"weight" json:"weight"`
	Edges    [4]string `yaml:"edges,flow" json:"edges"`
}

// Placement puts Tiles[Tile] at (X, Y)
type Placement struct {
	X    int `yaml:"x" json:"x"`
	Y    int `yaml:"y" json:"y"`
	Tile int `yaml:"tile" json:"tile"`
}

// Position is a grid coordinate
type Position struct {
	X int `yaml:"x" json:"x"`
	Y int `yaml:"y" json:"y"`
}

// FromGenerated converts a solver result. The catalog must be the one the run used.
func FromGenerated(gen *wfc.GeneratedLayout, catalog *wfc.Catalog, tileSet string) *Layout {
	l := &Layout{
		Seed:        gen.Seed,
		Size:        gen.Size,
		Strategy:    gen.Strategy,
		TileSet:     tileSet,
		GeneratedAt: time.Now().UTC().Truncate(time.Second),
		Stats: Stats{
			Iterations:     gen.Stats.Iterations,
			Placed:         gen.Stats.Placed,
			Contradictions: gen.Stats.Contradictions,
			Unresolved:     gen.Stats.Unresolved,
		},
	}

	for _, id := range catalog.IDs() {
		def := catalog.Get(id)
		t := Tile{
			Name:     def.Name,
			Model:    def.Model.Path,
			Rotation: def.Rotation,
			Weight:   def.Weight,
		}
		for i, e := range def.Edges {
			t.Edges[i] = e.String()
		}
		l.Tiles = append(l.Tiles, t)
	}

	l.Placements = make([]Placement, 0, len(gen.Placements))
	for _, p := range gen.Placements {
		l.Placements = append(l.Placements, Placement{X: p.X, Y: p.Y, Tile: int(p.Tile)})
	}
	for _, idx := range gen.Contradictions {
		l.Contradictions = append(l.Contradictions, Position{X: idx % gen.Size, Y: idx / gen.Size})
	}

	return l
}

// Grid returns the tile index at every cell, -1 where nothing was placed.
func (l *Layout) Grid() [][]int {
	grid := make([][]int, l.Size)
	for y := range grid {
		grid[y] = make([]int, l.Size)
		for x := range grid[y] {
			grid[y][x] = -1
		}
	}
	for _, p := range l.Placements {
		if p.X >= 0 && p.X < l.Size && p.Y >= 0 && p.Y < l.Size {
			grid[p.Y][p.X] = p.Tile
		}
	}
	return grid
}

// Digest returns a hex BLAKE2b-256 over the size, seed, strategy, the tile
// definitions and the placement sequence. Two runs that placed the same tiles
// in the same order share a digest; the timestamp and tile set path are not
// included.
func (l *Layout) Digest() string {
	h, _ := blake2b.New256(nil) // Only fails for oversized keys

	var buf [8]byte
	writeInt := func(v uint64) {
		binary.BigEndian.PutUint64(buf[:], v)
		h.Write(buf[:])
	}
	writeString := func(s string) {
		writeInt(uint64(len(s)))
		h.Write([]byte(s))
	}

	writeInt(uint64(l.Size))
	writeInt(l.Seed)
	writeString(l.Strategy)
	writeInt(uint64(len(l.Tiles)))
	for _, t := range l.Tiles {
		writeString(t.Name)
		writeString(t.Model)
		writeInt(uint64(t.Rotation))
		writeInt(uint64(t.Weight))
		for _, e := range t.Edges {
			writeString(e)
		}
	}
	writeInt(uint64(len(l.Placements)))
	for _, p := range l.Placements {
		writeInt(uint64(p.Y*l.Size + p.X))
		name := ""
		if p.Tile >= 0 && p.Tile < len(l.Tiles) {
			name = l.Tiles[p.Tile].Name
		}
		writeString(name)
	}

	return hex.EncodeToString(h.Sum(nil))
}
