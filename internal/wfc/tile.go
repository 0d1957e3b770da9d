package wfc

import (
	"fmt"
	"math"
	"strings"
)

// MaxWeight is the largest weight a tile may carry. Summing any number of
// candidates below this bound stays within an int64.
const MaxWeight = math.MaxUint32

// TileID indexes a TileDefinition inside a Catalog.
type TileID int

// Model is an opaque handle to the geometry of a tile variant.
// The solver never inspects it; it is handed to the Sink on placement.
type Model struct {
	Path     string // Resolved model file
	Rotation int    // Quarter turns applied to the model (0-3)
}

// Edge is the label presented by one side of a tile.
// Suffix is optional and keeps a rotated variant from matching its own counterpart.
type Edge struct {
	Label  string
	Suffix string
}

// ParseEdge parses "label" or "label:suffix".
func ParseEdge(s string) Edge {
	label, suffix, _ := strings.Cut(s, ":")
	return Edge{Label: label, Suffix: suffix}
}

// String returns the edge in the same form ParseEdge accepts
func (e Edge) String() string {
	if e.Suffix == "" {
		return e.Label
	}
	return e.Label + ":" + e.Suffix
}

// Matches reports whether a tile edge e can sit against the required edge.
// Labels must be equal; when both sides carry a suffix the suffixes must differ.
func (e Edge) Matches(required Edge) bool {
	if e.Label != required.Label {
		return false
	}
	if e.Suffix != "" && required.Suffix != "" && e.Suffix == required.Suffix {
		return false
	}
	return true
}

// TileDefinition describes one placeable tile variant. Immutable once added to a Catalog.
type TileDefinition struct {
	Name     string
	Model    Model
	Weight   int
	Edges    [4]Edge // Indexed by Direction
	Rotation int
}

// Edge returns the edge facing the given direction
func (t *TileDefinition) Edge(dir Direction) Edge {
	return t.Edges[dir]
}

// Catalog is an append-only arena of tile definitions.
// Cells refer to entries by TileID so the catalog can be shared without copying.
type Catalog struct {
	tiles []TileDefinition
}

// NewCatalog creates an empty catalog
func NewCatalog() *Catalog {
	return &Catalog{}
}

// Add appends a tile definition and returns its ID
func (c *Catalog) Add(def TileDefinition) (TileID, error) {
	if def.Weight <= 0 || int64(def.Weight) > MaxWeight {
		return 0, fmt.Errorf("%w: tile %q has weight %d", ErrInvalidWeight, def.Name, def.Weight)
	}
	c.tiles = append(c.tiles, def)
	return TileID(len(c.tiles) - 1), nil
}

// MustAdd is Add for statically known definitions; it panics on an invalid weight.
func (c *Catalog) MustAdd(def TileDefinition) TileID {
	id, err := c.Add(def)
	if err != nil {
		panic(err)
	}
	return id
}

// Get returns the definition for an ID
func (c *Catalog) Get(id TileID) *TileDefinition {
	return &c.tiles[id]
}

// Len returns the number of definitions
func (c *Catalog) Len() int {
	return len(c.tiles)
}

// IDs returns every ID in the catalog in insertion order
func (c *Catalog) IDs() []TileID {
	ids := make([]TileID, len(c.tiles))
	for i := range ids {
		ids[i] = TileID(i)
	}
	return ids
}
