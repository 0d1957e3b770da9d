package wfc

import "math/rand"

// Cell represents a single grid position during solving
type Cell struct {
	X, Y int

	resolved   TileID
	collapsed  bool
	candidates []TileID // Tiles this cell could still become
}

// NewCell creates an unresolved cell whose candidates are the given tiles.
// The slice is copied so cells never share backing storage.
func NewCell(x, y int, candidates []TileID) *Cell {
	c := &Cell{X: x, Y: y}
	c.candidates = append(make([]TileID, 0, len(candidates)), candidates...)
	return c
}

// Entropy returns the number of remaining candidates
func (c *Cell) Entropy() int {
	return len(c.candidates)
}

// Candidates returns a copy of the remaining candidates
func (c *Cell) Candidates() []TileID {
	return append([]TileID(nil), c.candidates...)
}

// Resolved returns the placed tile, if any
func (c *Cell) Resolved() (TileID, bool) {
	return c.resolved, c.collapsed
}

// Collapsed reports whether a tile has been placed in this cell
func (c *Cell) Collapsed() bool {
	return c.collapsed
}

// Contradicted reports whether the cell can never be collapsed
func (c *Cell) Contradicted() bool {
	return !c.collapsed && len(c.candidates) == 0
}

// Collapse picks one candidate by weighted random draw and places it.
// Returns false without consuming randomness when the cell is already
// resolved or has no candidates left.
func (c *Cell) Collapse(catalog *Catalog, rng *rand.Rand, sink Sink) bool {
	if c.collapsed || len(c.candidates) == 0 {
		return false
	}

	chosen := c.candidates[weightedPick(catalog, c.candidates, rng)]

	c.resolved = chosen
	c.collapsed = true
	c.candidates = nil

	sink.Place(catalog.Get(chosen).Model, worldPosition(c.X, c.Y))
	return true
}

// RemoveOptions keeps only candidates whose edge facing dir matches required.
// Returns true when no candidates remain.
func (c *Cell) RemoveOptions(catalog *Catalog, dir Direction, required Edge) bool {
	kept := c.candidates[:0]
	for _, id := range c.candidates {
		if catalog.Get(id).Edge(dir).Matches(required) {
			kept = append(kept, id)
		}
	}
	c.candidates = kept
	return len(c.candidates) == 0
}

// weightedPick returns a position in ids chosen with probability weight/total.
// Catalog.Add bounds every weight by MaxWeight, so the int64 total cannot overflow.
func weightedPick(catalog *Catalog, ids []TileID, rng *rand.Rand) int {
	var total int64
	for _, id := range ids {
		total += int64(catalog.Get(id).Weight)
	}

	r := rng.Int63n(total)
	for i, id := range ids {
		w := int64(catalog.Get(id).Weight)
		if r < w {
			return i
		}
		r -= w
	}
	return len(ids) - 1
}
