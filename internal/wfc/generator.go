package wfc

import "fmt"

// GenerateConfig contains parameters for one placement run
type GenerateConfig struct {
	Size          int    // Grid is Size x Size cells
	MaxIterations int    // Selection budget
	Seed          uint64 // 0 selects a time-based seed
	Strategy      string // One of StrategyNames()
}

// Placement records one collapse in the order it happened
type Placement struct {
	Index int
	X, Y  int
	Tile  TileID
}

// GeneratedLayout is the output of a placement run
type GeneratedLayout struct {
	Size           int
	Seed           uint64 // Seed actually used (never 0)
	Strategy       string
	Placements     []Placement
	Contradictions []int // Cell indices left without candidates
	Stats          Stats
}

// TileAt returns the tile placed at (x, y), if any
func (l *GeneratedLayout) TileAt(x, y int) (TileID, bool) {
	idx := y*l.Size + x
	for _, p := range l.Placements {
		if p.Index == idx {
			return p.Tile, true
		}
	}
	return 0, false
}

// Generator runs the solver against a catalog and records what it placed
type Generator struct {
	config  GenerateConfig
	catalog *Catalog
	sink    Sink
}

// NewGenerator creates a generator. The sink may be nil.
func NewGenerator(catalog *Catalog, config GenerateConfig, sink Sink) *Generator {
	return &Generator{
		config:  config,
		catalog: catalog,
		sink:    sink,
	}
}

// Generate validates the configuration, then runs one placement.
// Errors only come from setup; the placement itself cannot fail.
func (g *Generator) Generate() (*GeneratedLayout, error) {
	strategy, err := ParseStrategy(g.config.Strategy)
	if err != nil {
		return nil, err
	}
	if g.config.MaxIterations < 0 {
		return nil, fmt.Errorf("wfc: negative iteration budget %d", g.config.MaxIterations)
	}

	solver, err := NewSolver(g.catalog, g.config.Size, g.config.Seed, g.sink)
	if err != nil {
		return nil, err
	}

	layout := &GeneratedLayout{
		Size:     g.config.Size,
		Seed:     solver.Seed(),
		Strategy: strategy.Name(),
	}
	solver.OnCollapse = func(index int, id TileID) {
		x, y := solver.Grid.Coords(index)
		layout.Placements = append(layout.Placements, Placement{Index: index, X: x, Y: y, Tile: id})
	}

	layout.Stats = solver.Solve(strategy, g.config.MaxIterations)
	layout.Contradictions = solver.Contradictions()

	return layout, nil
}
