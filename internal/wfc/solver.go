package wfc

import (
	"errors"
	"math/rand"
	"time"

	"github.com/lawnchairsociety/tilegen/internal/logger"
)

var (
	ErrEmptyCatalog  = errors.New("wfc: tile catalog is empty")
	ErrInvalidSize   = errors.New("wfc: invalid grid size")
	ErrInvalidWeight = errors.New("wfc: tile weight must be between 1 and 4294967295")
)

// Stats summarizes one placement run
type Stats struct {
	Iterations     int // Selections counted against the budget
	Placed         int // Cells resolved to a tile
	Contradictions int // Cells whose candidates ran out before they resolved
	Unresolved     int // Cells left without a tile (contradictions included)
}

// Solver implements Wave Function Collapse over a square grid of cells.
// A Solver is used for exactly one run and is not safe for concurrent use.
type Solver struct {
	Grid    Grid
	Catalog *Catalog
	Cells   []*Cell

	// OnCollapse, if set, is called after each successful collapse with the
	// cell index and the tile placed there.
	OnCollapse func(index int, id TileID)

	seed     uint64
	rng      *rand.Rand
	sink     Sink
	frontier *Frontier

	iterations     int
	placed         int
	contradictions int
}

// NewSolver creates a solver whose cells all start with the full catalog.
// A seed of 0 selects a time-based seed; Seed reports the one actually used.
// A nil sink discards placements.
func NewSolver(catalog *Catalog, size int, seed uint64, sink Sink) (*Solver, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}
	if catalog == nil || catalog.Len() == 0 {
		return nil, ErrEmptyCatalog
	}
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	if sink == nil {
		sink = discardSink{}
	}

	s := &Solver{
		Grid:    NewGrid(size),
		Catalog: catalog,
		seed:    seed,
		rng:     rand.New(rand.NewSource(int64(seed))),
		sink:    sink,
	}
	s.initializeGrid()
	return s, nil
}

// initializeGrid builds one cell per position and puts every index in the frontier
func (s *Solver) initializeGrid() {
	all := s.Catalog.IDs()
	s.Cells = make([]*Cell, s.Grid.Len())
	for i := range s.Cells {
		x, y := s.Grid.Coords(i)
		s.Cells[i] = NewCell(x, y, all)
	}
	s.frontier = NewFrontier(s.Grid.Len())
}

// Seed returns the seed driving this run
func (s *Solver) Seed() uint64 {
	return s.seed
}

// Frontier returns the set of cells still eligible for collapse
func (s *Solver) Frontier() *Frontier {
	return s.frontier
}

// Cell returns the cell at (x, y)
func (s *Solver) Cell(x, y int) *Cell {
	return s.Cells[s.Grid.Index(x, y)]
}

// Solve runs the strategy until the frontier is empty or maxIterations
// selections have been made. Placement never fails; contradictory cells are
// simply left unresolved.
func (s *Solver) Solve(strategy Strategy, maxIterations int) Stats {
	strategy.Run(s, maxIterations)

	stats := s.Stats()
	logger.Info("Tile placement finished",
		"strategy", strategy.Name(),
		"size", s.Grid.Width,
		"seed", s.seed,
		"iterations", stats.Iterations,
		"placed", stats.Placed,
		"contradictions", stats.Contradictions,
		"unresolved", stats.Unresolved)
	return stats
}

// Stats returns the counters accumulated so far
func (s *Solver) Stats() Stats {
	return Stats{
		Iterations:     s.iterations,
		Placed:         s.placed,
		Contradictions: s.contradictions,
		Unresolved:     s.Grid.Len() - s.placed,
	}
}

// Contradictions returns the indices of cells that can no longer collapse
func (s *Solver) Contradictions() []int {
	var out []int
	for i, c := range s.Cells {
		if c.Contradicted() {
			out = append(out, i)
		}
	}
	return out
}

// budgetLeft reports whether another counted selection is allowed
func (s *Solver) budgetLeft(maxIterations int) bool {
	return s.iterations < maxIterations && !s.frontier.Empty()
}

// collapseCenter collapses the middle cell without counting it against the budget
func (s *Solver) collapseCenter() {
	center := s.Grid.Center()
	s.collapseAndPropagate(center)
	s.frontier.Remove(center)
}
