package wfc

import "github.com/lawnchairsociety/tilegen/internal/logger"

// collapseAndPropagate collapses the cell at index and narrows each in-bounds
// neighbor to tiles whose facing edge matches the placed tile.
//
// Propagation is a single hop. Tighter constraints further out only appear when
// those neighbors collapse in turn. A neighbor left without candidates is dropped
// from the frontier and never revisited.
func (s *Solver) collapseAndPropagate(index int) bool {
	cell := s.Cells[index]
	if !cell.Collapse(s.Catalog, s.rng, s.sink) {
		return false
	}
	s.frontier.Remove(index)
	s.placed++

	placed, _ := cell.Resolved()
	if s.OnCollapse != nil {
		s.OnCollapse(index, placed)
	}
	tile := s.Catalog.Get(placed)

	for _, dir := range AllDirections() {
		n, ok := s.Grid.Neighbor(index, dir)
		if !ok {
			continue
		}
		neighbor := s.Cells[n]
		if neighbor.Collapsed() {
			continue
		}

		hadOptions := neighbor.Entropy() > 0
		if neighbor.RemoveOptions(s.Catalog, dir.Opposite(), tile.Edge(dir)) {
			s.frontier.Remove(n)
			if hadOptions {
				s.contradictions++
				logger.Debug("Cell contradiction",
					"x", neighbor.X,
					"y", neighbor.Y,
					"from_x", cell.X,
					"from_y", cell.Y,
					"edge", tile.Edge(dir).String())
			}
		}
	}

	return true
}
