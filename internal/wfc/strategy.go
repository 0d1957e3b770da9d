package wfc

import (
	"errors"
	"fmt"
	"math"
)

var ErrUnknownStrategy = errors.New("wfc: unknown placement strategy")

// Strategy decides which cell to collapse next and when to stop.
// All strategies share the same collapse and propagation mechanics and stop
// once the frontier is empty or maxIterations selections have been counted.
type Strategy interface {
	Name() string
	Run(s *Solver, maxIterations int)
}

// Strategy names as they appear in run configuration
const (
	StrategyRandom       = "random"
	StrategyGrowing      = "growing"
	StrategyOrdered      = "ordered"
	StrategyLeastEntropy = "least_entropy"
)

// StrategyNames returns every accepted strategy name
func StrategyNames() []string {
	return []string{StrategyRandom, StrategyGrowing, StrategyOrdered, StrategyLeastEntropy}
}

// ParseStrategy returns the strategy registered under name
func ParseStrategy(name string) (Strategy, error) {
	switch name {
	case StrategyRandom:
		return RandomStrategy{}, nil
	case StrategyGrowing:
		return GrowingStrategy{}, nil
	case StrategyOrdered:
		return OrderedStrategy{}, nil
	case StrategyLeastEntropy:
		return LeastEntropyStrategy{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
}

// RandomStrategy collapses the center cell, then picks frontier cells uniformly at random.
type RandomStrategy struct{}

func (RandomStrategy) Name() string { return StrategyRandom }

func (RandomStrategy) Run(s *Solver, maxIterations int) {
	s.collapseCenter()

	for s.budgetLeft(maxIterations) {
		chosen, _ := s.frontier.Nth(s.rng.Intn(s.frontier.Len()))
		s.frontier.Remove(chosen)
		s.collapseAndPropagate(chosen)
		s.iterations++
	}
}

// GrowingStrategy collapses cells in breadth-first order outward from the center.
// A cell can be queued more than once; popping one that is already resolved
// is skipped and not counted.
type GrowingStrategy struct{}

func (GrowingStrategy) Name() string { return StrategyGrowing }

func (GrowingStrategy) Run(s *Solver, maxIterations int) {
	queue := []int{s.Grid.Center()}

	for len(queue) > 0 && s.budgetLeft(maxIterations) {
		current := queue[0]
		queue = queue[1:]

		if s.Cells[current].Collapsed() {
			continue
		}

		s.frontier.Remove(current)
		s.collapseAndPropagate(current)

		for _, dir := range AllDirections() {
			n, ok := s.Grid.Neighbor(current, dir)
			if !ok {
				continue
			}
			if !s.Cells[n].Collapsed() {
				queue = append(queue, n)
			}
		}

		s.iterations++
	}
}

// OrderedStrategy sweeps the grid row by row in increasing index order.
type OrderedStrategy struct{}

func (OrderedStrategy) Name() string { return StrategyOrdered }

func (OrderedStrategy) Run(s *Solver, maxIterations int) {
	for i := 0; i < s.Grid.Len(); i++ {
		if !s.budgetLeft(maxIterations) {
			return
		}
		s.frontier.Remove(i)
		s.collapseAndPropagate(i)
		s.iterations++
	}
}

// LeastEntropyStrategy collapses the center cell, then always the frontier cell
// with the fewest candidates. Ties go to the lowest index.
type LeastEntropyStrategy struct{}

func (LeastEntropyStrategy) Name() string { return StrategyLeastEntropy }

func (LeastEntropyStrategy) Run(s *Solver, maxIterations int) {
	s.collapseCenter()

	for s.budgetLeft(maxIterations) {
		chosen := leastEntropy(s)
		s.frontier.Remove(chosen)
		s.collapseAndPropagate(chosen)
		s.iterations++
	}
}

// leastEntropy scans the frontier in ascending order for the smallest candidate count
func leastEntropy(s *Solver) int {
	least := math.MaxInt
	chosen := 0
	s.frontier.Each(func(i int) {
		if e := s.Cells[i].Entropy(); e < least {
			least = e
			chosen = i
		}
	})
	return chosen
}
