package wfc

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseStrategy(t *testing.T) {
	for _, name := range StrategyNames() {
		s, err := ParseStrategy(name)
		if err != nil {
			t.Errorf("ParseStrategy(%q) failed: %v", name, err)
			continue
		}
		if s.Name() != name {
			t.Errorf("ParseStrategy(%q).Name() = %q", name, s.Name())
		}
	}

	if _, err := ParseStrategy("spiral"); !errors.Is(err, ErrUnknownStrategy) {
		t.Errorf("ParseStrategy(spiral) error = %v, want ErrUnknownStrategy", err)
	}
}

func TestOrderedScenarioSingleTile(t *testing.T) {
	sink := &recordingSink{}
	gen := NewGenerator(grassCatalog(), GenerateConfig{Size: 3, MaxIterations: 100, Seed: 1, Strategy: StrategyOrdered}, sink)

	layout, err := gen.Generate()
	if err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}

	if len(layout.Placements) != 9 {
		t.Fatalf("placed %d cells, want 9", len(layout.Placements))
	}
	if len(sink.placed) != 9 {
		t.Fatalf("sink received %d placements, want 9", len(sink.placed))
	}
	for i, p := range layout.Placements {
		if p.Index != i {
			t.Errorf("placement %d is cell %d, want row-major order", i, p.Index)
		}
		if p.Tile != 0 {
			t.Errorf("cell %d tile = %d, want grass", p.Index, p.Tile)
		}
		want := Vec3{X: float64(i % 3), Y: float64(i / 3)}
		if sink.placed[i].at != want {
			t.Errorf("cell %d placed at %+v, want %+v", i, sink.placed[i].at, want)
		}
	}
	if layout.Stats.Unresolved != 0 || len(layout.Contradictions) != 0 {
		t.Errorf("stats = %+v, contradictions = %v, want a full grid", layout.Stats, layout.Contradictions)
	}
}

func TestOrderedCoverage(t *testing.T) {
	const size = 5
	gen := NewGenerator(terrainCatalogAllCompatible(), GenerateConfig{Size: size, MaxIterations: size * size, Seed: 3, Strategy: StrategyOrdered}, nil)

	layout, err := gen.Generate()
	if err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}
	if len(layout.Placements) != size*size {
		t.Fatalf("placed %d cells, want %d", len(layout.Placements), size*size)
	}
	for i := 1; i < len(layout.Placements); i++ {
		if layout.Placements[i].Index != layout.Placements[i-1].Index+1 {
			t.Fatalf("cell %d resolved after cell %d", layout.Placements[i].Index, layout.Placements[i-1].Index)
		}
	}
}

func TestOrderedStopsAtBudget(t *testing.T) {
	gen := NewGenerator(grassCatalog(), GenerateConfig{Size: 20, MaxIterations: 100, Seed: 3, Strategy: StrategyOrdered}, nil)

	layout, err := gen.Generate()
	if err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}
	if layout.Stats.Iterations != 100 {
		t.Errorf("Iterations = %d, want 100", layout.Stats.Iterations)
	}
	if len(layout.Placements) != 100 {
		t.Errorf("placed %d cells, want 100", len(layout.Placements))
	}
	if layout.Stats.Unresolved != 300 {
		t.Errorf("Unresolved = %d, want 300", layout.Stats.Unresolved)
	}
}

func TestRandomStrategyStartsAtCenter(t *testing.T) {
	gen := NewGenerator(grassCatalog(), GenerateConfig{Size: 5, MaxIterations: 100, Seed: 11, Strategy: StrategyRandom}, nil)

	layout, err := gen.Generate()
	if err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}
	if layout.Placements[0].Index != 12 {
		t.Errorf("first placement at cell %d, want center 12", layout.Placements[0].Index)
	}
	if len(layout.Placements) != 25 {
		t.Errorf("placed %d cells, want 25", len(layout.Placements))
	}
	// Center collapse is free; the other 24 cells each cost one selection
	if layout.Stats.Iterations != 24 {
		t.Errorf("Iterations = %d, want 24", layout.Stats.Iterations)
	}
}

func TestRandomStrategyBudget(t *testing.T) {
	gen := NewGenerator(grassCatalog(), GenerateConfig{Size: 20, MaxIterations: 100, Seed: 11, Strategy: StrategyRandom}, nil)

	layout, err := gen.Generate()
	if err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}
	if layout.Stats.Iterations != 100 {
		t.Errorf("Iterations = %d, want 100", layout.Stats.Iterations)
	}
	if len(layout.Placements) != 101 {
		t.Errorf("placed %d cells, want 101", len(layout.Placements))
	}
}

func TestGrowingStrategyBreadthFirst(t *testing.T) {
	gen := NewGenerator(grassCatalog(), GenerateConfig{Size: 5, MaxIterations: 100, Seed: 2, Strategy: StrategyGrowing}, nil)

	layout, err := gen.Generate()
	if err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}

	want := []int{12, 7, 13, 17, 11}
	for i, idx := range want {
		if layout.Placements[i].Index != idx {
			t.Errorf("placement %d at cell %d, want %d", i, layout.Placements[i].Index, idx)
		}
	}
	if len(layout.Placements) != 25 {
		t.Errorf("placed %d cells, want 25", len(layout.Placements))
	}
	// Re-queued cells that were already resolved cost nothing
	if layout.Stats.Iterations != 25 {
		t.Errorf("Iterations = %d, want 25", layout.Stats.Iterations)
	}

	// Distance from center never decreases along the placement order
	dist := func(p Placement) int { return abs(p.X-2) + abs(p.Y-2) }
	for i := 1; i < len(layout.Placements); i++ {
		if dist(layout.Placements[i]) < dist(layout.Placements[i-1]) {
			t.Fatalf("placement %d moved back toward the center", i)
		}
	}
}

func TestGrowingContradictionScenario(t *testing.T) {
	gen := NewGenerator(isolatedCatalog(), GenerateConfig{Size: 3, MaxIterations: 100, Seed: 4, Strategy: StrategyGrowing}, nil)

	layout, err := gen.Generate()
	if err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}

	if layout.Placements[0].Index != 4 {
		t.Errorf("first placement at cell %d, want center", layout.Placements[0].Index)
	}
	wantContradictions := []int{1, 3, 5, 7}
	if !reflect.DeepEqual(layout.Contradictions, wantContradictions) {
		t.Errorf("Contradictions = %v, want %v", layout.Contradictions, wantContradictions)
	}
	for _, p := range layout.Placements {
		for _, c := range wantContradictions {
			if p.Index == c {
				t.Errorf("contradicted cell %d was collapsed", c)
			}
		}
	}
	if layout.Stats.Contradictions != 4 {
		t.Errorf("Stats.Contradictions = %d, want 4", layout.Stats.Contradictions)
	}
	if layout.Stats.Placed != 5 {
		t.Errorf("Stats.Placed = %d, want center plus four corners", layout.Stats.Placed)
	}
}

func TestLeastEntropyPicksMostConstrained(t *testing.T) {
	c := NewCatalog()
	c.MustAdd(TileDefinition{Name: "grass", Weight: 1, Edges: uniformEdges("grass")})
	c.MustAdd(TileDefinition{Name: "sand", Weight: 1, Edges: uniformEdges("sand")})

	gen := NewGenerator(c, GenerateConfig{Size: 3, MaxIterations: 100, Seed: 8, Strategy: StrategyLeastEntropy}, nil)
	layout, err := gen.Generate()
	if err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}

	if len(layout.Placements) != 9 {
		t.Fatalf("placed %d cells, want 9", len(layout.Placements))
	}
	// After the center, its neighbors hold one candidate; the lowest index wins the tie.
	if layout.Placements[0].Index != 4 || layout.Placements[1].Index != 1 || layout.Placements[2].Index != 0 {
		t.Errorf("order starts %d, %d, %d, want 4, 1, 0",
			layout.Placements[0].Index, layout.Placements[1].Index, layout.Placements[2].Index)
	}
	first := layout.Placements[0].Tile
	for _, p := range layout.Placements {
		if p.Tile != first {
			t.Errorf("cell %d got tile %d, want %d everywhere", p.Index, p.Tile, first)
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	for _, name := range StrategyNames() {
		t.Run(name, func(t *testing.T) {
			cfg := GenerateConfig{Size: 8, MaxIterations: 500, Seed: 1234, Strategy: name}

			a, err := NewGenerator(terrainCatalog(), cfg, nil).Generate()
			if err != nil {
				t.Fatalf("first Generate() failed: %v", err)
			}
			b, err := NewGenerator(terrainCatalog(), cfg, nil).Generate()
			if err != nil {
				t.Fatalf("second Generate() failed: %v", err)
			}

			if !reflect.DeepEqual(a.Placements, b.Placements) {
				t.Error("identical runs produced different placements")
			}
			if !reflect.DeepEqual(a.Stats, b.Stats) {
				t.Errorf("stats differ: %+v vs %+v", a.Stats, b.Stats)
			}
		})
	}
}

func TestGeneratedLayoutsRespectEdges(t *testing.T) {
	catalog := terrainCatalog()
	for _, name := range StrategyNames() {
		layout, err := NewGenerator(catalog, GenerateConfig{Size: 8, MaxIterations: 1000, Seed: 99, Strategy: name}, nil).Generate()
		if err != nil {
			t.Fatalf("%s: Generate() failed: %v", name, err)
		}

		// A tile placed after its neighbor was narrowed by that neighbor's edge.
		order := map[int]int{}
		tiles := map[int]TileID{}
		for i, p := range layout.Placements {
			order[p.Index] = i
			tiles[p.Index] = p.Tile
		}
		g := NewGrid(layout.Size)
		for idx, id := range tiles {
			for _, dir := range AllDirections() {
				n, ok := g.Neighbor(idx, dir)
				if !ok {
					continue
				}
				nid, placed := tiles[n]
				if !placed || order[n] < order[idx] {
					continue
				}
				if !catalog.Get(nid).Edge(dir.Opposite()).Matches(catalog.Get(id).Edge(dir)) {
					t.Errorf("%s: cell %d (%s) next to cell %d (%s) breaks the %s edge",
						name, idx, catalog.Get(id).Name, n, catalog.Get(nid).Name, dir)
				}
			}
		}
	}
}

func TestGenerateRejectsBadConfig(t *testing.T) {
	if _, err := NewGenerator(grassCatalog(), GenerateConfig{Size: 3, MaxIterations: 10, Strategy: "spiral"}, nil).Generate(); !errors.Is(err, ErrUnknownStrategy) {
		t.Errorf("unknown strategy error = %v", err)
	}
	if _, err := NewGenerator(grassCatalog(), GenerateConfig{Size: 0, MaxIterations: 10, Strategy: StrategyOrdered}, nil).Generate(); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("size 0 error = %v", err)
	}
	if _, err := NewGenerator(grassCatalog(), GenerateConfig{Size: 3, MaxIterations: -1, Strategy: StrategyOrdered}, nil).Generate(); err == nil {
		t.Error("negative budget should be rejected")
	}
}

func TestGeneratedLayoutTileAt(t *testing.T) {
	layout, err := NewGenerator(grassCatalog(), GenerateConfig{Size: 2, MaxIterations: 100, Seed: 1, Strategy: StrategyOrdered}, nil).Generate()
	if err != nil {
		t.Fatal(err)
	}
	if id, ok := layout.TileAt(1, 1); !ok || id != 0 {
		t.Errorf("TileAt(1, 1) = %d, %v", id, ok)
	}
}

// terrainCatalogAllCompatible has several tiles that all share one edge label
func terrainCatalogAllCompatible() *Catalog {
	c := NewCatalog()
	for i, w := range []int{1, 2, 5} {
		c.MustAdd(TileDefinition{Name: "meadow", Model: Model{Path: "meadow.glb", Rotation: i}, Weight: w, Edges: uniformEdges("grass")})
	}
	return c
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func TestGenerateWithMaxWeights(t *testing.T) {
	c := NewCatalog()
	for _, name := range []string{"a", "b", "c"} {
		c.MustAdd(TileDefinition{
			Name:   name,
			Weight: MaxWeight,
			Edges:  [4]Edge{{Label: "g"}, {Label: "g"}, {Label: "g"}, {Label: "g"}},
		})
	}

	for _, name := range StrategyNames() {
		layout, err := NewGenerator(c, GenerateConfig{Size: 4, MaxIterations: 100, Seed: 7, Strategy: name}, nil).Generate()
		if err != nil {
			t.Fatalf("%s: Generate() failed: %v", name, err)
		}
		if len(layout.Placements) == 0 {
			t.Errorf("%s: nothing placed", name)
		}
	}
}
