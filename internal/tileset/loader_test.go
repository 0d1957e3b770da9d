package tileset

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lawnchairsociety/tilegen/internal/config"
	"github.com/lawnchairsociety/tilegen/internal/wfc"
)

// stubLoader hands out models without touching the filesystem
type stubLoader struct {
	calls []string
	fail  string
}

func (l *stubLoader) Load(path string, rotation int) (wfc.Model, error) {
	l.calls = append(l.calls, filepath.Base(path))
	if filepath.Base(path) == l.fail {
		return wfc.Model{}, errors.New("corrupt model")
	}
	return wfc.Model{Path: path, Rotation: rotation}, nil
}

func writeTileSet(t *testing.T, name, content string, models ...string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	for _, m := range models {
		require.NoError(t, os.WriteFile(filepath.Join(dir, m), []byte("glTF"), 0644))
	}
	return dir
}

func TestParseConfig(t *testing.T) {
	content := `# model, weight, up, right, down, left, rotations
grass.gltf, 6, grass, grass, grass, grass, 1

shore.gltf,2,grass,shore:a,water,shore:b,4
`
	entries, err := ParseConfig("tiles_config.txt", []byte(content))
	require.NoError(t, err)
	require.Len(t, entries, 2)

	require.Equal(t, "grass.gltf", entries[0].Model)
	require.Equal(t, int64(6), entries[0].Weight)
	require.Equal(t, 1, entries[0].Rotations)
	require.Equal(t, 2, entries[0].line)

	require.Equal(t, [4]string{"grass", "shore:a", "water", "shore:b"}, entries[1].Edges)
	require.Equal(t, 4, entries[1].Rotations)
	require.Equal(t, 4, entries[1].line)
}

func TestParseConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		line    int
		msg     string
	}{
		{"too few fields", "a.gltf,1,g,g,g,1\n", 1, "expected model"},
		{"weight not a number", "# c\na.gltf,x,g,g,g,g,1\n", 2, "weight is not an integer"},
		{"zero weight", "a.gltf,0,g,g,g,g,1\n", 1, "positive"},
		{"negative weight", "a.gltf,-3,g,g,g,g,1\n", 1, "positive"},
		{"weight above 32 bits", "a.gltf,4294967296,g,g,g,g,1\n", 1, "exceeds"},
		{"weight above 64 bits", "a.gltf,5000000000000000000000,g,g,g,g,1\n", 1, "weight is not an integer"},
		{"bad rotations", "a.gltf,1,g,g,g,g,3\n", 1, "1, 2 or 4"},
		{"empty edge", "a.gltf,1,g,,g,g,1\n", 1, "edge label"},
		{"suffix without label", "a.gltf,1,g,:s,g,g,1\n", 1, "edge label"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig("tiles_config.txt", []byte(tt.content))
			var cfgErr *config.Error
			require.ErrorAs(t, err, &cfgErr)
			require.Equal(t, "tiles_config.txt", cfgErr.File)
			require.Equal(t, tt.line, cfgErr.Line)
			require.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestBuild_RotationPermutesEdges(t *testing.T) {
	entries := []Entry{{
		Model:     "corner.gltf",
		Weight:    3,
		Edges:     [4]string{"a", "b", "c", "d"},
		Rotations: 4,
	}}
	loader := &stubLoader{}

	catalog, err := Build("set", "tiles_config.txt", entries, loader)
	require.NoError(t, err)
	require.Equal(t, 4, catalog.Len())

	want := [][4]string{
		{"a", "b", "c", "d"},
		{"b", "c", "d", "a"},
		{"c", "d", "a", "b"},
		{"d", "a", "b", "c"},
	}
	for k, edges := range want {
		def := catalog.Get(wfc.TileID(k))
		require.Equal(t, k, def.Rotation)
		require.Equal(t, k, def.Model.Rotation)
		require.Equal(t, 3, def.Weight)
		for p, label := range edges {
			require.Equal(t, label, def.Edges[p].Label, "rotation %d position %d", k, p)
		}
	}
	require.Equal(t, "corner@0", catalog.Get(0).Name)
	require.Equal(t, "corner@270", catalog.Get(3).Name)
	require.Len(t, loader.calls, 4)
}

func TestBuild_TwoRotations(t *testing.T) {
	entries := []Entry{{Model: "road.gltf", Weight: 1, Edges: [4]string{"road", "grass", "road", "grass"}, Rotations: 2}}
	catalog, err := Build("set", "src", entries, &stubLoader{})
	require.NoError(t, err)
	require.Equal(t, 2, catalog.Len())
	require.Equal(t, "grass", catalog.Get(1).Edge(wfc.Up).Label)
	require.Equal(t, "road", catalog.Get(1).Edge(wfc.Right).Label)
}

func TestBuild_SuffixKept(t *testing.T) {
	entries := []Entry{{Model: "m.gltf", Weight: 1, Edges: [4]string{"x:1", "y", "x:2", "y"}, Rotations: 1}}
	catalog, err := Build("set", "src", entries, &stubLoader{})
	require.NoError(t, err)
	require.Equal(t, wfc.Edge{Label: "x", Suffix: "1"}, catalog.Get(0).Edge(wfc.Up))
	require.Equal(t, "m", catalog.Get(0).Name)
}

func TestBuild_ModelLoadErrorNamesEntry(t *testing.T) {
	entries := []Entry{
		{Model: "ok.gltf", Weight: 1, Edges: [4]string{"g", "g", "g", "g"}, Rotations: 1, line: 1},
		{Model: "bad.gltf", Weight: 1, Edges: [4]string{"g", "g", "g", "g"}, Rotations: 1, line: 2},
	}
	_, err := Build("set", "tiles_config.txt", entries, &stubLoader{fail: "bad.gltf"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "tiles_config.txt:2")
	require.Contains(t, err.Error(), "bad.gltf")
	require.Contains(t, err.Error(), "corrupt model")
}

func TestBuild_Empty(t *testing.T) {
	_, err := Build("set", "tiles_config.txt", nil, &stubLoader{})
	require.ErrorIs(t, err, wfc.ErrEmptyCatalog)
}

func TestLoad_TextConfig(t *testing.T) {
	dir := writeTileSet(t, ConfigFile,
		"grass.gltf,6,grass,grass,grass,grass,1\nwater.gltf,3,water,water,water,water,1\n",
		"grass.gltf", "water.gltf")

	catalog, err := Load(dir, nil)
	require.NoError(t, err)
	require.Equal(t, 2, catalog.Len())
	require.Equal(t, filepath.Join(dir, "water.gltf"), catalog.Get(1).Model.Path)
}

func TestLoad_MissingModelFile(t *testing.T) {
	dir := writeTileSet(t, ConfigFile, "grass.gltf,6,grass,grass,grass,grass,1\n")

	_, err := Load(dir, nil)
	require.Error(t, err)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_MissingConfig(t *testing.T) {
	_, err := Load(t.TempDir(), nil)
	var cfgErr *config.Error
	require.ErrorAs(t, err, &cfgErr)
	require.Contains(t, cfgErr.File, ConfigFile)
}

func TestLoad_YAMLPreferred(t *testing.T) {
	content := `tiles:
  - model: grass.gltf
    weight: 4
    up: grass
    right: grass
    down: grass
    left: grass
  - model: shore.gltf
    weight: 2
    up: grass
    right: shore:a
    down: water
    left: shore:b
    rotations: 4
`
	dir := writeTileSet(t, YAMLFile, content, "grass.gltf", "shore.gltf")
	// A broken text config is ignored when tiles.yaml exists
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFile), []byte("broken"), 0644))

	catalog, err := Load(dir, nil)
	require.NoError(t, err)
	require.Equal(t, 5, catalog.Len())
	require.Equal(t, wfc.Edge{Label: "shore", Suffix: "a"}, catalog.Get(1).Edge(wfc.Right))
}

func TestParseYAML_ErrorCarriesLine(t *testing.T) {
	content := `tiles:
  - model: grass.gltf
    weight: 4
    up: g
    right: g
    down: g
    left: g
  - model: bad.gltf
    weight: 0
    up: g
    right: g
    down: g
    left: g
`
	_, err := ParseYAML("tiles.yaml", []byte(content))
	var cfgErr *config.Error
	require.ErrorAs(t, err, &cfgErr)
	require.Equal(t, 8, cfgErr.Line)
	require.Contains(t, err.Error(), "positive")
}

func TestParseYAML_WeightAbove32Bits(t *testing.T) {
	content := `tiles:
  - model: heavy.gltf
    weight: 4294967296
    up: g
    right: g
    down: g
    left: g
`
	_, err := ParseYAML("tiles.yaml", []byte(content))
	var cfgErr *config.Error
	require.ErrorAs(t, err, &cfgErr)
	require.Equal(t, 2, cfgErr.Line)
	require.Equal(t, "4294967296", cfgErr.Value)
}

func TestLoad_MaxWeightCatalogGenerates(t *testing.T) {
	dir := writeTileSet(t, ConfigFile, "a.gltf, 4294967295, g, g, g, g, 1\nb.gltf, 4294967295, g, g, g, g, 1\n", "a.gltf", "b.gltf")

	catalog, err := Load(dir, FileModelLoader{})
	require.NoError(t, err)

	layout, err := wfc.NewGenerator(catalog, wfc.GenerateConfig{Size: 3, MaxIterations: 100, Seed: 1, Strategy: wfc.StrategyOrdered}, nil).Generate()
	require.NoError(t, err)
	require.Len(t, layout.Placements, 9)
}

func TestFileModelLoader(t *testing.T) {
	dir := writeTileSet(t, "tile.gltf", "glTF")
	path := filepath.Join(dir, "tile.gltf")

	model, err := FileModelLoader{}.Load(path, 2)
	require.NoError(t, err)
	require.Equal(t, wfc.Model{Path: path, Rotation: 2}, model)

	_, err = FileModelLoader{}.Load(dir, 0)
	require.Error(t, err)
}
