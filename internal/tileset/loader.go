// Package tileset builds a tile catalog from a tile set directory.
package tileset

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/lawnchairsociety/tilegen/internal/wfc"
)

// File names looked up inside a tile set directory
const (
	ConfigFile = "tiles_config.txt"
	YAMLFile   = "tiles.yaml"
)

// ModelLoader turns a model path into geometry for one rotation.
type ModelLoader interface {
	Load(path string, rotation int) (wfc.Model, error)
}

// FileModelLoader checks that model files exist and returns a handle to them.
// Parsing the geometry is left to whoever consumes the placements.
type FileModelLoader struct{}

// Load implements ModelLoader
func (FileModelLoader) Load(path string, rotation int) (wfc.Model, error) {
	info, err := os.Stat(path)
	if err != nil {
		return wfc.Model{}, err
	}
	if info.IsDir() {
		return wfc.Model{}, fmt.Errorf("%s is a directory", path)
	}
	return wfc.Model{Path: path, Rotation: rotation}, nil
}

// Entry is one tile line before rotations are expanded.
type Entry struct {
	Model     string    // Path relative to the tile set directory
	Weight    int64
	Edges     [4]string // up, right, down, left as "label" or "label:suffix"
	Rotations int       // 1, 2 or 4

	line int // Source line, 0 when unknown
}

// Load reads the tile set in dir and returns its catalog. tiles.yaml is
// preferred when present; otherwise tiles_config.txt is required.
func Load(dir string, models ModelLoader) (*wfc.Catalog, error) {
	if models == nil {
		models = FileModelLoader{}
	}

	var (
		entries []Entry
		source  string
		err     error
	)
	yamlPath := filepath.Join(dir, YAMLFile)
	if _, statErr := os.Stat(yamlPath); statErr == nil {
		source = yamlPath
		entries, err = readYAML(yamlPath)
	} else {
		source = filepath.Join(dir, ConfigFile)
		entries, err = readConfig(source)
	}
	if err != nil {
		return nil, err
	}

	return Build(dir, source, entries, models)
}

// Build expands entries into a catalog, one definition per rotation.
// The k-th rotation presents, at position p, the original edge at (p+k) mod 4.
func Build(dir, source string, entries []Entry, models ModelLoader) (*wfc.Catalog, error) {
	catalog := wfc.NewCatalog()

	for _, e := range entries {
		if err := e.validate(source); err != nil {
			return nil, err
		}
		for k := 0; k < e.Rotations; k++ {
			model, err := models.Load(filepath.Join(dir, e.Model), k)
			if err != nil {
				return nil, fmt.Errorf("%s: loading model %q rotation %d: %w", e.location(source), e.Model, k, err)
			}

			def := wfc.TileDefinition{
				Name:     tileName(e.Model, k, e.Rotations),
				Model:    model,
				Weight:   int(e.Weight),
				Rotation: k,
			}
			for p := 0; p < 4; p++ {
				def.Edges[p] = wfc.ParseEdge(e.Edges[(p+k)%4])
			}

			if _, err := catalog.Add(def); err != nil {
				return nil, fmt.Errorf("%s: %w", e.location(source), err)
			}
		}
	}

	if catalog.Len() == 0 {
		return nil, fmt.Errorf("%s: %w", source, wfc.ErrEmptyCatalog)
	}
	return catalog, nil
}

func (e Entry) location(source string) string {
	if e.line > 0 {
		return fmt.Sprintf("%s:%d", source, e.line)
	}
	return source
}

// tileName names a variant after its model file, with the rotation appended
// when the model is registered more than once.
func tileName(model string, rotation, rotations int) string {
	base := filepath.Base(model)
	base = base[:len(base)-len(filepath.Ext(base))]
	if rotations == 1 {
		return base
	}
	return fmt.Sprintf("%s@%d", base, rotation*90)
}
