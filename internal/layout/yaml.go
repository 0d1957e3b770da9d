package layout

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// WriteYAML writes the layout to path, creating parent directories.
func WriteYAML(l *Layout, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	fmt.Fprintf(f, "# %dx%d layout, %s placement\n", l.Size, l.Size, l.Strategy)
	fmt.Fprintf(f, "# Generated with seed: %d\n", l.Seed)
	fmt.Fprintf(f, "# Digest: %s\n\n", l.Digest())

	encoder := yaml.NewEncoder(f)
	encoder.SetIndent(2)
	if err := encoder.Encode(l); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	return f.Close()
}

// ReadYAML loads a layout written by WriteYAML.
func ReadYAML(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var l Layout
	if err := yaml.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if l.Size <= 0 {
		return nil, fmt.Errorf("%s: layout has no size", path)
	}
	for i, p := range l.Placements {
		if p.Tile < 0 || p.Tile >= len(l.Tiles) {
			return nil, fmt.Errorf("%s: placement %d references unknown tile %d", path, i, p.Tile)
		}
	}

	return &l, nil
}

// FileName is the default name for a layout: size, strategy and seed.
func FileName(l *Layout) string {
	return fmt.Sprintf("layout_%dx%d_%s_%d.yaml", l.Size, l.Size, l.Strategy, l.Seed)
}
