package config

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lawnchairsociety/tilegen/internal/wfc"
)

// Accepted ranges for numeric run settings
const (
	MinMapSize       = 1
	MaxMapSize       = 100
	MinMaxIterations = 100
	MaxMaxIterations = 10000
)

// RunConfig describes one placement run.
type RunConfig struct {
	// TileSet is the directory holding the tile set's own tiles_config.txt.
	TileSet string `yaml:"tile_set"`

	// MapSize is the grid edge length, 1-100.
	MapSize int `yaml:"map_size"`

	// MaxIterations is the selection budget, 100-10000.
	MaxIterations int `yaml:"max_iterations"`

	// Seed drives the random source. 0 picks a time-based seed.
	Seed uint64 `yaml:"seed"`

	// Strategy is one of random, growing, ordered, least_entropy.
	Strategy string `yaml:"placement_strategy"`
}

// DefaultRunConfig returns the settings used for keys absent from a file.
func DefaultRunConfig() RunConfig {
	return RunConfig{
		MapSize:       10,
		MaxIterations: 100,
		Seed:          0,
		Strategy:      wfc.StrategyRandom,
	}
}

// LoadRunConfig reads a run configuration. Files ending in .yaml or .yml are
// decoded as YAML; anything else is read as KEY=VALUE lines.
func LoadRunConfig(path string) (RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RunConfig{}, &Error{File: path, Msg: "cannot read config file", Err: err}
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return parseRunYAML(path, data)
	default:
		return ParseRunConfig(path, data)
	}
}

// ParseRunConfig parses KEY=VALUE text. Blank lines and lines starting with '#'
// are skipped and spaces around keys and values are ignored. The name is only
// used in error messages.
func ParseRunConfig(name string, data []byte) (RunConfig, error) {
	cfg := DefaultRunConfig()
	hasTileSet := false

	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return RunConfig{}, &Error{File: name, Line: lineNum, Value: line, Msg: "expected KEY=VALUE"}
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		fail := func(msg string, err error) error {
			return &Error{File: name, Line: lineNum, Value: value, Msg: msg, Err: err}
		}

		switch key {
		case "tile_set":
			if value == "" {
				return RunConfig{}, fail("tile_set must not be empty", nil)
			}
			cfg.TileSet = value
			hasTileSet = true
		case "map_size":
			n, err := strconv.Atoi(value)
			if err != nil {
				return RunConfig{}, fail("map_size is not an integer", err)
			}
			if n < MinMapSize || n > MaxMapSize {
				return RunConfig{}, fail(fmt.Sprintf("map_size must be between %d and %d", MinMapSize, MaxMapSize), nil)
			}
			cfg.MapSize = n
		case "max_iterations":
			n, err := strconv.Atoi(value)
			if err != nil {
				return RunConfig{}, fail("max_iterations is not an integer", err)
			}
			if n < MinMaxIterations || n > MaxMaxIterations {
				return RunConfig{}, fail(fmt.Sprintf("max_iterations must be between %d and %d", MinMaxIterations, MaxMaxIterations), nil)
			}
			cfg.MaxIterations = n
		case "seed":
			n, err := strconv.ParseUint(value, 10, 64)
			if err != nil {
				return RunConfig{}, fail("seed is not an unsigned integer", err)
			}
			cfg.Seed = n
		case "placement_strategy":
			if _, err := wfc.ParseStrategy(value); err != nil {
				return RunConfig{}, fail("unknown placement strategy", err)
			}
			cfg.Strategy = value
		default:
			return RunConfig{}, &Error{File: name, Line: lineNum, Value: key, Msg: "unknown option"}
		}
	}
	if err := scanner.Err(); err != nil {
		return RunConfig{}, &Error{File: name, Msg: "read failed", Err: err}
	}

	if !hasTileSet {
		return RunConfig{}, &Error{File: name, Msg: "missing mandatory key tile_set"}
	}
	return cfg, nil
}

func parseRunYAML(name string, data []byte) (RunConfig, error) {
	cfg := DefaultRunConfig()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		var typeErr *yaml.TypeError
		if errors.As(err, &typeErr) && len(typeErr.Errors) > 0 {
			return RunConfig{}, &Error{File: name, Msg: typeErr.Errors[0], Err: err}
		}
		return RunConfig{}, &Error{File: name, Msg: "invalid YAML", Err: err}
	}

	if err := cfg.Validate(); err != nil {
		return RunConfig{}, &Error{File: name, Msg: err.Error(), Err: err}
	}
	return cfg, nil
}

// Validate checks ranges and mandatory fields.
func (c RunConfig) Validate() error {
	if c.TileSet == "" {
		return errors.New("missing mandatory key tile_set")
	}
	if c.MapSize < MinMapSize || c.MapSize > MaxMapSize {
		return fmt.Errorf("map_size %d out of range %d-%d", c.MapSize, MinMapSize, MaxMapSize)
	}
	if c.MaxIterations < MinMaxIterations || c.MaxIterations > MaxMaxIterations {
		return fmt.Errorf("max_iterations %d out of range %d-%d", c.MaxIterations, MinMaxIterations, MaxMaxIterations)
	}
	if _, err := wfc.ParseStrategy(c.Strategy); err != nil {
		return err
	}
	return nil
}

// GenerateConfig converts the run settings to solver parameters.
func (c RunConfig) GenerateConfig() wfc.GenerateConfig {
	return wfc.GenerateConfig{
		Size:          c.MapSize,
		MaxIterations: c.MaxIterations,
		Seed:          c.Seed,
		Strategy:      c.Strategy,
	}
}

// TileSetDir resolves TileSet relative to the directory of the config file.
func (c RunConfig) TileSetDir(configPath string) string {
	if filepath.IsAbs(c.TileSet) {
		return c.TileSet
	}
	return filepath.Join(filepath.Dir(configPath), c.TileSet)
}
