package tileset

import (
	"bufio"
	"bytes"
	"errors"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lawnchairsociety/tilegen/internal/config"
	"github.com/lawnchairsociety/tilegen/internal/wfc"
)

const fieldCount = 7

// readConfig parses tiles_config.txt:
//
//	model_path, weight, up, right, down, left, rotations
func readConfig(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &config.Error{File: path, Msg: "cannot read tile set config", Err: err}
	}
	return ParseConfig(path, data)
}

// ParseConfig parses tiles_config.txt content. Blank lines and lines starting
// with '#' are skipped; whitespace inside fields is ignored.
func ParseConfig(name string, data []byte) ([]Entry, error) {
	var entries []Entry

	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		raw := scanner.Text()
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(strings.Join(strings.Fields(line), ""), ",")
		if len(fields) != fieldCount {
			return nil, &config.Error{File: name, Line: lineNum, Value: raw, Msg: "expected model, weight, up, right, down, left, rotations"}
		}

		weight, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return nil, &config.Error{File: name, Line: lineNum, Value: fields[1], Msg: "weight is not an integer", Err: err}
		}
		rotations, err := strconv.Atoi(fields[6])
		if err != nil {
			return nil, &config.Error{File: name, Line: lineNum, Value: fields[6], Msg: "rotations is not an integer", Err: err}
		}

		e := Entry{
			Model:     fields[0],
			Weight:    weight,
			Rotations: rotations,
			line:      lineNum,
		}
		copy(e.Edges[:], fields[2:6])
		if err := e.validate(name); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, &config.Error{File: name, Msg: "read failed", Err: err}
	}

	return entries, nil
}

// yamlEntry is the on-disk form of a tiles.yaml record
type yamlEntry struct {
	Model     string `yaml:"model"`
	Weight    int64  `yaml:"weight"`
	Up        string `yaml:"up"`
	Right     string `yaml:"right"`
	Down      string `yaml:"down"`
	Left      string `yaml:"left"`
	Rotations int    `yaml:"rotations"`
}

type yamlFile struct {
	Tiles []yamlEntry `yaml:"tiles"`
}

func readYAML(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &config.Error{File: path, Msg: "cannot read tile set config", Err: err}
	}
	return ParseYAML(path, data)
}

// ParseYAML parses tiles.yaml content. A missing rotations field means 1.
func ParseYAML(name string, data []byte) ([]Entry, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &config.Error{File: name, Msg: "invalid YAML", Err: err}
	}

	var file yamlFile
	if err := doc.Decode(&file); err != nil {
		var typeErr *yaml.TypeError
		if errors.As(err, &typeErr) && len(typeErr.Errors) > 0 {
			return nil, &config.Error{File: name, Msg: typeErr.Errors[0], Err: err}
		}
		return nil, &config.Error{File: name, Msg: "invalid YAML", Err: err}
	}

	lines := tileLines(&doc)
	entries := make([]Entry, 0, len(file.Tiles))
	for i, t := range file.Tiles {
		e := Entry{
			Model:     t.Model,
			Weight:    t.Weight,
			Edges:     [4]string{t.Up, t.Right, t.Down, t.Left},
			Rotations: t.Rotations,
		}
		if e.Rotations == 0 {
			e.Rotations = 1
		}
		if i < len(lines) {
			e.line = lines[i]
		}
		if err := e.validate(name); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// tileLines returns the source line of each item under the tiles key
func tileLines(doc *yaml.Node) []int {
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value != "tiles" {
			continue
		}
		var lines []int
		for _, item := range root.Content[i+1].Content {
			lines = append(lines, item.Line)
		}
		return lines
	}
	return nil
}

// validate checks the fields every format shares
func (e Entry) validate(source string) error {
	fail := func(value, msg string) error {
		return &config.Error{File: source, Line: e.line, Value: value, Msg: msg}
	}

	if e.Model == "" {
		return fail("", "model path is empty")
	}
	if e.Weight <= 0 {
		return fail(strconv.FormatInt(e.Weight, 10), "weight must be a positive integer")
	}
	if e.Weight > wfc.MaxWeight {
		return fail(strconv.FormatInt(e.Weight, 10), "weight exceeds 4294967295")
	}
	switch e.Rotations {
	case 1, 2, 4:
	default:
		return fail(strconv.Itoa(e.Rotations), "rotations must be 1, 2 or 4")
	}
	for _, edge := range e.Edges {
		if edgeLabelEmpty(edge) {
			return fail(edge, "edge label is empty")
		}
	}
	return nil
}

func edgeLabelEmpty(edge string) bool {
	label, _, _ := strings.Cut(edge, ":")
	return label == ""
}
