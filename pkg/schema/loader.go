package schema

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/dqtools/datachecker/pkg/types"
)

// LoaderFunc parses raw schema file contents into a schema.
type LoaderFunc func(data []byte) (*Schema, error)

// LoaderRegistry maps format keys to schema loaders. It is a plain value
// populated explicitly at construction; nothing registers itself behind the
// caller's back.
type LoaderRegistry struct {
	formats map[string]LoaderFunc
}

// NewLoaderRegistry returns a registry with the built-in json, yaml, yml and
// toml loaders.
func NewLoaderRegistry() *LoaderRegistry {
	r := &LoaderRegistry{formats: map[string]LoaderFunc{}}
	for _, p := range []struct {
		format string
		fn     LoaderFunc
	}{
		{"json", LoadJSON},
		{"yaml", LoadYAML},
		{"yml", LoadYAML},
		{"toml", LoadTOML},
	} {
		r.formats[p.format] = p.fn
	}
	return r
}

// Register adds or replaces the loader for a format key.
func (r *LoaderRegistry) Register(format string, fn LoaderFunc) {
	r.formats[format] = fn
}

// Load reads and parses a schema file. An empty format selects by filename
// extension.
func (r *LoaderRegistry) Load(path, format string) (*Schema, error) {
	if format == "" {
		format = strings.TrimPrefix(filepath.Ext(path), ".")
	}
	fn, ok := r.formats[format]
	if !ok {
		return nil, &types.UnsupportedFormatError{Format: format}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read schema file: %s", path)
	}
	s, err := fn(data)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse schema file: %s", path)
	}
	return s, nil
}

// rawSchema defers the columns mapping so key order can be recovered from
// the document instead of a Go map.
type rawSchema struct {
	Columns             yaml.Node `yaml:"columns"`
	CheckDuplicates     bool      `yaml:"check_duplicates"`
	CheckCompleteness   bool      `yaml:"check_completeness"`
	CompletenessColumns []string  `yaml:"completeness_columns"`
}

// LoadYAML parses a YAML schema, preserving column declaration order.
func LoadYAML(data []byte) (*Schema, error) {
	var raw rawSchema
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if raw.Columns.Kind != yaml.MappingNode {
		return nil, &types.SchemaShapeError{Reason: "schema has no 'columns' mapping"}
	}

	s := &Schema{
		Columns:             map[string]Constraints{},
		CheckDuplicates:     raw.CheckDuplicates,
		CheckCompleteness:   raw.CheckCompleteness,
		CompletenessColumns: raw.CompletenessColumns,
	}
	for i := 0; i+1 < len(raw.Columns.Content); i += 2 {
		name := raw.Columns.Content[i].Value
		var props map[string]any
		if err := raw.Columns.Content[i+1].Decode(&props); err != nil {
			return nil, errors.Wrapf(err, "column '%s'", name)
		}
		s.ColumnOrder = append(s.ColumnOrder, name)
		s.Columns[name] = Constraints(props)
	}
	return s, nil
}

// LoadJSON parses a JSON schema. The decoder's token stream supplies the
// column declaration order that the generic unmarshal loses.
func LoadJSON(data []byte) (*Schema, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	s, err := FromMap(raw)
	if err != nil {
		return nil, err
	}
	if order, err := jsonColumnOrder(data); err == nil && len(order) == len(s.ColumnOrder) {
		s.ColumnOrder = order
	}
	return s, nil
}

func jsonColumnOrder(data []byte) ([]string, error) {
	dec := json.NewDecoder(strings.NewReader(string(data)))
	if _, err := dec.Token(); err != nil { // opening brace
		return nil, err
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := keyTok.(string)
		if key != "columns" {
			skipJSONValue(dec)
			continue
		}
		if _, err := dec.Token(); err != nil { // columns opening brace
			return nil, err
		}
		var order []string
		for dec.More() {
			nameTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			if name, ok := nameTok.(string); ok {
				order = append(order, name)
			}
			skipJSONValue(dec)
		}
		return order, nil
	}
	return nil, errors.New("no columns key")
}

func skipJSONValue(dec *json.Decoder) {
	depth := 0
	for {
		tok, err := dec.Token()
		if err != nil {
			return
		}
		switch tok {
		case json.Delim('{'), json.Delim('['):
			depth++
		case json.Delim('}'), json.Delim(']'):
			depth--
		}
		if depth <= 0 {
			return
		}
	}
}

var tomlColumnHeader = regexp.MustCompile(`(?m)^\s*\[columns\.["']?([A-Za-z0-9_-]+)["']?\]`)

// LoadTOML parses a TOML schema. Column order is recovered from the
// [columns.<name>] table headers; columns declared inline fall back to name
// order.
func LoadTOML(data []byte) (*Schema, error) {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	s, err := FromMap(raw)
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	var order []string
	for _, m := range tomlColumnHeader.FindAllSubmatch(data, -1) {
		name := string(m[1])
		if _, ok := s.Columns[name]; ok && !seen[name] {
			seen[name] = true
			order = append(order, name)
		}
	}
	var rest []string
	for name := range s.Columns {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	s.ColumnOrder = append(order, rest...)
	return s, nil
}
