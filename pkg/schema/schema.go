// Package schema defines the declarative schema model, its file-format
// loaders and the normalizer that reconciles a schema against a dataset's
// actual columns.
package schema

import (
	"math"
	"sort"

	"github.com/dqtools/datachecker/pkg/types"
)

// Constraints is the raw constraint record for one column. Keeping the map
// shape lets the normalizer report unknown and missing keys instead of
// silently dropping them.
type Constraints map[string]any

// Schema describes expected columns, per-column constraints and table-wide
// options. ColumnOrder preserves declaration order, which drives the ordering
// of content-check log entries.
type Schema struct {
	ColumnOrder         []string
	Columns             map[string]Constraints
	CheckDuplicates     bool
	CheckCompleteness   bool
	CompletenessColumns []string
}

// Recognized constraint keys. Anything else is surfaced as an unused
// argument by the normalizer.
var recognizedKeys = map[string]bool{
	"type":              true,
	"min_val":           true,
	"max_val":           true,
	"min_length":        true,
	"max_length":        true,
	"allowed_strings":   true,
	"forbidden_strings": true,
	"allow_na":          true,
	"optional":          true,
	"min_decimal":       true,
	"max_decimal":       true,
	"min_date":          true,
	"max_date":          true,
	"min_datetime":      true,
	"max_datetime":      true,
}

var mandatoryKeys = []string{"type", "allow_na", "optional"}

// TypeTag returns the column's declared type tag, or "" when absent.
func (c Constraints) TypeTag() string {
	s, _ := c["type"].(string)
	return s
}

// Has reports whether the constraint key is present.
func (c Constraints) Has(key string) bool {
	_, ok := c[key]
	return ok
}

// Bool returns the named key as a bool, false when absent or mistyped.
func (c Constraints) Bool(key string) bool {
	b, _ := c[key].(bool)
	return b
}

// Number returns the named key as a float64, handling the integer types the
// YAML, JSON and TOML decoders produce.
func (c Constraints) Number(key string) (float64, bool) {
	return asNumber(c[key])
}

// Int returns the named key as an int. Fractional values are rejected, not
// truncated.
func (c Constraints) Int(key string) (int, bool) {
	f, ok := asNumber(c[key])
	if !ok || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

// Str returns the named key as a string.
func (c Constraints) Str(key string) (string, bool) {
	s, ok := c[key].(string)
	return s, ok
}

func asNumber(v any) (float64, bool) {
	switch t := v.(type) {
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint64:
		return float64(t), true
	case float64:
		return t, true
	case float32:
		return float64(t), true
	}
	return 0, false
}

// FromMap builds a schema from an already-parsed generic mapping. Column
// order is not observable in a Go map, so columns are ordered by name.
func FromMap(raw map[string]any) (*Schema, error) {
	colsRaw, ok := raw["columns"].(map[string]any)
	if !ok {
		return nil, &types.SchemaShapeError{Reason: "schema has no 'columns' mapping"}
	}

	s := &Schema{Columns: make(map[string]Constraints, len(colsRaw))}
	for name := range colsRaw {
		s.ColumnOrder = append(s.ColumnOrder, name)
	}
	sort.Strings(s.ColumnOrder)

	for name, v := range colsRaw {
		props, ok := v.(map[string]any)
		if !ok {
			return nil, &types.SchemaShapeError{Reason: "column '" + name + "' is not a constraint mapping"}
		}
		s.Columns[name] = Constraints(props)
	}

	applyTableOptions(s, raw)
	return s, nil
}

func applyTableOptions(s *Schema, raw map[string]any) {
	if b, ok := raw["check_duplicates"].(bool); ok {
		s.CheckDuplicates = b
	}
	if b, ok := raw["check_completeness"].(bool); ok {
		s.CheckCompleteness = b
	}
	if cols, ok := raw["completeness_columns"].([]any); ok {
		for _, c := range cols {
			if name, ok := c.(string); ok {
				s.CompletenessColumns = append(s.CompletenessColumns, name)
			}
		}
	}
	if cols, ok := raw["completeness_columns"].([]string); ok {
		s.CompletenessColumns = append(s.CompletenessColumns, cols...)
	}
}
