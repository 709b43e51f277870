// Package checks compiles a normalized schema's declarative constraints
// into the atomic check descriptors the validation backend evaluates.
package checks

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dqtools/datachecker/pkg/schema"
	"github.com/dqtools/datachecker/pkg/types"
)

// ValuePredicate evaluates one cell. Nil cells never reach a predicate; the
// backend treats them as vacuously passing every value check.
type ValuePredicate func(v any) bool

// RowPredicate evaluates one materialized row. Custom table-wide checks are
// row predicates.
type RowPredicate func(row map[string]any) bool

// Check is one atomic check: a predicate plus the identifier that appears in
// log descriptions before humanizing.
type Check struct {
	ID string
	Fn ValuePredicate
}

// CustomCheck is a named user-supplied table-wide predicate.
type CustomCheck struct {
	Name string
	Fn   RowPredicate
}

// ColumnChecks is the ordered check list compiled for one column.
type ColumnChecks struct {
	Column   string
	Type     string
	Nullable bool
	Checks   []Check
}

// Set is the full compiled check set for one validation run: per-column
// atomic checks in schema declaration order plus the table-wide custom
// checks in name order.
type Set struct {
	Columns []ColumnChecks
	Custom  []CustomCheck
}

// NormalizeCustomChecks validates a name-to-predicate mapping and returns it
// as a deterministically ordered slice.
func NormalizeCustomChecks(custom map[string]RowPredicate) ([]CustomCheck, error) {
	names := make([]string, 0, len(custom))
	for name := range custom {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]CustomCheck, 0, len(names))
	for _, name := range names {
		if name == "" {
			return nil, &types.CustomCheckTypeError{Reason: "check name must not be empty"}
		}
		if custom[name] == nil {
			return nil, &types.CustomCheckTypeError{Name: name, Reason: "predicate is not callable"}
		}
		out = append(out, CustomCheck{Name: name, Fn: custom[name]})
	}
	return out, nil
}

// Compile translates each column's constraints into an ordered check list.
// The compiler only inspects declared types, never dataset values; value
// evaluation happens in the backend.
func Compile(s *schema.Schema, custom []CustomCheck) (*Set, error) {
	set := &Set{Custom: custom}
	for _, col := range s.ColumnOrder {
		cc, err := compileColumn(col, s.Columns[col])
		if err != nil {
			return nil, err
		}
		set.Columns = append(set.Columns, cc)
	}
	return set, nil
}

func compileColumn(col string, props schema.Constraints) (ColumnChecks, error) {
	colType := schema.CanonicalType(props.TypeTag())
	cc := ColumnChecks{
		Column:   col,
		Type:     colType,
		Nullable: props.Bool("allow_na"),
	}

	if props.Has("min_val") {
		n, ok := props.Number("min_val")
		if !ok {
			return cc, &types.ConstraintTypeError{Column: col, Key: "min_val", Reason: "value must be numeric"}
		}
		cc.Checks = append(cc.Checks, greaterOrEqual(n))
	}
	if props.Has("max_val") {
		n, ok := props.Number("max_val")
		if !ok {
			return cc, &types.ConstraintTypeError{Column: col, Key: "max_val", Reason: "value must be numeric"}
		}
		cc.Checks = append(cc.Checks, lessOrEqual(n))
	}

	if colType == schema.TypeString {
		if props.Has("min_length") {
			n, ok := props.Int("min_length")
			if !ok {
				return cc, &types.ConstraintTypeError{Column: col, Key: "min_length", Reason: "value must be an integer"}
			}
			cc.Checks = append(cc.Checks, strLength(&n, nil))
		}
		if props.Has("max_length") {
			n, ok := props.Int("max_length")
			if !ok {
				return cc, &types.ConstraintTypeError{Column: col, Key: "max_length", Reason: "value must be an integer"}
			}
			cc.Checks = append(cc.Checks, strLength(nil, &n))
		}
		if props.Has("allowed_strings") {
			check, err := allowedStrings(col, props["allowed_strings"])
			if err != nil {
				return cc, err
			}
			cc.Checks = append(cc.Checks, check)
		}
		if props.Has("forbidden_strings") {
			check, err := forbiddenStrings(col, props["forbidden_strings"])
			if err != nil {
				return cc, err
			}
			cc.Checks = append(cc.Checks, check)
		}
	}

	if colType == schema.TypeFloat {
		if props.Has("min_decimal") {
			n, ok := props.Int("min_decimal")
			if !ok {
				return cc, &types.ConstraintTypeError{Column: col, Key: "min_decimal", Reason: "value must be an integer"}
			}
			cc.Checks = append(cc.Checks, minDecimal(n))
		}
		if props.Has("max_decimal") {
			n, ok := props.Int("max_decimal")
			if !ok {
				return cc, &types.ConstraintTypeError{Column: col, Key: "max_decimal", Reason: "value must be an integer"}
			}
			cc.Checks = append(cc.Checks, maxDecimal(n))
		}
	}

	if colType == schema.TypeDatetime {
		if key, ok := firstPresent(props, "min_date", "min_datetime"); ok {
			bound, err := parseDateBound(col, key, props)
			if err != nil {
				return cc, err
			}
			cc.Checks = append(cc.Checks, afterOrEqual(bound))
		}
		if key, ok := firstPresent(props, "max_date", "max_datetime"); ok {
			bound, err := parseDateBound(col, key, props)
			if err != nil {
				return cc, err
			}
			cc.Checks = append(cc.Checks, beforeOrEqual(bound))
		}
	}

	return cc, nil
}

func firstPresent(props schema.Constraints, keys ...string) (string, bool) {
	for _, key := range keys {
		if props.Has(key) {
			return key, true
		}
	}
	return "", false
}

var dateBoundLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02 15:04",
	"2006/01/02",
	"200601021504",
}

func parseDateBound(col, key string, props schema.Constraints) (time.Time, error) {
	raw, ok := props.Str(key)
	if !ok {
		return time.Time{}, &types.ConstraintTypeError{Column: col, Key: key, Reason: "value must be a date or date-time string"}
	}
	for _, layout := range dateBoundLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			// date-only bounds promote to midnight
			return t, nil
		}
	}
	return time.Time{}, &types.ConstraintTypeError{
		Column: col, Key: key,
		Reason: fmt.Sprintf("cannot parse '%s' as a date or date-time", raw),
	}
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// pyRepr formats a literal the way it appears inside isin/notin identifiers.
func pyRepr(v any) string {
	switch t := v.(type) {
	case string:
		return "'" + t + "'"
	case float64:
		return formatNumber(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

func reprList(values []any) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = pyRepr(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
