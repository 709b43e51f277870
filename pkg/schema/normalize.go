package schema

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dqtools/datachecker/pkg/qalog"
	"github.com/dqtools/datachecker/pkg/types"
)

// Canonical type tags used by the check compiler and the backend.
const (
	TypeString   = "str"
	TypeInt      = "int"
	TypeFloat    = "float"
	TypeBool     = "bool"
	TypeDatetime = "datetime"
)

var typeAliases = map[string]string{
	"str":            TypeString,
	"string":         TypeString,
	"text":           TypeString,
	"object":         TypeString,
	"int":            TypeInt,
	"integer":        TypeInt,
	"int64":          TypeInt,
	"float":          TypeFloat,
	"float64":        TypeFloat,
	"double":         TypeFloat,
	"number":         TypeFloat,
	"bool":           TypeBool,
	"boolean":        TypeBool,
	"datetime":       TypeDatetime,
	"timestamp":      TypeDatetime,
	"date":           TypeDatetime,
	"datetime64[ns]": TypeDatetime,
}

// CanonicalType maps a declared type tag to its canonical form. Unknown tags
// are returned unchanged so they surface through the dtype check instead of
// being silently dropped.
func CanonicalType(tag string) string {
	if canonical, ok := typeAliases[strings.ToLower(tag)]; ok {
		return canonical
	}
	return tag
}

// Normalize reconciles the schema against the dataset's actual columns and
// canonicalizes type aliases in place. Every structural problem becomes a
// log entry rather than an error, so a single run surfaces everything at
// once.
func Normalize(s *Schema, datasetColumns []string, log *qalog.Log) error {
	for _, col := range s.ColumnOrder {
		props := s.Columns[col]
		if tag, ok := props.Str("type"); ok {
			props["type"] = CanonicalType(tag)
		}
	}

	schemaCols := map[string]bool{}
	for _, col := range s.ColumnOrder {
		schemaCols[col] = true
	}
	dataCols := map[string]bool{}
	for _, col := range datasetColumns {
		dataCols[col] = true
	}

	var missing []any
	for _, col := range datasetColumns {
		if !schemaCols[col] {
			missing = append(missing, col)
		}
	}
	if err := log.Add("Dataframe columns missing from schema", missing, len(missing) == 0, types.SeverityError); err != nil {
		return err
	}

	var extra []any
	for _, col := range s.ColumnOrder {
		if !dataCols[col] {
			extra = append(extra, col)
		}
	}
	if err := log.Add("Schema keys not in dataframe", extra, len(extra) == 0, types.SeverityWarning); err != nil {
		return err
	}

	for _, col := range s.ColumnOrder {
		props := s.Columns[col]
		var absent []string
		for _, key := range mandatoryKeys {
			if !props.Has(key) {
				absent = append(absent, "'"+key+"'")
			}
		}
		if len(absent) == 0 {
			continue
		}
		desc := fmt.Sprintf("Missing required properties in schema for column '%s': [%s]",
			col, strings.Join(absent, ", "))
		if err := log.Add(desc, []any{col}, false, types.SeverityError); err != nil {
			return err
		}
	}

	return checkUnusedArguments(s, log)
}

func checkUnusedArguments(s *Schema, log *qalog.Log) error {
	seen := map[string]bool{}
	var unused []any
	for _, col := range s.ColumnOrder {
		for key := range s.Columns[col] {
			if !recognizedKeys[key] && !seen[key] {
				seen[key] = true
				unused = append(unused, key)
			}
		}
	}
	sort.Slice(unused, func(i, j int) bool { return unused[i].(string) < unused[j].(string) })
	return log.Add("Checking for unused arguments in schema", unused, len(unused) == 0, types.SeverityWarning)
}
