// Package backend evaluates a compiled check set against a dataset. It
// reports only failing checks; the reconciler in pkg/validator synthesizes
// the passing side of the audit log.
package backend

import (
	"fmt"
	"time"

	"github.com/dqtools/datachecker/pkg/checks"
	"github.com/dqtools/datachecker/pkg/dataset"
	"github.com/dqtools/datachecker/pkg/schema"
)

// Check identifiers the backend adds beyond the compiled constraint checks.
const (
	CheckNotNullable    = "not_nullable"
	CheckColumnInSchema = "column_in_schema"
)

// DtypeCheckID is the implicit data-type check identifier for a column type.
func DtypeCheckID(colType string) string {
	return fmt.Sprintf("dtype('%s')", colType)
}

// FailureRow is one violated (row, check) pair.
type FailureRow struct {
	Column       string
	CheckID      string
	FailingValue any
	RowID        int
}

// Report is the structured failure report for one run: one row per violated
// cell or predicate instance, covering every distinct failing (row, check)
// pair. A nil report means every check passed.
type Report struct {
	Rows []FailureRow
}

// Run evaluates the compiled check set against the dataset. Evaluation is
// lazy in the batch sense: every check runs to completion and all failures
// are collected, never fail-fast. Columns absent from the dataset are
// skipped; their absence is reported by the column-name checks.
func Run(set *checks.Set, ds *dataset.Dataset) (*Report, error) {
	var rows []FailureRow

	customFailures := evalCustomChecks(set.Custom, ds)

	for _, cc := range set.Columns {
		if !ds.HasColumn(cc.Column) {
			continue
		}
		cells := ds.Column(cc.Column)

		for i, v := range cells {
			if v == nil {
				continue
			}
			if !cellMatchesType(v, cc.Type) {
				rows = append(rows, FailureRow{cc.Column, DtypeCheckID(cc.Type), v, i})
			}
		}

		if !cc.Nullable {
			for i, v := range cells {
				if v == nil {
					rows = append(rows, FailureRow{cc.Column, CheckNotNullable, nil, i})
				}
			}
		}

		for _, check := range cc.Checks {
			for i, v := range cells {
				if v == nil {
					continue
				}
				if !check.Fn(v) {
					rows = append(rows, FailureRow{cc.Column, check.ID, v, i})
				}
			}
		}

		// a table-wide custom check surfaces once per column it touches
		for _, custom := range set.Custom {
			for _, i := range customFailures[custom.Name] {
				rows = append(rows, FailureRow{cc.Column, custom.Name, cells[i], i})
			}
		}
	}

	declared := make(map[string]bool, len(set.Columns))
	for _, cc := range set.Columns {
		declared[cc.Column] = true
	}
	for _, col := range ds.Columns() {
		if !declared[col] {
			rows = append(rows, FailureRow{col, CheckColumnInSchema, col, -1})
		}
	}

	if len(rows) == 0 {
		return nil, nil
	}
	return &Report{Rows: rows}, nil
}

func evalCustomChecks(custom []checks.CustomCheck, ds *dataset.Dataset) map[string][]int {
	failures := make(map[string][]int, len(custom))
	for _, check := range custom {
		var failing []int
		for i := 0; i < ds.NumRows(); i++ {
			if !check.Fn(ds.Row(i)) {
				failing = append(failing, i)
			}
		}
		failures[check.Name] = failing
	}
	return failures
}

func cellMatchesType(v any, colType string) bool {
	switch colType {
	case schema.TypeString:
		_, ok := v.(string)
		return ok
	case schema.TypeInt:
		switch v.(type) {
		case int, int64:
			return true
		}
		return false
	case schema.TypeFloat:
		switch v.(type) {
		case float64, float32, int, int64:
			return true
		}
		return false
	case schema.TypeBool:
		_, ok := v.(bool)
		return ok
	case schema.TypeDatetime:
		_, ok := v.(time.Time)
		return ok
	default:
		// unknown declared type: every non-nil cell fails, surfacing the typo
		return false
	}
}
