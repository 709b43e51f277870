// Package dataset provides the in-memory columnar table that validation
// sessions run against, plus the small capability interface backends
// implement for table-wide checks.
package dataset

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
)

// Dataset is a column-major table. Cells hold nil, int64, float64, bool,
// string or time.Time. Row identifiers are positional indices.
type Dataset struct {
	columns []string
	cells   map[string][]any
	numRows int
}

// New builds a dataset from column order and per-column cell slices.
// Every column must be present in cells and all columns must have the
// same length.
func New(columns []string, cells map[string][]any) (*Dataset, error) {
	d := &Dataset{columns: columns, cells: make(map[string][]any, len(columns))}
	for i, col := range columns {
		values, ok := cells[col]
		if !ok {
			return nil, errors.Errorf("dataset column %q has no values", col)
		}
		if i == 0 {
			d.numRows = len(values)
		} else if len(values) != d.numRows {
			return nil, errors.Errorf("dataset column %q has %d rows, want %d", col, len(values), d.numRows)
		}
		d.cells[col] = values
	}
	return d, nil
}

// MustNew is New for statically known inputs, typically tests.
func MustNew(columns []string, cells map[string][]any) *Dataset {
	d, err := New(columns, cells)
	if err != nil {
		panic(err)
	}
	return d
}

// Columns returns the column names in declaration order.
func (d *Dataset) Columns() []string { return d.columns }

// HasColumn reports whether the dataset contains the named column.
func (d *Dataset) HasColumn(name string) bool {
	_, ok := d.cells[name]
	return ok
}

// Column returns the cells of the named column, or nil if absent.
func (d *Dataset) Column(name string) []any { return d.cells[name] }

// NumRows returns the row count.
func (d *Dataset) NumRows() int { return d.numRows }

// Row materializes row i as a column-name keyed map.
func (d *Dataset) Row(i int) map[string]any {
	row := make(map[string]any, len(d.columns))
	for _, col := range d.columns {
		row[col] = d.cells[col][i]
	}
	return row
}

// FormatCell renders a cell the way it appears in failing-id lists and
// row fingerprints.
func FormatCell(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case time.Time:
		return t.Format("2006-01-02 15:04:05")
	default:
		return fmt.Sprintf("%v", t)
	}
}
