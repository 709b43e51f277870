package dataset

import "strings"

// Ops is the capability interface table-wide checks need from a dataset
// backend. The orchestration logic stays backend-agnostic; a backend only
// supplies duplicate detection and value-combination enumeration.
type Ops interface {
	// DetectDuplicates returns the row indices of rows that duplicate an
	// earlier row (the first occurrence is not reported).
	DetectDuplicates(d *Dataset) []int

	// MissingCombinations counts combinations of per-column unique values
	// that never occur together in the dataset. Rows with a nil cell in any
	// of the named columns are ignored on both sides.
	MissingCombinations(d *Dataset, columns []string) int
}

// MemoryOps implements Ops for the in-memory dataset.
type MemoryOps struct{}

const fingerprintSep = "\x1f"

func (MemoryOps) DetectDuplicates(d *Dataset) []int {
	seen := make(map[string]bool, d.NumRows())
	var dupes []int
	for i := 0; i < d.NumRows(); i++ {
		parts := make([]string, 0, len(d.Columns()))
		for _, col := range d.Columns() {
			parts = append(parts, FormatCell(d.Column(col)[i]))
		}
		key := strings.Join(parts, fingerprintSep)
		if seen[key] {
			dupes = append(dupes, i)
		}
		seen[key] = true
	}
	return dupes
}

func (MemoryOps) MissingCombinations(d *Dataset, columns []string) int {
	known := make([]string, 0, len(columns))
	for _, col := range columns {
		if d.HasColumn(col) {
			known = append(known, col)
		}
	}
	columns = known
	if len(columns) == 0 {
		return 0
	}

	total := 1
	for _, col := range columns {
		seen := map[string]bool{}
		count := 0
		for _, v := range d.Column(col) {
			if v == nil {
				continue
			}
			key := FormatCell(v)
			if !seen[key] {
				seen[key] = true
				count++
			}
		}
		total *= count
	}

	existing := map[string]bool{}
rows:
	for i := 0; i < d.NumRows(); i++ {
		parts := make([]string, 0, len(columns))
		for _, col := range columns {
			v := d.Column(col)[i]
			if v == nil {
				continue rows
			}
			parts = append(parts, FormatCell(v))
		}
		existing[strings.Join(parts, fingerprintSep)] = true
	}

	return total - len(existing)
}
