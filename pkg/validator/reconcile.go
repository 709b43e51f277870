package validator

import (
	"sort"

	"github.com/dqtools/datachecker/pkg/backend"
	"github.com/dqtools/datachecker/pkg/checks"
)

// reconciledCheck is one row of the merged audit: a (column, check) pair and
// the identifiers of its failing rows, empty when the check passed.
type reconciledCheck struct {
	Column     string
	CheckID    string
	FailingIDs []any
}

// reconcile merges the backend's failure report with the synthesized
// catalogue of every compiled check, so the final log states each declared
// check's outcome rather than only the violations.
//
// Failure groups are listed first so first-wins deduplication on
// (column, check) keeps the failing version. Column order follows the
// catalogue (schema declaration order); columns that only appear in the
// failure report are appended after, in first-appearance order.
func reconcile(set *checks.Set, report *backend.Report) []reconciledCheck {
	type key struct{ column, checkID string }

	var combined []reconciledCheck
	columnRank := map[string]int{}

	if report != nil {
		grouped := map[key]int{}
		for _, row := range report.Rows {
			k := key{row.Column, row.CheckID}
			idx, ok := grouped[k]
			if !ok {
				idx = len(combined)
				grouped[k] = idx
				combined = append(combined, reconciledCheck{Column: row.Column, CheckID: row.CheckID})
			}
			entry := &combined[idx]
			if row.RowID >= 0 {
				entry.FailingIDs = append(entry.FailingIDs, row.RowID)
			} else if row.FailingValue != nil {
				// no row identifier available: fall back to the failing value
				entry.FailingIDs = append(entry.FailingIDs, row.FailingValue)
			}
		}
	}

	for rank, cc := range set.Columns {
		columnRank[cc.Column] = rank
		for _, id := range catalogueIDs(cc, set.Custom) {
			combined = append(combined, reconciledCheck{Column: cc.Column, CheckID: id})
		}
	}

	seen := map[key]bool{}
	deduped := combined[:0:0]
	for _, rc := range combined {
		k := key{rc.Column, rc.CheckID}
		if seen[k] {
			continue
		}
		seen[k] = true
		deduped = append(deduped, rc)
	}

	// failure-only columns sort after every catalogue column
	nextRank := len(set.Columns)
	for _, rc := range deduped {
		if _, ok := columnRank[rc.Column]; !ok {
			columnRank[rc.Column] = nextRank
			nextRank++
		}
	}
	sort.SliceStable(deduped, func(i, j int) bool {
		return columnRank[deduped[i].Column] < columnRank[deduped[j].Column]
	})
	return deduped
}

// catalogueIDs enumerates every check compiled for a column, including the
// per-column occurrences of table-wide custom checks and the implicit dtype
// and nullability checks.
func catalogueIDs(cc checks.ColumnChecks, custom []checks.CustomCheck) []string {
	ids := make([]string, 0, len(cc.Checks)+len(custom)+2)
	for _, check := range cc.Checks {
		ids = append(ids, check.ID)
	}
	for _, c := range custom {
		ids = append(ids, c.Name)
	}
	ids = append(ids, backend.DtypeCheckID(cc.Type))
	if !cc.Nullable {
		ids = append(ids, backend.CheckNotNullable)
	}
	return ids
}
