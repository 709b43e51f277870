package qalog

import (
	"fmt"
	"regexp"

	"github.com/dqtools/datachecker/pkg/types"
)

// FoldCustomChecks collapses the per-column entries a table-wide custom
// check produces into one representative entry per check name.
//
// For each name, entries whose description contains the name as a whole
// word (case-insensitive) are claimed; the first claimed entry becomes the
// representative with its description rewritten to "Custom data check
// <name>". All claimed entries are removed and the representatives are
// appended at the end of the log, preserving the given name order. Entries
// already claimed by an earlier name are not matched again.
func (l *Log) FoldCustomChecks(names []string) {
	if len(names) == 0 {
		return
	}

	claimed := make(map[*types.Entry]bool)
	var folded []*types.Entry

	for _, name := range names {
		pattern := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(name) + `\b`)
		var rep *types.Entry
		for _, e := range l.Entries {
			if claimed[e] || !pattern.MatchString(e.Description) {
				continue
			}
			claimed[e] = true
			if rep == nil {
				copied := *e
				copied.Description = fmt.Sprintf("Custom data check %s", name)
				rep = &copied
			}
		}
		if rep != nil {
			folded = append(folded, rep)
		}
	}

	if len(folded) == 0 {
		return
	}

	kept := make([]*types.Entry, 0, len(l.Entries))
	for _, e := range l.Entries {
		if !claimed[e] {
			kept = append(kept, e)
		}
	}
	l.Entries = append(kept, folded...)
}
