// Package qalog implements the append-only QA log: entry creation with
// failing-id truncation, description humanizing and custom-check folding.
package qalog

import (
	"fmt"
	"os"
	"os/user"
	"runtime"
	"strings"
	"time"

	"github.com/dqtools/datachecker/pkg/types"
)

// TruncationLimit caps the visible failing-id list; longer lists keep the
// first TruncationLimit elements and append TruncationMarker.
const (
	TruncationLimit  = 10
	TruncationMarker = "..."
)

// Log is the ordered QA log for one validation session. Meta is the fixed
// environment record exported as element 0; Entries are appended through Add
// and never reordered except by FoldCustomChecks.
type Log struct {
	Meta    types.Metadata
	Entries []*types.Entry

	now func() time.Time
}

// New creates a log with the environment metadata record filled in.
func New(version string) *Log {
	now := time.Now()
	return &Log{
		Meta: types.Metadata{
			Date:               now.Format("2006-01-02"),
			User:               currentUser(),
			Device:             hostname(),
			DevicePlatform:     runtime.GOOS,
			Architecture:       runtime.GOARCH,
			GoVersion:          runtime.Version(),
			DatacheckerVersion: version,
		},
		now: time.Now,
	}
}

func currentUser() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return os.Getenv("USER")
}

func hostname() string {
	h, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return h
}

// Add appends one QA entry. It is the single mutation point for the log:
// the outcome is normalized to pass/fail, the failing-id list is truncated
// past TruncationLimit while the true count is kept in NumberFailing, and
// the entry is stamped with a wall-clock timestamp.
func (l *Log) Add(description string, failingIDs []any, pass bool, severity types.Severity) error {
	if !severity.Valid() {
		return &types.InvalidSeverityError{Severity: string(severity)}
	}

	outcome := types.OutcomeFail
	if pass {
		outcome = types.OutcomePass
	}

	numFailing := len(failingIDs)
	visible := failingIDs
	if numFailing > TruncationLimit {
		visible = append(append([]any{}, failingIDs[:TruncationLimit]...), TruncationMarker)
	}
	if visible == nil {
		visible = []any{}
	}

	l.Entries = append(l.Entries, &types.Entry{
		Timestamp:     l.now().Format("15:04:05"),
		Description:   description,
		Outcome:       outcome,
		FailingIDs:    visible,
		NumberFailing: numFailing,
		Severity:      severity,
	})
	return nil
}

// Records flattens the log into the exported list shape: the metadata record
// followed by the entries.
func (l *Log) Records() []any {
	records := make([]any, 0, len(l.Entries)+1)
	records = append(records, l.Meta)
	for _, e := range l.Entries {
		records = append(records, e)
	}
	return records
}

// String renders the log as a plain-text table for terminal output.
func (l *Log) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "date: %s\nuser: %s\ndevice: %s\ndevice_platform: %s\narchitecture: %s\ngo_version: %s\ndatachecker_version: %s\n",
		l.Meta.Date, l.Meta.User, l.Meta.Device, l.Meta.DevicePlatform,
		l.Meta.Architecture, l.Meta.GoVersion, l.Meta.DatacheckerVersion)

	headers := []string{"Timestamp", "Status", "Description", "Outcome", "Failing IDs", "Number Failing"}
	b.WriteString("\n")
	b.WriteString(strings.Join(headers, " | "))
	b.WriteString("\n")
	seps := make([]string, len(headers))
	for i, h := range headers {
		seps[i] = strings.Repeat("-", len(h))
	}
	b.WriteString(strings.Join(seps, "-|-"))
	b.WriteString("\n")

	for _, e := range l.Entries {
		ids := make([]string, len(e.FailingIDs))
		for i, id := range e.FailingIDs {
			ids[i] = fmt.Sprintf("%v", id)
		}
		row := []string{
			e.Timestamp,
			strings.ToUpper(string(e.Severity)),
			e.Description,
			string(e.Outcome),
			strings.Join(ids, ", "),
			fmt.Sprintf("%d", e.NumberFailing),
		}
		b.WriteString(strings.Join(row, " | "))
		b.WriteString("\n")
	}
	return b.String()
}
