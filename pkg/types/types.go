// Package types holds the shared data model for validation sessions:
// QA log entries, severity levels and the error taxonomy.
package types

// Severity classifies a QA entry. Error-severity failures can abort the
// session under hard-check mode, warning-severity failures never do.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Valid reports whether s is one of the three recognized severities.
func (s Severity) Valid() bool {
	switch s {
	case SeverityInfo, SeverityWarning, SeverityError:
		return true
	}
	return false
}

// Outcome is the result of a single check.
type Outcome string

const (
	OutcomePass Outcome = "pass"
	OutcomeFail Outcome = "fail"
)

// Entry is one QA log record describing a single check's outcome.
//
// FailingIDs is capped at 10 visible elements plus a truncation marker;
// NumberFailing always reflects the true count.
type Entry struct {
	Timestamp     string   `json:"timestamp"      yaml:"timestamp"`
	Description   string   `json:"description"    yaml:"description"`
	Outcome       Outcome  `json:"outcome"        yaml:"outcome"`
	FailingIDs    []any    `json:"failing_ids"    yaml:"failing_ids"`
	NumberFailing int      `json:"number_failing" yaml:"number_failing"`
	Severity      Severity `json:"status"         yaml:"status"`
}

// Metadata is the environment record stored as element 0 of every QA log.
type Metadata struct {
	Date               string `json:"date"                yaml:"date"`
	User               string `json:"user"                yaml:"user"`
	Device             string `json:"device"              yaml:"device"`
	DevicePlatform     string `json:"device_platform"     yaml:"device_platform"`
	Architecture       string `json:"architecture"        yaml:"architecture"`
	GoVersion          string `json:"go_version"          yaml:"go_version"`
	DatacheckerVersion string `json:"datachecker_version" yaml:"datachecker_version"`
}
