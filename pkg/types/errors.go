package types

import "fmt"

// SchemaShapeError reports a schema argument that is neither a file path
// nor a schema mapping. Raised at session construction.
type SchemaShapeError struct {
	Reason string
}

func (e *SchemaShapeError) Error() string {
	return fmt.Sprintf("invalid schema: %s", e.Reason)
}

// UnsupportedFormatError reports a schema-load or export format key that is
// not registered.
type UnsupportedFormatError struct {
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("format '%s' is not supported", e.Format)
}

// CustomCheckTypeError reports a custom check that is not usable: a nil
// predicate or an empty name. Raised at session construction, before any
// validation runs.
type CustomCheckTypeError struct {
	Name   string
	Reason string
}

func (e *CustomCheckTypeError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("invalid custom checks: %s", e.Reason)
	}
	return fmt.Sprintf("custom check '%s': %s", e.Name, e.Reason)
}

// ConstraintTypeError reports a constraint value with the wrong shape, e.g.
// allowed_strings given neither a list nor a string. Raised during check
// compilation.
type ConstraintTypeError struct {
	Column string
	Key    string
	Reason string
}

func (e *ConstraintTypeError) Error() string {
	return fmt.Sprintf("column '%s', constraint '%s': %s", e.Column, e.Key, e.Reason)
}

// InvalidSeverityError reports a log-entry severity outside info/warning/error.
// This indicates a caller bug rather than a data problem.
type InvalidSeverityError struct {
	Severity string
}

func (e *InvalidSeverityError) Error() string {
	return fmt.Sprintf("entry severity must be 'info', 'error', or 'warning', got '%s'", e.Severity)
}

// HardCheckError is returned after export when the session ran in hard-check
// mode and at least one error-severity entry failed.
type HardCheckError struct {
	ErrorCount int
}

func (e *HardCheckError) Error() string {
	return fmt.Sprintf("Hard checks failed: %d error(s) found, see log output for more details", e.ErrorCount)
}
