// Package validator orchestrates a validation session: schema
// normalization, check compilation, backend execution, result
// reconciliation, log post-processing, export and the hard-check policy.
package validator

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/dqtools/datachecker/pkg/backend"
	"github.com/dqtools/datachecker/pkg/checks"
	"github.com/dqtools/datachecker/pkg/dataset"
	"github.com/dqtools/datachecker/pkg/export"
	"github.com/dqtools/datachecker/pkg/qalog"
	"github.com/dqtools/datachecker/pkg/schema"
	"github.com/dqtools/datachecker/pkg/types"
)

// Version is reported in the QA log's metadata record.
const Version = "0.3.0"

// Session owns one schema + dataset validation run. Construct with New,
// drive with Validate, Export and Enforce, or use CheckAndExport for the
// whole pipeline. The Log is introspectable at any point and immutable once
// validation completes.
type Session struct {
	Log    *qalog.Log
	Schema *schema.Schema

	data      *dataset.Dataset
	file      string
	format    string
	hardCheck bool
	custom    []checks.CustomCheck
	rawCustom map[string]checks.RowPredicate
	ops       dataset.Ops
	exporters *export.Registry
	loaders   *schema.LoaderRegistry
	logger    *slog.Logger
}

// Option customizes a session.
type Option func(*Session)

// WithSoftCheck disables hard-check mode: failing error-severity entries are
// reported as warnings instead of aborting the session.
func WithSoftCheck() Option {
	return func(s *Session) { s.hardCheck = false }
}

// WithHardCheck sets hard-check mode explicitly.
func WithHardCheck(hard bool) Option {
	return func(s *Session) { s.hardCheck = hard }
}

// WithCustomChecks supplies named table-wide row predicates.
func WithCustomChecks(custom map[string]checks.RowPredicate) Option {
	return func(s *Session) { s.rawCustom = custom }
}

// WithOps overrides the dataset capability backend used for duplicate and
// completeness checks.
func WithOps(ops dataset.Ops) Option {
	return func(s *Session) { s.ops = ops }
}

// WithExporters overrides the exporter registry.
func WithExporters(r *export.Registry) Option {
	return func(s *Session) { s.exporters = r }
}

// WithSchemaLoaders overrides the schema loader registry.
func WithSchemaLoaders(r *schema.LoaderRegistry) Option {
	return func(s *Session) { s.loaders = r }
}

// WithLogger overrides the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// New constructs a session: custom checks are validated, the schema is
// resolved from a path or mapping, and the normalizer reconciles it against
// the dataset's columns. Configuration problems are fatal here; data
// problems become log entries.
func New(schemaSrc any, data *dataset.Dataset, file, format string, opts ...Option) (*Session, error) {
	s := &Session{
		Log:       qalog.New(Version),
		data:      data,
		file:      file,
		format:    format,
		hardCheck: true,
		ops:       dataset.MemoryOps{},
		exporters: export.NewRegistry(),
		loaders:   schema.NewLoaderRegistry(),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	custom, err := checks.NormalizeCustomChecks(s.rawCustom)
	if err != nil {
		return nil, err
	}
	s.custom = custom

	resolved, err := s.resolveSchema(schemaSrc)
	if err != nil {
		return nil, err
	}
	s.Schema = resolved

	if err := schema.Normalize(s.Schema, data.Columns(), s.Log); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Session) resolveSchema(src any) (*schema.Schema, error) {
	switch t := src.(type) {
	case *schema.Schema:
		return t, nil
	case string:
		return s.loaders.Load(t, "")
	case map[string]any:
		return schema.FromMap(t)
	default:
		return nil, &types.SchemaShapeError{Reason: "schema must be a file path or a schema mapping"}
	}
}

// Validate runs the full check pipeline and post-processes the log. Data
// problems never surface as errors here; only constraint-shape and internal
// bugs do.
func (s *Session) Validate() error {
	if err := s.checkColumnNames(); err != nil {
		return err
	}
	if err := s.checkColumnContents(); err != nil {
		return err
	}
	if err := s.checkDuplicates(); err != nil {
		return err
	}
	if err := s.checkCompleteness(); err != nil {
		return err
	}

	s.Log.HumanizeDescriptions()
	names := make([]string, len(s.custom))
	for i, c := range s.custom {
		names[i] = c.Name
	}
	s.Log.FoldCustomChecks(names)
	return nil
}

func (s *Session) checkColumnContents() error {
	set, err := checks.Compile(s.Schema, s.custom)
	if err != nil {
		return err
	}

	report, err := backend.Run(set, s.data)
	if err != nil {
		return err
	}

	for _, rc := range reconcile(set, report) {
		desc := fmt.Sprintf("Checking %s %s", rc.Column, rc.CheckID)
		if err := s.Log.Add(desc, rc.FailingIDs, len(rc.FailingIDs) == 0, types.SeverityError); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) checkDuplicates() error {
	if !s.Schema.CheckDuplicates {
		return nil
	}
	dupes := s.ops.DetectDuplicates(s.data)
	ids := make([]any, len(dupes))
	for i, d := range dupes {
		ids[i] = d
	}
	return s.Log.Add("Checking for duplicate rows in the dataframe", ids, len(ids) == 0, types.SeverityError)
}

func (s *Session) checkCompleteness() error {
	if !s.Schema.CheckCompleteness {
		return nil
	}
	cols := s.Schema.CompletenessColumns
	if len(cols) == 0 {
		cols = s.data.Columns()
	}
	// columns the dataset lacks are already surfaced by the structural
	// checks; the combination count only covers what is actually present
	present := make([]string, 0, len(cols))
	for _, col := range cols {
		if s.data.HasColumn(col) {
			present = append(present, col)
		}
	}
	cols = present
	missing := s.ops.MissingCombinations(s.data, cols)

	shown := cols
	if len(shown) > 4 {
		shown = append(append([]string{}, shown[:4]...), "...")
	}
	desc := fmt.Sprintf("Checking for missing rows in the dataframe columns: %s", strings.Join(shown, ", "))
	return s.Log.Add(desc, nil, missing == 0, types.SeverityError)
}

// Export persists the log through the exporter registry and returns the
// confirmation string.
func (s *Session) Export() (string, error) {
	return s.exporters.Export(s.Log, s.format, s.file)
}

// Enforce applies the hard-check policy to the finished log. Warnings are
// always surfaced through the logger; in hard-check mode a non-zero count
// of failing error-severity entries becomes a HardCheckError. The log has
// already been exported by the time this runs.
func (s *Session) Enforce() error {
	errorCount, warningCount := 0, 0
	for _, e := range s.Log.Entries {
		if e.Outcome != types.OutcomeFail {
			continue
		}
		switch e.Severity {
		case types.SeverityError:
			errorCount++
		case types.SeverityWarning:
			warningCount++
		}
	}

	if warningCount > 0 {
		s.logger.Warn("soft checks failed, see log output for more details", "warnings", warningCount)
	}
	if errorCount > 0 {
		if s.hardCheck {
			return &types.HardCheckError{ErrorCount: errorCount}
		}
		s.logger.Warn("soft checks failed, see log output for more details", "errors", errorCount)
	}
	return nil
}

// CheckAndExport constructs a session, runs validation, exports the log and
// applies the policy enforcer. The session is returned alongside any
// hard-check failure so the log stays introspectable.
func CheckAndExport(schemaSrc any, data *dataset.Dataset, file, format string, opts ...Option) (*Session, error) {
	s, err := New(schemaSrc, data, file, format, opts...)
	if err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return s, err
	}
	if _, err := s.Export(); err != nil {
		return s, err
	}
	return s, s.Enforce()
}
