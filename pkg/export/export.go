// Package export persists a finished QA log in one of the registered output
// formats.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/dqtools/datachecker/pkg/qalog"
	"github.com/dqtools/datachecker/pkg/types"
)

// ExportFunc writes the log to the destination file and returns a
// confirmation string.
type ExportFunc func(log *qalog.Log, file string) (string, error)

// Registry maps format keys to exporters. Like the schema loader registry it
// is populated explicitly at construction.
type Registry struct {
	formats map[string]ExportFunc
}

// NewRegistry returns a registry with the built-in json, yaml, csv, txt and
// html exporters.
func NewRegistry() *Registry {
	r := &Registry{formats: map[string]ExportFunc{}}
	for _, p := range []struct {
		format string
		fn     ExportFunc
	}{
		{"json", JSON},
		{"yaml", YAML},
		{"csv", CSV},
		{"txt", TXT},
		{"html", HTML},
	} {
		r.formats[p.format] = p.fn
	}
	return r
}

// Register adds or replaces the exporter for a format key.
func (r *Registry) Register(format string, fn ExportFunc) {
	r.formats[format] = fn
}

// Export writes the log using the exporter registered for format.
func (r *Registry) Export(log *qalog.Log, format, file string) (string, error) {
	fn, ok := r.formats[format]
	if !ok {
		return "", &types.UnsupportedFormatError{Format: format}
	}
	return fn(log, file)
}

func confirmation(file string) string {
	return fmt.Sprintf("%s exported", file)
}

// JSON writes the log as {"validation_log": [...]} with the metadata record
// first.
func JSON(log *qalog.Log, file string) (string, error) {
	payload := map[string]any{"validation_log": log.Records()}
	data, err := json.MarshalIndent(payload, "", "    ")
	if err != nil {
		return "", errors.Wrap(err, "failed to encode validation log")
	}
	if err := os.WriteFile(file, data, 0o644); err != nil {
		return "", errors.Wrapf(err, "failed to write %s", file)
	}
	return confirmation(file), nil
}

// YAML writes the log records as a YAML sequence.
func YAML(log *qalog.Log, file string) (string, error) {
	data, err := yaml.Marshal(log.Records())
	if err != nil {
		return "", errors.Wrap(err, "failed to encode validation log")
	}
	if err := os.WriteFile(file, data, 0o644); err != nil {
		return "", errors.Wrapf(err, "failed to write %s", file)
	}
	return confirmation(file), nil
}

// CSV writes one row per entry. The metadata record occupies the first data
// row, rendered into the description cell.
func CSV(log *qalog.Log, file string) (string, error) {
	f, err := os.Create(file)
	if err != nil {
		return "", errors.Wrapf(err, "failed to write %s", file)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"timestamp", "description", "outcome", "failing_ids", "number_failing", "status"}); err != nil {
		return "", errors.Wrap(err, "failed to write CSV header")
	}

	meta, err := json.Marshal(log.Meta)
	if err != nil {
		return "", errors.Wrap(err, "failed to encode metadata record")
	}
	if err := w.Write([]string{"", string(meta), "", "", "", ""}); err != nil {
		return "", errors.Wrap(err, "failed to write metadata row")
	}

	for _, e := range log.Entries {
		if err := w.Write([]string{
			e.Timestamp,
			e.Description,
			string(e.Outcome),
			joinIDs(e.FailingIDs),
			fmt.Sprintf("%d", e.NumberFailing),
			string(e.Severity),
		}); err != nil {
			return "", errors.Wrap(err, "failed to write entry row")
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", errors.Wrapf(err, "failed to write %s", file)
	}
	return confirmation(file), nil
}

// TXT writes each record as an indented JSON block, one per line group.
func TXT(log *qalog.Log, file string) (string, error) {
	f, err := os.Create(file)
	if err != nil {
		return "", errors.Wrapf(err, "failed to write %s", file)
	}
	defer f.Close()

	for _, record := range log.Records() {
		data, err := json.MarshalIndent(record, "", "    ")
		if err != nil {
			return "", errors.Wrap(err, "failed to encode record")
		}
		if _, err := fmt.Fprintf(f, "%s\n", data); err != nil {
			return "", errors.Wrapf(err, "failed to write %s", file)
		}
	}
	return confirmation(file), nil
}

func joinIDs(ids []any) string {
	out := ""
	for i, id := range ids {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("%v", id)
	}
	return out
}
