package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dqtools/datachecker/pkg/qalog"
	"github.com/dqtools/datachecker/pkg/types"
)

func sampleLog(t *testing.T) *qalog.Log {
	t.Helper()
	l := qalog.New("0.0.0-test")
	require.NoError(t, l.Add("Checking column names", nil, true, types.SeverityError))
	require.NoError(t, l.Add("Checking id greater than or equal to 1", []any{0, 2}, false, types.SeverityError))
	return l
}

func TestJSONExport(t *testing.T) {
	l := sampleLog(t)
	file := filepath.Join(t.TempDir(), "qa_log.json")

	msg, err := JSON(l, file)

	require.NoError(t, err)
	assert.Equal(t, file+" exported", msg)

	data, err := os.ReadFile(file)
	require.NoError(t, err)

	var payload struct {
		ValidationLog []map[string]any `json:"validation_log"`
	}
	require.NoError(t, json.Unmarshal(data, &payload))
	require.Len(t, payload.ValidationLog, 3)

	meta := payload.ValidationLog[0]
	assert.Equal(t, "0.0.0-test", meta["datachecker_version"])

	failing := payload.ValidationLog[2]
	assert.Equal(t, "fail", failing["outcome"])
	assert.Equal(t, "error", failing["status"])
	assert.Equal(t, float64(2), failing["number_failing"])
}

func TestYAMLExport(t *testing.T) {
	l := sampleLog(t)
	file := filepath.Join(t.TempDir(), "qa_log.yaml")

	_, err := YAML(l, file)

	require.NoError(t, err)
	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), "datachecker_version: 0.0.0-test")
	assert.Contains(t, string(data), "description: Checking column names")
	assert.Contains(t, string(data), "status: error")
}

func TestCSVExport(t *testing.T) {
	l := sampleLog(t)
	file := filepath.Join(t.TempDir(), "qa_log.csv")

	_, err := CSV(l, file)

	require.NoError(t, err)
	f, err := os.Open(file)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)

	assert.Equal(t, []string{"timestamp", "description", "outcome", "failing_ids", "number_failing", "status"}, records[0])
	assert.Contains(t, records[1][1], `"datachecker_version":"0.0.0-test"`)
	assert.Equal(t, "0, 2", records[3][3])
	assert.Equal(t, "2", records[3][4])
}

func TestTXTExport(t *testing.T) {
	l := sampleLog(t)
	file := filepath.Join(t.TempDir(), "qa_log.txt")

	_, err := TXT(l, file)

	require.NoError(t, err)
	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"datachecker_version": "0.0.0-test"`)
	assert.Contains(t, string(data), `"description": "Checking column names"`)
}

func TestHTMLExport(t *testing.T) {
	l := sampleLog(t)
	file := filepath.Join(t.TempDir(), "qa_log.html")

	_, err := HTML(l, file)

	require.NoError(t, err)
	data, err := os.ReadFile(file)
	require.NoError(t, err)
	html := string(data)

	assert.Contains(t, html, "<title>QA log: qa_log</title>")
	assert.Contains(t, html, "✅ pass")
	assert.Contains(t, html, "❌ fail")
	assert.Contains(t, html, `<tr class="fail">`)
	assert.Contains(t, html, "0.0.0-test")
}

func TestRegistryRejectsUnknownFormat(t *testing.T) {
	l := sampleLog(t)
	r := NewRegistry()

	_, err := r.Export(l, "xml", filepath.Join(t.TempDir(), "qa_log.xml"))

	var fmtErr *types.UnsupportedFormatError
	require.ErrorAs(t, err, &fmtErr)
	assert.Equal(t, "format 'xml' is not supported", err.Error())
}

func TestRegistryCustomExporter(t *testing.T) {
	l := sampleLog(t)
	r := NewRegistry()
	r.Register("null", func(log *qalog.Log, file string) (string, error) {
		return "discarded", nil
	})

	msg, err := r.Export(l, "null", "ignored")

	require.NoError(t, err)
	assert.Equal(t, "discarded", msg)
}

func TestJSONExportBadPath(t *testing.T) {
	l := sampleLog(t)

	_, err := JSON(l, filepath.Join(t.TempDir(), "missing", "qa_log.json"))

	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "failed to write"))
}
