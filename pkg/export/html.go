package export

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/dqtools/datachecker/pkg/qalog"
	"github.com/dqtools/datachecker/pkg/types"
)

const htmlTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>QA log: {{.Name}}</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; }
th, td { border: 1px solid #ccc; padding: 0.4em 0.8em; text-align: left; }
th { background: #f2f2f2; }
tr.fail { background: #fdecea; }
dl { display: grid; grid-template-columns: max-content auto; gap: 0.2em 1em; }
dt { font-weight: bold; }
</style>
</head>
<body>
<h1>QA log: {{.Name}}</h1>
<dl>
<dt>date</dt><dd>{{.Meta.Date}}</dd>
<dt>user</dt><dd>{{.Meta.User}}</dd>
<dt>device</dt><dd>{{.Meta.Device}}</dd>
<dt>device_platform</dt><dd>{{.Meta.DevicePlatform}}</dd>
<dt>architecture</dt><dd>{{.Meta.Architecture}}</dd>
<dt>go_version</dt><dd>{{.Meta.GoVersion}}</dd>
<dt>datachecker_version</dt><dd>{{.Meta.DatacheckerVersion}}</dd>
</dl>
<table>
<tr>{{range .Columns}}<th>{{.}}</th>{{end}}</tr>
{{range .Rows}}<tr{{if .Fail}} class="fail"{{end}}>{{range .Cells}}<td>{{.}}</td>{{end}}</tr>
{{end}}</table>
</body>
</html>
`

type htmlRow struct {
	Cells []string
	Fail  bool
}

// HTML renders the log through the embedded template, substituting
// iconographic markers for the pass/fail tokens.
func HTML(log *qalog.Log, file string) (string, error) {
	tmpl, err := template.New("qalog").Parse(htmlTemplate)
	if err != nil {
		return "", errors.Wrap(err, "failed to parse HTML template")
	}

	rows := make([]htmlRow, 0, len(log.Entries))
	for _, e := range log.Entries {
		rows = append(rows, htmlRow{
			Cells: []string{
				e.Timestamp,
				e.Description,
				markOutcome(e.Outcome),
				joinIDs(e.FailingIDs),
				fmt.Sprintf("%d", e.NumberFailing),
				string(e.Severity),
			},
			Fail: e.Outcome == types.OutcomeFail,
		})
	}

	name := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	f, err := os.Create(file)
	if err != nil {
		return "", errors.Wrapf(err, "failed to write %s", file)
	}
	defer f.Close()

	data := struct {
		Name    string
		Meta    types.Metadata
		Columns []string
		Rows    []htmlRow
	}{
		Name:    name,
		Meta:    log.Meta,
		Columns: []string{"timestamp", "description", "outcome", "failing_ids", "number_failing", "status"},
		Rows:    rows,
	}
	if err := tmpl.Execute(f, data); err != nil {
		return "", errors.Wrapf(err, "failed to render %s", file)
	}
	return confirmation(file), nil
}

func markOutcome(o types.Outcome) string {
	switch o {
	case types.OutcomePass:
		return "✅ pass"
	case types.OutcomeFail:
		return "❌ fail"
	}
	return string(o)
}
