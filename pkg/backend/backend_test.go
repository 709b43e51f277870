package backend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dqtools/datachecker/pkg/checks"
	"github.com/dqtools/datachecker/pkg/dataset"
	"github.com/dqtools/datachecker/pkg/schema"
)

func compileSet(t *testing.T, s *schema.Schema, custom []checks.CustomCheck) *checks.Set {
	t.Helper()
	set, err := checks.Compile(s, custom)
	require.NoError(t, err)
	return set
}

func idBoundsSchema() *schema.Schema {
	return &schema.Schema{
		ColumnOrder: []string{"id"},
		Columns: map[string]schema.Constraints{
			"id": {"type": "int", "min_val": 1, "max_val": 100, "allow_na": false, "optional": false},
		},
	}
}

func TestRunReportsBoundViolations(t *testing.T) {
	set := compileSet(t, idBoundsSchema(), nil)
	ds := dataset.MustNew([]string{"id"}, map[string][]any{
		"id": {int64(-10), int64(50), int64(101)},
	})

	report, err := Run(set, ds)

	require.NoError(t, err)
	require.NotNil(t, report)
	require.Len(t, report.Rows, 2)
	assert.Equal(t, FailureRow{"id", "greater_than_or_equal_to(1)", int64(-10), 0}, report.Rows[0])
	assert.Equal(t, FailureRow{"id", "less_than_or_equal_to(100)", int64(101), 2}, report.Rows[1])
}

func TestRunCleanDatasetYieldsNilReport(t *testing.T) {
	set := compileSet(t, idBoundsSchema(), nil)
	ds := dataset.MustNew([]string{"id"}, map[string][]any{
		"id": {int64(1), int64(50), int64(100)},
	})

	report, err := Run(set, ds)

	require.NoError(t, err)
	assert.Nil(t, report)
}

func TestRunReportsDtypeMismatches(t *testing.T) {
	set := compileSet(t, idBoundsSchema(), nil)
	ds := dataset.MustNew([]string{"id"}, map[string][]any{
		"id": {int64(1), "two", int64(3)},
	})

	report, err := Run(set, ds)

	require.NoError(t, err)
	require.NotNil(t, report)

	var dtypeRows []FailureRow
	for _, row := range report.Rows {
		if row.CheckID == DtypeCheckID(schema.TypeInt) {
			dtypeRows = append(dtypeRows, row)
		}
	}
	require.Len(t, dtypeRows, 1)
	assert.Equal(t, "two", dtypeRows[0].FailingValue)
	assert.Equal(t, 1, dtypeRows[0].RowID)
}

func TestRunReportsNullabilityViolations(t *testing.T) {
	set := compileSet(t, idBoundsSchema(), nil)
	ds := dataset.MustNew([]string{"id"}, map[string][]any{
		"id": {int64(1), nil, int64(3)},
	})

	report, err := Run(set, ds)

	require.NoError(t, err)
	require.NotNil(t, report)

	var nullRows []FailureRow
	for _, row := range report.Rows {
		if row.CheckID == CheckNotNullable {
			nullRows = append(nullRows, row)
		}
	}
	require.Len(t, nullRows, 1)
	assert.Equal(t, 1, nullRows[0].RowID)
	assert.Nil(t, nullRows[0].FailingValue)
}

func TestRunNilCellsSkipValueChecks(t *testing.T) {
	s := &schema.Schema{
		ColumnOrder: []string{"id"},
		Columns: map[string]schema.Constraints{
			"id": {"type": "int", "min_val": 1, "allow_na": true, "optional": false},
		},
	}
	set := compileSet(t, s, nil)
	ds := dataset.MustNew([]string{"id"}, map[string][]any{
		"id": {nil, int64(5)},
	})

	report, err := Run(set, ds)

	require.NoError(t, err)
	assert.Nil(t, report, "nullable nil cells must not trip value checks")
}

func TestRunSkipsColumnsAbsentFromDataset(t *testing.T) {
	s := &schema.Schema{
		ColumnOrder: []string{"id", "ghost"},
		Columns: map[string]schema.Constraints{
			"id":    {"type": "int", "allow_na": false, "optional": false},
			"ghost": {"type": "str", "min_length": 3, "allow_na": false, "optional": false},
		},
	}
	set := compileSet(t, s, nil)
	ds := dataset.MustNew([]string{"id"}, map[string][]any{
		"id": {int64(1)},
	})

	report, err := Run(set, ds)

	require.NoError(t, err)
	assert.Nil(t, report)
}

func TestRunFlagsDatasetColumnsOutsideSchema(t *testing.T) {
	set := compileSet(t, idBoundsSchema(), nil)
	ds := dataset.MustNew([]string{"id", "extra"}, map[string][]any{
		"id":    {int64(1)},
		"extra": {"x"},
	})

	report, err := Run(set, ds)

	require.NoError(t, err)
	require.NotNil(t, report)
	require.Len(t, report.Rows, 1)
	assert.Equal(t, FailureRow{"extra", CheckColumnInSchema, "extra", -1}, report.Rows[0])
}

func TestRunEvaluatesCustomChecksPerColumn(t *testing.T) {
	s := &schema.Schema{
		ColumnOrder: []string{"age", "income"},
		Columns: map[string]schema.Constraints{
			"age":    {"type": "int", "allow_na": false, "optional": false},
			"income": {"type": "float", "allow_na": false, "optional": false},
		},
	}
	custom := []checks.CustomCheck{{
		Name: "adult_income_check",
		Fn: func(row map[string]any) bool {
			age, _ := row["age"].(int64)
			income, _ := row["income"].(float64)
			return age >= 18 || income == 0
		},
	}}
	set := compileSet(t, s, custom)
	ds := dataset.MustNew([]string{"age", "income"}, map[string][]any{
		"age":    {int64(30), int64(12)},
		"income": {1000.0, 500.0},
	})

	report, err := Run(set, ds)

	require.NoError(t, err)
	require.NotNil(t, report)

	var customRows []FailureRow
	for _, row := range report.Rows {
		if row.CheckID == "adult_income_check" {
			customRows = append(customRows, row)
		}
	}
	require.Len(t, customRows, 2, "one failure row per schema column")
	assert.Equal(t, "age", customRows[0].Column)
	assert.Equal(t, 1, customRows[0].RowID)
	assert.Equal(t, "income", customRows[1].Column)
	assert.Equal(t, 1, customRows[1].RowID)
}

func TestDtypeCheckID(t *testing.T) {
	assert.Equal(t, "dtype('int')", DtypeCheckID("int"))
	assert.Equal(t, "dtype('datetime')", DtypeCheckID("datetime"))
}

func TestCellMatchesType(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		colType string
		want    bool
	}{
		{"int64 as int", int64(3), schema.TypeInt, true},
		{"string as int", "3", schema.TypeInt, false},
		{"int64 widens to float", int64(3), schema.TypeFloat, true},
		{"float64 as float", 3.5, schema.TypeFloat, true},
		{"float64 as int", 3.5, schema.TypeInt, false},
		{"bool as bool", true, schema.TypeBool, true},
		{"string as str", "x", schema.TypeString, true},
		{"unknown type tag fails", "x", "decimal128", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cellMatchesType(tt.value, tt.colType))
		})
	}
}
