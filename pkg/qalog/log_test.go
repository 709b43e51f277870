package qalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dqtools/datachecker/pkg/types"
)

func newTestLog() *Log {
	l := New("0.0.0-test")
	l.now = func() time.Time {
		return time.Date(2024, 5, 17, 9, 30, 0, 0, time.UTC)
	}
	return l
}

func TestNewFillsMetadata(t *testing.T) {
	l := New("1.2.3")

	assert.Equal(t, "1.2.3", l.Meta.DatacheckerVersion)
	assert.NotEmpty(t, l.Meta.Date)
	assert.NotEmpty(t, l.Meta.DevicePlatform)
	assert.NotEmpty(t, l.Meta.Architecture)
	assert.NotEmpty(t, l.Meta.GoVersion)
	assert.Empty(t, l.Entries)
}

func TestAddNormalizesOutcome(t *testing.T) {
	l := newTestLog()

	require.NoError(t, l.Add("Checking column names", nil, true, types.SeverityError))
	require.NoError(t, l.Add("Checking column names are lowercase", []any{"ID"}, false, types.SeverityWarning))

	require.Len(t, l.Entries, 2)
	assert.Equal(t, types.OutcomePass, l.Entries[0].Outcome)
	assert.Equal(t, types.OutcomeFail, l.Entries[1].Outcome)
	assert.Equal(t, "09:30:00", l.Entries[0].Timestamp)
}

func TestAddNilIDsBecomeEmptyList(t *testing.T) {
	l := newTestLog()

	require.NoError(t, l.Add("Checking mandatory columns are present", nil, true, types.SeverityError))

	e := l.Entries[0]
	require.NotNil(t, e.FailingIDs)
	assert.Empty(t, e.FailingIDs)
	assert.Equal(t, 0, e.NumberFailing)
}

func TestAddTruncatesFailingIDs(t *testing.T) {
	l := newTestLog()

	ids := make([]any, 16)
	for i := range ids {
		ids[i] = i
	}
	require.NoError(t, l.Add("Checking id greater than or equal to 1", ids, false, types.SeverityError))

	e := l.Entries[0]
	require.Len(t, e.FailingIDs, TruncationLimit+1)
	assert.Equal(t, TruncationMarker, e.FailingIDs[TruncationLimit])
	assert.Equal(t, 0, e.FailingIDs[0])
	assert.Equal(t, 9, e.FailingIDs[TruncationLimit-1])
	assert.Equal(t, 16, e.NumberFailing)
}

func TestAddKeepsShortIDListIntact(t *testing.T) {
	l := newTestLog()

	ids := []any{1, 2, 3}
	require.NoError(t, l.Add("Checking id not_nullable", ids, false, types.SeverityError))

	e := l.Entries[0]
	assert.Equal(t, ids, e.FailingIDs)
	assert.Equal(t, 3, e.NumberFailing)
}

func TestAddRejectsUnknownSeverity(t *testing.T) {
	l := newTestLog()

	err := l.Add("Checking column names", nil, true, types.Severity("fatal"))

	require.Error(t, err)
	var sevErr *types.InvalidSeverityError
	require.ErrorAs(t, err, &sevErr)
	assert.Equal(t, "entry severity must be 'info', 'error', or 'warning', got 'fatal'", err.Error())
	assert.Empty(t, l.Entries)
}

func TestRecordsPutMetadataFirst(t *testing.T) {
	l := newTestLog()
	require.NoError(t, l.Add("Checking column names", nil, true, types.SeverityError))
	require.NoError(t, l.Add("Checking for unexpected columns", []any{"extra"}, false, types.SeverityWarning))

	records := l.Records()

	require.Len(t, records, 3)
	meta, ok := records[0].(types.Metadata)
	require.True(t, ok, "record 0 must be the metadata record")
	assert.Equal(t, "0.0.0-test", meta.DatacheckerVersion)
	_, ok = records[1].(*types.Entry)
	assert.True(t, ok)
}

func TestStringRendersEntries(t *testing.T) {
	l := newTestLog()
	require.NoError(t, l.Add("Checking column names", []any{"bad col"}, false, types.SeverityError))

	out := l.String()

	assert.Contains(t, out, "datachecker_version: 0.0.0-test")
	assert.Contains(t, out, "Checking column names")
	assert.Contains(t, out, "ERROR")
	assert.Contains(t, out, "bad col")
}
