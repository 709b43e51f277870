package qalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dqtools/datachecker/pkg/types"
)

func TestHumanizeDescriptions(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "min length only",
			raw:  "Checking name str_length(2, None)",
			want: "Checking name string length greater than or equal to 2",
		},
		{
			name: "length range",
			raw:  "Checking name str_length(2, 10)",
			want: "Checking name string length between 2 and 10",
		},
		{
			name: "max length only",
			raw:  "Checking name str_length(None, 10)",
			want: "Checking name string length less than or equal to 10",
		},
		{
			name: "dtype",
			raw:  "Checking id dtype('int')",
			want: "Checking id is data type int",
		},
		{
			name: "isin",
			raw:  "Checking country isin(['BR', 'PT'])",
			want: "Checking country contains only ['BR', 'PT']",
		},
		{
			name: "pattern",
			raw:  "Checking code str_matches('^[A-Z]{3}$')",
			want: "Checking code string matches pattern '^[A-Z]{3}$'",
		},
		{
			name: "numeric lower bound",
			raw:  "Checking id greater_than_or_equal_to(1)",
			want: "Checking id greater than or equal to 1",
		},
		{
			name: "numeric upper bound",
			raw:  "Checking id less_than_or_equal_to(100)",
			want: "Checking id less than or equal to 100",
		},
		{
			name: "fractional bound",
			raw:  "Checking price less_than_or_equal_to(9.99)",
			want: "Checking price less than or equal to 9.99",
		},
		{
			name: "date lower bound",
			raw:  "Checking created_at greater_than_or_equal_to(2020-01-01 00:00:00)",
			want: "Checking created_at after or equal to 2020-01-01 00:00:00",
		},
		{
			name: "date upper bound",
			raw:  "Checking created_at less_than_or_equal_to(2024-12-31 23:59:59)",
			want: "Checking created_at before or equal to 2024-12-31 23:59:59",
		},
		{
			name: "plain description untouched",
			raw:  "Checking for duplicate rows in the dataframe",
			want: "Checking for duplicate rows in the dataframe",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newTestLog()
			require.NoError(t, l.Add(tt.raw, nil, true, types.SeverityError))

			l.HumanizeDescriptions()

			assert.Equal(t, tt.want, l.Entries[0].Description)
		})
	}
}

func TestHumanizeDescriptionsIsIdempotent(t *testing.T) {
	l := newTestLog()
	raw := []string{
		"Checking id dtype('int')",
		"Checking id greater_than_or_equal_to(1)",
		"Checking name str_length(2, None)",
		"Checking country isin(['BR', 'PT'])",
	}
	for _, desc := range raw {
		require.NoError(t, l.Add(desc, nil, true, types.SeverityError))
	}

	l.HumanizeDescriptions()
	once := make([]string, len(l.Entries))
	for i, e := range l.Entries {
		once[i] = e.Description
	}

	l.HumanizeDescriptions()
	for i, e := range l.Entries {
		assert.Equal(t, once[i], e.Description)
	}
}
