package validator

import (
	"unicode"

	"github.com/dqtools/datachecker/pkg/types"
)

// checkColumnNames runs the structural column-name checks: naming
// conventions, mandatory column presence and unexpected columns.
func (s *Session) checkColumnNames() error {
	var invalid []any
	for _, col := range s.data.Columns() {
		if !validColumnName(col) {
			invalid = append(invalid, col)
		}
	}
	if err := s.Log.Add("Checking column names", invalid, len(invalid) == 0, types.SeverityError); err != nil {
		return err
	}

	var uppercase []any
	for _, col := range s.data.Columns() {
		if hasUpper(col) {
			uppercase = append(uppercase, col)
		}
	}
	if err := s.Log.Add("Checking column names are lowercase", uppercase, len(uppercase) == 0, types.SeverityWarning); err != nil {
		return err
	}

	var missingMandatory []any
	for _, col := range s.Schema.ColumnOrder {
		if !s.Schema.Columns[col].Bool("optional") && !s.data.HasColumn(col) {
			missingMandatory = append(missingMandatory, col)
		}
	}
	if err := s.Log.Add("Checking mandatory columns are present", missingMandatory, len(missingMandatory) == 0, types.SeverityError); err != nil {
		return err
	}

	var unexpected []any
	for _, col := range s.data.Columns() {
		if _, ok := s.Schema.Columns[col]; !ok {
			unexpected = append(unexpected, col)
		}
	}
	return s.Log.Add("Checking for unexpected columns", unexpected, len(unexpected) == 0, types.SeverityWarning)
}

func validColumnName(name string) bool {
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return false
		}
	}
	return true
}

func hasUpper(name string) bool {
	for _, r := range name {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}
