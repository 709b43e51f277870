package checks

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dqtools/datachecker/pkg/types"
)

func greaterOrEqual(bound float64) Check {
	return Check{
		ID: fmt.Sprintf("greater_than_or_equal_to(%s)", formatNumber(bound)),
		Fn: func(v any) bool {
			f, ok := asFloat(v)
			return ok && f >= bound
		},
	}
}

func lessOrEqual(bound float64) Check {
	return Check{
		ID: fmt.Sprintf("less_than_or_equal_to(%s)", formatNumber(bound)),
		Fn: func(v any) bool {
			f, ok := asFloat(v)
			return ok && f <= bound
		},
	}
}

func strLength(minLen, maxLen *int) Check {
	id := fmt.Sprintf("str_length(%s, %s)", lengthBound(minLen), lengthBound(maxLen))
	return Check{
		ID: id,
		Fn: func(v any) bool {
			s, ok := v.(string)
			if !ok {
				return false
			}
			if minLen != nil && len(s) < *minLen {
				return false
			}
			if maxLen != nil && len(s) > *maxLen {
				return false
			}
			return true
		},
	}
}

func lengthBound(n *int) string {
	if n == nil {
		return "None"
	}
	return strconv.Itoa(*n)
}

// allowedStrings compiles to a set-membership check for a list value and a
// pattern-match check for a string value. Anything else is a constraint
// shape error.
func allowedStrings(col string, value any) (Check, error) {
	switch t := value.(type) {
	case string:
		return strMatches(col, t)
	case []any:
		return isin(t), nil
	case []string:
		generic := make([]any, len(t))
		for i, s := range t {
			generic[i] = s
		}
		return isin(generic), nil
	default:
		return Check{}, &types.ConstraintTypeError{
			Column: col, Key: "allowed_strings",
			Reason: "allowed_strings value must be a list or string",
		}
	}
}

func forbiddenStrings(col string, value any) (Check, error) {
	switch t := value.(type) {
	case []any:
		return notin(t), nil
	case []string:
		generic := make([]any, len(t))
		for i, s := range t {
			generic[i] = s
		}
		return notin(generic), nil
	case string:
		return Check{}, &types.ConstraintTypeError{
			Column: col, Key: "forbidden_strings",
			Reason: "String patterns are not supported for forbidden_strings, " +
				"please use either a list or a regex pattern in allowed_strings.",
		}
	default:
		return Check{}, &types.ConstraintTypeError{
			Column: col, Key: "forbidden_strings",
			Reason: "forbidden_strings value must be a list or string",
		}
	}
}

func isin(values []any) Check {
	members := literalSet(values)
	return Check{
		ID: fmt.Sprintf("isin(%s)", reprList(values)),
		Fn: func(v any) bool { return members[literalKey(v)] },
	}
}

func notin(values []any) Check {
	members := literalSet(values)
	return Check{
		ID: fmt.Sprintf("notin(%s)", reprList(values)),
		Fn: func(v any) bool { return !members[literalKey(v)] },
	}
}

func literalSet(values []any) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[literalKey(v)] = true
	}
	return set
}

func literalKey(v any) string {
	if f, ok := asFloat(v); ok {
		return formatNumber(f)
	}
	return fmt.Sprintf("%v", v)
}

func strMatches(col, pattern string) (Check, error) {
	// matches from the start of the value, like the backend's pattern check
	anchored := pattern
	if !strings.HasPrefix(anchored, "^") {
		anchored = "^(?:" + anchored + ")"
	}
	re, err := regexp.Compile(anchored)
	if err != nil {
		return Check{}, &types.ConstraintTypeError{
			Column: col, Key: "allowed_strings",
			Reason: fmt.Sprintf("invalid pattern '%s': %v", pattern, err),
		}
	}
	return Check{
		ID: fmt.Sprintf("str_matches('%s')", pattern),
		Fn: func(v any) bool {
			s, ok := v.(string)
			return ok && re.MatchString(s)
		},
	}, nil
}

// minDecimal and maxDecimal bound the fractional digit count of float cells.
// Non-float cells vacuously satisfy the bound; this mirrors the documented
// policy that values failing float isolation are not precision violations.
func minDecimal(n int) Check {
	return Check{
		ID: fmt.Sprintf("has at least %d decimal places", n),
		Fn: func(v any) bool {
			f, ok := v.(float64)
			if !ok {
				return true
			}
			return decimalDigits(f) >= n
		},
	}
}

func maxDecimal(n int) Check {
	return Check{
		ID: fmt.Sprintf("has at most %d decimal places", n),
		Fn: func(v any) bool {
			f, ok := v.(float64)
			if !ok {
				return true
			}
			return decimalDigits(f) <= n
		},
	}
}

// decimalDigits counts fractional digits of the shortest decimal rendering.
// Whole floats count as one digit, matching the "x.0" rendering the check
// identifiers are written against.
func decimalDigits(f float64) int {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	dot := strings.IndexByte(s, '.')
	if dot < 0 {
		return 1
	}
	return len(s) - dot - 1
}

const dateBoundFormat = "2006-01-02 15:04:05"

func afterOrEqual(bound time.Time) Check {
	return Check{
		ID: fmt.Sprintf("greater_than_or_equal_to(%s)", bound.Format(dateBoundFormat)),
		Fn: func(v any) bool {
			t, ok := asTime(v)
			return ok && !t.Before(bound)
		},
	}
}

func beforeOrEqual(bound time.Time) Check {
	return Check{
		ID: fmt.Sprintf("less_than_or_equal_to(%s)", bound.Format(dateBoundFormat)),
		Fn: func(v any) bool {
			t, ok := asTime(v)
			return ok && !t.After(bound)
		},
	}
}

func asFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case float64:
		return t, true
	case float32:
		return float64(t), true
	}
	return 0, false
}

func asTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		for _, layout := range dateBoundLayouts {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed, true
			}
		}
	}
	return time.Time{}, false
}
