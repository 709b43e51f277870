package qalog

import "regexp"

// humanizeRule rewrites one backend check-identifier shape into readable
// English. Rules are ordered most-specific first and are idempotent: a
// description already rewritten matches no later pattern.
type humanizeRule struct {
	pattern *regexp.Regexp
	repl    string
}

var humanizeRules = []humanizeRule{
	{regexp.MustCompile(`str_length\(\s*(\d+(?:\.\d+)?)\s*,\s*None\s*\)`), "string length greater than or equal to ${1}"},
	{regexp.MustCompile(`str_length\(\s*(\d+(?:\.\d+)?)\s*,\s*(\d+(?:\.\d+)?)\s*\)`), "string length between ${1} and ${2}"},
	{regexp.MustCompile(`str_length\(\s*None\s*,\s*(\d+(?:\.\d+)?)\s*\)`), "string length less than or equal to ${1}"},
	{regexp.MustCompile(`dtype\('(\S+)'\)`), "is data type ${1}"},
	{regexp.MustCompile(`isin\(\s*\[([^\]]+)\]\s*\)`), "contains only [${1}]"},
	{regexp.MustCompile(`str_matches\(\s*r?['"](.*?)['"]\s*\)`), "string matches pattern '${1}'"},
	{regexp.MustCompile(`greater_than_or_equal_to\(\s*(\d+(?:\.\d+)?)\s*\)`), "greater than or equal to ${1}"},
	{regexp.MustCompile(`less_than_or_equal_to\(\s*(\d+(?:\.\d+)?)\s*\)`), "less than or equal to ${1}"},
	{regexp.MustCompile(`less_than_or_equal_to\(\s*(\S{10}\s+\S{8})\s*\)`), "before or equal to ${1}"},
	{regexp.MustCompile(`greater_than_or_equal_to\(\s*(\S{10}\s+\S{8})\s*\)`), "after or equal to ${1}"},
}

// HumanizeDescriptions rewrites every entry's description through the
// ordered rule table. Must run before export; running it twice is a no-op.
func (l *Log) HumanizeDescriptions() {
	for _, e := range l.Entries {
		desc := e.Description
		for _, rule := range humanizeRules {
			desc = rule.pattern.ReplaceAllString(desc, rule.repl)
		}
		e.Description = desc
	}
}
