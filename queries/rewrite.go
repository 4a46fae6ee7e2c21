// Package queries turns Grafana dashboard definitions into ClickHouse
// statements that can be executed for verification.
package queries

import (
	"regexp"
	"strings"
)

// VarDefaults maps known template variable names to representative test
// values. Lookups for unknown names fall back to "test".
var VarDefaults = map[string]string{
	"signature":      "testsig123",
	"host":           "test-host",
	"staked":         "true",
	"leader":         "testleader",
	"is_relayed":     "false",
	"is_recent_slot": "true",
	"api_key":        "testkey",
	"failed":         "false",
	"priority":       "0",
	"interval":       "1m",
	"result_limit":   "50",
	"protocol":       "rpc",
	"is_retry":       "false",
	"dropped":        "false",
	"env":            "prod",
	"identity":       "testident",
	"slot":           "12345",
	"datasource":     "",
}

var (
	reTimeFilter   = regexp.MustCompile(`\$__timeFilter\((\w+(?:\.\w+)?)\)`)
	reTimeInterval = regexp.MustCompile(`\$__timeInterval\((\w+(?:\.\w+)?)\)`)
	reFromTime     = regexp.MustCompile(`\$__fromTime`)
	reToTime       = regexp.MustCompile(`\$__toTime`)
	reIntervalS    = regexp.MustCompile(`\$__interval_s`)
	reInterval     = regexp.MustCompile(`\$__interval\b`)
	reRegexVar     = regexp.MustCompile(`\$\{\w+:regex\}`)
	reBracedVar    = regexp.MustCompile(`\$\{(\w+)(?::[^}]+)?\}`)
	// First character class excludes underscores so $__ macros never get
	// treated as a bare variable.
	reBareVar = regexp.MustCompile(`\$([0-9A-Za-z]\w*)`)
)

// RewriteForClickHouse replaces Grafana macros and template variables in sql
// with fixed test values so the result parses on a ClickHouse server. The
// passes are order dependent: macros before placeholders, and the ${name:regex}
// form before the general ${name} form. Unless the query already limits its
// result set, a LIMIT 1 is appended so verification never scans real data.
func RewriteForClickHouse(sql string) string {
	s := sql
	s = reTimeFilter.ReplaceAllString(s, "${1} >= now() - INTERVAL 5 MINUTE")
	s = reTimeInterval.ReplaceAllString(s, "toStartOfMinute(${1})")
	s = reFromTime.ReplaceAllString(s, "toDateTime('2026-01-01 00:00:00')")
	s = reToTime.ReplaceAllString(s, "toDateTime('2026-01-02 00:00:00')")
	s = reIntervalS.ReplaceAllString(s, "60")
	s = reInterval.ReplaceAllString(s, "60")

	s = reRegexVar.ReplaceAllString(s, ".*")
	s = reBracedVar.ReplaceAllStringFunc(s, func(m string) string {
		return defaultFor(reBracedVar.FindStringSubmatch(m)[1])
	})
	s = reBareVar.ReplaceAllStringFunc(s, func(m string) string {
		return defaultFor(m[1:])
	})

	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, ";")
	s = strings.TrimSpace(s)
	if !strings.Contains(strings.ToUpper(s), "LIMIT") {
		s += " LIMIT 1"
	}
	return s
}

func defaultFor(name string) string {
	if v, ok := VarDefaults[name]; ok {
		return v
	}
	return "test"
}
