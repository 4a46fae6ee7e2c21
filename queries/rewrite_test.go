package queries

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRewriteTimeFilter(t *testing.T) {
	out := RewriteForClickHouse("SELECT count() FROM logs WHERE $__timeFilter(event_time)")
	assert.Equal(t, "SELECT count() FROM logs WHERE event_time >= now() - INTERVAL 5 MINUTE LIMIT 1", out)
}

func TestRewriteTimeFilterQualifiedColumn(t *testing.T) {
	out := RewriteForClickHouse("SELECT count() FROM logs l WHERE $__timeFilter(l.ts)")
	assert.Contains(t, out, "l.ts >= now() - INTERVAL 5 MINUTE")
}

func TestRewriteTimeInterval(t *testing.T) {
	out := RewriteForClickHouse("SELECT $__timeInterval(ts) AS t, count() FROM logs GROUP BY t")
	assert.Equal(t, "SELECT toStartOfMinute(ts) AS t, count() FROM logs GROUP BY t LIMIT 1", out)
}

func TestRewriteTimeRangeMacros(t *testing.T) {
	out := RewriteForClickHouse("SELECT 1 FROM logs WHERE ts BETWEEN $__fromTime AND $__toTime")
	assert.Contains(t, out, "toDateTime('2026-01-01 00:00:00')")
	assert.Contains(t, out, "toDateTime('2026-01-02 00:00:00')")
}

func TestRewriteIntervalMacros(t *testing.T) {
	out := RewriteForClickHouse("SELECT intDiv(ts, $__interval_s), $__interval FROM logs")
	assert.Equal(t, "SELECT intDiv(ts, 60), 60 FROM logs LIMIT 1", out)
}

func TestRewriteKnownVariableAllForms(t *testing.T) {
	for name, val := range VarDefaults {
		for _, form := range []string{"${%s}", "${%s:csv}", "$%s"} {
			in := fmt.Sprintf("SELECT * FROM logs WHERE x = '"+form+"'", name)
			out := RewriteForClickHouse(in)
			assert.Contains(t, out, "x = '"+val+"'", "input: %s", in)
		}
	}
}

func TestRewriteUnknownVariableFallsBack(t *testing.T) {
	out := RewriteForClickHouse("SELECT * FROM logs WHERE x = '${no_such_var}' AND y = '$another'")
	assert.Contains(t, out, "x = 'test'")
	assert.Contains(t, out, "y = 'test'")
}

func TestRewriteRegexPlaceholder(t *testing.T) {
	out := RewriteForClickHouse("SELECT * FROM logs WHERE match(h, '${host:regex}')")
	assert.Contains(t, out, "match(h, '.*')")

	// Also for names absent from the default table.
	out = RewriteForClickHouse("SELECT * FROM logs WHERE match(h, '${no_such_var:regex}')")
	assert.Contains(t, out, "match(h, '.*')")
}

func TestRewriteLeavesMacroEscapesAlone(t *testing.T) {
	// $_-prefixed identifiers are not bare variables.
	out := RewriteForClickHouse("SELECT '$_private' FROM logs")
	assert.Equal(t, "SELECT '$_private' FROM logs LIMIT 1", out)
}

func TestRewriteTimeFilterColumnNotResubstituted(t *testing.T) {
	// "host" is in the default table; the column produced by the macro pass
	// must stay a column, not become 'test-host'.
	out := RewriteForClickHouse("SELECT count() FROM logs WHERE $__timeFilter(host)")
	assert.Contains(t, out, "host >= now()")
	assert.NotContains(t, out, "test-host")
}

func TestRewriteKeepsExistingLimit(t *testing.T) {
	for _, in := range []string{
		"SELECT * FROM logs LIMIT 50",
		"select * from logs limit 50",
	} {
		out := RewriteForClickHouse(in)
		assert.Equal(t, in, out)
	}
}

func TestRewriteLimitAppendIdempotent(t *testing.T) {
	once := RewriteForClickHouse("SELECT count() FROM logs")
	twice := RewriteForClickHouse(once)
	assert.Equal(t, once, twice)
	assert.Equal(t, 1, strings.Count(strings.ToUpper(twice), "LIMIT"))
}

func TestRewriteStripsTrailingSemicolon(t *testing.T) {
	out := RewriteForClickHouse("  SELECT 1 FROM logs ;  ")
	assert.Equal(t, "SELECT 1 FROM logs LIMIT 1", out)
}

func TestRewriteEmptyInput(t *testing.T) {
	assert.Equal(t, " LIMIT 1", RewriteForClickHouse(""))
}
