package queries

import (
	"strings"

	"github.com/senpro-it/grafana-dashboard-verifier/models"
)

// maxPanelDepth bounds the panel tree walk. Grafana itself nests at most a
// couple of levels (rows containing panels); anything deeper is malformed.
const maxPanelDepth = 50

// queryKeywords marks a template variable's query string as a database
// query. Case sensitive; a plain value list that happens to contain one of
// these is misclassified, which only costs one extra verification query.
var queryKeywords = []string{"SELECT", "FROM", "clickhouse"}

// Extract flattens a dashboard into its verifiable queries: panel targets in
// depth-first pre-order (a panel's own targets before its children's), then
// query-typed template variables in declared order.
func Extract(dash *models.Dashboard) []models.ExtractedQuery {
	out := extractPanels(dash.Panels, 0, nil)
	for _, tv := range dash.Templating.List {
		q, ok := tv.Query.(string)
		if !ok || strings.TrimSpace(q) == "" {
			continue
		}
		if !containsAny(q, queryKeywords) {
			continue
		}
		out = append(out, models.ExtractedQuery{
			Label:  "template:" + tv.Name,
			RawSQL: q,
		})
	}
	return out
}

func extractPanels(panels []models.Panel, depth int, out []models.ExtractedQuery) []models.ExtractedQuery {
	if depth > maxPanelDepth {
		return out
	}
	for _, p := range panels {
		title := p.Title
		if title == "" {
			title = "unnamed"
		}
		for _, t := range p.Targets {
			if strings.TrimSpace(t.RawSQL) == "" {
				continue
			}
			out = append(out, models.ExtractedQuery{Label: title, RawSQL: t.RawSQL})
		}
		out = extractPanels(p.Panels, depth+1, out)
	}
	return out
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
