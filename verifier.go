package main

import (
	"fmt"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/senpro-it/grafana-dashboard-verifier/models"
	"github.com/senpro-it/grafana-dashboard-verifier/queries"
)

// Verifier runs every query of every dashboard against ClickHouse, one
// dashboard and one query at a time, and accumulates the outcome.
type Verifier struct {
	grafana    *GrafanaClient
	clickhouse CHClient
	report     models.RunReport
}

func NewVerifier(grafana *GrafanaClient, clickhouse CHClient) *Verifier {
	return &Verifier{
		grafana:    grafana,
		clickhouse: clickhouse,
	}
}

// VerifyDashboard fetches one dashboard and executes each of its queries.
// Query failures are recorded, never fatal; only the fetch itself can error.
func (v *Verifier) VerifyDashboard(uid string) error {
	dash, err := v.grafana.GetDashboard(uid)
	if err != nil {
		return err
	}
	logger := logger.WithPrefix(dash.Title)

	extracted := queries.Extract(dash)
	logger.Debug("Extracted queries", "count", len(extracted))
	logger.Debug(spew.Sdump(extracted))

	ok := 0
	fail := 0
	for _, q := range extracted {
		sql := queries.RewriteForClickHouse(q.RawSQL)
		err := v.clickhouse.Execute(sql)
		if err != nil {
			fail++
			v.report.Failures = append(v.report.Failures, models.Failure{
				Dashboard: dash.Title,
				Label:     q.Label,
				Error:     err.Error(),
			})
			logger.Debug("FAIL", "label", q.Label, "err", err.Error())
			continue
		}
		ok++
	}

	v.report.OK += ok
	v.report.Failed += fail
	icon := "✅"
	if fail > 0 {
		icon = "❌"
	}
	fmt.Printf("%s %s: %d/%d\n", icon, dash.Title, ok, ok+fail)
	return nil
}

// Report returns the outcome accumulated so far.
func (v *Verifier) Report() models.RunReport {
	return v.report
}

// FormatReport renders the run totals plus the consolidated failure listing,
// for the console and for the optional report mail.
func FormatReport(r models.RunReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Total: %d OK, %d FAILED\n", r.OK, r.Failed)
	if len(r.Failures) > 0 {
		b.WriteString("\nFailures:\n")
		for _, f := range r.Failures {
			fmt.Fprintf(&b, "  [%s] %s\n    %s\n", f.Dashboard, f.Label, f.Error)
		}
	}
	return b.String()
}
