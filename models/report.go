package models

// ExtractedQuery pairs a raw SQL string with the label it was found under:
// the panel title, or "template:<name>" for a template variable.
type ExtractedQuery struct {
	Label  string
	RawSQL string
}

// Failure records one query that did not execute.
type Failure struct {
	Dashboard string
	Label     string
	Error     string
}

// RunReport accumulates results across all dashboards of a run.
type RunReport struct {
	OK       int
	Failed   int
	Failures []Failure
}
