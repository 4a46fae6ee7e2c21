package models

// Dashboard is the subset of the Grafana dashboard JSON model this tool
// reads. Panels nest recursively (rows contain panels).
type Dashboard struct {
	UID        string     `json:"uid"`
	Title      string     `json:"title"`
	Panels     []Panel    `json:"panels"`
	Templating Templating `json:"templating"`
}

type Templating struct {
	List []TemplateVariable `json:"list"`
}

type Panel struct {
	Title   string   `json:"title"`
	Targets []Target `json:"targets"`
	Panels  []Panel  `json:"panels"`
}

type Target struct {
	RawSQL string `json:"rawSql"`
}

// TemplateVariable's query field is untyped in the Grafana schema: query
// variables carry a string, other variable types an object or a list.
type TemplateVariable struct {
	Name  string      `json:"name"`
	Query interface{} `json:"query"`
}
