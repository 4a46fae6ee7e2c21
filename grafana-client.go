package main

import (
	"encoding/json"
	"net/url"

	"github.com/go-openapi/strfmt"
	grafana "github.com/grafana/grafana-openapi-client-go/client"
	"github.com/grafana/grafana-openapi-client-go/client/search"
	"github.com/samber/oops"
	mymodels "github.com/senpro-it/grafana-dashboard-verifier/models"
	"github.com/senpro-it/grafana-dashboard-verifier/tools"
)

type GrafanaClient struct {
	client *grafana.GrafanaHTTPAPI
}

func MakeGrafanaClient(baseUrl string, token string) (*GrafanaClient, error) {
	gurl, err := url.Parse(baseUrl)
	if err != nil {
		return nil, oops.
			In("MakeGrafanaClient").
			With("baseUrl", baseUrl).
			Wrap(err)
	}
	cfg := &grafana.TransportConfig{
		Host:     gurl.Host,
		BasePath: gurl.Path,
		APIKey:   token,
	}
	if gurl.Scheme != "" {
		cfg.Schemes = []string{gurl.Scheme}
	}
	client := grafana.NewHTTPClientWithConfig(strfmt.Default, cfg)
	return &GrafanaClient{client}, nil
}

// SearchDashboards returns the UID of every dashboard matching the free-text
// query. An empty query matches everything the token can see.
func (c *GrafanaClient) SearchDashboards(query string) ([]string, error) {
	oopsMaker := oops.In("SearchDashboards").With("query", query)
	params := &search.SearchParams{
		Query: tools.PtrOf(query),
		Type:  tools.PtrOf("dash-db"),
	}
	hits, err := c.client.Search.Search(params, nil)
	if err != nil {
		return nil, oopsMaker.Wrap(err)
	}
	if !hits.IsSuccess() {
		return nil, oopsMaker.
			With("hits", hits).
			Errorf("search request was not successful")
	}

	var uids []string
	for _, hit := range hits.GetPayload() {
		uids = append(uids, hit.UID)
	}
	return uids, nil
}

// GetDashboard fetches one dashboard by UID and decodes the parts of its
// JSON model this tool reads.
func (c *GrafanaClient) GetDashboard(uid string) (*mymodels.Dashboard, error) {
	oopsMaker := oops.In("GetDashboard").With("uid", uid)
	dashReq, err := c.client.Dashboards.GetDashboardByUID(uid)
	if err != nil {
		return nil, oopsMaker.Wrap(err)
	}
	if !dashReq.IsSuccess() {
		return nil, oopsMaker.
			With("dashReq", dashReq).
			Errorf("dashboard request was not successful")
	}

	// The openapi client hands the dashboard body back untyped; round-trip
	// through encoding/json to get the typed model.
	raw, err := json.Marshal(dashReq.GetPayload().Dashboard)
	if err != nil {
		return nil, oopsMaker.Wrap(err)
	}
	var dash mymodels.Dashboard
	if err := json.Unmarshal(raw, &dash); err != nil {
		return nil, oopsMaker.Wrap(err)
	}
	return &dash, nil
}
