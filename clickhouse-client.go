package main

import (
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// Every verification query is bounded; a query that needs longer than
	// this against a LIMIT 1 result set is broken anyway.
	queryTimeout = 15 * time.Second

	maxResponseErrLen  = 200
	maxTransportErrLen = 100
)

// CHClient executes statements against the ClickHouse HTTP interface.
type CHClient struct {
	baseUrl  string
	user     string
	password string
	database string
	client   *http.Client
}

func NewCHClient(baseUrl string, user string, password string, database string) CHClient {
	return CHClient{
		baseUrl:  baseUrl,
		user:     user,
		password: password,
		database: database,
		client: &http.Client{
			Timeout: queryTimeout,
		},
	}
}

func (c CHClient) make_query() url.Values {
	vals := url.Values{}
	vals.Add("user", c.user)
	vals.Add("password", c.password)
	vals.Add("database", c.database)
	return vals
}

// Execute posts sql as the request body; connection parameters travel as URL
// query parameters, the way the ClickHouse HTTP interface expects them. A nil
// return means the server answered 200. Any other status or a transport
// failure comes back as an error carrying the truncated diagnostic.
func (c CHClient) Execute(sql string) error {
	fullUrl := c.baseUrl + "?" + c.make_query().Encode()
	req, err := http.NewRequest("POST", fullUrl, strings.NewReader(sql))
	if err != nil {
		return errors.New(truncate(err.Error(), maxTransportErrLen))
	}
	logger.Debug("Executing query", "url", c.baseUrl, "sql", sql)

	res, err := c.client.Do(req)
	if err != nil {
		return errors.New(truncate(err.Error(), maxTransportErrLen))
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusOK {
		io.Copy(io.Discard, res.Body)
		return nil
	}

	body, _ := io.ReadAll(res.Body)
	return errors.New(truncate(firstLine(string(body)), maxResponseErrLen))
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return s
}

func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max]
	}
	return s
}
