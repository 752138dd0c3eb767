// Package notion is a thin client for the parts of the Notion API this
// service uses: database retrieval, data source queries, and page
// creation/update.
package notion

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	defaultBaseURL = "https://api.notion.com/v1"
	apiVersion     = "2025-09-03"
)

// APIError is a non-2xx response from the Notion API.
type APIError struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("notion: %s (%d): %s", e.Code, e.Status, e.Message)
}

// Client talks to the Notion API. A failed request is surfaced as an
// *APIError; requests are not retried, the exporter re-sends on its own
// schedule.
type Client struct {
	http *resty.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a different API endpoint.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.http.SetBaseURL(url)
	}
}

// WithTimeout overrides the default 30s request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.SetTimeout(d)
	}
}

// NewClient builds a Client authenticated with the given integration token.
func NewClient(token string, opts ...Option) *Client {
	c := &Client{
		http: resty.New().
			SetBaseURL(defaultBaseURL).
			SetTimeout(30 * time.Second).
			SetHeader("Authorization", "Bearer "+token).
			SetHeader("Notion-Version", apiVersion).
			SetHeader("Content-Type", "application/json"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DataSourceRef identifies one data source of a database.
type DataSourceRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Database is the subset of the database object the service needs.
type Database struct {
	ID          string          `json:"id"`
	DataSources []DataSourceRef `json:"data_sources"`
}

// RetrieveDatabase fetches a database and its data source references.
func (c *Client) RetrieveDatabase(ctx context.Context, databaseID string) (*Database, error) {
	var db Database
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&db).
		SetError(&APIError{}).
		Get("/databases/" + databaseID)
	if err != nil {
		return nil, fmt.Errorf("retrieve database %s: %w", databaseID, err)
	}
	if err := apiErr(resp); err != nil {
		return nil, err
	}
	return &db, nil
}

// PrimaryDataSource resolves a database to the ID of its first data source.
// Every database this service writes to has exactly one.
func (c *Client) PrimaryDataSource(ctx context.Context, databaseID string) (string, error) {
	db, err := c.RetrieveDatabase(ctx, databaseID)
	if err != nil {
		return "", err
	}
	if len(db.DataSources) == 0 {
		return "", fmt.Errorf("database %s has no data sources", databaseID)
	}
	return db.DataSources[0].ID, nil
}

// QueryRequest is the body of a data source query.
type QueryRequest struct {
	Filter   map[string]any `json:"filter,omitempty"`
	PageSize int            `json:"page_size,omitempty"`
}

// QueryResponse is one page of query results.
type QueryResponse struct {
	Results    []Page  `json:"results"`
	HasMore    bool    `json:"has_more"`
	NextCursor *string `json:"next_cursor"`
}

// QueryDataSource runs a filtered query against a data source.
func (c *Client) QueryDataSource(ctx context.Context, dataSourceID string, q QueryRequest) (*QueryResponse, error) {
	var out QueryResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(q).
		SetResult(&out).
		SetError(&APIError{}).
		Post("/data_sources/" + dataSourceID + "/query")
	if err != nil {
		return nil, fmt.Errorf("query data source %s: %w", dataSourceID, err)
	}
	if err := apiErr(resp); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreatePageRequest is the body of a page creation.
type CreatePageRequest struct {
	Parent     Parent     `json:"parent"`
	Properties Properties `json:"properties"`
}

// Parent points a new page at its data source.
type Parent struct {
	DataSourceID string `json:"data_source_id"`
}

// CreatePage creates a page under the given data source.
func (c *Client) CreatePage(ctx context.Context, dataSourceID string, props Properties) (*Page, error) {
	var page Page
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(CreatePageRequest{Parent: Parent{DataSourceID: dataSourceID}, Properties: props}).
		SetResult(&page).
		SetError(&APIError{}).
		Post("/pages")
	if err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}
	if err := apiErr(resp); err != nil {
		return nil, err
	}
	return &page, nil
}

// UpdatePage patches the given properties of an existing page. Properties
// not present in props are left untouched.
func (c *Client) UpdatePage(ctx context.Context, pageID string, props Properties) (*Page, error) {
	var page Page
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]any{"properties": props}).
		SetResult(&page).
		SetError(&APIError{}).
		Patch("/pages/" + pageID)
	if err != nil {
		return nil, fmt.Errorf("update page %s: %w", pageID, err)
	}
	if err := apiErr(resp); err != nil {
		return nil, err
	}
	return &page, nil
}

// RetrievePage fetches a single page with its property values.
func (c *Client) RetrievePage(ctx context.Context, pageID string) (*Page, error) {
	var page Page
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&page).
		SetError(&APIError{}).
		Get("/pages/" + pageID)
	if err != nil {
		return nil, fmt.Errorf("retrieve page %s: %w", pageID, err)
	}
	if err := apiErr(resp); err != nil {
		return nil, err
	}
	return &page, nil
}

func apiErr(resp *resty.Response) error {
	if !resp.IsError() {
		return nil
	}
	if e, ok := resp.Error().(*APIError); ok && e != nil {
		if e.Status == 0 {
			e.Status = resp.StatusCode()
		}
		return e
	}
	return &APIError{Status: resp.StatusCode(), Message: resp.String()}
}
