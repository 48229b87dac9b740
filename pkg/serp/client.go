package serp

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://serpapi.com"

// Client performs SerpApi web search operations.
type Client interface {
	Search(ctx context.Context, q Query) (*SearchResponse, error)
	Account(ctx context.Context) (*AccountResponse, error)
}

// Query holds the parameters for one organic search.
type Query struct {
	Text     string
	Location string
	Num      int
}

// SearchResponse is the subset of the SerpApi response we consume.
type SearchResponse struct {
	OrganicResults []OrganicResult `json:"organic_results"`
}

// OrganicResult is a single organic web search hit.
type OrganicResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

// AccountResponse reports monthly search quota usage.
type AccountResponse struct {
	SearchesPerMonth int `json:"searches_per_month"`
	ThisMonthUsage   int `json:"this_month_usage"`
	PlanSearchesLeft int `json:"plan_searches_left"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a SerpApi client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) Search(ctx context.Context, q Query) (*SearchResponse, error) {
	params := url.Values{}
	params.Set("engine", "google")
	params.Set("q", q.Text)
	if q.Location != "" {
		params.Set("location", q.Location)
	}
	if q.Num > 0 {
		params.Set("num", strconv.Itoa(q.Num))
	}
	params.Set("api_key", c.apiKey)

	var result SearchResponse
	if err := c.get(ctx, "/search", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *httpClient) Account(ctx context.Context) (*AccountResponse, error) {
	params := url.Values{}
	params.Set("api_key", c.apiKey)

	var result AccountResponse
	if err := c.get(ctx, "/account", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *httpClient) get(ctx context.Context, path string, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return eris.Wrap(err, "serp: create request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "serp: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "serp: read response")
	}

	if resp.StatusCode != http.StatusOK {
		return eris.Errorf("serp: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return eris.Wrap(err, "serp: unmarshal response")
	}
	return nil
}
