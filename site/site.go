// Package site fetches live chart configs and datasets from the remote
// grapher site. The compiler core never performs I/O itself; everything
// here feeds parsed inputs into the engine package.
package site

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	json "github.com/goccy/go-json"

	"grapher/dataset"
	"grapher/engine"
	"grapher/frame"
)

// EmbeddedJSONMarker delimits the chart config embedded in a grapher page's
// HTML. The config is the middle of the three parts the marker splits the
// page into.
const EmbeddedJSONMarker = "//EMBEDDED_JSON"

const (
	defaultGrapherURL = "https://ourworldindata.org/grapher/"
	defaultDataURL    = "https://ourworldindata.org/grapher/data/variables/%s.json?v=%d"
)

// Client fetches configs and datasets from the grapher site.
type Client struct {
	http       *resty.Client
	grapherURL string
	dataURL    string
	epoch      time.Time
	anyURL     bool
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithGrapherURL overrides the chart page URL prefix.
func WithGrapherURL(prefix string) ClientOption {
	return func(c *Client) { c.grapherURL = prefix }
}

// WithDataURL overrides the variables data URL template. The template takes
// the "+"-joined variable ids and the config version.
func WithDataURL(tmpl string) ClientOption {
	return func(c *Client) { c.dataURL = tmpl }
}

// WithEpoch sets the epoch used when decoding day-based datasets to frames.
func WithEpoch(epoch time.Time) ClientOption {
	return func(c *Client) { c.epoch = epoch }
}

// WithHTTPClient replaces the underlying resty client.
func WithHTTPClient(hc *resty.Client) ClientOption {
	return func(c *Client) { c.http = hc }
}

// WithAnyURL disables the grapher URL prefix check, allowing configs to be
// fetched from mirrors or self-hosted grapher instances.
func WithAnyURL() ClientOption {
	return func(c *Client) { c.anyURL = true }
}

// NewClient creates a site client with sensible retry behavior.
func NewClient(opts ...ClientOption) *Client {
	hc := resty.New()
	hc.SetTimeout(30 * time.Second)
	hc.SetRetryCount(3)
	hc.SetRetryWaitTime(2 * time.Second)

	c := &Client{
		http:       hc,
		grapherURL: defaultGrapherURL,
		dataURL:    defaultDataURL,
		epoch:      dataset.DefaultEpoch,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ChartConfig fetches a chart page and extracts its embedded config.
func (c *Client) ChartConfig(ctx context.Context, url string) (*engine.RemoteConfig, error) {
	if !c.anyURL && !strings.HasPrefix(url, c.grapherURL) {
		return nil, fmt.Errorf("not a grapher chart url: %s", url)
	}

	resp, err := c.http.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch chart page %s: %w", url, err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("chart page %s returned status %d", url, resp.StatusCode())
	}

	parts := strings.Split(string(resp.Body()), EmbeddedJSONMarker)
	if len(parts) != 3 {
		return nil, fmt.Errorf("embedded chart config not found in %s", url)
	}
	return engine.ParseRemoteConfig([]byte(parts[1]))
}

// ChartConfigBySlug fetches the config for a chart slug.
func (c *Client) ChartConfigBySlug(ctx context.Context, slug string) (*engine.RemoteConfig, error) {
	return c.ChartConfig(ctx, c.grapherURL+slug)
}

// OWIDData fetches the dataset behind a config's dimensions.
func (c *Client) OWIDData(ctx context.Context, cfg *engine.RemoteConfig) (*dataset.Dataset, error) {
	ids := cfg.VariableIDs()
	if len(ids) == 0 {
		return nil, fmt.Errorf("config %q has no dimensions to fetch data for", cfg.Slug)
	}
	joined := make([]string, len(ids))
	for i, id := range ids {
		joined[i] = strconv.Itoa(id)
	}
	url := fmt.Sprintf(c.dataURL, strings.Join(joined, "+"), cfg.Version)

	resp, err := c.http.R().SetContext(ctx).SetHeader("Accept", "application/json").Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch chart data %s: %w", url, err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("chart data %s returned status %d", url, resp.StatusCode())
	}

	var ds dataset.Dataset
	if err := json.Unmarshal(resp.Body(), &ds); err != nil {
		return nil, fmt.Errorf("failed to parse chart data: %w", err)
	}
	return &ds, nil
}

// ChartData fetches the tidy data frame behind a chart URL.
func (c *Client) ChartData(ctx context.Context, url string) (*frame.Frame, error) {
	cfg, err := c.ChartConfig(ctx, url)
	if err != nil {
		return nil, err
	}
	ds, err := c.OWIDData(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return ds.Frame(c.epoch)
}

// ChartDataBySlug fetches the tidy data frame behind a chart slug.
func (c *Client) ChartDataBySlug(ctx context.Context, slug string) (*frame.Frame, error) {
	return c.ChartData(ctx, c.grapherURL+slug)
}
