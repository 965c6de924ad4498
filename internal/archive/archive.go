// Package archive refreshes catalog exports from the Gaia and NASA Exoplanet
// Archive TAP services.
package archive

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/litescript/ls-exosky/internal/catalog"
	"github.com/litescript/ls-exosky/internal/logging"
)

const (
	// DefaultGaiaURL is the Gaia archive synchronous TAP endpoint.
	DefaultGaiaURL = "https://gea.esac.esa.int/tap-server/tap/sync"

	// DefaultExoplanetURL is the NASA Exoplanet Archive synchronous TAP endpoint.
	DefaultExoplanetURL = "https://exoplanetarchive.ipac.caltech.edu/TAP/sync"

	// DefaultTimeout for HTTP requests. Cone queries over a hemisphere are slow.
	DefaultTimeout = 2 * time.Minute

	// DefaultRowLimit caps star queries.
	DefaultRowLimit = 500000

	userAgent = "ls-exosky/1.0 (Exoplanet Star Charts)"
)

// Client queries the remote archives.
type Client struct {
	client       *http.Client
	gaiaURL      string
	exoplanetURL string
	timeout      time.Duration
	rowLimit     int
	log          *logging.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithGaiaURL sets the Gaia TAP endpoint.
func WithGaiaURL(u string) Option {
	return func(c *Client) {
		c.gaiaURL = u
	}
}

// WithExoplanetURL sets the exoplanet TAP endpoint.
func WithExoplanetURL(u string) Option {
	return func(c *Client) {
		c.exoplanetURL = u
	}
}

// WithTimeout sets the HTTP request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.client = client
	}
}

// WithRowLimit sets the TOP clause of star queries.
func WithRowLimit(n int) Option {
	return func(c *Client) {
		c.rowLimit = n
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

// NewClient creates an archive client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		gaiaURL:      DefaultGaiaURL,
		exoplanetURL: DefaultExoplanetURL,
		timeout:      DefaultTimeout,
		rowLimit:     DefaultRowLimit,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.client == nil {
		c.client = &http.Client{
			Timeout: c.timeout,
		}
	}
	if c.log == nil {
		c.log = logging.Discard()
	}

	return c
}

// QueryTargets fetches every exoplanet with a known system distance, nearest
// first.
func (c *Client) QueryTargets(ctx context.Context) ([]catalog.Target, error) {
	body, err := c.run(ctx, c.exoplanetURL, TargetsQuery())
	if err != nil {
		return nil, err
	}

	targets, err := catalog.ReadTargets(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse exoplanet response: %w: %w", catalog.ErrDataUnavailable, err)
	}
	c.log.Info("fetched %d exoplanets", len(targets))
	return targets, nil
}

// QueryStars fetches the Gaia stars for a target and POV.
func (c *Client) QueryStars(ctx context.Context, target catalog.Target, pov catalog.POV) ([]catalog.StarRecord, error) {
	q, err := StarsQuery(target, pov, c.rowLimit)
	if err != nil {
		return nil, err
	}

	body, err := c.run(ctx, c.gaiaURL, q)
	if err != nil {
		return nil, err
	}

	stars, err := catalog.ReadStars(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse gaia response: %w: %w", catalog.ErrDataUnavailable, err)
	}
	c.log.Info("fetched %d %s stars for %s", len(stars), pov, target.Name)
	return stars, nil
}

// run posts an ADQL query to a synchronous TAP endpoint and returns the CSV
// response body.
func (c *Client) run(ctx context.Context, endpoint, query string) ([]byte, error) {
	form := url.Values{}
	form.Set("REQUEST", "doQuery")
	form.Set("LANG", "ADQL")
	form.Set("FORMAT", "csv")
	form.Set("QUERY", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/csv, text/plain")

	start := time.Now()
	c.log.Debug("TAP query to %s: %s", endpoint, query)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w: %w", endpoint, catalog.ErrDataUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w: %w", catalog.ErrDataUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("query %s: unexpected status code %d: %s: %w",
			endpoint, resp.StatusCode, snippet(body), catalog.ErrDataUnavailable)
	}

	c.log.Debug("TAP response %d bytes in %v", len(body), time.Since(start))
	return body, nil
}

// snippet trims an error body for messages.
func snippet(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return s
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
