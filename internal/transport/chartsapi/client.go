package chartsapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/chartref/internal/domain"
	"github.com/kailas-cloud/chartref/internal/metrics"
)

// Source labels used in metrics.
const (
	sourceCharts     = "charts"
	sourceProcedures = "procedures"
	sourceExtract    = "extract"
)

const maxBodyBytes = 32 << 20

// Config holds the upstream endpoints.
type Config struct {
	ChartsURL     string // charts listing, queried with ?apt=
	ProceduresURL string // facility procedure listing (JSON)
	BaseURL       string // resolves relative document paths
	ExtractURL    string // text extraction service, queried with ?url=
	Timeout       time.Duration
	HTTPClient    *http.Client
	Logger        *zap.Logger
}

// Client is the catalog supplier and page source backed by the charts API.
type Client struct {
	http   *http.Client
	charts string
	procs  string
	base   *url.URL
	xtract string
	logger *zap.Logger
}

// New creates a client. Missing endpoints disable the corresponding operation.
func New(cfg *Config) (*Client, error) {
	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Client{
		http:   hc,
		charts: cfg.ChartsURL,
		procs:  cfg.ProceduresURL,
		xtract: cfg.ExtractURL,
		logger: logger,
	}
	if cfg.BaseURL != "" {
		base, err := url.Parse(cfg.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("parse base url: %w", err)
		}
		c.base = base
	}
	return c, nil
}

// HealthCheck verifies that the charts listing endpoint answers.
func (c *Client) HealthCheck(ctx context.Context) error {
	if c.charts == "" {
		return errors.New("charts api not configured")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.charts, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("charts api: %w", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("charts api: status %d", resp.StatusCode)
	}
	return nil
}

// getJSON performs a GET and decodes the JSON body into out.
// Transport failures and non-2xx responses wrap domain.ErrSourceUnavailable.
func (c *Client) getJSON(ctx context.Context, source, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("build %s request: %w", source, err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.SourceRequestDuration.WithLabelValues(source).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.SourceRequestsTotal.WithLabelValues(source, "error").Inc()
		return fmt.Errorf("%s request: %w: %w", source, domain.ErrSourceUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	metrics.SourceRequestsTotal.WithLabelValues(source, strconv.Itoa(resp.StatusCode)).Inc()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%s: status %d: %w", source, resp.StatusCode, domain.ErrSourceUnavailable)
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w: %w", source, domain.ErrSourceUnavailable, err)
	}
	return nil
}

// resolve turns a relative document path into an absolute URL.
func (c *Client) resolve(path string) string {
	if c.base == nil {
		return path
	}
	ref, err := url.Parse(path)
	if err != nil || ref.IsAbs() {
		return path
	}
	return c.base.ResolveReference(ref).String()
}

func withQuery(rawURL, key, value string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse url %q: %w", rawURL, err)
	}
	q := u.Query()
	q.Set(key, value)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
