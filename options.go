package chartref

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Option configures the Engine.
type Option interface {
	apply(*engineConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*engineConfig)

func (f optionFunc) apply(c *engineConfig) { f(c) }

type engineConfig struct {
	chartsURL     string
	proceduresURL string
	baseURL       string
	extractURL    string
	httpClient    *http.Client
	timeout       time.Duration

	driver   string // "valkey" or "redis"; empty disables the catalog cache
	addrs    []string
	password string
	cacheTTL time.Duration
	// readiness bounds the initial store readiness check.
	readiness time.Duration

	cifpPath string

	acceptance    float64
	margin        float64
	maxCandidates int
	rotation      string
	dominance     float64

	logger *zap.Logger
}

// WithChartsAPI sets the chart listing endpoint (queried with ?apt=).
func WithChartsAPI(url string) Option {
	return optionFunc(func(c *engineConfig) { c.chartsURL = url })
}

// WithProceduresURL sets the facility procedure listing endpoint.
func WithProceduresURL(url string) Option {
	return optionFunc(func(c *engineConfig) { c.proceduresURL = url })
}

// WithBaseURL sets the base used to resolve relative document paths.
func WithBaseURL(url string) Option {
	return optionFunc(func(c *engineConfig) { c.baseURL = url })
}

// WithExtractionService sets the page text extraction endpoint (queried with ?url=).
func WithExtractionService(url string) Option {
	return optionFunc(func(c *engineConfig) { c.extractURL = url })
}

// WithHTTPClient replaces the HTTP client used for upstream requests.
func WithHTTPClient(hc *http.Client) Option {
	return optionFunc(func(c *engineConfig) { c.httpClient = hc })
}

// WithRequestTimeout bounds each upstream request. Default: 10s.
func WithRequestTimeout(d time.Duration) Option {
	return optionFunc(func(c *engineConfig) { c.timeout = d })
}

// WithValkey caches catalog listings in a Valkey instance. Reads use RESP3
// client-side caching.
func WithValkey(addr, password string) Option {
	return optionFunc(func(c *engineConfig) {
		c.driver = "valkey"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithRedis caches catalog listings in a Redis instance. Client-side caching
// stays off so servers without RESP3 work.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *engineConfig) {
		c.driver = "redis"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithCacheTTL bounds the age of a cached listing. Listings never outlive
// the AIRAC cycle they were fetched in. Default: 24h.
func WithCacheTTL(d time.Duration) Option {
	return optionFunc(func(c *engineConfig) { c.cacheTTL = d })
}

// WithCIFP loads coded approach and arrival data (FAACIFP18 text or the
// distribution zip) used by the connectivity queries.
func WithCIFP(path string) Option {
	return optionFunc(func(c *engineConfig) { c.cifpPath = path })
}

// WithMatching overrides the acceptance threshold, the dominance margin and
// the maximum number of disambiguation candidates. Zero keeps a default.
func WithMatching(acceptance, margin float64, maxCandidates int) Option {
	return optionFunc(func(c *engineConfig) {
		c.acceptance = acceptance
		c.margin = margin
		c.maxCandidates = maxCandidates
	})
}

// WithRotation sets the default page rotation policy: "auto", "disabled"
// or a fixed 0/90/180/270.
func WithRotation(policy string) Option {
	return optionFunc(func(c *engineConfig) { c.rotation = policy })
}

// WithOrientationDominance sets the share of page text that must agree on a
// direction before a page is rotated. Default: 0.5.
func WithOrientationDominance(share float64) Option {
	return optionFunc(func(c *engineConfig) { c.dominance = share })
}

// WithLogger enables structured logging. Default: no-op.
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *engineConfig) { c.logger = l })
}

// WithReadinessTimeout bounds the wait for the cache store at startup. Default: 10s.
func WithReadinessTimeout(d time.Duration) Option {
	return optionFunc(func(c *engineConfig) { c.readiness = d })
}
