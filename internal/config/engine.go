package config

import (
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/chartref"
)

// EngineOptions maps the configuration onto engine options. The cache store
// is wired only when CacheEnabled reports true.
func (c Config) EngineOptions(logger *zap.Logger) []chartref.Option {
	opts := []chartref.Option{
		chartref.WithChartsAPI(c.Catalog.ChartsURL),
		chartref.WithProceduresURL(c.Catalog.ProceduresURL),
		chartref.WithBaseURL(c.Catalog.BaseURL),
		chartref.WithExtractionService(c.Catalog.ExtractURL),
		chartref.WithRequestTimeout(seconds(c.Catalog.RequestTimeoutSec)),
		chartref.WithMatching(c.Matching.Acceptance, c.Matching.Margin, c.Matching.MaxCandidates),
		chartref.WithRotation(c.Assembly.Rotation),
		chartref.WithOrientationDominance(c.Assembly.Dominance),
		chartref.WithLogger(logger),
	}
	if c.Catalog.CIFPPath != "" {
		opts = append(opts, chartref.WithCIFP(c.Catalog.CIFPPath))
	}
	if !c.CacheEnabled() {
		return opts
	}

	addr := c.Database.Addrs[0]
	if c.Database.Driver == "redis" {
		opts = append(opts, chartref.WithRedis(addr, c.Database.Password))
	} else {
		opts = append(opts, chartref.WithValkey(addr, c.Database.Password))
	}
	opts = append(opts, chartref.WithCacheTTL(seconds(c.Catalog.CacheTTLSec)))
	if c.Database.ReadinessTimeout > 0 {
		opts = append(opts, chartref.WithReadinessTimeout(seconds(c.Database.ReadinessTimeout)))
	}
	return opts
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}
