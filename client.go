package chartref

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/chartref/internal/db"
	dbRedis "github.com/kailas-cloud/chartref/internal/db/redis"
	"github.com/kailas-cloud/chartref/internal/domain"
	"github.com/kailas-cloud/chartref/internal/domain/catalog"
	"github.com/kailas-cloud/chartref/internal/domain/document"
	"github.com/kailas-cloud/chartref/internal/domain/match"
	"github.com/kailas-cloud/chartref/internal/domain/query"
	"github.com/kailas-cloud/chartref/internal/repository/catalogcache"
	"github.com/kailas-cloud/chartref/internal/transport/chartsapi"
	"github.com/kailas-cloud/chartref/internal/transport/cifp"
	"github.com/kailas-cloud/chartref/internal/usecase/assemble"
	"github.com/kailas-cloud/chartref/internal/usecase/connect"
	"github.com/kailas-cloud/chartref/internal/usecase/health"
	"github.com/kailas-cloud/chartref/internal/usecase/navigate"
	"github.com/kailas-cloud/chartref/internal/usecase/resolve"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultCacheTTL         = 24 * time.Hour
)

// Engine is the chartref entry point.
type Engine struct {
	store   db.Store
	cache   *catalogcache.Cache
	catalog resolve.CatalogSource
	resolve *resolve.Service
	nav     *navigate.Service
	connect *connect.Service
	health  *health.Service
	logger  *zap.Logger
}

// New creates an Engine. WithChartsAPI or WithProceduresURL is required; a
// cache store, when configured, must become ready within the readiness
// timeout.
func New(ctx context.Context, opts ...Option) (*Engine, error) {
	cfg := &engineConfig{
		cacheTTL:  defaultCacheTTL,
		readiness: defaultReadinessTimeout,
	}
	for _, o := range opts {
		o.apply(cfg)
	}
	if cfg.chartsURL == "" && cfg.proceduresURL == "" {
		return nil, errors.New("chartref: catalog endpoint required (use WithChartsAPI or WithProceduresURL)")
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}

	var store db.Store
	if cfg.driver != "" {
		s, err := createStore(cfg)
		if err != nil {
			return nil, err
		}
		if err := s.WaitForReady(ctx, cfg.readiness); err != nil {
			s.Close()
			return nil, fmt.Errorf("chartref: database not ready: %w", err)
		}
		store = s
	}

	e, err := wireEngine(store, cfg)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, err
	}
	return e, nil
}

func createStore(cfg *engineConfig) (db.Store, error) {
	switch cfg.driver {
	case "valkey", "redis":
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:       cfg.addrs,
			Password:    cfg.password,
			ClientCache: cfg.driver == "valkey",
		})
		if err != nil {
			return nil, fmt.Errorf("chartref: create %s store: %w", cfg.driver, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("chartref: unknown driver %q", cfg.driver)
	}
}

func wireEngine(store db.Store, cfg *engineConfig) (*Engine, error) {
	api, err := chartsapi.New(&chartsapi.Config{
		ChartsURL:     cfg.chartsURL,
		ProceduresURL: cfg.proceduresURL,
		BaseURL:       cfg.baseURL,
		ExtractURL:    cfg.extractURL,
		Timeout:       cfg.timeout,
		HTTPClient:    cfg.httpClient,
		Logger:        cfg.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("chartref: %w", err)
	}

	var coded *cifp.Data
	if cfg.cifpPath != "" {
		coded, err = cifp.Load(cfg.cifpPath)
		if err != nil {
			return nil, fmt.Errorf("chartref: %w", err)
		}
	}

	// Decorator chain: charts API -> coded waypoint data -> cache.
	var source resolve.CatalogSource = cifp.NewSource(api, coded, cfg.logger)
	var cache *catalogcache.Cache
	if store != nil {
		cache = catalogcache.New(source, store, cfg.cacheTTL, cfg.logger)
		source = cache
	}

	rotation, err := document.ParseRotationPolicy(cfg.rotation)
	if err != nil {
		return nil, fmt.Errorf("chartref: %w", err)
	}
	detector := assemble.NewTextAngleDetector()
	if cfg.dominance > 0 {
		detector.Dominance = cfg.dominance
	}
	opts := match.DefaultOptions()
	if cfg.acceptance > 0 {
		opts.Acceptance = cfg.acceptance
	}
	if cfg.margin > 0 {
		opts.Margin = cfg.margin
	}
	if cfg.maxCandidates > 0 {
		opts.MaxCandidates = cfg.maxCandidates
	}

	nav := navigate.New(cfg.logger)
	resolveSvc := resolve.New(source, assemble.New(api, detector, cfg.logger), nav, cfg.logger,
		resolve.WithMatchOptions(opts),
		resolve.WithDefaultRotation(rotation),
	)

	checks := health.New(cfg.timeout)
	if cfg.chartsURL != "" {
		checks.Add("catalog_api", api.HealthCheck)
	}
	if store != nil {
		checks.Add("database", store.Ping)
	}

	return &Engine{
		store:   store,
		cache:   cache,
		catalog: source,
		resolve: resolveSvc,
		nav:     nav,
		connect: connect.New(cfg.logger),
		health:  checks,
		logger:  cfg.logger,
	}, nil
}

// Close releases all resources.
func (e *Engine) Close() {
	if e.store != nil {
		e.store.Close()
	}
}

// ResolveChart resolves q against the airport's chart listing. An ambiguous
// query is not an error: the Resolution carries the candidates. NoMatch,
// assembly and navigation failures return the partial Resolution with the
// error.
func (e *Engine) ResolveChart(ctx context.Context, q ChartQuery) (*Resolution, error) {
	rotation, err := parseRotation(q.Rotation)
	if err != nil {
		return &Resolution{Status: StatusInvalidQuery, Query: q.Name}, err
	}
	out, err := e.resolve.ResolveChart(ctx, resolve.ChartRequest{
		Airport:  q.Airport,
		Name:     q.Name,
		TypeHint: q.Type,
		Section:  q.Section,
		Search:   q.Search,
		Rotation: rotation,
		Bypass:   q.Bypass,
	})
	return fromOutcome(out), err
}

// ResolveProcedure resolves q against the facility procedure listing.
func (e *Engine) ResolveProcedure(ctx context.Context, q ProcedureQuery) (*Resolution, error) {
	req, err := procedureRequest(q)
	if err != nil {
		return &Resolution{Status: StatusInvalidQuery, Query: q.Query}, err
	}
	out, err := e.resolve.ResolveProcedure(ctx, req)
	return fromOutcome(out), err
}

// LocateSection finds section in an assembled resolution's document.
func (e *Engine) LocateSection(res *Resolution, section string) (*Location, error) {
	if res == nil || res.doc == nil {
		return nil, domain.NewInvalidQuery(section, "resolution has no assembled document")
	}
	loc, err := e.nav.LocateSection(res.doc, section)
	if err != nil {
		return nil, fmt.Errorf("locate %q: %w", section, err)
	}
	return fromLocation(loc), nil
}

// FindApproachConnections reports the approaches whose IAF/IF fixes a STAR's
// terminal fixes or a single fix reach. No connection is an empty report.
func (e *Engine) FindApproachConnections(ctx context.Context, q ConnectionQuery) (*ConnectionReport, error) {
	airport, entries, err := e.charts(ctx, q.Airport, q.Bypass)
	if err != nil {
		return nil, err
	}
	src, conns, err := e.connect.Connect(q.Source, entries)
	if err != nil {
		return nil, fmt.Errorf("connections %s: %w", airport, err)
	}
	return &ConnectionReport{
		Airport:     airport,
		Source:      src.Name,
		Kind:        string(src.Kind),
		Fixes:       src.Fixes.List(),
		Connections: fromConnections(conns),
	}, nil
}

// FindApproachesByFix lists approaches using fix as IAF, IF or feeder.
func (e *Engine) FindApproachesByFix(ctx context.Context, airport, fix string, bypass bool) ([]FixApproach, error) {
	airport, entries, err := e.charts(ctx, airport, bypass)
	if err != nil {
		return nil, err
	}
	matches, err := e.connect.FindByFix(fix, entries)
	if err != nil {
		return nil, fmt.Errorf("fix %s: %w", airport, err)
	}
	out := make([]FixApproach, len(matches))
	for i, m := range matches {
		out[i] = FixApproach{Approach: fromEntry(m.Approach), Fix: m.Fix, Role: m.Role, Via: m.Via}
	}
	return out, nil
}

// AnalyzeStar reports an arrival's waypoints, terminal fixes and connections.
func (e *Engine) AnalyzeStar(ctx context.Context, airport, name string, bypass bool) (*StarReport, error) {
	airport, entries, err := e.charts(ctx, airport, bypass)
	if err != nil {
		return nil, err
	}
	a, err := e.connect.AnalyzeStar(name, entries)
	if err != nil {
		return nil, fmt.Errorf("star %s: %w", airport, err)
	}
	return &StarReport{
		Airport:     airport,
		Star:        fromEntry(a.Star),
		Waypoints:   a.Waypoints,
		Terminal:    a.Terminal,
		Connections: fromConnections(a.Connections),
	}, nil
}

// CachedListings lists the catalog listings held in the cache.
func (e *Engine) CachedListings(ctx context.Context) ([]CachedListing, error) {
	if e.cache == nil {
		return nil, ErrCacheDisabled
	}
	ls, err := e.cache.Listings(ctx)
	if err != nil {
		return nil, fmt.Errorf("cached listings: %w", err)
	}
	out := make([]CachedListing, len(ls))
	for i, l := range ls {
		out[i] = CachedListing{Cycle: l.Cycle, Name: l.Name, FetchedAt: l.FetchedAt}
	}
	return out, nil
}

// InvalidateCatalog drops the cached chart listing of one airport.
func (e *Engine) InvalidateCatalog(ctx context.Context, airport string) error {
	if e.cache == nil {
		return ErrCacheDisabled
	}
	if strings.TrimSpace(airport) == "" {
		return domain.NewInvalidQuery(airport, "airport is required")
	}
	if err := e.cache.Invalidate(ctx, airport); err != nil {
		return fmt.Errorf("invalidate %s: %w", airport, err)
	}
	return nil
}

// PurgeCatalog drops every cached listing and returns how many keys went.
func (e *Engine) PurgeCatalog(ctx context.Context) (int, error) {
	if e.cache == nil {
		return 0, ErrCacheDisabled
	}
	n, err := e.cache.Purge(ctx)
	if err != nil {
		return n, fmt.Errorf("purge: %w", err)
	}
	return n, nil
}

// Health checks the cache store and the charts API.
func (e *Engine) Health(ctx context.Context) HealthStatus {
	r := e.health.Check(ctx)
	checks := make(map[string]string, len(r.Checks))
	for k, v := range r.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{Status: string(r.Status), Checks: checks}
}

func (e *Engine) charts(ctx context.Context, airport string, bypass bool) (string, []catalog.Entry, error) {
	airport = strings.ToUpper(strings.TrimSpace(airport))
	if airport == "" {
		return "", nil, domain.NewInvalidQuery(airport, "airport is required")
	}
	entries, err := e.catalog.Charts(ctx, airport, catalog.FetchOptions{Bypass: bypass})
	if err != nil {
		return airport, nil, fmt.Errorf("charts %s: %w", airport, err)
	}
	return airport, entries, nil
}

func parseRotation(s string) (*document.RotationPolicy, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	p, err := document.ParseRotationPolicy(s)
	if err != nil {
		return nil, domain.NewInvalidQuery(s, err.Error())
	}
	return &p, nil
}

func procedureRequest(q ProcedureQuery) (resolve.ProcedureRequest, error) {
	req := resolve.ProcedureRequest{Term: q.Term, Section: q.Section, Search: q.Search, Bypass: q.Bypass}
	if strings.TrimSpace(q.Query) != "" {
		parsed, err := query.ParseProcedureString(q.Query)
		if err != nil {
			return req, err
		}
		if req.Term == "" {
			req.Term = parsed.Term
		}
		if req.Section == "" {
			req.Section = parsed.Section
		}
		if req.Search == "" {
			req.Search = parsed.Search
		}
	}
	if strings.TrimSpace(req.Term) == "" {
		return req, domain.NewInvalidQuery(q.Query, "procedure name is required")
	}
	rotation, err := parseRotation(q.Rotation)
	if err != nil {
		return req, err
	}
	req.Rotation = rotation
	return req, nil
}
