package chi

import (
	"context"

	"github.com/kailas-cloud/chartref"
)

// Resolver resolves chart and procedure queries.
type Resolver interface {
	ResolveChart(ctx context.Context, q chartref.ChartQuery) (*chartref.Resolution, error)
	ResolveProcedure(ctx context.Context, q chartref.ProcedureQuery) (*chartref.Resolution, error)
}

// Connectivity answers STAR/fix to approach questions.
type Connectivity interface {
	FindApproachConnections(ctx context.Context, q chartref.ConnectionQuery) (*chartref.ConnectionReport, error)
	FindApproachesByFix(ctx context.Context, airport, fix string, bypass bool) ([]chartref.FixApproach, error)
	AnalyzeStar(ctx context.Context, airport, name string, bypass bool) (*chartref.StarReport, error)
}

// CatalogAdmin manages the catalog cache.
type CatalogAdmin interface {
	CachedListings(ctx context.Context) ([]chartref.CachedListing, error)
	InvalidateCatalog(ctx context.Context, airport string) error
	PurgeCatalog(ctx context.Context) (int, error)
}

// HealthChecker reports component health.
type HealthChecker interface {
	Health(ctx context.Context) chartref.HealthStatus
}

// Engine is everything the HTTP surface needs; *chartref.Engine satisfies it.
type Engine interface {
	Resolver
	Connectivity
	CatalogAdmin
	HealthChecker
}
