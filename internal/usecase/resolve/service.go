package resolve

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/chartref/internal/domain"
	"github.com/kailas-cloud/chartref/internal/domain/catalog"
	"github.com/kailas-cloud/chartref/internal/domain/document"
	"github.com/kailas-cloud/chartref/internal/domain/match"
	"github.com/kailas-cloud/chartref/internal/domain/query"
	"github.com/kailas-cloud/chartref/internal/metrics"
	"github.com/kailas-cloud/chartref/internal/usecase/navigate"
)

// Resolution kinds used in metrics and logs.
const (
	KindChart     = "chart"
	KindProcedure = "procedure"
)

// ChartRequest is a chart lookup.
type ChartRequest struct {
	Airport  string
	Name     string
	TypeHint string
	Section  string
	Search   string
	// Rotation overrides the service default when set.
	Rotation *document.RotationPolicy
	Bypass   bool
}

// ProcedureRequest is a facility procedure lookup.
type ProcedureRequest struct {
	Term     string
	Section  string
	Search   string
	Rotation *document.RotationPolicy
	Bypass   bool
}

// Outcome is the result of a resolution. Resolution is always set; Entry and
// Document are set once a single entry was selected and assembled.
type Outcome struct {
	Resolution match.Resolution
	Entry      catalog.Entry
	Document   *document.Document
	Location   *navigate.Location
}

// Selected reports whether a single entry was chosen.
func (o Outcome) Selected() bool { return o.Resolution.Status() == match.StatusUnambiguous }

// Service runs normalize, match, assemble and navigate for one query.
type Service struct {
	source    CatalogSource
	assembler Assembler
	navigator Navigator
	opts      match.Options
	rotation  document.RotationPolicy
	logger    *zap.Logger
}

// Option configures the Service.
type Option func(*Service)

// WithMatchOptions overrides the matching thresholds.
func WithMatchOptions(o match.Options) Option {
	return func(s *Service) { s.opts = o }
}

// WithDefaultRotation sets the rotation policy used when a request has none.
func WithDefaultRotation(p document.RotationPolicy) Option {
	return func(s *Service) { s.rotation = p }
}

// New creates a resolve service. source may be nil when only the *In
// methods are used.
func New(source CatalogSource, assembler Assembler, navigator Navigator, logger *zap.Logger, opts ...Option) *Service {
	if assembler == nil || navigator == nil {
		panic("resolve: nil assembler or navigator")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		source:    source,
		assembler: assembler,
		navigator: navigator,
		opts:      match.DefaultOptions(),
		rotation:  document.AutoRotation(),
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ResolveChart fetches the airport's chart listing and resolves req in it.
func (s *Service) ResolveChart(ctx context.Context, req ChartRequest) (Outcome, error) {
	airport := strings.ToUpper(strings.TrimSpace(req.Airport))
	if airport == "" {
		return s.invalid(KindChart, req.Name, domain.NewInvalidQuery(req.Name, "airport is required"))
	}
	entries, err := s.charts(ctx, airport, req.Bypass)
	if err != nil {
		return Outcome{Resolution: match.NoMatch(req.Name)}, err
	}
	return s.ResolveChartIn(ctx, req, entries)
}

// ResolveChartIn resolves req against an already retrieved chart listing.
func (s *Service) ResolveChartIn(ctx context.Context, req ChartRequest, entries []catalog.Entry) (Outcome, error) {
	n, err := query.Normalize(req.Name, req.TypeHint)
	if err != nil {
		return s.invalid(KindChart, req.Name, err)
	}
	res := match.Match(n, entries, s.opts)
	return s.finish(ctx, KindChart, n, res, entries, req.Section, req.Search, req.Rotation)
}

// ResolveProcedure fetches the procedure listing and resolves req in it.
func (s *Service) ResolveProcedure(ctx context.Context, req ProcedureRequest) (Outcome, error) {
	if s.source == nil {
		return Outcome{}, fmt.Errorf("procedures: %w", domain.ErrSourceUnavailable)
	}
	entries, err := s.source.Procedures(ctx, catalog.FetchOptions{Bypass: req.Bypass})
	if err != nil {
		return Outcome{Resolution: match.NoMatch(req.Term)}, fmt.Errorf("procedures: %w", err)
	}
	return s.ResolveProcedureIn(ctx, req, entries)
}

// ResolveProcedureIn resolves req against an already retrieved procedure
// listing. The term is tried with its facility aliases and the best score per
// entry wins.
func (s *Service) ResolveProcedureIn(ctx context.Context, req ProcedureRequest, entries []catalog.Entry) (Outcome, error) {
	var queries []query.Normalized
	for _, term := range query.SearchTerms(req.Term) {
		n, err := query.Normalize(term, "")
		if err != nil {
			continue
		}
		queries = append(queries, n)
	}
	if len(queries) == 0 {
		return s.invalid(KindProcedure, req.Term, domain.NewInvalidQuery(req.Term, "empty procedure name"))
	}
	res := match.MatchAny(queries, entries, s.opts)
	return s.finish(ctx, KindProcedure, queries[0], res, entries, req.Section, req.Search, req.Rotation)
}

func (s *Service) charts(ctx context.Context, airport string, bypass bool) ([]catalog.Entry, error) {
	if s.source == nil {
		return nil, fmt.Errorf("charts %s: %w", airport, domain.ErrSourceUnavailable)
	}
	entries, err := s.source.Charts(ctx, airport, catalog.FetchOptions{Bypass: bypass})
	if err != nil {
		return nil, fmt.Errorf("charts %s: %w", airport, err)
	}
	return entries, nil
}

func (s *Service) finish(
	ctx context.Context, kind string, n query.Normalized, res match.Resolution,
	entries []catalog.Entry, section, search string, rotation *document.RotationPolicy,
) (Outcome, error) {
	out := Outcome{Resolution: res}
	metrics.ResolutionsTotal.WithLabelValues(kind, res.Status().String()).Inc()

	switch res.Status() {
	case match.StatusNoMatch:
		return out, fmt.Errorf("%s %q: %w", kind, n.Name(), domain.ErrNoMatch)
	case match.StatusAmbiguous:
		s.logger.Debug("Ambiguous query",
			zap.String("kind", kind),
			zap.String("query", n.Name()),
			zap.Int("candidates", len(res.Candidates())),
		)
		return out, nil
	}

	selected, _ := res.Selected()
	out.Entry = selected.Entry
	s.logger.Debug("Query resolved",
		zap.String("kind", kind),
		zap.String("query", n.Name()),
		zap.String("entry", selected.Entry.ID()),
		zap.Float64("score", selected.Score),
	)
	if len(selected.Entry.URLs()) == 0 {
		return out, nil
	}

	policy := s.rotation
	if rotation != nil {
		policy = *rotation
	}
	doc, err := s.assembler.Assemble(ctx, selected.Entry, entries, policy)
	if err != nil {
		return out, fmt.Errorf("assemble %q: %w", selected.Entry.Name(), err)
	}
	out.Document = doc
	out.Entry = catalog.FindFamily(selected.Entry, entries).Merged()

	if seq, ok := n.Continuation(); ok && seq > 0 {
		if page, found := continuationPage(doc, selected.Entry, entries, seq); found {
			out.Location = &navigate.Location{Page: page}
		}
	}

	if strings.TrimSpace(section) == "" && strings.TrimSpace(search) == "" {
		return out, nil
	}
	loc, err := s.navigator.Locate(doc, section, search)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) && loc.SectionFound {
			out.Location = &loc
		}
		return out, err
	}
	out.Location = &loc
	return out, nil
}

func (s *Service) invalid(kind, raw string, err error) (Outcome, error) {
	metrics.ResolutionsTotal.WithLabelValues(kind, match.StatusInvalidQuery.String()).Inc()
	return Outcome{Resolution: match.InvalidQuery(raw)}, err
}

// continuationPage returns the first document page of continuation seq.
func continuationPage(doc *document.Document, base catalog.Entry, entries []catalog.Entry, seq int) (int, bool) {
	for _, c := range catalog.FindFamily(base, entries).Continuations {
		if c.ContinuationSeq() != seq || len(c.URLs()) == 0 {
			continue
		}
		for i, p := range doc.Pages() {
			if p.Source() == c.URLs()[0] {
				return i, true
			}
		}
	}
	return 0, false
}
