package cifp

import (
	"context"

	"go.uber.org/zap"

	"github.com/kailas-cloud/chartref/internal/domain/catalog"
	"github.com/kailas-cloud/chartref/internal/domain/query"
)

// upstream supplies chart and procedure listings.
type upstream interface {
	Charts(ctx context.Context, airport string, opts catalog.FetchOptions) ([]catalog.Entry, error)
	Procedures(ctx context.Context, opts catalog.FetchOptions) ([]catalog.Entry, error)
}

// Source decorates a chart listing with coded waypoint data: approach charts
// get their IAF/IF/feeder fixes, arrival charts get their route. Coded
// arrivals without a published chart are appended as waypoint-only entries.
type Source struct {
	inner  upstream
	data   *Data
	logger *zap.Logger
}

// NewSource creates the decorator. A nil data index passes listings through.
func NewSource(inner upstream, data *Data, logger *zap.Logger) *Source {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Source{inner: inner, data: data, logger: logger}
}

// Charts returns the annotated chart listing of one airport.
func (s *Source) Charts(ctx context.Context, airport string, opts catalog.FetchOptions) ([]catalog.Entry, error) {
	entries, err := s.inner.Charts(ctx, airport, opts)
	if err != nil {
		return nil, err
	}
	if s.data == nil {
		return entries, nil
	}
	annotated := s.data.Annotate(airport, entries)
	s.logger.Debug("Chart listing annotated",
		zap.String("airport", airport),
		zap.Int("charts", len(entries)),
		zap.Int("entries", len(annotated)),
	)
	return annotated, nil
}

// Procedures passes the procedure listing through.
func (s *Source) Procedures(ctx context.Context, opts catalog.FetchOptions) ([]catalog.Entry, error) {
	return s.inner.Procedures(ctx, opts)
}

// Annotate attaches coded waypoint data to the entries of one airport.
func (d *Data) Annotate(airport string, entries []catalog.Entry) []catalog.Entry {
	out := make([]catalog.Entry, 0, len(entries))
	charted := map[string]bool{}

	for _, e := range entries {
		if e.IsContinuation() {
			out = append(out, e)
			continue
		}
		switch e.Category() {
		case query.CategoryIAP:
			if a, ok := d.MatchApproach(airport, e.Name()); ok {
				e = e.With(catalog.WithApproach(catalog.ApproachFixes{
					IAF:     a.IAF(),
					IF:      a.IF(),
					Feeders: a.Feeders(),
				}))
			}
		case query.CategorySTAR:
			if id, ok := query.StarIdentifier(e.Name()); ok {
				if st, ok := d.Star(airport, id); ok {
					e = e.With(catalog.WithRoute(st.Route()))
					charted[st.ID] = true
				}
			}
		}
		out = append(out, e)
	}

	for _, st := range d.Stars(airport) {
		if charted[st.ID] {
			continue
		}
		e, err := catalog.NewEntry("", airportKey(airport), st.ID, query.CategorySTAR, nil,
			catalog.WithRoute(st.Route()))
		if err != nil {
			continue
		}
		out = append(out, e)
	}
	return out
}
