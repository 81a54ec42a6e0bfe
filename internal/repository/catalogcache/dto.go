package catalogcache

import (
	"fmt"
	"time"

	"github.com/kailas-cloud/chartref/internal/domain/catalog"
	"github.com/kailas-cloud/chartref/internal/domain/document"
	"github.com/kailas-cloud/chartref/internal/domain/query"
	"github.com/kailas-cloud/chartref/internal/domain/waypoint"
)

// listingDTO is the stored form of one fetched listing.
type listingDTO struct {
	FetchedAt int64      `json:"fetched_at"`
	Entries   []entryDTO `json:"entries"`
}

type entryDTO struct {
	ID       string       `json:"id"`
	Airport  string       `json:"airport,omitempty"`
	Name     string       `json:"name"`
	Category string       `json:"category,omitempty"`
	URLs     []string     `json:"urls,omitempty"`
	Group    string       `json:"group,omitempty"`
	Headings []headingDTO `json:"headings,omitempty"`
	Route    []legDTO     `json:"route,omitempty"`
	Approach *approachDTO `json:"approach,omitempty"`
}

type headingDTO struct {
	Title string `json:"title"`
	Page  int    `json:"page"`
	Level int    `json:"level"`
}

type legDTO struct {
	Transition string `json:"transition,omitempty"`
	Sequence   int    `json:"seq"`
	Fix        string `json:"fix"`
}

type approachDTO struct {
	IAF     []string          `json:"iaf,omitempty"`
	IF      []string          `json:"if,omitempty"`
	Feeders map[string]string `json:"feeders,omitempty"`
}

func toDTO(entries []catalog.Entry, fetchedAt time.Time) listingDTO {
	out := listingDTO{
		FetchedAt: fetchedAt.Unix(),
		Entries:   make([]entryDTO, 0, len(entries)),
	}
	for _, e := range entries {
		d := entryDTO{
			ID:       e.ID(),
			Airport:  e.Airport(),
			Name:     e.Name(),
			Category: string(e.Category()),
			URLs:     e.URLs(),
			Group:    e.Group(),
		}
		for _, h := range e.Headings() {
			d.Headings = append(d.Headings, headingDTO{Title: h.Title, Page: h.Page, Level: h.Level})
		}
		if r, ok := e.Route(); ok {
			d.Route = routeLegs(r)
		}
		if a, ok := e.Approach(); ok {
			d.Approach = &approachDTO{IAF: a.IAF.List(), IF: a.IF.List(), Feeders: a.Feeders}
		}
		out.Entries = append(out.Entries, d)
	}
	return out
}

// routeLegs flattens a route back into sequenced legs.
func routeLegs(r waypoint.Route) []legDTO {
	var legs []legDTO
	for i, fix := range r.Common() {
		legs = append(legs, legDTO{Sequence: i + 1, Fix: fix})
	}
	for _, name := range r.Transitions() {
		for i, fix := range r.Transition(name) {
			legs = append(legs, legDTO{Transition: name, Sequence: i + 1, Fix: fix})
		}
	}
	return legs
}

func fromDTO(l listingDTO) ([]catalog.Entry, error) {
	entries := make([]catalog.Entry, 0, len(l.Entries))
	for _, d := range l.Entries {
		var opts []catalog.Option
		if d.Group != "" {
			opts = append(opts, catalog.WithGroup(d.Group))
		}
		if len(d.Headings) > 0 {
			hs := make([]document.Heading, 0, len(d.Headings))
			for _, h := range d.Headings {
				hs = append(hs, document.Heading{Title: h.Title, Page: h.Page, Level: h.Level})
			}
			opts = append(opts, catalog.WithHeadings(hs))
		}
		if len(d.Route) > 0 {
			legs := make([]waypoint.Leg, 0, len(d.Route))
			for _, l := range d.Route {
				legs = append(legs, waypoint.Leg{Transition: l.Transition, Sequence: l.Sequence, Fix: l.Fix})
			}
			opts = append(opts, catalog.WithRoute(waypoint.NewRoute(legs)))
		}
		if d.Approach != nil {
			opts = append(opts, catalog.WithApproach(catalog.ApproachFixes{
				IAF:     waypoint.NewSet(d.Approach.IAF...),
				IF:      waypoint.NewSet(d.Approach.IF...),
				Feeders: d.Approach.Feeders,
			}))
		}
		e, err := catalog.NewEntry(d.ID, d.Airport, d.Name, query.Category(d.Category), d.URLs, opts...)
		if err != nil {
			return nil, fmt.Errorf("decode entry %q: %w", d.ID, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
