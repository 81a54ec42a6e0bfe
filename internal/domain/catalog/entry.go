package catalog

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/chartref/internal/domain/document"
	"github.com/kailas-cloud/chartref/internal/domain/query"
	"github.com/kailas-cloud/chartref/internal/domain/waypoint"
)

// Kind is the variant of a catalog entry.
type Kind int

// Entry kinds.
const (
	KindSinglePage Kind = iota
	KindMultiPage
	KindWaypointBearing
)

func (k Kind) String() string {
	switch k {
	case KindSinglePage:
		return "single_page"
	case KindMultiPage:
		return "multi_page"
	case KindWaypointBearing:
		return "waypoint_bearing"
	default:
		return "unknown"
	}
}

// ApproachFixes are the entry points of an instrument approach.
type ApproachFixes struct {
	IAF waypoint.Set
	IF  waypoint.Set
	// Feeders maps a transition entry fix to the IAF/IF it leads to.
	Feeders map[string]string
}

// Entry returns the IAF and IF fixes combined, IAFs first.
func (a ApproachFixes) Entry() waypoint.Set { return a.IAF.Union(a.IF) }

// Role returns "IAF" or "IF" for a fix of the approach, IAF preferred.
func (a ApproachFixes) Role(fix string) string {
	switch {
	case a.IAF.Contains(fix):
		return "IAF"
	case a.IF.Contains(fix):
		return "IF"
	default:
		return ""
	}
}

// Entry is one retrievable document or procedure record (immutable value object).
type Entry struct {
	id        string
	airport   string
	name      string
	canonical string
	category  query.Category
	urls      []string
	group     string
	headings  []document.Heading
	route     *waypoint.Route
	approach  *ApproachFixes

	contSeq int
	isCont  bool
}

// Option configures optional Entry metadata.
type Option func(*Entry)

// WithGroup sets the listing group (procedure listings only).
func WithGroup(group string) Option {
	return func(e *Entry) { e.group = group }
}

// WithHeadings attaches bookmark headings.
func WithHeadings(h []document.Heading) Option {
	return func(e *Entry) {
		e.headings = make([]document.Heading, len(h))
		copy(e.headings, h)
	}
}

// WithRoute attaches arrival/departure route legs.
func WithRoute(r waypoint.Route) Option {
	return func(e *Entry) { e.route = &r }
}

// WithApproach attaches approach entry fixes.
func WithApproach(a ApproachFixes) Option {
	return func(e *Entry) { e.approach = &a }
}

// NewEntry validates and creates an Entry. An empty id is derived from the
// airport and the display name.
func NewEntry(id, airport, name string, category query.Category, urls []string, opts ...Option) (Entry, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Entry{}, fmt.Errorf("entry name is required")
	}
	n, err := query.Normalize(name, string(category))
	if err != nil {
		return Entry{}, fmt.Errorf("entry name %q: %w", name, err)
	}

	e := Entry{
		id:        strings.TrimSpace(id),
		airport:   strings.ToUpper(strings.TrimSpace(airport)),
		name:      name,
		canonical: n.Name(),
		category:  category,
	}
	e.contSeq, e.isCont = n.Continuation()
	if e.isCont && e.contSeq == 0 {
		e.contSeq = UnnumberedContinuation
	}
	for _, u := range urls {
		if u = strings.TrimSpace(u); u != "" {
			e.urls = append(e.urls, u)
		}
	}
	for _, opt := range opts {
		opt(&e)
	}
	if e.id == "" {
		e.id = e.airport + ":" + e.canonical
		if e.isCont {
			e.id = fmt.Sprintf("%s:CONT%d", e.id, e.contSeq)
		}
	}
	if len(e.urls) == 0 && e.route == nil && e.approach == nil {
		return Entry{}, fmt.Errorf("entry %q has neither source URLs nor waypoint data", name)
	}
	return e, nil
}

// ID returns the entry identifier.
func (e Entry) ID() string { return e.id }

// Airport returns the airport or facility code.
func (e Entry) Airport() string { return e.airport }

// Name returns the display name as supplied.
func (e Entry) Name() string { return e.name }

// Canonical returns the normalized display name without any CONT marker.
func (e Entry) Canonical() string { return e.canonical }

// Category returns the procedure-type category.
func (e Entry) Category() query.Category { return e.category }

// URLs returns the ordered source URLs.
func (e Entry) URLs() []string { return e.urls }

// Group returns the listing group.
func (e Entry) Group() string { return e.group }

// Headings returns bookmark headings, if any.
func (e Entry) Headings() []document.Heading { return e.headings }

// Route returns the route legs of a waypoint-bearing arrival/departure.
func (e Entry) Route() (waypoint.Route, bool) {
	if e.route == nil {
		return waypoint.Route{}, false
	}
	return *e.route, true
}

// Approach returns the approach fixes of a waypoint-bearing approach.
func (e Entry) Approach() (ApproachFixes, bool) {
	if e.approach == nil {
		return ApproachFixes{}, false
	}
	return *e.approach, true
}

// Kind returns the entry variant.
func (e Entry) Kind() Kind {
	switch {
	case e.route != nil || e.approach != nil:
		return KindWaypointBearing
	case len(e.urls) > 1:
		return KindMultiPage
	default:
		return KindSinglePage
	}
}

// IsContinuation reports whether the entry is a CONT page of another entry.
func (e Entry) IsContinuation() bool { return e.isCont }

// ContinuationSeq returns the CONT sequence number, or 0 for base pages.
func (e Entry) ContinuationSeq() int {
	if !e.isCont {
		return 0
	}
	return e.contSeq
}

// With returns a copy with the options applied.
func (e Entry) With(opts ...Option) Entry {
	c := e
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// WithURLs returns a copy with the source URLs replaced.
func (e Entry) WithURLs(urls []string) Entry {
	c := e
	c.urls = append([]string(nil), urls...)
	return c
}
