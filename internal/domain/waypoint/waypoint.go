package waypoint

import (
	"regexp"
	"sort"
	"strings"
)

// Set is an ordered, duplicate-free set of fix identifiers (immutable value object).
type Set struct {
	order []string
	index map[string]struct{}
}

// NewSet builds a Set from ids, keeping first-seen order and uppercasing.
// Blank ids are skipped.
func NewSet(ids ...string) Set {
	s := Set{index: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		id = strings.ToUpper(strings.TrimSpace(id))
		if id == "" {
			continue
		}
		if _, ok := s.index[id]; ok {
			continue
		}
		s.index[id] = struct{}{}
		s.order = append(s.order, id)
	}
	return s
}

// Contains reports whether id is in the set.
func (s Set) Contains(id string) bool {
	_, ok := s.index[strings.ToUpper(strings.TrimSpace(id))]
	return ok
}

// Len returns the number of fixes.
func (s Set) Len() int { return len(s.order) }

// IsEmpty reports whether the set has no fixes.
func (s Set) IsEmpty() bool { return len(s.order) == 0 }

// List returns a copy of the fixes in insertion order.
func (s Set) List() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Intersect returns the fixes present in both sets, in s order.
func (s Set) Intersect(o Set) []string {
	var out []string
	for _, id := range s.order {
		if _, ok := o.index[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

// Union returns s followed by the fixes of o not already in s.
func (s Set) Union(o Set) Set {
	ids := make([]string, 0, len(s.order)+len(o.order))
	ids = append(ids, s.order...)
	ids = append(ids, o.order...)
	return NewSet(ids...)
}

var (
	runwayFix  = regexp.MustCompile(`^RW\d`)
	airportFix = regexp.MustCompile(`^K[A-Z]{3}$`)
)

// IsRoutable reports whether id is a navigable fix rather than a runway
// threshold or airport reference point.
func IsRoutable(id string) bool {
	id = strings.ToUpper(strings.TrimSpace(id))
	return id != "" && !runwayFix.MatchString(id) && !airportFix.MatchString(id)
}

// Leg is one sequenced fix of a procedure route.
type Leg struct {
	Transition string
	Sequence   int
	Fix        string
}

// Route is an arrival or departure route: a common segment plus named
// enroute and runway transitions.
type Route struct {
	common      []string
	transitions map[string][]string
	names       []string
}

// IsCommonTransition reports whether name designates the shared route segment.
func IsCommonTransition(name string) bool {
	n := strings.ToUpper(strings.TrimSpace(name))
	return n == "" || n == "ALL"
}

// IsRunwayTransition reports whether name designates a runway transition (RW28B).
func IsRunwayTransition(name string) bool {
	return strings.HasPrefix(strings.ToUpper(strings.TrimSpace(name)), "RW")
}

// NewRoute groups legs by transition and orders each by sequence number.
// Non-routable fixes are dropped.
func NewRoute(legs []Leg) Route {
	sorted := make([]Leg, len(legs))
	copy(sorted, legs)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Sequence < sorted[j].Sequence })

	r := Route{transitions: make(map[string][]string)}
	for _, l := range sorted {
		if !IsRoutable(l.Fix) {
			continue
		}
		fix := strings.ToUpper(strings.TrimSpace(l.Fix))
		if IsCommonTransition(l.Transition) {
			r.common = appendUnique(r.common, fix)
			continue
		}
		name := strings.ToUpper(strings.TrimSpace(l.Transition))
		if _, ok := r.transitions[name]; !ok {
			r.names = append(r.names, name)
		}
		r.transitions[name] = appendUnique(r.transitions[name], fix)
	}
	sort.Strings(r.names)
	return r
}

func appendUnique(list []string, fix string) []string {
	if len(list) > 0 && list[len(list)-1] == fix {
		return list
	}
	return append(list, fix)
}

// Common returns the shared route segment.
func (r Route) Common() []string { return r.common }

// Transitions returns the transition names in sorted order.
func (r Route) Transitions() []string { return r.names }

// Transition returns the fixes of one named transition.
func (r Route) Transition(name string) []string {
	return r.transitions[strings.ToUpper(strings.TrimSpace(name))]
}

// Waypoints returns the common segment followed by the runway transitions.
func (r Route) Waypoints() Set {
	ids := append([]string{}, r.common...)
	for _, name := range r.names {
		if IsRunwayTransition(name) {
			ids = append(ids, r.transitions[name]...)
		}
	}
	return NewSet(ids...)
}

// AllWaypoints returns every fix of the route including enroute transitions.
func (r Route) AllWaypoints() Set {
	ids := append([]string{}, r.common...)
	for _, name := range r.names {
		ids = append(ids, r.transitions[name]...)
	}
	return NewSet(ids...)
}

// TerminalFixes returns the fixes where the route hands off to an approach:
// the last fix of each runway transition, else the last common fix, else the
// last fix of each enroute transition.
func (r Route) TerminalFixes() Set {
	var ids []string
	for _, name := range r.names {
		if IsRunwayTransition(name) {
			if fixes := r.transitions[name]; len(fixes) > 0 {
				ids = append(ids, fixes[len(fixes)-1])
			}
		}
	}
	if len(ids) > 0 {
		return NewSet(ids...)
	}
	if len(r.common) > 0 {
		return NewSet(r.common[len(r.common)-1])
	}
	for _, name := range r.names {
		if fixes := r.transitions[name]; len(fixes) > 0 {
			ids = append(ids, fixes[len(fixes)-1])
		}
	}
	return NewSet(ids...)
}
