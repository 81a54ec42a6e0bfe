package match

import (
	"github.com/kailas-cloud/chartref/internal/domain/catalog"
)

// Status is the outcome class of a resolution.
type Status int

// Resolution statuses.
const (
	StatusNoMatch Status = iota
	StatusUnambiguous
	StatusAmbiguous
	StatusInvalidQuery
)

func (s Status) String() string {
	switch s {
	case StatusUnambiguous:
		return "unambiguous"
	case StatusAmbiguous:
		return "ambiguous"
	case StatusNoMatch:
		return "no_match"
	case StatusInvalidQuery:
		return "invalid_query"
	default:
		return "unknown"
	}
}

// Candidate is a catalog entry paired with its similarity score.
type Candidate struct {
	Entry   catalog.Entry
	Score   float64
	Matched []string
}

// Resolution is the result of matching a query against a catalog.
type Resolution struct {
	status     Status
	query      string
	candidates []Candidate
}

// Unambiguous creates a resolution selecting c.
func Unambiguous(query string, c Candidate) Resolution {
	return Resolution{status: StatusUnambiguous, query: query, candidates: []Candidate{c}}
}

// Ambiguous creates a resolution that needs caller disambiguation.
func Ambiguous(query string, cs []Candidate) Resolution {
	return Resolution{status: StatusAmbiguous, query: query, candidates: cs}
}

// NoMatch creates an empty resolution.
func NoMatch(query string) Resolution {
	return Resolution{status: StatusNoMatch, query: query}
}

// InvalidQuery creates a resolution for input that could not be normalized.
func InvalidQuery(query string) Resolution {
	return Resolution{status: StatusInvalidQuery, query: query}
}

// Status returns the outcome class.
func (r Resolution) Status() Status { return r.status }

// Query returns the canonical query the resolution was computed for.
func (r Resolution) Query() string { return r.query }

// Candidates returns the ranked candidates (one for unambiguous results).
func (r Resolution) Candidates() []Candidate { return r.candidates }

// Selected returns the chosen candidate of an unambiguous resolution.
func (r Resolution) Selected() (Candidate, bool) {
	if r.status != StatusUnambiguous || len(r.candidates) == 0 {
		return Candidate{}, false
	}
	return r.candidates[0], true
}
