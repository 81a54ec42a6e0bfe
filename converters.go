package chartref

import (
	"github.com/kailas-cloud/chartref/internal/domain/catalog"
	"github.com/kailas-cloud/chartref/internal/domain/match"
	"github.com/kailas-cloud/chartref/internal/usecase/connect"
	"github.com/kailas-cloud/chartref/internal/usecase/navigate"
	"github.com/kailas-cloud/chartref/internal/usecase/resolve"
)

func fromStatus(s match.Status) Status {
	switch s {
	case match.StatusUnambiguous:
		return StatusUnambiguous
	case match.StatusAmbiguous:
		return StatusAmbiguous
	case match.StatusInvalidQuery:
		return StatusInvalidQuery
	default:
		return StatusNoMatch
	}
}

func fromOutcome(out resolve.Outcome) *Resolution {
	res := &Resolution{
		Status: fromStatus(out.Resolution.Status()),
		Query:  out.Resolution.Query(),
	}
	if sel, ok := out.Resolution.Selected(); ok {
		c := fromCandidate(sel)
		res.Selected = &c
		res.Group = out.Entry.Group()
		res.URLs = out.Entry.URLs()
	} else if res.Status == StatusAmbiguous {
		cs := out.Resolution.Candidates()
		res.Candidates = make([]Candidate, len(cs))
		for i, c := range cs {
			res.Candidates[i] = fromCandidate(c)
		}
	}
	if out.Document != nil {
		res.doc = out.Document
		res.Document = out.Document.Name()
		for i, p := range out.Document.Pages() {
			res.Pages = append(res.Pages, Page{
				Number:     i + 1,
				Source:     p.Source(),
				SourcePage: p.SourceIndex() + 1,
				Detected:   int(p.Detected()),
				Rotation:   int(p.Applied()),
			})
		}
	}
	if out.Location != nil {
		res.Location = fromLocation(*out.Location)
	}
	return res
}

func fromCandidate(c match.Candidate) Candidate {
	out := fromEntry(c.Entry)
	out.Score = c.Score
	out.Matched = c.Matched
	return out
}

func fromEntry(e catalog.Entry) Candidate {
	c := Candidate{ID: e.ID(), Airport: e.Airport(), Name: e.Name()}
	if e.Category().IsKnown() {
		c.Category = string(e.Category())
	}
	return c
}

func fromLocation(l navigate.Location) *Location {
	return &Location{
		Page:         l.Page + 1,
		Heading:      l.Heading.Title,
		Level:        l.Heading.Level,
		SectionFound: l.SectionFound,
		Term:         l.Term,
		Snippet:      l.Snippet,
	}
}

func fromConnections(conns []connect.Connection) []Connection {
	out := make([]Connection, len(conns))
	for i, c := range conns {
		out[i] = Connection{Approach: fromEntry(c.Approach), Fixes: c.Fixes, Role: c.Role}
	}
	return out
}
