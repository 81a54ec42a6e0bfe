package chartref

import (
	"time"

	"github.com/kailas-cloud/chartref/internal/domain/document"
)

// Status is the outcome of a resolution.
type Status string

// Resolution outcomes.
const (
	StatusUnambiguous  Status = "unambiguous"
	StatusAmbiguous    Status = "ambiguous"
	StatusNoMatch      Status = "no_match"
	StatusInvalidQuery Status = "invalid_query"
)

// ChartQuery looks up one chart of an airport.
type ChartQuery struct {
	Airport string
	Name    string
	// Type is an explicit category hint: IAP, DP, STAR or APD.
	Type    string
	Section string
	Search  string
	// Rotation overrides the engine default: auto, disabled, 0, 90, 180, 270.
	Rotation string
	// Bypass skips the catalog cache and refreshes it.
	Bypass bool
}

// ProcedureQuery looks up a facility procedure (SOP, LOA).
// Query is parsed into Term, Section and Search ("OAK ATCT 2-2 SJCE");
// explicit fields take precedence over parsed ones.
type ProcedureQuery struct {
	Query    string
	Term     string
	Section  string
	Search   string
	Rotation string
	Bypass   bool
}

// Candidate is one scored catalog entry.
type Candidate struct {
	ID       string   `json:"id"`
	Airport  string   `json:"airport,omitempty"`
	Name     string   `json:"name"`
	Category string   `json:"category,omitempty"`
	Score    float64  `json:"score"`
	Matched  []string `json:"matched,omitempty"`
}

// Page is one page of an assembled document.
type Page struct {
	// Number is 1-based.
	Number     int    `json:"number"`
	Source     string `json:"source"`
	SourcePage int    `json:"source_page"`
	Detected   int    `json:"detected_rotation"`
	Rotation   int    `json:"rotation"`
}

// Location is a section or search hit inside a document.
type Location struct {
	// Page is 1-based.
	Page         int    `json:"page"`
	Heading      string `json:"heading,omitempty"`
	Level        int    `json:"level,omitempty"`
	SectionFound bool   `json:"section_found"`
	Term         string `json:"term,omitempty"`
	Snippet      string `json:"snippet,omitempty"`
}

// Resolution is the result of ResolveChart or ResolveProcedure.
// Selected is set for unambiguous results, Candidates for ambiguous ones.
type Resolution struct {
	Status     Status      `json:"status"`
	Query      string      `json:"query"`
	Selected   *Candidate  `json:"selected,omitempty"`
	Candidates []Candidate `json:"candidates,omitempty"`
	Group      string      `json:"group,omitempty"`
	Document   string      `json:"document,omitempty"`
	URLs       []string    `json:"urls,omitempty"`
	Pages      []Page      `json:"pages,omitempty"`
	Location   *Location   `json:"location,omitempty"`

	doc *document.Document
}

// ConnectionQuery asks which approaches a STAR or fix connects to.
type ConnectionQuery struct {
	Airport string
	// Source is a STAR (CNDEL5, "CNDEL FIVE") or a fix identifier.
	Source string
	Bypass bool
}

// Connection is an approach reachable from a source.
type Connection struct {
	Approach Candidate `json:"approach"`
	Fixes    []string  `json:"fixes"`
	Role     string    `json:"role"`
}

// ConnectionReport lists the approaches connected to a source.
type ConnectionReport struct {
	Airport     string       `json:"airport"`
	Source      string       `json:"source"`
	Kind        string       `json:"kind"`
	Fixes       []string     `json:"fixes"`
	Connections []Connection `json:"connections"`
}

// FixApproach is an approach that uses a fix.
type FixApproach struct {
	Approach Candidate `json:"approach"`
	Fix      string    `json:"fix"`
	Role     string    `json:"role"`
	Via      string    `json:"via,omitempty"`
}

// StarReport describes an arrival and its connecting approaches.
type StarReport struct {
	Airport     string       `json:"airport"`
	Star        Candidate    `json:"star"`
	Waypoints   []string     `json:"waypoints"`
	Terminal    []string     `json:"terminal"`
	Connections []Connection `json:"connections"`
}

// CachedListing is one catalog listing held in the cache.
type CachedListing struct {
	Cycle     string    `json:"cycle"`
	Name      string    `json:"name"`
	FetchedAt time.Time `json:"fetched_at"`
}

// HealthStatus aggregates component checks.
type HealthStatus struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
