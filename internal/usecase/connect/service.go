package connect

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/chartref/internal/domain"
	"github.com/kailas-cloud/chartref/internal/domain/catalog"
	"github.com/kailas-cloud/chartref/internal/domain/query"
	"github.com/kailas-cloud/chartref/internal/domain/waypoint"
)

// Fix roles within an approach.
const (
	RoleIAF    = "IAF"
	RoleIF     = "IF"
	RoleFeeder = "FEEDER"
)

// SourceKind tells how a connection source was classified.
type SourceKind string

// Source kinds.
const (
	SourceStar SourceKind = "star"
	SourceFix  SourceKind = "fix"
)

// Source is the resolved origin of a connectivity query.
type Source struct {
	Name  string
	Kind  SourceKind
	Fixes waypoint.Set
	// Star is the arrival entry for SourceStar.
	Star catalog.Entry
}

// Connection is an approach reachable from the source.
type Connection struct {
	Approach catalog.Entry
	Fixes    []string
	// Role is IAF when any connecting fix is an IAF, else IF.
	Role string
}

// FixMatch is an approach that uses a fix as IAF, IF or feeder.
type FixMatch struct {
	Approach catalog.Entry
	Fix      string
	Role     string
	// Via is the IAF/IF a feeder leads to.
	Via string
}

// StarAnalysis describes an arrival and the approaches it connects to.
type StarAnalysis struct {
	Star        catalog.Entry
	Waypoints   []string
	Terminal    []string
	Connections []Connection
}

// Service computes STAR/fix to approach connectivity.
type Service struct {
	logger *zap.Logger
}

// New creates a connectivity service.
func New(logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{logger: logger}
}

// FindConnections returns every approach whose IAF/IF fixes intersect source,
// ordered by approach name then id. No connection is a valid empty result.
func (s *Service) FindConnections(source waypoint.Set, approaches []catalog.Entry) []Connection {
	var out []Connection
	for _, a := range approaches {
		fixes, ok := a.Approach()
		if !ok {
			continue
		}
		common := source.Intersect(fixes.Entry())
		if len(common) == 0 {
			continue
		}
		role := RoleIF
		for _, f := range common {
			if fixes.Role(f) == RoleIAF {
				role = RoleIAF
				break
			}
		}
		out = append(out, Connection{Approach: a, Fixes: common, Role: role})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return entryLess(out[i].Approach, out[j].Approach)
	})
	return out
}

// ResolveSource classifies name by its shape: NAME+digit (or its spelled
// title) is an arrival resolved to its terminal fixes, anything else is a
// single fix.
func (s *Service) ResolveSource(name string, entries []catalog.Entry) (Source, error) {
	name = strings.ToUpper(strings.TrimSpace(name))
	if name == "" {
		return Source{}, domain.NewInvalidQuery(name, "empty source")
	}
	id, isStar := query.StarIdentifier(name)
	if !isStar {
		if strings.ContainsAny(name, " \t") {
			return Source{}, domain.NewInvalidQuery(name, "fix identifiers contain no spaces")
		}
		return Source{Name: name, Kind: SourceFix, Fixes: waypoint.NewSet(name)}, nil
	}

	star, ok := findStar(id, entries)
	if !ok {
		return Source{}, fmt.Errorf("arrival %s: %w", id, domain.ErrNoMatch)
	}
	route, _ := star.Route()
	return Source{Name: id, Kind: SourceStar, Fixes: route.TerminalFixes(), Star: star}, nil
}

// Connect resolves name against entries and returns its connecting approaches.
func (s *Service) Connect(name string, entries []catalog.Entry) (Source, []Connection, error) {
	src, err := s.ResolveSource(name, entries)
	if err != nil {
		return Source{}, nil, err
	}
	conns := s.FindConnections(src.Fixes, entries)
	s.logger.Debug("Connections computed",
		zap.String("source", src.Name),
		zap.String("kind", string(src.Kind)),
		zap.Strings("fixes", src.Fixes.List()),
		zap.Int("approaches", len(conns)),
	)
	return src, conns, nil
}

// AnalyzeStar returns an arrival's waypoints, terminal fixes and connections.
func (s *Service) AnalyzeStar(name string, entries []catalog.Entry) (StarAnalysis, error) {
	id, ok := query.StarIdentifier(name)
	if !ok {
		return StarAnalysis{}, domain.NewInvalidQuery(name, "not an arrival identifier")
	}
	star, ok := findStar(id, entries)
	if !ok {
		return StarAnalysis{}, fmt.Errorf("arrival %s: %w", id, domain.ErrNoMatch)
	}
	route, _ := star.Route()
	terminal := route.TerminalFixes()
	return StarAnalysis{
		Star:        star,
		Waypoints:   route.Waypoints().List(),
		Terminal:    terminal.List(),
		Connections: s.FindConnections(terminal, entries),
	}, nil
}

// FindByFix returns approaches using fix as IAF, IF or feeder, ordered by
// approach name then id.
func (s *Service) FindByFix(fix string, approaches []catalog.Entry) ([]FixMatch, error) {
	fix = strings.ToUpper(strings.TrimSpace(fix))
	if fix == "" || strings.ContainsAny(fix, " \t") {
		return nil, domain.NewInvalidQuery(fix, "invalid fix identifier")
	}
	var out []FixMatch
	for _, a := range approaches {
		fixes, ok := a.Approach()
		if !ok {
			continue
		}
		if role := fixes.Role(fix); role != "" {
			out = append(out, FixMatch{Approach: a, Fix: fix, Role: role})
			continue
		}
		if via, ok := fixes.Feeders[fix]; ok {
			out = append(out, FixMatch{Approach: a, Fix: fix, Role: RoleFeeder, Via: via})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return entryLess(out[i].Approach, out[j].Approach)
	})
	return out, nil
}

func findStar(id string, entries []catalog.Entry) (catalog.Entry, bool) {
	for _, e := range entries {
		if _, ok := e.Route(); !ok {
			continue
		}
		if e.Category().IsKnown() && e.Category() != query.CategorySTAR {
			continue
		}
		if sid, ok := query.StarIdentifier(e.Name()); ok && sid == id {
			return e, true
		}
	}
	return catalog.Entry{}, false
}

func entryLess(a, b catalog.Entry) bool {
	if a.Name() != b.Name() {
		return a.Name() < b.Name()
	}
	return a.ID() < b.ID()
}
