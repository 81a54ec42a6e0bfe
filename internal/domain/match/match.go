package match

import (
	"sort"
	"strings"

	"github.com/kailas-cloud/chartref/internal/domain/catalog"
	"github.com/kailas-cloud/chartref/internal/domain/query"
)

// Default matching thresholds.
const (
	DefaultAcceptance    = 0.5
	DefaultMargin        = 0.15
	DefaultMaxCandidates = 10

	// categoryBonus rewards entries agreeing with an inferred category.
	categoryBonus = 0.15
)

// Options tunes candidate selection.
type Options struct {
	Acceptance    float64
	Margin        float64
	MaxCandidates int
}

// DefaultOptions returns the default thresholds.
func DefaultOptions() Options {
	return Options{
		Acceptance:    DefaultAcceptance,
		Margin:        DefaultMargin,
		MaxCandidates: DefaultMaxCandidates,
	}
}

func (o Options) withDefaults() Options {
	if o.Acceptance <= 0 {
		o.Acceptance = DefaultAcceptance
	}
	if o.Margin <= 0 {
		o.Margin = DefaultMargin
	}
	if o.MaxCandidates <= 0 {
		o.MaxCandidates = DefaultMaxCandidates
	}
	return o
}

// Match scores q against entries and selects or disambiguates.
func Match(q query.Normalized, entries []catalog.Entry, opts Options) Resolution {
	return MatchAny([]query.Normalized{q}, entries, opts)
}

// MatchAny scores every alias spelling of one query and keeps the best score
// per entry. The first query names the resolution.
func MatchAny(queries []query.Normalized, entries []catalog.Entry, opts Options) Resolution {
	if len(queries) == 0 {
		return InvalidQuery("")
	}
	opts = opts.withDefaults()
	primary := queries[0]

	best := make(map[string]Candidate)
	exact := make(map[string]bool)
	full := make(map[string]bool)
	for _, e := range entries {
		if e.IsContinuation() {
			continue
		}
		if primary.Explicit() && e.Category().IsKnown() && e.Category() != primary.Category() {
			continue
		}
		target := strings.Fields(e.Canonical())
		for _, q := range queries {
			score, matched := Score(q.Tokens(), target)
			if score == 0 {
				continue
			}
			isExact := score == ExactScore
			if !isExact && !q.Explicit() && q.Category().IsKnown() && e.Category() == q.Category() {
				score = min(score+categoryBonus, maxFuzzyScore)
			}
			if score < opts.Acceptance {
				continue
			}
			if cur, ok := best[e.ID()]; ok && cur.Score >= score {
				continue
			}
			best[e.ID()] = Candidate{Entry: e, Score: score, Matched: matched}
			exact[e.ID()] = isExact
			full[e.ID()] = containsAll(target, q.Tokens())
		}
	}
	if len(best) == 0 {
		return NoMatch(primary.Name())
	}

	ranked := make([]Candidate, 0, len(best))
	for _, c := range best {
		ranked = append(ranked, c)
	}
	Rank(ranked)

	var exacts []Candidate
	for _, c := range ranked {
		if exact[c.Entry.ID()] {
			exacts = dedupeDocument(exacts, c)
		}
	}
	switch {
	case len(exacts) == 1:
		return Unambiguous(primary.Name(), exacts[0])
	case len(exacts) > 1:
		return Ambiguous(primary.Name(), capped(exacts, opts.MaxCandidates))
	case len(ranked) == 1:
		return Unambiguous(primary.Name(), ranked[0])
	}

	pool := ranked
	if len(primary.Tokens()) > 1 {
		var complete []Candidate
		for _, c := range ranked {
			if full[c.Entry.ID()] {
				complete = append(complete, c)
			}
		}
		if len(complete) == 1 {
			return Unambiguous(primary.Name(), complete[0])
		}
		if len(complete) > 1 {
			pool = complete
		}
	}

	if len(pool) == 1 || pool[0].Score-pool[1].Score >= opts.Margin {
		return Unambiguous(primary.Name(), pool[0])
	}

	floor := pool[0].Score - opts.Margin
	var band []Candidate
	for _, c := range pool {
		if c.Score >= floor {
			band = append(band, c)
		}
	}
	return Ambiguous(primary.Name(), capped(band, opts.MaxCandidates))
}

// Rank sorts candidates by score descending, then shorter display name,
// then display name, then id.
func Rank(cs []Candidate) {
	sort.SliceStable(cs, func(i, j int) bool {
		a, b := cs[i], cs[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if la, lb := len(a.Entry.Name()), len(b.Entry.Name()); la != lb {
			return la < lb
		}
		if a.Entry.Name() != b.Entry.Name() {
			return a.Entry.Name() < b.Entry.Name()
		}
		return a.Entry.ID() < b.Entry.ID()
	})
}

func containsAll(target, tokens []string) bool {
	set := make(map[string]struct{}, len(target))
	for _, t := range target {
		set[t] = struct{}{}
	}
	for _, t := range tokens {
		if _, ok := set[t]; !ok {
			return false
		}
	}
	return true
}

// dedupeDocument appends c unless an entry with the same source is already present.
func dedupeDocument(cs []Candidate, c Candidate) []Candidate {
	for _, x := range cs {
		if sameSource(x.Entry, c.Entry) {
			return cs
		}
	}
	return append(cs, c)
}

func sameSource(a, b catalog.Entry) bool {
	ua, ub := a.URLs(), b.URLs()
	if len(ua) == 0 || len(ua) != len(ub) {
		return false
	}
	for i := range ua {
		if ua[i] != ub[i] {
			return false
		}
	}
	return true
}

func capped(cs []Candidate, n int) []Candidate {
	if len(cs) > n {
		return cs[:n]
	}
	return cs
}
