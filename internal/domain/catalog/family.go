package catalog

import (
	"sort"
	"strconv"
)

// UnnumberedContinuation orders a CONT page without a number after all numbered ones.
const UnnumberedContinuation = 999

// Family is a base page and its continuation pages in sequence order.
type Family struct {
	Base          Entry
	Continuations []Entry
	// Missing lists continuation numbers absent between 1 and the highest seen.
	Missing []int
}

// FindFamily collects the continuation pages of base from entries. Pages are
// matched on airport and canonical name, ordered by sequence, and
// de-duplicated by sequence number and by URL.
func FindFamily(base Entry, entries []Entry) Family {
	f := Family{Base: base}
	if base.IsContinuation() {
		return f
	}

	var conts []Entry
	for _, e := range entries {
		if e.IsContinuation() && e.airport == base.airport && e.canonical == base.canonical {
			conts = append(conts, e)
		}
	}
	sort.SliceStable(conts, func(i, j int) bool {
		if conts[i].contSeq != conts[j].contSeq {
			return conts[i].contSeq < conts[j].contSeq
		}
		return conts[i].id < conts[j].id
	})

	seenSeq := make(map[int]struct{})
	seenURL := make(map[string]struct{})
	for _, u := range base.urls {
		seenURL[u] = struct{}{}
	}
	maxSeq := 0
	for _, c := range conts {
		if _, ok := seenSeq[c.contSeq]; ok {
			continue
		}
		if len(c.urls) > 0 {
			if _, ok := seenURL[c.urls[0]]; ok {
				continue
			}
		}
		seenSeq[c.contSeq] = struct{}{}
		for _, u := range c.urls {
			seenURL[u] = struct{}{}
		}
		f.Continuations = append(f.Continuations, c)
		if c.contSeq != UnnumberedContinuation && c.contSeq > maxSeq {
			maxSeq = c.contSeq
		}
	}
	for seq := 1; seq < maxSeq; seq++ {
		if _, ok := seenSeq[seq]; !ok {
			f.Missing = append(f.Missing, seq)
		}
	}
	return f
}

// Pages returns the base followed by its continuations.
func (f Family) Pages() []Entry {
	out := make([]Entry, 0, 1+len(f.Continuations))
	out = append(out, f.Base)
	return append(out, f.Continuations...)
}

// IsComplete reports whether no continuation number is missing.
func (f Family) IsComplete() bool { return len(f.Missing) == 0 }

// MissingNames returns display labels for the missing continuation pages.
func (f Family) MissingNames() []string {
	out := make([]string, 0, len(f.Missing))
	for _, seq := range f.Missing {
		out = append(out, f.Base.name+", CONT."+strconv.Itoa(seq))
	}
	return out
}

// Merged returns the family as one entry whose URLs follow page order.
func (f Family) Merged() Entry {
	var urls []string
	seen := make(map[string]struct{})
	for _, p := range f.Pages() {
		for _, u := range p.urls {
			if _, ok := seen[u]; ok {
				continue
			}
			seen[u] = struct{}{}
			urls = append(urls, u)
		}
	}
	return f.Base.WithURLs(urls)
}
