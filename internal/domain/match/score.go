package match

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

const (
	// ExactScore is the score of identical normalized names.
	ExactScore = 1.0
	// maxFuzzyScore keeps every non-identical name strictly below ExactScore.
	maxFuzzyScore = 0.99

	substringBonus = 0.3
	prefixBonus    = 0.1

	editWeight   = 0.8
	prefixWeight = 0.6
	maxEdits     = 2
	minEditLen   = 4
	minPrefixLen = 3
)

// Score rates how well query tokens match target tokens, in [0,1].
//
// Identical token sequences score ExactScore. Otherwise every query token
// contributes its best pairing with a target token (1 for equal tokens, a
// damped edit-distance similarity for near misses, a damped share for a
// prefix), the summed overlap is divided like a Jaccard index, and small
// bonuses are added when the whole query appears in the target or the first
// query token starts a target token. Token sets with no related pair score 0.
func Score(queryTokens, targetTokens []string) (float64, []string) {
	if len(queryTokens) == 0 || len(targetTokens) == 0 {
		return 0, nil
	}
	qName := strings.Join(queryTokens, " ")
	tName := strings.Join(targetTokens, " ")
	if qName == tName {
		return ExactScore, append([]string(nil), targetTokens...)
	}

	var (
		overlap float64
		matched []string
		seen    = make(map[string]struct{})
	)
	for _, q := range queryTokens {
		best, bestTok := 0.0, ""
		for _, t := range targetTokens {
			if w := tokenWeight(q, t); w > best {
				best, bestTok = w, t
			}
		}
		if best == 0 {
			continue
		}
		overlap += best
		if _, ok := seen[bestTok]; !ok {
			seen[bestTok] = struct{}{}
			matched = append(matched, bestTok)
		}
	}
	if overlap == 0 {
		return 0, nil
	}

	score := overlap / (float64(len(queryTokens)+len(targetTokens)) - overlap)
	if strings.Contains(tName, qName) {
		score += substringBonus
	}
	for _, t := range targetTokens {
		if strings.HasPrefix(t, queryTokens[0]) {
			score += prefixBonus
			break
		}
	}
	return min(score, maxFuzzyScore), matched
}

// tokenWeight rates a single token pair in [0,1].
func tokenWeight(a, b string) float64 {
	if a == b {
		return 1
	}
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	if la >= minEditLen && lb >= minEditLen {
		if d := levenshtein.ComputeDistance(a, b); d <= maxEdits {
			return editWeight * (1 - float64(d)/float64(max(la, lb)))
		}
	}
	short, long := a, b
	if la > lb {
		short, long = b, a
		la, lb = lb, la
	}
	if la >= minPrefixLen && strings.HasPrefix(long, short) {
		return prefixWeight * float64(la) / float64(lb)
	}
	return 0
}
