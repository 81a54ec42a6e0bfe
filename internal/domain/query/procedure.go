package query

import (
	"errors"
	"regexp"
	"strings"
	"unicode"

	"github.com/kailas-cloud/chartref/internal/domain"
)

var (
	sectionStart = regexp.MustCompile(`^\d+[-.]`)
	starName     = regexp.MustCompile(`^[A-Z]+\d$`)
)

var errUnclosedQuote = errors.New("unclosed quote")

var procedureKeywords = map[string]struct{}{
	"ATCT": {}, "SOP": {}, "TRACON": {}, "LOA": {}, "CPS": {}, "CENTER": {},
}

var facilityCodes = map[string]struct{}{
	"SFO": {}, "OAK": {}, "SJC": {}, "SMF": {}, "RNO": {}, "FAT": {}, "MRY": {},
	"BAB": {}, "APC": {}, "CCR": {}, "CIC": {}, "HWD": {}, "LVK": {}, "MER": {},
	"MHR": {}, "MOD": {}, "NUQ": {}, "PAO": {}, "RDD": {}, "RHV": {}, "SAC": {},
	"SCK": {}, "SNS": {}, "SQL": {}, "STS": {}, "SUU": {}, "TRK": {},
	"NCT": {}, "ZOA": {}, "ZLA": {}, "ZLC": {}, "ZSE": {}, "NFL": {}, "NLC": {},
	"ZAK": {},
}

// airportAliases maps facility codes to the names used in document titles.
var airportAliases = map[string]string{
	"OAK": "OAKLAND",
	"SFO": "SAN FRANCISCO",
	"SJC": "SAN JOSE",
	"SMF": "SACRAMENTO",
	"RNO": "RENO",
	"FAT": "FRESNO",
	"MRY": "MONTEREY",
	"SCK": "STOCKTON",
	"NCT": "NORCAL",
	"ZOA": "OAKLAND CENTER",
}

// procedureAliases lists equivalent spellings of the same facility.
var procedureAliases = map[string][]string{
	"NCT":     {"NORCAL", "NCT"},
	"NORCAL":  {"NCT", "NORCAL"},
	"ZOA":     {"OAKLAND CENTER", "ZOA"},
	"OAKLAND": {"OAK", "OAKLAND"},
}

// ProcedureQuery is a parsed facility-procedure lookup.
type ProcedureQuery struct {
	Term    string
	Section string
	Search  string
}

// ParseProcedure splits a procedure lookup into its document term, optional
// section and optional search term. Parts are shell-style words; a quoted
// phrase arrives as one part.
//
//	OAK ATCT 2-2              -> term "OAK ATCT", section "2-2"
//	SJC "IFR Departures" SJCE -> term "SJC", section "IFR Departures", search "SJCE"
func ParseProcedure(parts []string) (ProcedureQuery, error) {
	var proc []string
	i := 0
	for i < len(parts) {
		part := strings.TrimSpace(parts[i])
		up := strings.ToUpper(part)

		startsSection := sectionStart.MatchString(up) ||
			(i > 0 && !isKeyword(up) && !isFacility(up) && len(part) > 1)

		if i == 1 && len(proc) > 0 {
			first := strings.ToUpper(proc[0])
			if (isFacility(first) || isKeyword(first)) && startsSection {
				break
			}
		}
		if len(proc) >= 2 && isFacility(strings.ToUpper(proc[0])) &&
			isKeyword(strings.ToUpper(proc[len(proc)-1])) {
			break
		}
		if sectionStart.MatchString(up) {
			break
		}
		if part != "" {
			proc = append(proc, part)
		}
		i++
	}

	q := ProcedureQuery{Term: strings.Join(proc, " ")}
	if q.Term == "" {
		return ProcedureQuery{}, domain.NewInvalidQuery(strings.Join(parts, " "), "missing procedure name")
	}

	rest := parts[i:]
	switch {
	case len(rest) >= 2:
		q.Section = strings.Join(rest[:len(rest)-1], " ")
		q.Search = rest[len(rest)-1]
	case len(rest) == 1:
		q.Section = rest[0]
	}
	return q, nil
}

// ParseProcedureString splits s into shell-style words and parses them.
func ParseProcedureString(s string) (ProcedureQuery, error) {
	parts, err := SplitWords(s)
	if err != nil {
		return ProcedureQuery{}, domain.NewInvalidQuery(s, err.Error())
	}
	return ParseProcedure(parts)
}

// SplitWords splits s on whitespace, keeping single- or double-quoted phrases
// together.
func SplitWords(s string) ([]string, error) {
	var (
		words   []string
		cur     strings.Builder
		quote   rune
		inWord  bool
		escaped bool
	)
	for _, r := range s {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case r == '\\' && quote != '\'':
			escaped = true
			inWord = true
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				cur.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote = r
			inWord = true
		case unicode.IsSpace(r):
			if inWord {
				words = append(words, cur.String())
				cur.Reset()
				inWord = false
			}
		default:
			cur.WriteRune(r)
			inWord = true
		}
	}
	if quote != 0 {
		return nil, errUnclosedQuote
	}
	if inWord {
		words = append(words, cur.String())
	}
	return words, nil
}

// SearchTerms returns the procedure term plus its alias spellings, canonical
// term first.
func SearchTerms(term string) []string {
	base := Canonical(term)
	terms := []string{base}
	seen := map[string]struct{}{base: {}}
	add := func(s string) {
		s = Canonical(s)
		if _, ok := seen[s]; ok || s == "" {
			return
		}
		seen[s] = struct{}{}
		terms = append(terms, s)
	}

	words := strings.Fields(base)
	for idx, w := range words {
		if name, ok := airportAliases[w]; ok {
			add(replaceWord(words, idx, name))
		}
		for _, alt := range procedureAliases[w] {
			add(replaceWord(words, idx, alt))
		}
	}
	return terms
}

func replaceWord(words []string, idx int, with string) string {
	out := make([]string, 0, len(words))
	out = append(out, words[:idx]...)
	out = append(out, with)
	out = append(out, words[idx+1:]...)
	return strings.Join(out, " ")
}

// AirportName returns the city name for a facility code, if known.
func AirportName(code string) (string, bool) {
	name, ok := airportAliases[strings.ToUpper(strings.TrimSpace(code))]
	return name, ok
}

func isKeyword(s string) bool {
	_, ok := procedureKeywords[s]
	return ok
}

func isFacility(s string) bool {
	_, ok := facilityCodes[s]
	return ok
}

// IsStarName reports whether name has the NAME+digit form of an arrival
// identifier (CNDEL5, EMZOH4).
func IsStarName(name string) bool {
	return starName.MatchString(strings.ToUpper(strings.TrimSpace(name)))
}

// StarIdentifier returns the coded identifier for an arrival name, accepting
// both the coded form (CNDEL5) and the spelled chart title (CNDEL FIVE).
func StarIdentifier(name string) (string, bool) {
	up := strings.ToUpper(strings.TrimSpace(name))
	up = strings.TrimSpace(strings.TrimSuffix(up, "(RNAV)"))
	if starName.MatchString(up) {
		return up, true
	}
	tokens := strings.Fields(Canonical(up))
	if len(tokens) != 2 || !alphaOnly.MatchString(tokens[0]) {
		return "", false
	}
	d, ok := wordDigits[tokens[1]]
	if !ok {
		return "", false
	}
	return tokens[0] + d, true
}
