package query

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/kailas-cloud/chartref/internal/domain"
)

var (
	contSuffix    = regexp.MustCompile(`^(.*?)[,\s]*\bCONT\b\.?\s*(\d*)\s*$`)
	fusedApproach = regexp.MustCompile(`^(ILS|LOC|VOR|RNAV|RNP|GPS|NDB|TACAN|LDA|SDF)(\d{1,2}[LRC]?)$`)
	fusedNumber   = regexp.MustCompile(`^([A-Z]{2,})(\d{1,2})$`)
	bareNumber    = regexp.MustCompile(`^\d{1,2}$`)
	shortRunway   = regexp.MustCompile(`^\d[LRC]?$`)
	alphaOnly     = regexp.MustCompile(`^[A-Z]+$`)
)

// Normalized is the canonical comparable form of a chart or procedure name.
type Normalized struct {
	name     string
	tokens   []string
	category Category
	explicit bool
	pageSeq  int
	hasCont  bool
}

// Name returns the canonical name (tokens joined by single spaces).
func (n Normalized) Name() string { return n.name }

// Tokens returns the canonical tokens in order.
func (n Normalized) Tokens() []string { return n.tokens }

// Category returns the explicit or inferred procedure category.
func (n Normalized) Category() Category { return n.category }

// Explicit reports whether the category came from a caller hint.
func (n Normalized) Explicit() bool { return n.explicit }

// Continuation returns the CONT.n page-sequence hint, if one was stripped.
// An unnumbered CONT marker reports seq 0 with ok=true.
func (n Normalized) Continuation() (seq int, ok bool) { return n.pageSeq, n.hasCont }

// Normalize turns a raw name into its canonical form.
//
// Letters are folded to uppercase ASCII, separators collapse to single spaces,
// a trailing CONT.n marker becomes a page-sequence hint, a trailing 1-2 digit
// run on a non-approach name is spelled out (CNDEL5 -> CNDEL FIVE) and single
// digit runway numbers get a leading zero (4R -> 04R). The function is pure:
// Normalize(Normalize(x).Name()) yields the same name.
func Normalize(raw, typeHint string) (Normalized, error) {
	hinted, err := ParseCategory(typeHint)
	if err != nil {
		return Normalized{}, domain.NewInvalidQuery(typeHint, err.Error())
	}

	s := fold(raw)

	var out Normalized
	if m := contSuffix.FindStringSubmatch(s); m != nil {
		s = m[1]
		out.hasCont = true
		if m[2] != "" {
			out.pageSeq, _ = strconv.Atoi(m[2])
		}
	}

	tokens := tokenize(s)
	if len(tokens) == 0 {
		return Normalized{}, domain.NewInvalidQuery(raw, "empty name")
	}

	out.category = hinted
	out.explicit = hinted.IsKnown()
	if !out.explicit {
		out.category = inferCategory(tokens)
	}

	if out.category != CategoryIAP {
		tokens = expandTrailingNumber(tokens)
	}
	for i, t := range tokens {
		if shortRunway.MatchString(t) {
			tokens[i] = "0" + t
		}
	}

	out.tokens = tokens
	out.name = strings.Join(tokens, " ")
	return out, nil
}

// Canonical returns the normalized name of s, or its trimmed uppercase form
// when s does not normalize.
func Canonical(s string) string {
	n, err := Normalize(s, "")
	if err != nil {
		return strings.ToUpper(strings.TrimSpace(s))
	}
	return n.name
}

// fold applies compatibility decomposition, drops combining marks and uppercases.
func fold(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFKC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToUpper(strings.TrimSpace(folded))
}

// tokenize splits on anything that is not a letter or digit and splits fused
// approach tokens such as ILS28R.
func tokenize(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	tokens := make([]string, 0, len(fields)+1)
	for _, f := range fields {
		if m := fusedApproach.FindStringSubmatch(f); m != nil {
			tokens = append(tokens, m[1], m[2])
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// expandTrailingNumber spells out the procedure number at the end of a name.
func expandTrailingNumber(tokens []string) []string {
	last := tokens[len(tokens)-1]

	if m := fusedNumber.FindStringSubmatch(last); m != nil && !IsApproachPrefix(m[1]) && m[1] != "RWY" {
		out := append([]string{}, tokens[:len(tokens)-1]...)
		out = append(out, m[1])
		return append(out, numberWords(m[2])...)
	}

	if len(tokens) >= 2 && bareNumber.MatchString(last) {
		prev := tokens[len(tokens)-2]
		if alphaOnly.MatchString(prev) && prev != "RWY" && !IsApproachPrefix(prev) {
			out := append([]string{}, tokens[:len(tokens)-1]...)
			return append(out, numberWords(last)...)
		}
	}
	return tokens
}
