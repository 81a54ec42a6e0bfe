package match

import (
	"math"
	"reflect"
	"testing"

	"github.com/kailas-cloud/chartref/internal/domain/catalog"
	"github.com/kailas-cloud/chartref/internal/domain/query"
)

func entry(t *testing.T, name string, cat query.Category) catalog.Entry {
	t.Helper()
	e, err := catalog.NewEntry("", "OAK", name, cat, []string{name + ".pdf"})
	if err != nil {
		t.Fatalf("NewEntry(%q): %v", name, err)
	}
	return e
}

func normalized(t *testing.T, raw, hint string) query.Normalized {
	t.Helper()
	n, err := query.Normalize(raw, hint)
	if err != nil {
		t.Fatalf("Normalize(%q): %v", raw, err)
	}
	return n
}

func names(cs []Candidate) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Entry.Name()
	}
	return out
}

func TestScore_Boundaries(t *testing.T) {
	if s, _ := Score([]string{"CNDEL", "FIVE"}, []string{"CNDEL", "FIVE"}); s != ExactScore {
		t.Errorf("identical score = %v, want 1", s)
	}
	if s, _ := Score([]string{"CNDEL", "FIVE"}, []string{"EMZOH", "FOUR"}); s > 0.2 {
		t.Errorf("disjoint score = %v, want <= 0.2", s)
	}
	s, matched := Score([]string{"CNDEL"}, []string{"CNDEL", "FIVE"})
	if math.Abs(s-0.9) > 1e-9 {
		t.Errorf("partial score = %v, want 0.9", s)
	}
	if !reflect.DeepEqual(matched, []string{"CNDEL"}) {
		t.Errorf("matched = %v", matched)
	}
	if s, _ := Score([]string{"CNDL", "FIVE"}, []string{"CNDEL", "FIVE"}); s >= ExactScore || s < 0.5 {
		t.Errorf("near-miss score = %v", s)
	}
	if s, _ := Score(nil, []string{"A"}); s != 0 {
		t.Errorf("empty query score = %v", s)
	}
}

func TestTokenWeight(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"CNDEL", "CNDEL", 1},
		{"CNDEL", "CNDL", editWeight * (1 - 1.0/5)},
		{"KITTEN", "SITTING", 0},
		{"RWY", "RUNWAY", 0},
	}
	for _, tt := range tests {
		if got := tokenWeight(tt.a, tt.b); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("tokenWeight(%q,%q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestMatch_ExactWinsOverNoise(t *testing.T) {
	cat := []catalog.Entry{
		entry(t, "CNDEL FOUR", query.CategorySTAR),
		entry(t, "CNDEL FIVE", query.CategorySTAR),
		entry(t, "CNDEL FIVE, CONT.1", query.CategorySTAR),
		entry(t, "EMZOH FOUR", query.CategorySTAR),
	}
	res := Match(normalized(t, "CNDEL5", ""), cat, DefaultOptions())
	c, ok := res.Selected()
	if !ok {
		t.Fatalf("Status() = %s, want unambiguous", res.Status())
	}
	if c.Entry.Name() != "CNDEL FIVE" || c.Score != ExactScore {
		t.Errorf("selected %q score %v", c.Entry.Name(), c.Score)
	}
}

func TestMatch_EmptyCatalog(t *testing.T) {
	res := Match(normalized(t, "CNDEL5", ""), nil, DefaultOptions())
	if res.Status() != StatusNoMatch {
		t.Errorf("Status() = %s, want no_match", res.Status())
	}
	if _, ok := res.Selected(); ok {
		t.Error("Selected() ok on no match")
	}
}

func TestMatch_ContinuationNeverCandidate(t *testing.T) {
	cat := []catalog.Entry{entry(t, "CNDEL FIVE, CONT.1", query.CategorySTAR)}
	if res := Match(normalized(t, "CNDEL5", ""), cat, DefaultOptions()); res.Status() != StatusNoMatch {
		t.Errorf("Status() = %s, want no_match", res.Status())
	}
}

func TestMatch_ExplicitHintExcludes(t *testing.T) {
	cat := []catalog.Entry{entry(t, "CNDEL FIVE", query.CategorySTAR)}
	if res := Match(normalized(t, "CNDEL5", "DP"), cat, DefaultOptions()); res.Status() != StatusNoMatch {
		t.Errorf("Status() = %s, want no_match", res.Status())
	}

	cat = append(cat, entry(t, "CNDEL FIVE DEPARTURE", query.CategoryUnknown))
	res := Match(normalized(t, "CNDEL5", "DP"), cat, DefaultOptions())
	c, ok := res.Selected()
	if !ok || c.Entry.Name() != "CNDEL FIVE DEPARTURE" {
		t.Errorf("Status() = %s, candidates %v", res.Status(), names(res.Candidates()))
	}
}

func TestMatch_AmbiguousDeterministic(t *testing.T) {
	a := entry(t, "CNDEL FOUR", query.CategorySTAR)
	b := entry(t, "CNDEL FIVE", query.CategorySTAR)
	c := entry(t, "EMZOH FOUR", query.CategorySTAR)
	q := normalized(t, "CNDEL", "")

	first := Match(q, []catalog.Entry{a, b, c}, DefaultOptions())
	second := Match(q, []catalog.Entry{c, b, a}, DefaultOptions())

	if first.Status() != StatusAmbiguous || second.Status() != StatusAmbiguous {
		t.Fatalf("Status() = %s / %s, want ambiguous", first.Status(), second.Status())
	}
	want := []string{"CNDEL FIVE", "CNDEL FOUR"}
	if !reflect.DeepEqual(names(first.Candidates()), want) {
		t.Errorf("first = %v, want %v", names(first.Candidates()), want)
	}
	if !reflect.DeepEqual(names(first.Candidates()), names(second.Candidates())) {
		t.Errorf("order depends on input: %v vs %v", names(first.Candidates()), names(second.Candidates()))
	}
}

func TestMatch_FullTokenSelects(t *testing.T) {
	cat := []catalog.Entry{
		entry(t, "OAK IFRS", query.CategorySOP),
		entry(t, "OAK IFR DEPARTURES", query.CategorySOP),
	}
	res := Match(normalized(t, "OAK IFR", ""), cat, DefaultOptions())
	c, ok := res.Selected()
	if !ok || c.Entry.Name() != "OAK IFR DEPARTURES" {
		t.Errorf("Status() = %s, candidates %v", res.Status(), names(res.Candidates()))
	}
}

func TestMatch_InferredCategoryBonus(t *testing.T) {
	cat := []catalog.Entry{
		entry(t, "ILS OR LOC RWY 28R", query.CategoryIAP),
		entry(t, "ILS OR LOC RWY 28L", query.CategoryIAP),
		entry(t, "RNAV (GPS) RWY 28R", query.CategoryIAP),
	}
	res := Match(normalized(t, "ILS28R", ""), cat, DefaultOptions())
	c, ok := res.Selected()
	if !ok || c.Entry.Name() != "ILS OR LOC RWY 28R" {
		t.Errorf("Status() = %s, candidates %v", res.Status(), names(res.Candidates()))
	}
}

func TestMatch_CapsCandidates(t *testing.T) {
	cat := []catalog.Entry{
		entry(t, "CNDEL ONE", query.CategorySTAR),
		entry(t, "CNDEL TWO", query.CategorySTAR),
		entry(t, "CNDEL SIX", query.CategorySTAR),
	}
	opts := DefaultOptions()
	opts.MaxCandidates = 2
	res := Match(normalized(t, "CNDEL", ""), cat, opts)
	if res.Status() != StatusAmbiguous || len(res.Candidates()) != 2 {
		t.Fatalf("Status() = %s len %d", res.Status(), len(res.Candidates()))
	}
	if got := names(res.Candidates()); !reflect.DeepEqual(got, []string{"CNDEL ONE", "CNDEL SIX"}) {
		t.Errorf("candidates = %v", got)
	}
}

func TestMatchAny_AliasTerms(t *testing.T) {
	cat := []catalog.Entry{
		entry(t, "OAKLAND ATCT SOP", query.CategorySOP),
		entry(t, "SAN JOSE ATCT SOP", query.CategorySOP),
	}
	var qs []query.Normalized
	for _, term := range query.SearchTerms("OAK ATCT") {
		qs = append(qs, normalized(t, term, ""))
	}
	res := MatchAny(qs, cat, DefaultOptions())
	c, ok := res.Selected()
	if !ok || c.Entry.Name() != "OAKLAND ATCT SOP" {
		t.Errorf("Status() = %s, candidates %v", res.Status(), names(res.Candidates()))
	}
	if res.Query() != "OAK ATCT" {
		t.Errorf("Query() = %q", res.Query())
	}
}
