package chartref

import (
	"testing"

	"github.com/kailas-cloud/chartref/internal/domain/catalog"
	"github.com/kailas-cloud/chartref/internal/domain/document"
	"github.com/kailas-cloud/chartref/internal/domain/match"
	"github.com/kailas-cloud/chartref/internal/domain/query"
	"github.com/kailas-cloud/chartref/internal/usecase/navigate"
	"github.com/kailas-cloud/chartref/internal/usecase/resolve"
)

func mustEntry(t *testing.T, name string, cat query.Category) catalog.Entry {
	t.Helper()
	e, err := catalog.NewEntry("", "OAK", name, cat, []string{"a.pdf"})
	if err != nil {
		t.Fatalf("NewEntry(%q): %v", name, err)
	}
	return e
}

func TestFromStatus(t *testing.T) {
	tests := []struct {
		in   match.Status
		want Status
	}{
		{match.StatusUnambiguous, StatusUnambiguous},
		{match.StatusAmbiguous, StatusAmbiguous},
		{match.StatusNoMatch, StatusNoMatch},
		{match.StatusInvalidQuery, StatusInvalidQuery},
	}
	for _, tt := range tests {
		if got := fromStatus(tt.in); got != tt.want {
			t.Errorf("fromStatus(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFromOutcome_Ambiguous(t *testing.T) {
	five := mustEntry(t, "CNDEL FIVE", query.CategorySTAR)
	four := mustEntry(t, "CNDEL FOUR", query.CategoryUnknown)
	out := resolve.Outcome{Resolution: match.Ambiguous("CNDEL", []match.Candidate{
		{Entry: five, Score: 0.8, Matched: []string{"CNDEL"}},
		{Entry: four, Score: 0.75},
	})}

	res := fromOutcome(out)
	if res.Status != StatusAmbiguous || res.Selected != nil || len(res.Candidates) != 2 {
		t.Fatalf("res = %+v", res)
	}
	if res.Candidates[0].Category != "STAR" || res.Candidates[1].Category != "" {
		t.Errorf("categories = %q, %q", res.Candidates[0].Category, res.Candidates[1].Category)
	}
	if res.Candidates[0].Matched[0] != "CNDEL" {
		t.Errorf("matched = %v", res.Candidates[0].Matched)
	}
}

func TestFromOutcome_PagesAndLocation(t *testing.T) {
	e := mustEntry(t, "OAKLAND ATCT SOP", query.CategorySOP)
	doc := document.New("OAKLAND ATCT SOP", []document.PageUnit{
		document.NewPageUnit("a.pdf", 0, document.PageText{}, document.Rotate0, document.Rotate0),
		document.NewPageUnit("a.pdf", 1, document.PageText{}, document.Rotate90, document.Rotate90),
	}, nil)
	out := resolve.Outcome{
		Resolution: match.Unambiguous("OAK ATCT", match.Candidate{Entry: e, Score: 1}),
		Entry:      e,
		Document:   doc,
		Location: &navigate.Location{
			Page:         1,
			Heading:      document.Heading{Title: "SECTION 2-2", Page: 1, Level: 1},
			SectionFound: true,
		},
	}

	res := fromOutcome(out)
	if res.Selected == nil || res.Selected.Score != 1 {
		t.Fatalf("selected = %+v", res.Selected)
	}
	if len(res.Pages) != 2 || res.Pages[1].Number != 2 || res.Pages[1].SourcePage != 2 || res.Pages[1].Rotation != 90 {
		t.Errorf("pages = %+v", res.Pages)
	}
	if res.Location == nil || res.Location.Page != 2 || res.Location.Heading != "SECTION 2-2" {
		t.Errorf("location = %+v", res.Location)
	}
	if res.doc != doc {
		t.Error("document handle not kept for LocateSection")
	}
}
