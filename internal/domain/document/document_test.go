package document

import (
	"reflect"
	"testing"
)

func TestNewRotation(t *testing.T) {
	tests := []struct {
		in      int
		want    Rotation
		wantErr bool
	}{
		{0, Rotate0, false},
		{90, Rotate90, false},
		{-90, Rotate270, false},
		{450, Rotate90, false},
		{-180, Rotate180, false},
		{45, 0, true},
	}
	for _, tt := range tests {
		got, err := NewRotation(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("NewRotation(%d) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("NewRotation(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
	if Rotate270.Compose(Rotate180) != Rotate90 {
		t.Error("Compose(270,180) != 90")
	}
}

func TestParseRotationPolicy(t *testing.T) {
	tests := []struct {
		in   string
		mode PolicyMode
		deg  Rotation
	}{
		{"", PolicyAuto, 0},
		{"AUTO", PolicyAuto, 0},
		{"disabled", PolicyDisabled, 0},
		{"none", PolicyDisabled, 0},
		{"90", PolicyExplicit, Rotate90},
		{"-90", PolicyExplicit, Rotate270},
		{"0", PolicyExplicit, Rotate0},
	}
	for _, tt := range tests {
		p, err := ParseRotationPolicy(tt.in)
		if err != nil {
			t.Fatalf("ParseRotationPolicy(%q): %v", tt.in, err)
		}
		if p.Mode() != tt.mode || p.Degrees() != tt.deg {
			t.Errorf("ParseRotationPolicy(%q) = %s/%d, want %s/%d", tt.in, p.Mode(), p.Degrees(), tt.mode, tt.deg)
		}
	}
	for _, bad := range []string{"sideways", "45"} {
		if _, err := ParseRotationPolicy(bad); err == nil {
			t.Errorf("ParseRotationPolicy(%q) expected error", bad)
		}
	}
	if ExplicitRotation(Rotate180).String() != "180" || AutoRotation().String() != "auto" {
		t.Error("String() mismatch")
	}
}

func TestPageText_HasSignal(t *testing.T) {
	if (PageText{}).HasSignal() {
		t.Error("empty page has signal")
	}
	if (PageText{Text: "   "}).HasSignal() {
		t.Error("blank page has signal")
	}
	if !(PageText{Runs: []TextRun{{Text: "A", Angle: 90}}}).HasSignal() {
		t.Error("page with runs has no signal")
	}
}

func TestDocument_SourcesAndCopy(t *testing.T) {
	pages := []PageUnit{
		NewPageUnit("a.pdf", 0, PageText{Text: "one"}, 0, 0),
		NewPageUnit("a.pdf", 1, PageText{Text: "two"}, 90, 90),
		NewPageUnit("b.pdf", 0, PageText{Text: "three"}, 0, 0),
	}
	d := New("SOP", pages, nil)
	pages[0] = PageUnit{}

	if d.PageCount() != 3 {
		t.Fatalf("PageCount() = %d", d.PageCount())
	}
	if d.Pages()[0].Source() != "a.pdf" {
		t.Error("caller mutation leaked into document")
	}
	if got := d.Sources(); !reflect.DeepEqual(got, []string{"a.pdf", "b.pdf"}) {
		t.Errorf("Sources() = %v", got)
	}
	if d.Pages()[1].Applied() != Rotate90 || d.Pages()[1].SourceIndex() != 1 {
		t.Error("page accessors mismatch")
	}
}

func TestDocument_HeadingsBuiltOnce(t *testing.T) {
	d := New("SOP", nil, nil)
	calls := 0
	build := func(*Document) []Heading {
		calls++
		return []Heading{{Title: "SECTION 1", Page: 0, Level: 1}}
	}
	first := d.Headings(build)
	second := d.Headings(build)
	if calls != 1 {
		t.Errorf("build called %d times, want 1", calls)
	}
	if !reflect.DeepEqual(first, second) || len(first) != 1 {
		t.Errorf("Headings() = %v / %v", first, second)
	}
}
