package cifp

import (
	"archive/zip"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kailas-cloud/chartref/internal/domain/catalog"
	"github.com/kailas-cloud/chartref/internal/domain/query"
)

func pad(s string, n int) string {
	if len(s) >= n {
		return s[:n]
	}
	return s + strings.Repeat(" ", n-len(s))
}

// leg renders one ARINC 424 airport procedure record.
func leg(airport string, sub byte, ident string, routeType byte, trans string, seq int, fix string, desc byte) string {
	b := []byte(strings.Repeat(" ", 132))
	copy(b, "SUSAP ")
	copy(b[6:10], pad("K"+airport, 4))
	copy(b[10:12], "K2")
	b[colSubsection] = sub
	copy(b[colIdentStart:colIdentEnd], pad(ident, 6))
	b[colRouteType] = routeType
	copy(b[colTransStart:colTransEnd], pad(trans, 5))
	copy(b[colSeqStart:colSeqEnd], fmt.Sprintf("%03d", seq))
	copy(b[colFixStart:colFixEnd], pad(fix, 5))
	b[colDesc] = desc
	return string(b)
}

func sampleCIFP() string {
	lines := []string{
		"HDR01FAACIFP18      001P013203754002510  10-OCT-2025  12:00:00  U.S.A. DOT FAA",
		// ILS OR LOC RWY 28R
		leg("OAK", 'F', "I28R", 'A', "SUNOL", 10, "SUNOL", ' '),
		leg("OAK", 'F', "I28R", 'A', "SUNOL", 20, "HUSHH", 'A'),
		leg("OAK", 'F', "I28R", 'I', "", 10, "HUSHH", 'A'),
		leg("OAK", 'F', "I28R", 'I', "", 20, "WOULF", 'B'),
		leg("OAK", 'F', "I28R", 'I', "", 30, "CEPIN", 'F'),
		// RNAV (GPS) Z RWY 28R
		leg("OAK", 'F', "H28RZ", 'H', "", 10, "EDYTH", 'A'),
		leg("OAK", 'F', "H28RZ", 'H', "", 20, "WOULF", 'I'),
		// RNAV (GPS) Y RWY 28R
		leg("OAK", 'F', "H28RY", 'H', "", 10, "ARCHI", 'C'),
		// CNDEL FIVE
		leg("OAK", 'E', "CNDEL5", '2', "", 10, "CNDEL", ' '),
		leg("OAK", 'E', "CNDEL5", '2', "", 20, "LOZIT", ' '),
		leg("OAK", 'E', "CNDEL5", '3', "RW28B", 10, "LOZIT", ' '),
		leg("OAK", 'E', "CNDEL5", '3', "RW28B", 20, "HUSHH", ' '),
		leg("OAK", 'E', "CNDEL5", '3', "RW28B", 30, "RW28R", ' '),
		leg("OAK", 'E', "CNDEL5", '1', "MOD", 10, "MOD", ' '),
		leg("OAK", 'E', "CNDEL5", '1', "MOD", 20, "CNDEL", ' '),
		// SCOLA1 has no published chart in the listing below.
		leg("OAK", 'E', "SCOLA1", '2', "ALL", 10, "SCOLA", ' '),
		leg("OAK", 'E', "SCOLA1", '2', "ALL", 20, "ARCHI", ' '),
		// Other airport.
		leg("SFO", 'F', "I28L", 'I', "", 10, "AXMUL", 'B'),
	}
	return strings.Join(lines, "\n") + "\n"
}

func mustParse(t *testing.T) *Data {
	t.Helper()
	d, err := Parse(strings.NewReader(sampleCIFP()))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return d
}

func TestParseRecord_Rejects(t *testing.T) {
	for _, line := range []string{
		"",
		"HDR01FAACIFP18",
		strings.Replace(leg("OAK", 'F', "I28R", 'I', "", 10, "HUSHH", 'A'), "SUSAP", "SUSAD", 1),
		leg("OAK", 'D', "OAK2", '2', "", 10, "OAK", ' '),
		leg("OAK", 'F', "I28R", 'I', "", 10, "", 'A'),
		leg("OAK", 'F', "I28R", 'I', "", 10, "HUSHH", 'A')[:45],
	} {
		if _, ok := parseRecord(line); ok {
			t.Errorf("parseRecord(%q) accepted", line)
		}
	}
}

func TestParse_Approaches(t *testing.T) {
	d := mustParse(t)

	aps := d.Approaches("KOAK")
	if len(aps) != 3 {
		t.Fatalf("approaches = %d, want 3", len(aps))
	}
	ils := aps[2]
	if ils.ID != "I28R" || ils.Type != "ILS" || ils.Runway != "28R" {
		t.Errorf("ils = %+v", ils)
	}
	if got := ils.IAF().List(); len(got) != 1 || got[0] != "HUSHH" {
		t.Errorf("IAF = %v", got)
	}
	if got := ils.IF().List(); len(got) != 1 || got[0] != "WOULF" {
		t.Errorf("IF = %v", got)
	}
	if f := ils.Feeders(); len(f) != 1 || f["SUNOL"] != "HUSHH" {
		t.Errorf("feeders = %v", f)
	}
	if aps[0].ID != "H28RY" || aps[0].Variant() != 'Y' || aps[0].Type != "RNAV (GPS)" {
		t.Errorf("first approach = %+v", aps[0])
	}
	if len(d.Approaches("SFO")) != 1 {
		t.Error("SFO approaches not indexed separately")
	}
}

func TestParse_Stars(t *testing.T) {
	d := mustParse(t)

	st, ok := d.Star("OAK", "cndel5")
	if !ok {
		t.Fatal("CNDEL5 not found")
	}
	r := st.Route()
	if got := r.TerminalFixes().List(); len(got) != 1 || got[0] != "HUSHH" {
		t.Errorf("terminal = %v, want [HUSHH]", got)
	}
	if got := r.Waypoints().List(); strings.Join(got, ",") != "CNDEL,LOZIT,HUSHH" {
		t.Errorf("waypoints = %v", got)
	}
	if got := r.Transitions(); len(got) != 2 || got[0] != "MOD" || got[1] != "RW28B" {
		t.Errorf("transitions = %v", got)
	}
	if len(d.Stars("KOAK")) != 2 {
		t.Errorf("stars = %d, want 2", len(d.Stars("KOAK")))
	}
}

func TestMatchApproach(t *testing.T) {
	d := mustParse(t)
	tests := []struct {
		chart string
		want  string
	}{
		{"ILS OR LOC RWY 28R", "I28R"},
		{"RNAV (GPS) Z RWY 28R", "H28RZ"},
		{"RNAV (GPS) Y RWY 28R", "H28RY"},
		{"RNAV (GPS) X RWY 28R", ""},
		{"VOR RWY 28R", ""},
		{"ILS RWY 30", ""},
		{"AIRPORT DIAGRAM", ""},
	}
	for _, tt := range tests {
		a, ok := d.MatchApproach("OAK", tt.chart)
		got := ""
		if ok {
			got = a.ID
		}
		if got != tt.want {
			t.Errorf("MatchApproach(%q) = %q, want %q", tt.chart, got, tt.want)
		}
	}
}

func TestRunwayKey(t *testing.T) {
	for in, want := range map[string]string{"4R": "04R", "4": "04", "28R": "28R", "10": "10"} {
		if got := runwayKey(in); got != want {
			t.Errorf("runwayKey(%q) = %q, want %q", in, got, want)
		}
	}
}

type mockUpstream struct {
	charts []catalog.Entry
}

func (m *mockUpstream) Charts(_ context.Context, _ string, _ catalog.FetchOptions) ([]catalog.Entry, error) {
	return m.charts, nil
}

func (m *mockUpstream) Procedures(_ context.Context, _ catalog.FetchOptions) ([]catalog.Entry, error) {
	return nil, nil
}

func mustEntry(t *testing.T, name string, cat query.Category) catalog.Entry {
	t.Helper()
	e, err := catalog.NewEntry("", "OAK", name, cat, []string{"https://charts.example/" + name + ".PDF"})
	if err != nil {
		t.Fatal(err)
	}
	return e
}

func TestSource_Annotates(t *testing.T) {
	up := &mockUpstream{charts: []catalog.Entry{
		mustEntry(t, "ILS OR LOC RWY 28R", query.CategoryIAP),
		mustEntry(t, "ILS OR LOC RWY 28R, CONT.1", query.CategoryIAP),
		mustEntry(t, "CNDEL FIVE", query.CategorySTAR),
		mustEntry(t, "AIRPORT DIAGRAM", query.CategoryAPD),
	}}
	s := NewSource(up, mustParse(t), nil)

	entries, err := s.Charts(context.Background(), "OAK", catalog.FetchOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 5 {
		t.Fatalf("entries = %d, want 5 (4 charts + uncharted SCOLA1)", len(entries))
	}

	if a, ok := entries[0].Approach(); !ok || a.Role("HUSHH") != "IAF" || a.Feeders["SUNOL"] != "HUSHH" {
		t.Errorf("approach not annotated: %+v", a)
	}
	if entries[0].Kind() != catalog.KindWaypointBearing {
		t.Errorf("kind = %s", entries[0].Kind())
	}
	if _, ok := entries[1].Approach(); ok {
		t.Error("continuation page should not be annotated")
	}
	if _, ok := entries[2].Route(); !ok {
		t.Error("STAR chart missing route")
	}
	if _, ok := entries[3].Route(); ok {
		t.Error("diagram should carry no route")
	}
	extra := entries[4]
	if extra.Name() != "SCOLA1" || extra.Category() != query.CategorySTAR || len(extra.URLs()) != 0 {
		t.Errorf("uncharted arrival = %s %s %v", extra.Name(), extra.Category(), extra.URLs())
	}
}

func TestSource_NilDataPassesThrough(t *testing.T) {
	up := &mockUpstream{charts: []catalog.Entry{mustEntry(t, "CNDEL FIVE", query.CategorySTAR)}}
	entries, err := NewSource(up, nil, nil).Charts(context.Background(), "OAK", catalog.FetchOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %d", len(entries))
	}
	if _, ok := entries[0].Route(); ok {
		t.Error("no route expected without coded data")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	raw := filepath.Join(dir, "FAACIFP18")
	if err := os.WriteFile(raw, []byte(sampleCIFP()), 0o600); err != nil {
		t.Fatal(err)
	}
	d, err := Load(raw)
	if err != nil {
		t.Fatalf("Load raw: %v", err)
	}
	if len(d.Approaches("OAK")) != 3 {
		t.Error("raw load lost approaches")
	}

	zipPath := filepath.Join(dir, "CIFP_251002.zip")
	f, err := os.Create(zipPath)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	if w, err := zw.Create("README.txt"); err == nil {
		_, _ = w.Write([]byte("readme"))
	}
	w, err := zw.Create("FAACIFP18")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte(sampleCIFP())); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	d, err = Load(zipPath)
	if err != nil {
		t.Fatalf("Load zip: %v", err)
	}
	if len(d.Stars("OAK")) != 2 {
		t.Error("zip load lost arrivals")
	}

	if _, err := Load(filepath.Join(dir, "missing")); err == nil {
		t.Error("expected error for missing file")
	}
}
