package query

import (
	"errors"
	"testing"

	"github.com/kailas-cloud/chartref/internal/domain"
)

func TestNormalize_Names(t *testing.T) {
	tests := []struct {
		raw      string
		want     string
		category Category
	}{
		{"CNDEL5", "CNDEL FIVE", CategoryUnknown},
		{"cndel 5", "CNDEL FIVE", CategoryUnknown},
		{"  Cndel   Five ", "CNDEL FIVE", CategoryUnknown},
		{"ABC21", "ABC TWENTY ONE", CategoryUnknown},
		{"OAKLAND 30", "OAKLAND THIRTY", CategoryUnknown},
		{"ILS28R", "ILS 28R", CategoryIAP},
		{"ILS OR LOC RWY 28R", "ILS OR LOC RWY 28R", CategoryIAP},
		{"RNAV (GPS) RWY 4R", "RNAV GPS RWY 04R", CategoryIAP},
		{"RNAV (GPS) Y RWY 12", "RNAV GPS Y RWY 12", CategoryIAP},
		{"AIRPORT DIAGRAM", "AIRPORT DIAGRAM", CategoryAPD},
		{"Émile-Départ", "EMILE DEPART", CategoryUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			n, err := Normalize(tt.raw, "")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if n.Name() != tt.want {
				t.Errorf("Name() = %q, want %q", n.Name(), tt.want)
			}
			if n.Category() != tt.category {
				t.Errorf("Category() = %q, want %q", n.Category(), tt.category)
			}
			if n.Explicit() {
				t.Error("Explicit() = true without a hint")
			}
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"CNDEL5", "ILS28R", "RNAV (GPS) RWY 4R", "SERFR 2", "OAK ATCT", "ABC21",
		"LOC 4", "RWY 9L", "Émile",
	}
	for _, in := range inputs {
		first, err := Normalize(in, "")
		if err != nil {
			t.Fatalf("Normalize(%q): %v", in, err)
		}
		second, err := Normalize(first.Name(), "")
		if err != nil {
			t.Fatalf("Normalize(%q): %v", first.Name(), err)
		}
		if first.Name() != second.Name() {
			t.Errorf("not idempotent: %q -> %q -> %q", in, first.Name(), second.Name())
		}
	}
}

func TestNormalize_Continuation(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		seq     int
		present bool
	}{
		{"CNDEL FIVE, CONT.1", "CNDEL FIVE", 1, true},
		{"CNDEL5 CONT 2", "CNDEL FIVE", 2, true},
		{"CNDEL FIVE, CONT.", "CNDEL FIVE", 0, true},
		{"CONTRA COSTA", "CONTRA COSTA", 0, false},
	}
	for _, tt := range tests {
		n, err := Normalize(tt.raw, "")
		if err != nil {
			t.Fatalf("Normalize(%q): %v", tt.raw, err)
		}
		seq, ok := n.Continuation()
		if n.Name() != tt.want || seq != tt.seq || ok != tt.present {
			t.Errorf("Normalize(%q) = %q cont(%d,%v), want %q cont(%d,%v)",
				tt.raw, n.Name(), seq, ok, tt.want, tt.seq, tt.present)
		}
	}
}

func TestNormalize_Hint(t *testing.T) {
	n, err := Normalize("SERFR2", "sid")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.Category() != CategoryDP || !n.Explicit() {
		t.Errorf("Category() = %q explicit=%v, want DP explicit", n.Category(), n.Explicit())
	}

	// An explicit IAP hint keeps trailing numbers as runway digits.
	n, err = Normalize("LOC 4", "IAP")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.Name() != "LOC 04" {
		t.Errorf("Name() = %q, want %q", n.Name(), "LOC 04")
	}
}

func TestNormalize_Invalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		hint string
	}{
		{"empty", "", ""},
		{"separators only", " ,-/ ", ""},
		{"cont only", "CONT.1", ""},
		{"unknown hint", "CNDEL5", "BOGUS"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.raw, tt.hint)
			if !errors.Is(err, domain.ErrInvalidQuery) {
				t.Errorf("err = %v, want ErrInvalidQuery", err)
			}
		})
	}
}

func TestParseCategory(t *testing.T) {
	tests := map[string]Category{
		"":         CategoryUnknown,
		"iap":      CategoryIAP,
		"SID":      CategoryDP,
		"dp":       CategoryDP,
		"arrival":  CategorySTAR,
		"STAR":     CategorySTAR,
		"APD":      CategoryAPD,
		" diagram": CategoryAPD,
	}
	for in, want := range tests {
		got, err := ParseCategory(in)
		if err != nil {
			t.Errorf("ParseCategory(%q): %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseCategory(%q) = %q, want %q", in, got, want)
		}
	}
	if _, err := ParseCategory("HELIPORT"); err == nil {
		t.Error("expected error for unknown hint")
	}
}
