package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/kailas-cloud/chartref"
)

// Resolution prints a resolved document, or the numbered candidate list of
// an ambiguous query.
func Resolution(w io.Writer, res *chartref.Resolution) error {
	switch res.Status {
	case chartref.StatusAmbiguous:
		if _, err := fmt.Fprintf(w, "Multiple matches for %q:\n", res.Query); err != nil {
			return fmt.Errorf("write: %w", err)
		}
		return Candidates(w, res.Candidates)
	case chartref.StatusUnambiguous:
	default:
		_, err := fmt.Fprintf(w, "No match for %q\n", res.Query)
		return err
	}

	name := res.Document
	if name == "" && res.Selected != nil {
		name = res.Selected.Name
	}
	if _, err := fmt.Fprintf(w, "%s\n", name); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	if len(res.Pages) > 0 {
		t := NewTable("PAGE", "SOURCE", "ROTATION")
		for _, p := range res.Pages {
			t.Row(strconv.Itoa(p.Number), p.Source, strconv.Itoa(p.Rotation))
		}
		if _, err := t.WriteTo(w); err != nil {
			return err
		}
	} else {
		for _, u := range res.URLs {
			if _, err := fmt.Fprintln(w, u); err != nil {
				return fmt.Errorf("write: %w", err)
			}
		}
	}
	if res.Location != nil {
		return Location(w, res.Location)
	}
	return nil
}

// Candidates prints a numbered disambiguation list.
func Candidates(w io.Writer, cs []chartref.Candidate) error {
	t := NewTable("#", "NAME", "TYPE", "SCORE")
	for i, c := range cs {
		t.Row(strconv.Itoa(i+1), c.Name, c.Category, strconv.FormatFloat(c.Score, 'f', 2, 64))
	}
	_, err := t.WriteTo(w)
	return err
}

// Location prints a section or search hit.
func Location(w io.Writer, loc *chartref.Location) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Page %d", loc.Page)
	if loc.SectionFound && loc.Heading != "" {
		fmt.Fprintf(&b, ": %s", loc.Heading)
	}
	if loc.Snippet != "" {
		fmt.Fprintf(&b, "\n  %s", loc.Snippet)
	}
	b.WriteByte('\n')
	_, err := io.WriteString(w, b.String())
	return err
}

// Connections prints the approaches reachable from a STAR or fix.
func Connections(w io.Writer, r *chartref.ConnectionReport) error {
	if _, err := fmt.Fprintf(w, "%s %s (%s) -> %s\n",
		r.Airport, r.Source, r.Kind, strings.Join(r.Fixes, ", ")); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return connectionTable(w, r.Connections)
}

// FixApproaches prints the approaches that use one fix.
func FixApproaches(w io.Writer, fix string, as []chartref.FixApproach) error {
	if len(as) == 0 {
		_, err := fmt.Fprintf(w, "No approach uses %s\n", fix)
		return err
	}
	t := NewTable("APPROACH", "ROLE", "VIA")
	for _, a := range as {
		t.Row(a.Approach.Name, a.Role, a.Via)
	}
	_, err := t.WriteTo(w)
	return err
}

// Star prints an arrival's waypoints, terminal fixes and connections.
func Star(w io.Writer, r *chartref.StarReport) error {
	if _, err := fmt.Fprintf(w, "%s %s\n  waypoints: %s\n  terminal:  %s\n",
		r.Airport, r.Star.Name, strings.Join(r.Waypoints, " "), strings.Join(r.Terminal, " ")); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return connectionTable(w, r.Connections)
}

func connectionTable(w io.Writer, conns []chartref.Connection) error {
	if len(conns) == 0 {
		_, err := io.WriteString(w, "No connecting approach found\n")
		return err
	}
	t := NewTable("APPROACH", "ROLE", "FIXES")
	for _, c := range conns {
		t.Row(c.Approach.Name, c.Role, strings.Join(c.Fixes, " "))
	}
	_, err := t.WriteTo(w)
	return err
}
