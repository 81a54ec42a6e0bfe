package cifp

import (
	"archive/zip"
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/kailas-cloud/chartref/internal/domain/waypoint"
)

// Fix is one leg fix of an approach.
type Fix struct {
	Transition string
	Ident      string
	Role       string
	Sequence   int
}

// Approach is one coded instrument approach.
type Approach struct {
	Airport string
	ID      string // e.g. I28R, H17LZ
	Type    string
	Runway  string
	Fixes   []Fix
}

// Variant returns the approach variant letter (X, Y, Z, W) or 0.
func (a *Approach) Variant() byte {
	if last := a.ID[len(a.ID)-1]; strings.IndexByte(variantOf, last) >= 0 {
		return last
	}
	return 0
}

// IAF returns the initial approach fixes.
func (a *Approach) IAF() waypoint.Set { return a.withRole(RoleIAF) }

// IF returns the intermediate fixes.
func (a *Approach) IF() waypoint.Set { return a.withRole(RoleIF) }

func (a *Approach) withRole(role string) waypoint.Set {
	var ids []string
	for _, f := range a.Fixes {
		if f.Role == role {
			ids = append(ids, f.Ident)
		}
	}
	return waypoint.NewSet(ids...)
}

// Feeders maps the entry fix of each transition to the first IAF or IF it
// reaches. Transitions that already start at an IAF or IF are not feeders.
func (a *Approach) Feeders() map[string]string {
	entry := a.IAF().Union(a.IF())
	byTrans := map[string][]Fix{}
	var names []string
	for _, f := range a.Fixes {
		if f.Transition == "" {
			continue
		}
		if _, ok := byTrans[f.Transition]; !ok {
			names = append(names, f.Transition)
		}
		byTrans[f.Transition] = append(byTrans[f.Transition], f)
	}
	sort.Strings(names)

	feeders := map[string]string{}
	for _, name := range names {
		fixes := byTrans[name]
		sort.SliceStable(fixes, func(i, j int) bool { return fixes[i].Sequence < fixes[j].Sequence })
		first := fixes[0].Ident
		if entry.Contains(first) {
			continue
		}
		if _, ok := feeders[first]; ok {
			continue
		}
		for _, f := range fixes {
			if f.Role == RoleIAF || f.Role == RoleIF {
				feeders[first] = f.Ident
				break
			}
		}
	}
	return feeders
}

// Star is one coded arrival.
type Star struct {
	Airport string
	ID      string // base identifier, e.g. SCOLA1
	Legs    []waypoint.Leg
}

// Route returns the arrival route.
func (s *Star) Route() waypoint.Route { return waypoint.NewRoute(s.Legs) }

// Data is an in-memory index of approach and arrival records by airport.
type Data struct {
	approaches map[string]map[string]*Approach
	stars      map[string]map[string]*Star
}

// Parse reads ARINC 424 records. Unrelated records are skipped.
func Parse(r io.Reader) (*Data, error) {
	d := &Data{
		approaches: map[string]map[string]*Approach{},
		stars:      map[string]map[string]*Star{},
	}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 256), 1<<16)
	for sc.Scan() {
		rec, ok := parseRecord(sc.Text())
		if !ok {
			continue
		}
		switch rec.subsection {
		case subsectionApproach:
			d.addApproachFix(rec)
		case subsectionStar:
			d.addStarLeg(rec)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read cifp: %w", err)
	}
	return d, nil
}

// Load reads a CIFP file, either the raw FAACIFP text or the distribution zip.
func Load(path string) (*Data, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if !strings.HasSuffix(strings.ToLower(path), ".zip") {
		return Parse(bytes.NewReader(raw))
	}

	zr, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, fmt.Errorf("open zip %s: %w", path, err)
	}
	for _, f := range zr.File {
		if !strings.HasPrefix(f.Name, "FAACIFP") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", f.Name, err)
		}
		defer func() { _ = rc.Close() }()
		return Parse(rc)
	}
	return nil, fmt.Errorf("no FAACIFP file in %s", path)
}

func (d *Data) addApproachFix(rec record) {
	byID, ok := d.approaches[rec.airport]
	if !ok {
		byID = map[string]*Approach{}
		d.approaches[rec.airport] = byID
	}
	a, ok := byID[rec.ident]
	if !ok {
		a = &Approach{Airport: rec.airport, ID: rec.ident, Type: approachTypes[rec.ident[0]]}
		if len(rec.ident) > 1 {
			if m := idRunway.FindString(rec.ident[1:]); m != "" {
				a.Runway = runwayKey(m)
			}
		}
		byID[rec.ident] = a
	}
	a.Fixes = append(a.Fixes, Fix{
		Transition: rec.transition,
		Ident:      rec.fix,
		Role:       rec.role,
		Sequence:   rec.sequence,
	})
}

func (d *Data) addStarLeg(rec record) {
	base := starBase.FindString(rec.ident)
	if base == "" {
		return
	}
	byID, ok := d.stars[rec.airport]
	if !ok {
		byID = map[string]*Star{}
		d.stars[rec.airport] = byID
	}
	s, ok := byID[base]
	if !ok {
		s = &Star{Airport: rec.airport, ID: base}
		byID[base] = s
	}
	s.Legs = append(s.Legs, waypoint.Leg{Transition: rec.transition, Sequence: rec.sequence, Fix: rec.fix})
}

// Approaches returns the approaches of an airport ordered by id.
func (d *Data) Approaches(airport string) []*Approach {
	byID := d.approaches[airportKey(airport)]
	out := make([]*Approach, 0, len(byID))
	for _, a := range byID {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Stars returns the arrivals of an airport ordered by id.
func (d *Data) Stars(airport string) []*Star {
	byID := d.stars[airportKey(airport)]
	out := make([]*Star, 0, len(byID))
	for _, s := range byID {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Star returns one arrival by base identifier.
func (d *Data) Star(airport, id string) (*Star, bool) {
	s, ok := d.stars[airportKey(airport)][strings.ToUpper(id)]
	return s, ok
}
