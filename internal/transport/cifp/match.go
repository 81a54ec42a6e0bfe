package cifp

import (
	"regexp"
	"strings"
)

var chartRunway = regexp.MustCompile(`RWY\s*(\d{1,2}[LRC]?)`)

// typePrefixes returns the approach id prefixes a chart name may be coded as.
func typePrefixes(name string) string {
	switch {
	case strings.Contains(name, "RNAV") || strings.Contains(name, "GPS") || strings.Contains(name, "RNP"):
		return "HR"
	case strings.Contains(name, "ILS"):
		return "I"
	case strings.Contains(name, "LOC"):
		return "L"
	case strings.Contains(name, "VOR/DME"):
		return "D"
	case strings.Contains(name, "VOR"):
		return "V"
	case strings.Contains(name, "NDB"):
		return "N"
	case strings.Contains(name, "TACAN"):
		return "T"
	default:
		return ""
	}
}

func chartVariant(name string) byte {
	for i := 0; i < len(variantOf); i++ {
		v := string(variantOf[i])
		if strings.Contains(name, " "+v+" ") || strings.HasSuffix(name, " "+v) {
			return variantOf[i]
		}
	}
	return 0
}

// MatchApproach finds the coded approach published as chartName: same
// runway, compatible type and, when the chart names one, the same variant.
func (d *Data) MatchApproach(airport, chartName string) (*Approach, bool) {
	name := strings.ToUpper(chartName)
	m := chartRunway.FindStringSubmatch(name)
	if m == nil {
		return nil, false
	}
	runway := runwayKey(m[1])
	prefixes := typePrefixes(name)
	variant := chartVariant(name)

	var found *Approach
	for _, a := range d.Approaches(airport) {
		if a.Runway != runway {
			continue
		}
		if prefixes != "" && strings.IndexByte(prefixes, a.ID[0]) < 0 {
			continue
		}
		if variant != 0 {
			if a.Variant() == variant {
				return a, true
			}
			continue
		}
		if found == nil {
			found = a
		}
	}
	return found, found != nil
}
