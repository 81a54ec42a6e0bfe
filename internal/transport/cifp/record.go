package cifp

import (
	"regexp"
	"strconv"
	"strings"
)

// ARINC 424 column layout (0-indexed) of airport procedure records.
const (
	colSubsection = 12
	colIdentStart = 13
	colIdentEnd   = 19
	colRouteType  = 19
	colTransStart = 20
	colTransEnd   = 25
	colSeqStart   = 26
	colSeqEnd     = 29
	colFixStart   = 29
	colFixEnd     = 34
	colDesc       = 42

	minApproachLen = 50
	minStarLen     = 35
)

const (
	recordPrefix       = "SUSAP "
	subsectionStar     = 'E'
	subsectionApproach = 'F'
	routeTransition    = 'A'
)

// Fix roles.
const (
	RoleIAF = "IAF"
	RoleIF  = "IF"
	RoleFAF = "FAF"
	RoleMAP = "MAHP"
)

// descCodes maps waypoint description code 1 to a fix role.
var descCodes = map[byte]string{
	'A': RoleIAF,
	'B': RoleIF,
	'C': RoleIAF, // IAF and IF
	'D': RoleIAF, // IAF and FAF
	'E': RoleFAF,
	'F': RoleFAF,
	'G': RoleMAP,
	'I': RoleIF,
	'M': RoleMAP,
}

// approachTypes maps the first character of an approach id to its type.
var approachTypes = map[byte]string{
	'B': "LOC/DME BC",
	'D': "VOR/DME",
	'F': "FMS",
	'G': "IGS",
	'H': "RNAV (GPS)",
	'I': "ILS",
	'J': "GNSS",
	'L': "LOC",
	'N': "NDB",
	'P': "GPS",
	'Q': "NDB/DME",
	'R': "RNAV",
	'S': "VOR",
	'T': "TACAN",
	'U': "SDF",
	'V': "VOR",
	'W': "MLS",
	'X': "LDA",
	'Y': "MLS",
	'Z': "MLS",
}

var (
	idRunway  = regexp.MustCompile(`^(\d{1,2}[LRC]?)`)
	starBase  = regexp.MustCompile(`^([A-Z]+\d)`)
	variantOf = "XYZW"
)

// record is one parsed approach or arrival leg.
type record struct {
	airport    string
	subsection byte
	ident      string
	transition string
	sequence   int
	fix        string
	role       string
}

// parseRecord reads one fixed-width line. ok is false for records that are
// neither approach nor arrival legs.
func parseRecord(line string) (record, bool) {
	if !strings.HasPrefix(line, recordPrefix) || len(line) < minStarLen {
		return record{}, false
	}
	sub := line[colSubsection]
	if sub != subsectionApproach && sub != subsectionStar {
		return record{}, false
	}
	if sub == subsectionApproach && len(line) < minApproachLen {
		return record{}, false
	}

	r := record{
		airport:    airportKey(line[6:10]),
		subsection: sub,
		ident:      strings.TrimSpace(line[colIdentStart:colIdentEnd]),
		transition: strings.TrimSpace(line[colTransStart:colTransEnd]),
		fix:        strings.TrimSpace(line[colFixStart:colFixEnd]),
	}
	if r.ident == "" || r.fix == "" {
		return record{}, false
	}
	if seq, err := strconv.Atoi(strings.TrimSpace(line[colSeqStart:colSeqEnd])); err == nil {
		r.sequence = seq
	}
	if sub == subsectionApproach {
		r.role = descCodes[line[colDesc]]
		if line[colRouteType] != routeTransition {
			r.transition = ""
		}
	}
	return r, true
}

// airportKey reduces an ICAO or FAA identifier to the FAA form (KOAK -> OAK).
func airportKey(id string) string {
	id = strings.ToUpper(strings.TrimSpace(id))
	if len(id) == 4 && id[0] == 'K' {
		return id[1:]
	}
	return id
}

// runwayKey zero-pads a runway designator (4R -> 04R).
func runwayKey(rwy string) string {
	if len(rwy) > 0 && (len(rwy) == 1 || rwy[1] < '0' || rwy[1] > '9') {
		return "0" + rwy
	}
	return rwy
}
