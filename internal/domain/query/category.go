package query

import (
	"fmt"
	"strings"
)

// Category is the procedure-type category of a chart or document.
type Category string

// Category constants.
const (
	// CategoryUnknown means no category was given or inferred.
	CategoryUnknown Category = ""
	CategoryIAP     Category = "IAP"
	CategoryDP      Category = "DP"
	CategorySTAR    Category = "STAR"
	CategoryAPD     Category = "APD"
	// CategorySOP covers facility procedures and letters of agreement.
	CategorySOP Category = "SOP"
)

var categoryAliases = map[string]Category{
	"IAP":       CategoryIAP,
	"APP":       CategoryIAP,
	"APPROACH":  CategoryIAP,
	"DP":        CategoryDP,
	"SID":       CategoryDP,
	"DEP":       CategoryDP,
	"DEPARTURE": CategoryDP,
	"STAR":      CategorySTAR,
	"ARR":       CategorySTAR,
	"ARRIVAL":   CategorySTAR,
	"APD":       CategoryAPD,
	"DIAGRAM":   CategoryAPD,
	"SOP":       CategorySOP,
	"LOA":       CategorySOP,
}

// ParseCategory converts a type hint or chart code into a Category.
// An empty hint yields CategoryUnknown.
func ParseCategory(hint string) (Category, error) {
	h := strings.ToUpper(strings.TrimSpace(hint))
	if h == "" {
		return CategoryUnknown, nil
	}
	if c, ok := categoryAliases[h]; ok {
		return c, nil
	}
	return CategoryUnknown, fmt.Errorf("unknown type hint %q", hint)
}

// IsKnown reports whether the category is set.
func (c Category) IsKnown() bool { return c != CategoryUnknown }

// approachPrefixes are the navaid/approach-type tokens that open an IAP name.
var approachPrefixes = map[string]struct{}{
	"ILS": {}, "LOC": {}, "VOR": {}, "RNAV": {}, "RNP": {}, "GPS": {},
	"NDB": {}, "TACAN": {}, "LDA": {}, "SDF": {},
}

// IsApproachPrefix reports whether tok names an approach or navaid type.
func IsApproachPrefix(tok string) bool {
	_, ok := approachPrefixes[tok]
	return ok
}

// inferCategory guesses the category from canonical tokens.
func inferCategory(tokens []string) Category {
	if len(tokens) == 0 {
		return CategoryUnknown
	}
	if IsApproachPrefix(tokens[0]) {
		return CategoryIAP
	}
	for _, t := range tokens {
		switch t {
		case "RWY":
			return CategoryIAP
		case "DIAGRAM":
			return CategoryAPD
		case "ARRIVAL", "ARR":
			return CategorySTAR
		case "DEPARTURE", "DEP":
			return CategoryDP
		}
	}
	return CategoryUnknown
}
