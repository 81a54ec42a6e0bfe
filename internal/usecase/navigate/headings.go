package navigate

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/kailas-cloud/chartref/internal/domain/document"
)

const (
	maxHeadingRunes = 80
	maxCaptionRunes = 60
	maxCaptionWords = 8
	// captionLevel ranks unnumbered all-caps headings below every numbered level.
	captionLevel = 9
)

var (
	numberedHeading = regexp.MustCompile(
		`(?i)^(?:(SECTION|CHAPTER|PART|APPENDIX|PARAGRAPH|PARA)\s+)?(\d+(?:[-.]\d+)*)(?:[.:)]|\s|$)\s*(.*)$`)
	sectionNumberQuery = regexp.MustCompile(
		`(?i)^(?:(?:SECTION|CHAPTER|PART|APPENDIX|PARAGRAPH|PARA)\s*)?(\d+(?:\s*[-.]\s*\d+)*)$`)
	numberSeparator = regexp.MustCompile(`\s*[-.]\s*`)
)

// BuildHeadings returns the bookmark outline when the document has one, else
// headings derived from page text in page order.
func BuildHeadings(doc *document.Document) []document.Heading {
	if len(doc.Outline()) > 0 {
		return doc.Outline()
	}
	var out []document.Heading
	seen := make(map[string]struct{})
	for i, p := range doc.Pages() {
		for _, line := range strings.Split(p.Text().Text, "\n") {
			title := strings.TrimSpace(line)
			level, ok := headingLevel(title)
			if !ok {
				continue
			}
			key := strings.ToUpper(title)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, document.Heading{Title: title, Page: i, Level: level})
		}
	}
	return out
}

// headingLevel classifies a text line as a heading and returns its depth.
func headingLevel(line string) (int, bool) {
	n := utf8.RuneCountInString(line)
	if n < 2 || n > maxHeadingRunes {
		return 0, false
	}
	if m := numberedHeading.FindStringSubmatch(line); m != nil {
		if m[1] == "" && !hasLetter(m[3]) {
			return 0, false
		}
		return len(numberSeparator.Split(m[2], -1)), true
	}
	if isCaption(line, n) {
		return captionLevel, true
	}
	return 0, false
}

func isCaption(line string, runes int) bool {
	if runes > maxCaptionRunes || strings.HasSuffix(line, ".") {
		return false
	}
	if len(strings.Fields(line)) > maxCaptionWords {
		return false
	}
	letters, upper := 0, 0
	for _, r := range line {
		if unicode.IsLetter(r) {
			letters++
			if unicode.IsUpper(r) {
				upper++
			}
		}
	}
	return letters >= 3 && float64(upper)/float64(letters) >= 0.9
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

// sectionNumber extracts the canonical dash-separated number of a heading title.
func sectionNumber(title string) (string, bool) {
	m := numberedHeading.FindStringSubmatch(strings.TrimSpace(title))
	if m == nil {
		return "", false
	}
	return canonicalNumber(m[2]), true
}

// querySectionNumber parses a section query that is only a number ("2-2",
// "SECTION 3", "4.1").
func querySectionNumber(q string) (string, bool) {
	m := sectionNumberQuery.FindStringSubmatch(strings.TrimSpace(q))
	if m == nil {
		return "", false
	}
	return canonicalNumber(m[1]), true
}

func canonicalNumber(s string) string {
	return numberSeparator.ReplaceAllString(strings.TrimSpace(s), "-")
}

// numberPattern matches the parts of a canonical number joined by a dash, dot
// or space, e.g. 2-2 as "2-2", "2.2" or "2 2". The number must not be part of
// a longer digit run, so 9-9 matches neither "99" nor "219-9000".
func numberPattern(number string) *regexp.Regexp {
	parts := strings.Split(number, "-")
	for i, p := range parts {
		parts[i] = regexp.QuoteMeta(p)
	}
	return regexp.MustCompile(`(?:^|\D)` + strings.Join(parts, `[-.\s]+`) + `(?:\D|$)`)
}

// words uppercases s and splits it on anything that is not a letter or digit.
func words(s string) []string {
	return strings.FieldsFunc(strings.ToUpper(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
