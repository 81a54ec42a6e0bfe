package navigate

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/chartref/internal/domain"
	"github.com/kailas-cloud/chartref/internal/domain/document"
	"github.com/kailas-cloud/chartref/internal/domain/match"
	"github.com/kailas-cloud/chartref/internal/metrics"
)

// fuzzyThreshold is the minimum heading similarity for a fuzzy match.
const fuzzyThreshold = 0.4

// Location is where a section or search term was found.
type Location struct {
	// Page is the 0-based document page to open.
	Page int
	// Heading is the matched section heading; zero when only a search ran.
	Heading document.Heading
	// SectionFound reports whether the section query matched.
	SectionFound bool
	// Term is the search term found on Page, if one was given.
	Term string
	// Snippet is the text line containing Term.
	Snippet string
}

// Service locates sections and search terms inside assembled documents.
type Service struct {
	logger *zap.Logger
}

// New creates a navigation service.
func New(logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{logger: logger}
}

// LocateSection finds the page where section starts.
func (s *Service) LocateSection(doc *document.Document, section string) (Location, error) {
	return s.Locate(doc, section, "")
}

// Locate finds section, then narrows to the first page of that section whose
// text contains term. Without a section, or when the section does not match,
// term is searched across the whole document. When the section matches but
// term is absent from it, the section location is returned with the error.
func (s *Service) Locate(doc *document.Document, section, term string) (Location, error) {
	section, term = strings.TrimSpace(section), strings.TrimSpace(term)
	if section == "" && term == "" {
		return Location{}, domain.NewInvalidQuery("", "empty section and search term")
	}

	var (
		loc   Location
		found bool
	)
	first, last, firstLine, lastLine := 0, doc.PageCount()-1, "", ""
	if section != "" {
		headings := doc.Headings(BuildHeadings)
		if idx, ok := findHeading(headings, section); ok {
			h := headings[idx]
			loc = Location{Page: h.Page, Heading: h, SectionFound: true}
			found = true
			first, firstLine = h.Page, h.Title
			if next, ok := nextBoundary(headings, idx); ok {
				last, lastLine = next.Page, next.Title
			}
		} else if page, ok := findInText(doc, section); ok {
			loc = Location{Page: page, Heading: document.Heading{Title: section, Page: page}, SectionFound: true}
			found = true
			first = page
		}
		if !found && term == "" {
			s.record(false)
			return Location{}, fmt.Errorf("section %q: %w", section, domain.ErrNotFound)
		}
	}
	if term == "" {
		s.record(true)
		return loc, nil
	}

	if !found {
		first, last, firstLine, lastLine = 0, doc.PageCount()-1, "", ""
	}
	page, snippet, ok := searchRange(doc, term, first, last, firstLine, lastLine)
	if !ok {
		s.record(false)
		if found {
			return loc, fmt.Errorf("term %q in section %q: %w", term, section, domain.ErrNotFound)
		}
		return Location{}, fmt.Errorf("term %q: %w", term, domain.ErrNotFound)
	}
	loc.Page, loc.Term, loc.Snippet = page, term, snippet
	s.record(true)
	s.logger.Debug("Search term located",
		zap.String("document", doc.Name()),
		zap.String("section", section),
		zap.String("term", term),
		zap.Int("page", page),
	)
	return loc, nil
}

func (s *Service) record(found bool) {
	if found {
		metrics.SectionLookupsTotal.WithLabelValues("found").Inc()
		return
	}
	metrics.SectionLookupsTotal.WithLabelValues("not_found").Inc()
}

// findHeading matches a section query against the heading table: exact
// section number first, then the number anywhere in a title, then a title
// substring, then the most similar title.
func findHeading(headings []document.Heading, section string) (int, bool) {
	number, numeric := querySectionNumber(section)
	if numeric {
		for i, h := range headings {
			if n, ok := sectionNumber(h.Title); ok && n == number {
				return i, true
			}
		}
		re := numberPattern(number)
		for i, h := range headings {
			if re.MatchString(strings.ToUpper(h.Title)) {
				return i, true
			}
		}
		return 0, false
	}

	want := strings.Join(words(section), " ")
	if want == "" {
		return 0, false
	}
	for i, h := range headings {
		if strings.Contains(strings.Join(words(h.Title), " "), want) {
			return i, true
		}
	}

	best, bestIdx := 0.0, -1
	for i, h := range headings {
		score, _ := match.Score(words(section), words(h.Title))
		if score > best {
			best, bestIdx = score, i
		}
	}
	if best > fuzzyThreshold {
		return bestIdx, true
	}
	return 0, false
}

// nextBoundary returns the first heading after idx at the same or a higher level.
func nextBoundary(headings []document.Heading, idx int) (document.Heading, bool) {
	level := headings[idx].Level
	for _, h := range headings[idx+1:] {
		if h.Level <= level && h.Page >= headings[idx].Page {
			return h, true
		}
	}
	return document.Heading{}, false
}

// findInText returns the first page whose text contains s. A numeric section
// query only matches the number as a whole, never a piece of a longer one.
func findInText(doc *document.Document, s string) (int, bool) {
	contains := func(text string) bool { return strings.Contains(text, strings.ToUpper(s)) }
	if number, ok := querySectionNumber(s); ok {
		contains = numberPattern(number).MatchString
	}
	for i, p := range doc.Pages() {
		if contains(strings.ToUpper(p.Text().Text)) {
			return i, true
		}
	}
	return 0, false
}

// searchRange looks for term on pages first..last. Text on the first page
// starts at the line holding startLine and text on the last page stops before
// the line holding stopLine.
func searchRange(doc *document.Document, term string, first, last int, startLine, stopLine string) (int, string, bool) {
	want := strings.ToUpper(term)
	startKey, stopKey := strings.ToUpper(startLine), strings.ToUpper(stopLine)
	pages := doc.Pages()
	if last >= len(pages) {
		last = len(pages) - 1
	}
	for i := first; i <= last; i++ {
		lines := strings.Split(pages[i].Text().Text, "\n")
		from := 0
		if i == first && startKey != "" {
			from = indexOfLine(lines, startKey, 0)
			if from < 0 {
				from = 0
			}
		}
		to := len(lines)
		if i == last && stopKey != "" {
			after := 0
			if i == first {
				after = from + 1
			}
			if at := indexOfLine(lines, stopKey, after); at >= 0 {
				to = at
			}
		}
		for _, line := range lines[from:to] {
			if strings.Contains(strings.ToUpper(line), want) {
				return i, strings.TrimSpace(line), true
			}
		}
	}
	return 0, "", false
}

func indexOfLine(lines []string, key string, from int) int {
	for i := from; i < len(lines); i++ {
		if strings.Contains(strings.ToUpper(lines[i]), key) {
			return i
		}
	}
	return -1
}
