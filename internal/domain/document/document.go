package document

import (
	"strings"
	"sync"
)

// TextRun is one run of extracted text and the angle (degrees, counter-clockwise
// from the page x-axis) its baseline is drawn at.
type TextRun struct {
	Text  string
	Angle float64
}

// PageText is the extracted text of one page.
type PageText struct {
	Text string
	Runs []TextRun
}

// HasSignal reports whether the page carries any text to reason about.
func (p PageText) HasSignal() bool {
	return strings.TrimSpace(p.Text) != "" || len(p.Runs) > 0
}

// PageUnit is one page of an assembled document.
type PageUnit struct {
	source   string
	index    int
	text     PageText
	detected Rotation
	applied  Rotation
}

// NewPageUnit creates a page taken from page index of source.
func NewPageUnit(source string, index int, text PageText, detected, applied Rotation) PageUnit {
	return PageUnit{source: source, index: index, text: text, detected: detected, applied: applied}
}

// Source returns the URL the page was taken from.
func (p PageUnit) Source() string { return p.source }

// SourceIndex returns the page index within its source.
func (p PageUnit) SourceIndex() int { return p.index }

// Text returns the extracted page text.
func (p PageUnit) Text() PageText { return p.text }

// Detected returns the rotation the orientation detector suggested.
func (p PageUnit) Detected() Rotation { return p.detected }

// Applied returns the rotation applied to the page in the artifact.
func (p PageUnit) Applied() Rotation { return p.applied }

// Heading is a section heading and the 0-based document page it starts on.
type Heading struct {
	Title string
	Page  int
	Level int
}

// Document is an ordered sequence of pages bound into one artifact.
// The heading table is built once on first request.
type Document struct {
	name    string
	pages   []PageUnit
	outline []Heading

	once     sync.Once
	headings []Heading
}

// New creates a document. outline holds bookmark headings, if the source had any.
func New(name string, pages []PageUnit, outline []Heading) *Document {
	p := make([]PageUnit, len(pages))
	copy(p, pages)
	o := make([]Heading, len(outline))
	copy(o, outline)
	return &Document{name: name, pages: p, outline: o}
}

// Name returns the display name of the document.
func (d *Document) Name() string { return d.name }

// Pages returns the pages in artifact order.
func (d *Document) Pages() []PageUnit { return d.pages }

// PageCount returns the number of pages.
func (d *Document) PageCount() int { return len(d.pages) }

// Outline returns the bookmark headings supplied with the document.
func (d *Document) Outline() []Heading { return d.outline }

// Sources returns the distinct source URLs in page order.
func (d *Document) Sources() []string {
	var out []string
	seen := make(map[string]struct{})
	for _, p := range d.pages {
		if _, ok := seen[p.source]; ok {
			continue
		}
		seen[p.source] = struct{}{}
		out = append(out, p.source)
	}
	return out
}

// Headings returns the heading table, calling build the first time only.
func (d *Document) Headings(build func(*Document) []Heading) []Heading {
	d.once.Do(func() {
		d.headings = build(d)
	})
	return d.headings
}
