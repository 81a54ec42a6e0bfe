package assemble

import (
	"math"
	"unicode/utf8"

	"github.com/kailas-cloud/chartref/internal/domain/document"
)

// DefaultDominance is the share of text a direction needs to decide orientation.
const DefaultDominance = 0.5

// TextAngleDetector decides orientation from the baseline angles of text runs.
// Angles are rounded to 10 degrees and weighted by run length; a direction
// wins only with a strict majority of the page's text.
type TextAngleDetector struct {
	Dominance float64
}

// NewTextAngleDetector creates a detector with the default dominance share.
func NewTextAngleDetector() TextAngleDetector {
	return TextAngleDetector{Dominance: DefaultDominance}
}

// DetectOrientation returns the clockwise rotation that makes the page upright,
// or 0 when the page has no text runs or no direction dominates.
func (d TextAngleDetector) DetectOrientation(page document.PageText) document.Rotation {
	dominance := d.Dominance
	if dominance <= 0 {
		dominance = DefaultDominance
	}

	var total, up, down, inverted float64
	for _, run := range page.Runs {
		w := float64(utf8.RuneCountInString(run.Text))
		if w == 0 {
			w = 1
		}
		total += w
		switch roundAngle(run.Angle) {
		case 80, 90, 100:
			up += w
		case -80, -90, -100:
			down += w
		case 170, 180, -170:
			inverted += w
		}
	}
	if total == 0 {
		return document.Rotate0
	}
	switch {
	case up/total > dominance:
		return document.Rotate90
	case down/total > dominance:
		return document.Rotate270
	case inverted/total > dominance:
		return document.Rotate180
	default:
		return document.Rotate0
	}
}

// roundAngle rounds to the nearest 10 degrees within (-180, 180].
func roundAngle(a float64) int {
	a = math.Mod(a, 360)
	if a > 180 {
		a -= 360
	} else if a <= -180 {
		a += 360
	}
	r := int(math.Round(a/10) * 10)
	if r == -180 {
		r = 180
	}
	return r
}
