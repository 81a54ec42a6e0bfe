package assemble

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"github.com/kailas-cloud/chartref/internal/domain"
	"github.com/kailas-cloud/chartref/internal/domain/catalog"
	"github.com/kailas-cloud/chartref/internal/domain/document"
	"github.com/kailas-cloud/chartref/internal/metrics"
)

// Service merges catalog pages into one oriented document.
type Service struct {
	pages    PageSource
	detector OrientationDetector
	logger   *zap.Logger
}

// New creates an assembly service. A nil detector uses TextAngleDetector.
func New(pages PageSource, detector OrientationDetector, logger *zap.Logger) *Service {
	if pages == nil {
		panic("assemble: nil page source")
	}
	if detector == nil {
		detector = NewTextAngleDetector()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{pages: pages, detector: detector, logger: logger}
}

// Assemble builds the document for entry. Continuation pages are looked up in
// siblings and appended after the base page in sequence order. A missing
// continuation or a page source that fails or returns nothing aborts assembly.
func (s *Service) Assemble(
	ctx context.Context, entry catalog.Entry, siblings []catalog.Entry, policy document.RotationPolicy,
) (*document.Document, error) {
	family := catalog.FindFamily(entry, siblings)
	if !family.IsComplete() {
		return nil, domain.NewAssemblyIncomplete(entry.Name(), family.MissingNames())
	}

	var (
		pages   []document.PageUnit
		outline []document.Heading
		missing []string
	)
	seen := make(map[string]struct{})
	for _, part := range family.Pages() {
		offset := len(pages)
		for _, h := range part.Headings() {
			h.Page += offset
			outline = append(outline, h)
		}
		for _, url := range part.URLs() {
			if _, ok := seen[url]; ok {
				continue
			}
			seen[url] = struct{}{}

			texts, err := s.pages.FetchPages(ctx, url)
			if err != nil {
				s.logger.Warn("Page fetch failed", zap.String("url", url), zap.Error(err))
				missing = append(missing, url)
				continue
			}
			if len(texts) == 0 {
				missing = append(missing, url)
				continue
			}
			for i, text := range texts {
				detected, applied := s.orient(text, policy)
				pages = append(pages, document.NewPageUnit(url, i, text, detected, applied))
				metrics.PagesRotatedTotal.WithLabelValues(strconv.Itoa(int(applied))).Inc()
			}
		}
	}
	if len(missing) > 0 {
		return nil, domain.NewAssemblyIncomplete(entry.Name(), missing)
	}
	if len(pages) == 0 {
		return nil, domain.NewAssemblyIncomplete(entry.Name(), []string{"no source pages"})
	}

	s.logger.Debug("Document assembled",
		zap.String("document", entry.Name()),
		zap.Int("pages", len(pages)),
		zap.Stringer("rotation", policy),
	)
	return document.New(entry.Name(), pages, outline), nil
}

// orient returns the detected and the applied rotation of one page.
func (s *Service) orient(text document.PageText, policy document.RotationPolicy) (detected, applied document.Rotation) {
	switch policy.Mode() {
	case document.PolicyExplicit:
		return document.Rotate0, policy.Degrees()
	case document.PolicyDisabled:
		return document.Rotate0, document.Rotate0
	}
	if !text.HasSignal() {
		return document.Rotate0, document.Rotate0
	}
	detected = s.detector.DetectOrientation(text)
	return detected, detected
}
