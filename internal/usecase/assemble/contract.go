package assemble

import (
	"context"

	"github.com/kailas-cloud/chartref/internal/domain/document"
)

// PageSource returns the extracted pages of one source URL.
type PageSource interface {
	FetchPages(ctx context.Context, url string) ([]document.PageText, error)
}

// OrientationDetector infers the rotation that brings a page's text upright.
type OrientationDetector interface {
	DetectOrientation(page document.PageText) document.Rotation
}
