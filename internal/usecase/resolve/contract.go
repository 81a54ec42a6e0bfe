package resolve

import (
	"context"

	"github.com/kailas-cloud/chartref/internal/domain/catalog"
	"github.com/kailas-cloud/chartref/internal/domain/document"
	"github.com/kailas-cloud/chartref/internal/usecase/navigate"
)

// CatalogSource supplies catalog entries.
type CatalogSource interface {
	// Charts returns the chart listing of one airport.
	Charts(ctx context.Context, airport string, opts catalog.FetchOptions) ([]catalog.Entry, error)
	// Procedures returns the facility procedure (SOP/LOA) listing.
	Procedures(ctx context.Context, opts catalog.FetchOptions) ([]catalog.Entry, error)
}

// Assembler builds a document from a selected entry and its catalog siblings.
type Assembler interface {
	Assemble(
		ctx context.Context, entry catalog.Entry, siblings []catalog.Entry, policy document.RotationPolicy,
	) (*document.Document, error)
}

// Navigator locates sections and search terms in a document.
type Navigator interface {
	Locate(doc *document.Document, section, term string) (navigate.Location, error)
}
