package chartsapi

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/chartref/internal/domain"
	"github.com/kailas-cloud/chartref/internal/domain/document"
)

type extractDTO struct {
	Pages []pageDTO `json:"pages"`
}

type pageDTO struct {
	Text string   `json:"text"`
	Runs []runDTO `json:"runs"`
}

type runDTO struct {
	Text  string  `json:"text"`
	Angle float64 `json:"angle"`
}

// FetchPages returns the extracted text of every page of one document.
func (c *Client) FetchPages(ctx context.Context, docURL string) ([]document.PageText, error) {
	if c.xtract == "" {
		return nil, fmt.Errorf("extraction service not configured: %w", domain.ErrSourceUnavailable)
	}
	u, err := withQuery(c.xtract, "url", c.resolve(docURL))
	if err != nil {
		return nil, err
	}

	var resp extractDTO
	if err := c.getJSON(ctx, sourceExtract, u, &resp); err != nil {
		return nil, err
	}

	pages := make([]document.PageText, 0, len(resp.Pages))
	for _, p := range resp.Pages {
		pt := document.PageText{Text: p.Text}
		for _, r := range p.Runs {
			pt.Runs = append(pt.Runs, document.TextRun{Text: r.Text, Angle: r.Angle})
		}
		pages = append(pages, pt)
	}
	return pages, nil
}
