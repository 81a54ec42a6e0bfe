package chartsapi

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/chartref/internal/domain"
	"github.com/kailas-cloud/chartref/internal/domain/catalog"
	"github.com/kailas-cloud/chartref/internal/domain/document"
	"github.com/kailas-cloud/chartref/internal/domain/query"
)

// Procedure listing groups.
const (
	GroupPolicy      = "policy"
	GroupEnroute     = "enroute"
	GroupTRACON      = "tracon"
	GroupATCT        = "atct"
	GroupLOAInternal = "loa_internal"
	GroupLOAExternal = "loa_external"
	GroupLOAMilitary = "loa_military"
	GroupZAK         = "zak"
	GroupQuickRef    = "quick_ref"
	GroupOther       = "other"
)

type procedureDTO struct {
	Name      string        `json:"name"`
	PDFURL    string        `json:"pdf_url"`
	Group     string        `json:"group"`
	Bookmarks []bookmarkDTO `json:"bookmarks"`
}

// bookmarkDTO pages are 1-based.
type bookmarkDTO struct {
	Title string `json:"title"`
	Page  int    `json:"page"`
	Level int    `json:"level"`
}

// Procedures fetches the facility procedure listing. Duplicate documents are
// listed once.
func (c *Client) Procedures(ctx context.Context, _ catalog.FetchOptions) ([]catalog.Entry, error) {
	if c.procs == "" {
		return nil, fmt.Errorf("procedures listing not configured: %w", domain.ErrSourceUnavailable)
	}

	var listing []procedureDTO
	if err := c.getJSON(ctx, sourceProcedures, c.procs, &listing); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(listing))
	entries := make([]catalog.Entry, 0, len(listing))
	for _, d := range listing {
		if d.PDFURL == "" {
			continue
		}
		if _, ok := seen[d.PDFURL]; ok {
			continue
		}
		seen[d.PDFURL] = struct{}{}

		opts := []catalog.Option{catalog.WithGroup(Categorize(d.Name, d.Group))}
		if hs := headings(d.Bookmarks); len(hs) > 0 {
			opts = append(opts, catalog.WithHeadings(hs))
		}
		e, err := catalog.NewEntry(d.PDFURL, "", d.Name, query.CategorySOP, []string{c.resolve(d.PDFURL)}, opts...)
		if err != nil {
			c.logger.Debug("skip procedure record", zap.String("procedure", d.Name), zap.Error(err))
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func headings(bs []bookmarkDTO) []document.Heading {
	var hs []document.Heading
	for _, b := range bs {
		if strings.TrimSpace(b.Title) == "" || b.Page < 1 {
			continue
		}
		level := b.Level
		if level < 1 {
			level = 1
		}
		hs = append(hs, document.Heading{Title: strings.TrimSpace(b.Title), Page: b.Page - 1, Level: level})
	}
	return hs
}

// Categorize derives the listing group of a procedure from its name and the
// upstream group label.
func Categorize(name, group string) string {
	n := strings.ToLower(name)
	g := strings.ToLower(group)

	switch {
	case strings.Contains(g, "central policy") || strings.HasPrefix(n, "cps"):
		return GroupPolicy
	case strings.Contains(g, "enroute") || strings.Contains(n, "oakland center"):
		return GroupEnroute
	case strings.Contains(g, "tracon") || strings.Contains(n, "tracon"):
		return GroupTRACON
	case strings.Contains(g, "airport traffic control") || strings.Contains(n, "atct"):
		return GroupATCT
	case strings.Contains(g, "internal"):
		return GroupLOAInternal
	case strings.Contains(g, "external"):
		return GroupLOAExternal
	case strings.Contains(g, "military"):
		return GroupLOAMilitary
	case strings.Contains(g, "zak") || strings.Contains(n, "pacific"):
		return GroupZAK
	case strings.Contains(g, "quick reference"):
		return GroupQuickRef
	default:
		return GroupOther
	}
}
