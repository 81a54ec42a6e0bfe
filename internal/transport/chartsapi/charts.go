package chartsapi

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/chartref/internal/domain"
	"github.com/kailas-cloud/chartref/internal/domain/catalog"
	"github.com/kailas-cloud/chartref/internal/domain/query"
)

// chartDTO is one record of the charts listing. The listing is a map keyed
// by airport identifier (FAA or ICAO).
type chartDTO struct {
	ChartName string `json:"chart_name"`
	ChartCode string `json:"chart_code"`
	PDFPath   string `json:"pdf_path"`
	FAAIdent  string `json:"faa_ident"`
	ICAOIdent string `json:"icao_ident"`
}

var chartCodes = map[string]query.Category{
	"IAP":  query.CategoryIAP,
	"DP":   query.CategoryDP,
	"STAR": query.CategorySTAR,
	"APD":  query.CategoryAPD,
}

// Charts fetches the chart listing of one airport.
func (c *Client) Charts(ctx context.Context, airport string, _ catalog.FetchOptions) ([]catalog.Entry, error) {
	airport = strings.ToUpper(strings.TrimSpace(airport))
	if airport == "" {
		return nil, domain.NewInvalidQuery(airport, "airport is required")
	}
	if c.charts == "" {
		return nil, fmt.Errorf("charts api not configured: %w", domain.ErrSourceUnavailable)
	}
	u, err := withQuery(c.charts, "apt", airport)
	if err != nil {
		return nil, err
	}

	var listing map[string][]chartDTO
	if err := c.getJSON(ctx, sourceCharts, u, &listing); err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(listing))
	for k := range listing {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var entries []catalog.Entry
	for _, k := range keys {
		for _, d := range listing[k] {
			e, err := chartEntry(k, d, c.resolve(d.PDFPath))
			if err != nil {
				c.logger.Debug("skip chart record", zap.String("chart", d.ChartName), zap.Error(err))
				continue
			}
			entries = append(entries, e)
		}
	}
	return entries, nil
}

func chartEntry(key string, d chartDTO, pdf string) (catalog.Entry, error) {
	if strings.TrimSpace(d.PDFPath) == "" {
		return catalog.Entry{}, errors.New("no pdf path")
	}
	airport := d.FAAIdent
	if airport == "" {
		airport = key
	}
	return catalog.NewEntry("", airport, d.ChartName, chartCodes[strings.ToUpper(d.ChartCode)], []string{pdf})
}
