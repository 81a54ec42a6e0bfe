package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	chirouter "github.com/go-chi/chi/v5"

	"github.com/kailas-cloud/chartref"
	"github.com/kailas-cloud/chartref/internal/domain"
)

// --- Mocks ---

type mockEngine struct {
	chart      func(chartref.ChartQuery) (*chartref.Resolution, error)
	procedure  func(chartref.ProcedureQuery) (*chartref.Resolution, error)
	connect    func(chartref.ConnectionQuery) (*chartref.ConnectionReport, error)
	byFix      func(airport, fix string) ([]chartref.FixApproach, error)
	star       func(airport, name string) (*chartref.StarReport, error)
	listings   []chartref.CachedListing
	cacheErr   error
	purged     int
	invalidate string
	health     chartref.HealthStatus
}

func (m *mockEngine) ResolveChart(_ context.Context, q chartref.ChartQuery) (*chartref.Resolution, error) {
	return m.chart(q)
}

func (m *mockEngine) ResolveProcedure(_ context.Context, q chartref.ProcedureQuery) (*chartref.Resolution, error) {
	return m.procedure(q)
}

func (m *mockEngine) FindApproachConnections(
	_ context.Context, q chartref.ConnectionQuery,
) (*chartref.ConnectionReport, error) {
	return m.connect(q)
}

func (m *mockEngine) FindApproachesByFix(_ context.Context, airport, fix string, _ bool) ([]chartref.FixApproach, error) {
	return m.byFix(airport, fix)
}

func (m *mockEngine) AnalyzeStar(_ context.Context, airport, name string, _ bool) (*chartref.StarReport, error) {
	return m.star(airport, name)
}

func (m *mockEngine) CachedListings(context.Context) ([]chartref.CachedListing, error) {
	return m.listings, m.cacheErr
}

func (m *mockEngine) InvalidateCatalog(_ context.Context, airport string) error {
	m.invalidate = airport
	return m.cacheErr
}

func (m *mockEngine) PurgeCatalog(context.Context) (int, error) {
	return m.purged, m.cacheErr
}

func (m *mockEngine) Health(context.Context) chartref.HealthStatus { return m.health }

var _ Engine = (*chartref.Engine)(nil)

// --- Helpers ---

func newRouter(e Engine) http.Handler {
	r := chirouter.NewRouter()
	NewServer(e, nil).Register(r)
	return r
}

func do(t *testing.T, h http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, http.NoBody)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	return resp
}

// --- Tests ---

func TestResolveChart_BindsParams(t *testing.T) {
	var got chartref.ChartQuery
	e := &mockEngine{chart: func(q chartref.ChartQuery) (*chartref.Resolution, error) {
		got = q
		return &chartref.Resolution{
			Status:   chartref.StatusUnambiguous,
			Query:    q.Name,
			Selected: &chartref.Candidate{ID: "00375CNDEL", Name: "CNDEL FIVE", Score: 1},
			Pages:    []chartref.Page{{Number: 1, Source: "cndel.pdf", SourcePage: 1, Rotation: 90}},
		}, nil
	}}

	rr := do(t, newRouter(e), http.MethodGet,
		"/v1/charts/OAK?name=CNDEL5&type=STAR&section=notes&rotation=90&bypass=true")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body)
	}
	want := chartref.ChartQuery{
		Airport: "OAK", Name: "CNDEL5", Type: "STAR", Section: "notes", Rotation: "90", Bypass: true,
	}
	if got != want {
		t.Errorf("query = %+v, want %+v", got, want)
	}

	var res chartref.Resolution
	if err := json.NewDecoder(rr.Body).Decode(&res); err != nil {
		t.Fatal(err)
	}
	if res.Selected == nil || res.Selected.Name != "CNDEL FIVE" || len(res.Pages) != 1 || res.Pages[0].Rotation != 90 {
		t.Errorf("response = %+v", res)
	}
}

func TestResolveChart_BadParams(t *testing.T) {
	e := &mockEngine{chart: func(chartref.ChartQuery) (*chartref.Resolution, error) {
		t.Error("engine must not be called")
		return nil, nil
	}}
	h := newRouter(e)

	for _, target := range []string{"/v1/charts/OAK", "/v1/charts/OAK?name=X&bypass=maybe"} {
		rr := do(t, h, http.MethodGet, target)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", target, rr.Code)
		}
		if resp := decodeError(t, rr); resp.Code != ErrorCodeBadRequest {
			t.Errorf("%s: code = %s", target, resp.Code)
		}
	}
}

func TestResolveChart_AmbiguousIs300(t *testing.T) {
	e := &mockEngine{chart: func(q chartref.ChartQuery) (*chartref.Resolution, error) {
		return &chartref.Resolution{
			Status: chartref.StatusAmbiguous,
			Query:  q.Name,
			Candidates: []chartref.Candidate{
				{Name: "CNDEL FIVE", Score: 0.7},
				{Name: "CNDEL FOUR", Score: 0.7},
			},
		}, nil
	}}

	rr := do(t, newRouter(e), http.MethodGet, "/v1/charts/OAK?name=CNDEL")
	if rr.Code != http.StatusMultipleChoices {
		t.Fatalf("status = %d, want 300", rr.Code)
	}
	var res chartref.Resolution
	if err := json.NewDecoder(rr.Body).Decode(&res); err != nil {
		t.Fatal(err)
	}
	if res.Status != chartref.StatusAmbiguous || len(res.Candidates) != 2 {
		t.Errorf("response = %+v", res)
	}
}

func TestDomainErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   ErrorCode
	}{
		{"invalid query", domain.NewInvalidQuery(" - ", "empty name"), http.StatusBadRequest, ErrorCodeInvalidQuery},
		{"no match", fmt.Errorf("chart %q: %w", "SERFR2", chartref.ErrNoMatch), http.StatusNotFound, ErrorCodeNoMatch},
		{"not found", fmt.Errorf("section: %w", chartref.ErrNotFound), http.StatusNotFound, ErrorCodeNotFound},
		{
			"assembly", domain.NewAssemblyIncomplete("CNDEL FOUR", []string{"CONT.1"}),
			http.StatusBadGateway, ErrorCodeAssemblyIncomplete,
		},
		{
			"source", fmt.Errorf("charts OAK: %w", chartref.ErrSourceUnavailable),
			http.StatusServiceUnavailable, ErrorCodeSourceUnavailable,
		},
		{"internal", errors.New("boom"), http.StatusInternalServerError, ErrorCodeInternalError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &mockEngine{chart: func(chartref.ChartQuery) (*chartref.Resolution, error) {
				return &chartref.Resolution{Status: chartref.StatusUnambiguous}, tt.err
			}}
			rr := do(t, newRouter(e), http.MethodGet, "/v1/charts/OAK?name=X")
			if rr.Code != tt.status {
				t.Errorf("status = %d, want %d", rr.Code, tt.status)
			}
			resp := decodeError(t, rr)
			if resp.Code != tt.code {
				t.Errorf("code = %s, want %s", resp.Code, tt.code)
			}
			if tt.code == ErrorCodeAssemblyIncomplete && (len(resp.Missing) != 1 || resp.Missing[0] != "CONT.1") {
				t.Errorf("missing = %v", resp.Missing)
			}
			if tt.code == ErrorCodeInternalError && resp.Message != "internal error" {
				t.Errorf("internal details leaked: %q", resp.Message)
			}
		})
	}
}

func TestResolveProcedure(t *testing.T) {
	var got chartref.ProcedureQuery
	e := &mockEngine{procedure: func(q chartref.ProcedureQuery) (*chartref.Resolution, error) {
		got = q
		return &chartref.Resolution{
			Status:   chartref.StatusUnambiguous,
			Selected: &chartref.Candidate{Name: "OAKLAND ATCT SOP"},
			Location: &chartref.Location{Page: 2, Heading: "SECTION 2-2", SectionFound: true},
		}, nil
	}}
	h := newRouter(e)

	rr := do(t, h, http.MethodGet, "/v1/procedures?q=OAK+ATCT+2-2+SJCE")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body)
	}
	if got.Query != "OAK ATCT 2-2 SJCE" {
		t.Errorf("query = %+v", got)
	}

	if rr := do(t, h, http.MethodGet, "/v1/procedures"); rr.Code != http.StatusBadRequest {
		t.Errorf("missing q/term: status = %d, want 400", rr.Code)
	}
}

func TestConnectivityRoutes(t *testing.T) {
	e := &mockEngine{
		connect: func(q chartref.ConnectionQuery) (*chartref.ConnectionReport, error) {
			return &chartref.ConnectionReport{
				Airport: q.Airport, Source: q.Source, Kind: "star", Fixes: []string{"HUSHH"},
				Connections: []chartref.Connection{{
					Approach: chartref.Candidate{Name: "ILS OR LOC RWY 28R"}, Fixes: []string{"HUSHH"}, Role: "IAF",
				}},
			}, nil
		},
		byFix: func(airport, fix string) ([]chartref.FixApproach, error) {
			if fix != "SUNOL" {
				return nil, nil
			}
			return []chartref.FixApproach{{Fix: fix, Role: "FEEDER", Via: "HUSHH"}}, nil
		},
		star: func(airport, name string) (*chartref.StarReport, error) {
			return nil, fmt.Errorf("arrival %s: %w", name, chartref.ErrNoMatch)
		},
	}
	h := newRouter(e)

	rr := do(t, h, http.MethodGet, "/v1/airports/OAK/connections?source=CNDEL5")
	if rr.Code != http.StatusOK {
		t.Fatalf("connections status = %d", rr.Code)
	}
	var report chartref.ConnectionReport
	if err := json.NewDecoder(rr.Body).Decode(&report); err != nil {
		t.Fatal(err)
	}
	if report.Source != "CNDEL5" || len(report.Connections) != 1 || report.Connections[0].Role != "IAF" {
		t.Errorf("report = %+v", report)
	}

	rr = do(t, h, http.MethodGet, "/v1/airports/OAK/fixes/KLOCK/approaches")
	var fixes FixApproachesResponse
	if err := json.NewDecoder(rr.Body).Decode(&fixes); err != nil {
		t.Fatal(err)
	}
	if rr.Code != http.StatusOK || fixes.Approaches == nil || len(fixes.Approaches) != 0 {
		t.Errorf("empty fix result should be an empty list, got %d %+v", rr.Code, fixes)
	}

	if rr := do(t, h, http.MethodGet, "/v1/airports/OAK/stars/SERFR2"); rr.Code != http.StatusNotFound {
		t.Errorf("unknown star status = %d, want 404", rr.Code)
	}
}

func TestCacheRoutes(t *testing.T) {
	e := &mockEngine{purged: 3}
	h := newRouter(e)

	rr := do(t, h, http.MethodGet, "/v1/cache")
	var list CacheListResponse
	if err := json.NewDecoder(rr.Body).Decode(&list); err != nil {
		t.Fatal(err)
	}
	if rr.Code != http.StatusOK || list.Items == nil {
		t.Errorf("list = %d %+v", rr.Code, list)
	}

	if rr := do(t, h, http.MethodDelete, "/v1/cache/KOAK"); rr.Code != http.StatusNoContent || e.invalidate != "KOAK" {
		t.Errorf("invalidate = %d %q", rr.Code, e.invalidate)
	}

	rr = do(t, h, http.MethodDelete, "/v1/cache")
	var purge CachePurgeResponse
	if err := json.NewDecoder(rr.Body).Decode(&purge); err != nil {
		t.Fatal(err)
	}
	if purge.Deleted != 3 {
		t.Errorf("deleted = %d, want 3", purge.Deleted)
	}

	e.cacheErr = chartref.ErrCacheDisabled
	if rr := do(t, h, http.MethodGet, "/v1/cache"); rr.Code != http.StatusNotImplemented {
		t.Errorf("disabled cache status = %d, want 501", rr.Code)
	}
}

func TestHealthCheck(t *testing.T) {
	tests := []struct {
		status string
		want   int
	}{
		{"ok", http.StatusOK},
		{"degraded", http.StatusServiceUnavailable},
		{"error", http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		e := &mockEngine{health: chartref.HealthStatus{Status: tt.status, Checks: map[string]string{"catalog_api": "ok"}}}
		rr := do(t, newRouter(e), http.MethodGet, "/health")
		if rr.Code != tt.want {
			t.Errorf("%s: status = %d, want %d", tt.status, rr.Code, tt.want)
		}
	}
}

func TestUnknownRoute(t *testing.T) {
	rr := do(t, newRouter(&mockEngine{}), http.MethodGet, "/v1/nope")
	if rr.Code != http.StatusNotFound || decodeError(t, rr).Code != ErrorCodeNotFound {
		t.Errorf("status = %d", rr.Code)
	}
}
