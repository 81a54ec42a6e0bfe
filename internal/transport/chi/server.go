package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	chirouter "github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/chartref"
	logpkg "github.com/kailas-cloud/chartref/internal/logger"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server is the HTTP surface of the engine.
type Server struct {
	engine        Engine
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(engine Engine, logger *zap.Logger) *Server {
	if engine == nil {
		panic("chi: nil engine")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{engine: engine, logger: logger}
	s.errorHandlers = []errorHandler{
		invalidQueryHandler,
		assemblyIncompleteHandler,
		sentinelHandler(chartref.ErrNoMatch, http.StatusNotFound, ErrorCodeNoMatch),
		sentinelHandler(chartref.ErrNotFound, http.StatusNotFound, ErrorCodeNotFound),
		sentinelHandler(chartref.ErrSourceUnavailable, http.StatusServiceUnavailable, ErrorCodeSourceUnavailable),
		sentinelHandler(chartref.ErrCacheDisabled, http.StatusNotImplemented, ErrorCodeCacheDisabled),
	}
	return s
}

// Register mounts the API routes on r.
func (s *Server) Register(r chirouter.Router) {
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, ErrorCodeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, ErrorCodeBadRequest, "method not allowed")
	})

	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.Route("/v1", func(r chirouter.Router) {
		r.Get("/charts/{airport}", s.ResolveChart)
		r.Get("/procedures", s.ResolveProcedure)
		r.Get("/airports/{airport}/connections", s.FindConnections)
		r.Get("/airports/{airport}/fixes/{fix}/approaches", s.FindApproachesByFix)
		r.Get("/airports/{airport}/stars/{star}", s.AnalyzeStar)
		r.Get("/cache", s.ListCache)
		r.Delete("/cache", s.PurgeCache)
		r.Delete("/cache/{airport}", s.InvalidateCache)
	})
}

// ResolveChartParams are the query parameters of GET /v1/charts/{airport}.
type ResolveChartParams struct {
	Name     string
	Type     *string
	Section  *string
	Search   *string
	Rotation *string
	Bypass   *bool
}

// ResolveChart handles GET /v1/charts/{airport}.
func (s *Server) ResolveChart(w http.ResponseWriter, r *http.Request) {
	var (
		airport string
		params  ResolveChartParams
	)
	if err := firstErr(
		bindPath(r, "airport", &airport),
		bindQuery(r, "name", true, &params.Name),
		bindQuery(r, "type", false, &params.Type),
		bindQuery(r, "section", false, &params.Section),
		bindQuery(r, "search", false, &params.Search),
		bindQuery(r, "rotation", false, &params.Rotation),
		bindQuery(r, "bypass", false, &params.Bypass),
	); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, err.Error())
		return
	}

	res, err := s.engine.ResolveChart(r.Context(), chartref.ChartQuery{
		Airport:  airport,
		Name:     params.Name,
		Type:     deref(params.Type),
		Section:  deref(params.Section),
		Search:   deref(params.Search),
		Rotation: deref(params.Rotation),
		Bypass:   derefBool(params.Bypass),
	})
	s.writeResolution(w, r, res, err)
}

// ResolveProcedureParams are the query parameters of GET /v1/procedures.
type ResolveProcedureParams struct {
	Q        *string
	Term     *string
	Section  *string
	Search   *string
	Rotation *string
	Bypass   *bool
}

// ResolveProcedure handles GET /v1/procedures.
func (s *Server) ResolveProcedure(w http.ResponseWriter, r *http.Request) {
	var params ResolveProcedureParams
	if err := firstErr(
		bindQuery(r, "q", false, &params.Q),
		bindQuery(r, "term", false, &params.Term),
		bindQuery(r, "section", false, &params.Section),
		bindQuery(r, "search", false, &params.Search),
		bindQuery(r, "rotation", false, &params.Rotation),
		bindQuery(r, "bypass", false, &params.Bypass),
	); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, err.Error())
		return
	}
	if params.Q == nil && params.Term == nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "q or term is required")
		return
	}

	res, err := s.engine.ResolveProcedure(r.Context(), chartref.ProcedureQuery{
		Query:    deref(params.Q),
		Term:     deref(params.Term),
		Section:  deref(params.Section),
		Search:   deref(params.Search),
		Rotation: deref(params.Rotation),
		Bypass:   derefBool(params.Bypass),
	})
	s.writeResolution(w, r, res, err)
}

// FindConnections handles GET /v1/airports/{airport}/connections.
func (s *Server) FindConnections(w http.ResponseWriter, r *http.Request) {
	var (
		airport, source string
		bypass          *bool
	)
	if err := firstErr(
		bindPath(r, "airport", &airport),
		bindQuery(r, "source", true, &source),
		bindQuery(r, "bypass", false, &bypass),
	); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, err.Error())
		return
	}

	report, err := s.engine.FindApproachConnections(r.Context(), chartref.ConnectionQuery{
		Airport: airport,
		Source:  source,
		Bypass:  derefBool(bypass),
	})
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// FindApproachesByFix handles GET /v1/airports/{airport}/fixes/{fix}/approaches.
func (s *Server) FindApproachesByFix(w http.ResponseWriter, r *http.Request) {
	var (
		airport, fix string
		bypass       *bool
	)
	if err := firstErr(
		bindPath(r, "airport", &airport),
		bindPath(r, "fix", &fix),
		bindQuery(r, "bypass", false, &bypass),
	); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, err.Error())
		return
	}

	approaches, err := s.engine.FindApproachesByFix(r.Context(), airport, fix, derefBool(bypass))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	if approaches == nil {
		approaches = []chartref.FixApproach{}
	}
	writeJSON(w, http.StatusOK, FixApproachesResponse{Airport: airport, Fix: fix, Approaches: approaches})
}

// AnalyzeStar handles GET /v1/airports/{airport}/stars/{star}.
func (s *Server) AnalyzeStar(w http.ResponseWriter, r *http.Request) {
	var (
		airport, star string
		bypass        *bool
	)
	if err := firstErr(
		bindPath(r, "airport", &airport),
		bindPath(r, "star", &star),
		bindQuery(r, "bypass", false, &bypass),
	); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, err.Error())
		return
	}

	report, err := s.engine.AnalyzeStar(r.Context(), airport, star, derefBool(bypass))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// ListCache handles GET /v1/cache.
func (s *Server) ListCache(w http.ResponseWriter, r *http.Request) {
	items, err := s.engine.CachedListings(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	if items == nil {
		items = []chartref.CachedListing{}
	}
	writeJSON(w, http.StatusOK, CacheListResponse{Items: items})
}

// PurgeCache handles DELETE /v1/cache.
func (s *Server) PurgeCache(w http.ResponseWriter, r *http.Request) {
	n, err := s.engine.PurgeCatalog(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, CachePurgeResponse{Deleted: n})
}

// InvalidateCache handles DELETE /v1/cache/{airport}.
func (s *Server) InvalidateCache(w http.ResponseWriter, r *http.Request) {
	var airport string
	if err := bindPath(r, "airport", &airport); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, err.Error())
		return
	}
	if err := s.engine.InvalidateCatalog(r.Context(), airport); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	h := s.engine.Health(r.Context())

	httpStatus := http.StatusOK
	if h.Status != "ok" {
		httpStatus = http.StatusServiceUnavailable
	}
	writeJSON(w, httpStatus, HealthResponse{Status: h.Status, Checks: h.Checks})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// writeResolution answers 200 for a selected entry and 300 Multiple Choices
// with the candidate list for an ambiguous query.
func (s *Server) writeResolution(w http.ResponseWriter, r *http.Request, res *chartref.Resolution, err error) {
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	if res.Status == chartref.StatusAmbiguous {
		writeJSON(w, http.StatusMultipleChoices, res)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func bindPath(r *http.Request, name string, dest any) error {
	return runtime.BindStyledParameterWithOptions("simple", name, chirouter.URLParam(r, name), dest,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
}

func bindQuery(r *http.Request, name string, required bool, dest any) error {
	return runtime.BindQueryParameter("form", true, required, name, r.URL.Query(), dest)
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func derefBool(p *bool) bool {
	if p == nil {
		return false
	}
	return *p
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		chartref.ErrInvalidQuery,
		chartref.ErrNoMatch,
		chartref.ErrNotFound,
		chartref.ErrAssemblyIncomplete,
		chartref.ErrSourceUnavailable,
		chartref.ErrCacheDisabled,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// invalidQueryHandler echoes the rejected input and the reason.
func invalidQueryHandler(w http.ResponseWriter, err error, msg string) bool {
	if !errors.Is(err, chartref.ErrInvalidQuery) {
		return false
	}
	var iqe *chartref.InvalidQueryError
	if errors.As(err, &iqe) {
		msg = iqe.Error()
	}
	writeError(w, http.StatusBadRequest, ErrorCodeInvalidQuery, msg)
	return true
}

// assemblyIncompleteHandler lists the pages that could not be assembled.
func assemblyIncompleteHandler(w http.ResponseWriter, err error, msg string) bool {
	if !errors.Is(err, chartref.ErrAssemblyIncomplete) {
		return false
	}
	resp := ErrorResponse{Code: ErrorCodeAssemblyIncomplete, Message: msg}
	var aie *chartref.AssemblyIncompleteError
	if errors.As(err, &aie) {
		resp.Missing = aie.Missing
	}
	writeJSON(w, http.StatusBadGateway, resp)
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	logger := logpkg.FromContext(r.Context())
	logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}
