package chi

import "github.com/kailas-cloud/chartref"

// ErrorCode is a machine-readable error code.
type ErrorCode string

// Error codes.
const (
	ErrorCodeBadRequest         ErrorCode = "bad_request"
	ErrorCodeUnauthorized       ErrorCode = "unauthorized"
	ErrorCodeInvalidQuery       ErrorCode = "invalid_query"
	ErrorCodeNoMatch            ErrorCode = "no_match"
	ErrorCodeNotFound           ErrorCode = "not_found"
	ErrorCodeAssemblyIncomplete ErrorCode = "assembly_incomplete"
	ErrorCodeSourceUnavailable  ErrorCode = "source_unavailable"
	ErrorCodeCacheDisabled      ErrorCode = "cache_disabled"
	ErrorCodeInternalError      ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response except 300.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	// Missing lists unassembled pages for assembly_incomplete.
	Missing []string `json:"missing,omitempty"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// FixApproachesResponse is the body of GET /v1/airports/{airport}/fixes/{fix}/approaches.
type FixApproachesResponse struct {
	Airport    string                 `json:"airport"`
	Fix        string                 `json:"fix"`
	Approaches []chartref.FixApproach `json:"approaches"`
}

// CacheListResponse is the body of GET /v1/cache.
type CacheListResponse struct {
	Items []chartref.CachedListing `json:"items"`
}

// CachePurgeResponse is the body of DELETE /v1/cache.
type CachePurgeResponse struct {
	Deleted int `json:"deleted"`
}
