package chartref

import (
	"errors"

	"github.com/kailas-cloud/chartref/internal/domain"
)

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidQuery       = domain.ErrInvalidQuery
	ErrNoMatch            = domain.ErrNoMatch
	ErrNotFound           = domain.ErrNotFound
	ErrAssemblyIncomplete = domain.ErrAssemblyIncomplete
	ErrSourceUnavailable  = domain.ErrSourceUnavailable
)

// ErrCacheDisabled is returned by cache operations on an engine without a store.
var ErrCacheDisabled = errors.New("catalog cache disabled")

// AssemblyIncompleteError lists the pages that could not be assembled.
type AssemblyIncompleteError = domain.AssemblyIncompleteError

// InvalidQueryError carries the rejected input and the reason.
type InvalidQueryError = domain.InvalidQueryError
