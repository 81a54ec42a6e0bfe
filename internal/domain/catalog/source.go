package catalog

// FetchOptions controls how a catalog supplier serves a request.
type FetchOptions struct {
	// Bypass skips any cached copy and refreshes it from upstream.
	Bypass bool
}
