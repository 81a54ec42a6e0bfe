package health

import "context"

// CheckFunc probes one dependency. A nil error means it is usable.
type CheckFunc func(ctx context.Context) error
