package airac

import (
	"fmt"
	"time"
)

// CycleLength is the length of one AIRAC cycle.
const CycleLength = 28 * 24 * time.Hour

// epoch is the effective date of cycle 2501.
var epoch = time.Date(2025, time.January, 23, 0, 0, 0, 0, time.UTC)

// Cycle is one AIRAC publication cycle.
type Cycle struct {
	start time.Time
}

// At returns the cycle in effect at t.
func At(t time.Time) Cycle {
	d := t.UTC().Sub(epoch)
	n := d / CycleLength
	if d < 0 && d%CycleLength != 0 {
		n--
	}
	return Cycle{start: epoch.Add(n * CycleLength)}
}

// Current returns the cycle in effect now.
func Current() Cycle { return At(time.Now()) }

// Start returns the effective date (00:00 UTC).
func (c Cycle) Start() time.Time { return c.start }

// End returns the effective date of the next cycle.
func (c Cycle) End() time.Time { return c.start.Add(CycleLength) }

// Next returns the following cycle.
func (c Cycle) Next() Cycle { return Cycle{start: c.End()} }

// ID returns the YYCC identifier, e.g. "2501".
func (c Cycle) ID() string {
	return fmt.Sprintf("%02d%02d", c.start.Year()%100, (c.start.YearDay()-1)/28+1)
}

// Remaining returns the time left in the cycle at t.
func (c Cycle) Remaining(t time.Time) time.Duration {
	if d := c.End().Sub(t); d > 0 {
		return d
	}
	return 0
}

func (c Cycle) String() string { return c.ID() }
