package health

import (
	"context"
	"sync"
	"time"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates every component failed.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

const defaultTimeout = 3 * time.Second

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

type probe struct {
	name  string
	check CheckFunc
}

// Service runs named dependency probes.
type Service struct {
	probes  []probe
	timeout time.Duration
}

// New creates a Service whose probes each get at most timeout.
func New(timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Service{timeout: timeout}
}

// Add registers a probe. A nil check is ignored, so optional components can
// be added unconditionally.
func (s *Service) Add(name string, check CheckFunc) *Service {
	if check != nil {
		s.probes = append(s.probes, probe{name: name, check: check})
	}
	return s
}

// Check runs all probes concurrently. No probes reports Healthy.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult, len(s.probes))
	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for _, p := range s.probes {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pctx, cancel := context.WithTimeout(ctx, s.timeout)
			defer cancel()
			r := result(p.check(pctx))

			mu.Lock()
			checks[p.name] = r
			mu.Unlock()
		}()
	}
	wg.Wait()

	failed := 0
	for _, v := range checks {
		if v == CheckError {
			failed++
		}
	}

	status := Healthy
	switch {
	case failed > 0 && failed == len(checks):
		status = Unhealthy
	case failed > 0:
		status = Degraded
	}
	return Report{Status: status, Checks: checks}
}

func result(err error) CheckResult {
	if err != nil {
		return CheckError
	}
	return CheckOK
}
