package health

import (
	"context"
	"errors"
	"testing"
	"time"
)

func ok(context.Context) error { return nil }

func failing(context.Context) error { return errors.New("conn refused") }

func TestCheck(t *testing.T) {
	tests := []struct {
		name   string
		db     CheckFunc
		api    CheckFunc
		status Status
		checks map[string]CheckResult
	}{
		{"all healthy", ok, ok, Healthy, map[string]CheckResult{"database": CheckOK, "catalog_api": CheckOK}},
		{"database down", failing, ok, Degraded, map[string]CheckResult{"database": CheckError, "catalog_api": CheckOK}},
		{"catalog down", ok, failing, Degraded, map[string]CheckResult{"database": CheckOK, "catalog_api": CheckError}},
		{"all down", failing, failing, Unhealthy, map[string]CheckResult{"database": CheckError, "catalog_api": CheckError}},
		{"cache disabled", nil, ok, Healthy, map[string]CheckResult{"catalog_api": CheckOK}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(time.Second).Add("database", tt.db).Add("catalog_api", tt.api).Check(context.Background())

			if r.Status != tt.status {
				t.Errorf("status = %q, want %q", r.Status, tt.status)
			}
			if len(r.Checks) != len(tt.checks) {
				t.Fatalf("checks = %v, want %v", r.Checks, tt.checks)
			}
			for k, want := range tt.checks {
				if r.Checks[k] != want {
					t.Errorf("checks[%s] = %q, want %q", k, r.Checks[k], want)
				}
			}
		})
	}
}

func TestCheck_NoProbes(t *testing.T) {
	r := New(0).Check(context.Background())
	if r.Status != Healthy || len(r.Checks) != 0 {
		t.Errorf("report = %+v", r)
	}
}

func TestCheck_ProbeTimeout(t *testing.T) {
	slow := func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}
	start := time.Now()
	r := New(50*time.Millisecond).Add("catalog_api", slow).Add("database", ok).Check(context.Background())

	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("check took %s, probe timeout not applied", elapsed)
	}
	if r.Status != Degraded || r.Checks["catalog_api"] != CheckError {
		t.Errorf("report = %+v", r)
	}
}
