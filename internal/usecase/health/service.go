package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates the relational store is down.
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

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	db       Pinger
	sessions Pinger
}

// New creates a Service. sessions can be nil.
func New(db, sessions Pinger) *Service {
	return &Service{db: db, sessions: sessions}
}

// Check pings the database and the session store.
// Without the database nothing works, so its failure is Unhealthy; a session store failure is Degraded.
func (s *Service) Check(ctx context.Context) Report {
	checks := map[string]CheckResult{"database": probe(ctx, s.db)}
	if s.sessions != nil {
		checks["sessions"] = probe(ctx, s.sessions)
	}

	status := Healthy
	switch {
	case checks["database"] == CheckError:
		status = Unhealthy
	case checks["sessions"] == CheckError:
		status = Degraded
	}
	return Report{Status: status, Checks: checks}
}

func probe(ctx context.Context, p Pinger) CheckResult {
	if err := p.Ping(ctx); err != nil {
		return CheckError
	}
	return CheckOK
}
