package health

import (
	"context"
	"sync"
	"time"
)

// DefaultTimeout bounds each check
const DefaultTimeout = 5 * time.Second

// Report is the result of one checker, by name
type Report struct {
	Name   string
	Result *Result
}

// Manager runs checkers in parallel and aggregates their results
type Manager struct {
	checkers []Checker
	timeout  time.Duration
}

// NewManager creates a manager over checkers
func NewManager(checkers ...Checker) *Manager {
	return &Manager{checkers: checkers, timeout: DefaultTimeout}
}

// WithTimeout sets the per-check timeout.
func (m *Manager) WithTimeout(timeout time.Duration) *Manager {
	m.timeout = timeout
	return m
}

// Check runs every checker and returns the reports in registration order.
// A checker that returns nil is reported as unhealthy.
func (m *Manager) Check(ctx context.Context) []Report {
	reports := make([]Report, len(m.checkers))

	var wg sync.WaitGroup
	for i, checker := range m.checkers {
		wg.Add(1)
		go func(i int, c Checker) {
			defer wg.Done()

			checkCtx, cancel := context.WithTimeout(ctx, m.timeout)
			defer cancel()

			start := time.Now()
			result := c.Check(checkCtx)
			if result == nil {
				result = Unhealthy("check returned no result")
			}
			if result.Latency == 0 {
				result.Latency = time.Since(start)
			}

			reports[i] = Report{Name: c.Name(), Result: result}
		}(i, checker)
	}

	wg.Wait()
	return reports
}

// Overall is the worst status among reports, healthy when there are none
func Overall(reports []Report) Status {
	status := StatusHealthy
	for _, r := range reports {
		status = max(status, r.Result.Status)
	}
	return status
}
