package health

import (
	"context"
	"fmt"
	"time"
)

// Health states.
const (
	// StatusHealthy indicates the component is fully operational.
	StatusHealthy = "healthy"

	// StatusDegraded indicates the component is operational but slow or
	// partially failing.
	StatusDegraded = "degraded"

	// StatusUnhealthy indicates the component is not operational.
	StatusUnhealthy = "unhealthy"
)

// SlowThreshold is the probe latency above which a reachable dependency is
// reported as degraded.
const SlowThreshold = time.Second

// Status is the health state of one component or of a combination.
type Status struct {
	// Status is one of StatusHealthy, StatusDegraded or StatusUnhealthy.
	Status string `json:"status"`

	// Message describes the state.
	Message string `json:"message,omitempty"`

	// Details holds diagnostics such as errors and latencies.
	Details map[string]any `json:"details,omitempty"`
}

// IsHealthy returns true if the status is StatusHealthy.
func (s Status) IsHealthy() bool { return s.Status == StatusHealthy }

// IsDegraded returns true if the status is StatusDegraded.
func (s Status) IsDegraded() bool { return s.Status == StatusDegraded }

// IsUnhealthy returns true if the status is StatusUnhealthy.
func (s Status) IsUnhealthy() bool { return s.Status == StatusUnhealthy }

// Healthy creates a healthy status.
func Healthy(message string) Status {
	return Status{Status: StatusHealthy, Message: message}
}

// Degraded creates a degraded status.
func Degraded(message string, details map[string]any) Status {
	return Status{Status: StatusDegraded, Message: message, Details: details}
}

// Unhealthy creates an unhealthy status.
func Unhealthy(message string, details map[string]any) Status {
	return Status{Status: StatusUnhealthy, Message: message, Details: details}
}

// Check probes one dependency.
type Check func(ctx context.Context) Status

// Ping runs probe and reports name as unhealthy when it fails and degraded
// when it takes longer than SlowThreshold.
func Ping(ctx context.Context, name string, probe func(context.Context) error) Status {
	start := time.Now()
	err := probe(ctx)
	elapsed := time.Since(start)

	if err != nil {
		return Unhealthy(fmt.Sprintf("%s is unreachable", name), map[string]any{
			"component": name,
			"error":     err.Error(),
		})
	}
	if elapsed > SlowThreshold {
		return Degraded(fmt.Sprintf("%s responded in %s", name, elapsed.Round(time.Millisecond)), map[string]any{
			"component":  name,
			"latency_ms": elapsed.Milliseconds(),
		})
	}
	return Healthy(fmt.Sprintf("%s is reachable", name))
}

var severity = map[string]int{
	StatusHealthy:   0,
	StatusDegraded:  1,
	StatusUnhealthy: 2,
}

// Combine reports the worst of statuses. The details count the statuses per
// state and name the checks in the worst one. No statuses is healthy.
func Combine(statuses ...Status) Status {
	if len(statuses) == 0 {
		return Healthy("no checks provided")
	}

	worst := StatusHealthy
	counts := make(map[string]int, len(severity))
	names := make(map[string][]string, len(severity))
	for _, s := range statuses {
		counts[s.Status]++
		names[s.Status] = append(names[s.Status], checkName(s))
		if severity[s.Status] > severity[worst] {
			worst = s.Status
		}
	}

	details := map[string]any{
		"total":  len(statuses),
		"counts": counts,
		"checks": names[worst],
	}
	switch worst {
	case StatusUnhealthy:
		return Unhealthy(fmt.Sprintf("%d check(s) failed", counts[worst]), details)
	case StatusDegraded:
		return Degraded(fmt.Sprintf("%d check(s) degraded", counts[worst]), details)
	}
	return Healthy(fmt.Sprintf("all %d check(s) passed", len(statuses)))
}

func checkName(s Status) string {
	if s.Message == "" {
		return "unnamed check"
	}
	return s.Message
}
