package health

import (
	"context"
	"time"
)

// Probe checks one dependency.
type Probe func(ctx context.Context) error

type CheckResult struct {
	Name       string `json:"name"`
	Healthy    bool   `json:"healthy"`
	Error      string `json:"error,omitempty"`
	DurationMS int64  `json:"duration_ms"`
}

type namedProbe struct {
	name  string
	probe Probe
}

// Checker runs registered probes for the readiness endpoint.
type Checker struct {
	probes  []namedProbe
	timeout time.Duration
}

func NewChecker(timeout time.Duration) *Checker {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Checker{timeout: timeout}
}

func (c *Checker) Register(name string, probe Probe) {
	c.probes = append(c.probes, namedProbe{name: name, probe: probe})
}

func (c *Checker) Ready(ctx context.Context) (bool, []CheckResult) {
	results := make([]CheckResult, 0, len(c.probes))
	ready := true
	for _, p := range c.probes {
		probeCtx, cancel := context.WithTimeout(ctx, c.timeout)
		start := time.Now()
		err := p.probe(probeCtx)
		cancel()
		result := CheckResult{
			Name:       p.name,
			Healthy:    err == nil,
			DurationMS: time.Since(start).Milliseconds(),
		}
		if err != nil {
			result.Error = err.Error()
			ready = false
		}
		results = append(results, result)
	}
	return ready, results
}
