// Package health runs preflight checks against the external sinks a run is
// configured to publish to. Checks run concurrently and are folded into one
// Report so an unreachable sink stops the run before any work is done.
package health

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Adithya-Monish-Kumar-K/wordindex/pkg/logger"
)

// Status represents the health state of a component or the system overall.
type Status string

const (
	StatusUp   Status = "up"
	StatusDown Status = "down"
)

// Check probes a single dependency and returns nil when it is reachable.
type Check func(ctx context.Context) error

// ComponentHealth holds the result of a single component check.
type ComponentHealth struct {
	Status  Status
	Message string
	Latency time.Duration
}

// Report is the aggregated result of all component checks.
type Report struct {
	Status     Status
	Components map[string]ComponentHealth
}

// Err returns an error naming every component that is down, or nil.
func (r Report) Err() error {
	if r.Status == StatusUp {
		return nil
	}
	var down []string
	for name, comp := range r.Components {
		if comp.Status == StatusDown {
			down = append(down, fmt.Sprintf("%s (%s)", name, comp.Message))
		}
	}
	sort.Strings(down)
	return fmt.Errorf("unreachable: %s", strings.Join(down, ", "))
}

// Checker manages registered checks and runs them concurrently.
type Checker struct {
	checks map[string]Check
	mu     sync.RWMutex
}

// NewChecker creates an empty Checker.
func NewChecker() *Checker {
	return &Checker{
		checks: make(map[string]Check),
	}
}

// Register adds a named check.
func (c *Checker) Register(name string, check Check) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checks[name] = check
}

// Len returns the number of registered checks.
func (c *Checker) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.checks)
}

// Run executes all registered checks concurrently. The overall status is
// down as soon as one component is down.
func (c *Checker) Run(ctx context.Context) Report {
	c.mu.RLock()
	checks := make(map[string]Check, len(c.checks))
	for name, check := range c.checks {
		checks[name] = check
	}
	c.mu.RUnlock()
	report := Report{
		Status:     StatusUp,
		Components: make(map[string]ComponentHealth, len(checks)),
	}

	var wg sync.WaitGroup
	var mu sync.Mutex

	for name, check := range checks {
		wg.Add(1)
		go func(n string, ch Check) {
			defer wg.Done()
			start := time.Now()
			result := ComponentHealth{Status: StatusUp}
			if err := ch(ctx); err != nil {
				result.Status = StatusDown
				result.Message = err.Error()
			}
			result.Latency = time.Since(start)
			mu.Lock()
			report.Components[n] = result
			mu.Unlock()
		}(name, check)
	}
	wg.Wait()
	log := logger.WithComponent("health")
	for name, comp := range report.Components {
		log.Debug("preflight check", "check", name, "status", comp.Status, "latency", comp.Latency)
		if comp.Status == StatusDown {
			report.Status = StatusDown
		}
	}
	return report
}
