// Package bench compares direct access, plain reflection, the generic path
// and the fast path on the same member operations.
package bench

import (
	"context"
	"fmt"
	"runtime"
	"time"
)

// Mode is the access strategy a scenario measures.
type Mode uint8

const (
	Native Mode = iota
	Reflect
	Generic
	Fast
)

func (m Mode) String() string {
	switch m {
	case Native:
		return "native"
	case Reflect:
		return "reflect"
	case Generic:
		return "generic"
	case Fast:
		return "fast"
	}
	return fmt.Sprintf("mode(%d)", uint8(m))
}

// Scenario is one measured operation. Op runs the operation once.
type Scenario struct {
	Group string
	Name  string
	Mode  Mode
	Op    func() error
}

// ID returns "group/name/mode".
func (s Scenario) ID() string {
	return s.Group + "/" + s.Name + "/" + s.Mode.String()
}

// Result is the measurement of one scenario.
type Result struct {
	Scenario    Scenario
	Iterations  int
	Elapsed     time.Duration
	AllocsPerOp float64
}

// PerOp returns the mean duration of one operation.
func (r Result) PerOp() time.Duration {
	if r.Iterations == 0 {
		return 0
	}
	return r.Elapsed / time.Duration(r.Iterations)
}

func (r Result) String() string {
	return fmt.Sprintf("%-32s %10d %12s/op %8.1f allocs/op", r.Scenario.ID(), r.Iterations, r.PerOp(), r.AllocsPerOp)
}

// Run measures every scenario with the given number of iterations. It stops
// at the first failing operation or when ctx is done.
func Run(ctx context.Context, scenarios []Scenario, iterations int) ([]Result, error) {
	if iterations < 1 {
		return nil, fmt.Errorf("bench: iterations must be positive, got %d", iterations)
	}

	results := make([]Result, 0, len(scenarios))
	for _, s := range scenarios {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		r, err := measure(s, iterations)
		if err != nil {
			return results, fmt.Errorf("bench: %s: %w", s.ID(), err)
		}
		results = append(results, r)
	}
	return results, nil
}

func measure(s Scenario, iterations int) (Result, error) {
	// Warm up so first-use caching is not measured
	if err := s.Op(); err != nil {
		return Result{}, err
	}

	var before, after runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&before)
	start := time.Now()
	for i := 0; i < iterations; i++ {
		if err := s.Op(); err != nil {
			return Result{}, err
		}
	}
	elapsed := time.Since(start)
	runtime.ReadMemStats(&after)

	return Result{
		Scenario:    s,
		Iterations:  iterations,
		Elapsed:     elapsed,
		AllocsPerOp: float64(after.Mallocs-before.Mallocs) / float64(iterations),
	}, nil
}

// Filter returns the scenarios whose group is in groups, or all of them
// when groups is empty.
func Filter(scenarios []Scenario, groups ...string) []Scenario {
	if len(groups) == 0 {
		return scenarios
	}
	want := make(map[string]bool, len(groups))
	for _, g := range groups {
		want[g] = true
	}
	var out []Scenario
	for _, s := range scenarios {
		if want[s.Group] {
			out = append(out, s)
		}
	}
	return out
}
