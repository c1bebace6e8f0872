// Package fuzz provides the controlling loops that drive the two seed
// queues: a concolic loop that consumes each seed at most once in
// priority order, and a random loop that re-samples surviving seeds and
// periodically culls the favored pool.
package fuzz

import (
	"time"

	"github.com/zjy-dev/hybrid-fuzz/internal/corpus"
	"github.com/zjy-dev/hybrid-fuzz/internal/coverage"
	"github.com/zjy-dev/hybrid-fuzz/internal/logger"
	"github.com/zjy-dev/hybrid-fuzz/internal/seed"
)

// Result is the outcome of executing one seed against the target.
type Result struct {
	Interesting bool  // Reached coverage the session had not seen
	Favored     bool  // Derived seeds belong in the favored tier
	ExecTimeUs  int64 // Wall time of the execution
}

// Executor runs the program under test on a seed. Implementations live
// outside the queue core.
type Executor interface {
	Execute(s *seed.Seed) (*Result, error)
}

// Mutator derives new inputs from a base seed. Implementations live
// outside the queue core.
type Mutator interface {
	Mutate(base *seed.Seed) ([]*seed.Seed, error)
}

// Config holds the collaborators and parameters of the two loops.
type Config struct {
	Concolic *corpus.ConcolicQueue
	Rand     *corpus.RandFuzzQueue
	Oracle   coverage.Oracle
	Executor Executor
	Mutator  Mutator

	// MaxIterations bounds each loop; 0 means run until the queue
	// drains, which for the random loop means forever.
	MaxIterations int
}

// Engine drives the fuzzing loops against the queues.
type Engine struct {
	cfg            Config
	iterationCount int
	interesting    int
	culled         int
	startTime      time.Time
}

// NewEngine creates an engine.
func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// RunConcolic drains the concolic queue, executing each seed exactly
// once and feeding derived seeds back into both queues.
func (e *Engine) RunConcolic() error {
	e.startTime = time.Now()
	logger.Info("Starting concolic loop...")

	for !e.cfg.Concolic.Empty() {
		if e.cfg.MaxIterations > 0 && e.iterationCount >= e.cfg.MaxIterations {
			logger.Info("Reached max iterations (%d), stopping", e.cfg.MaxIterations)
			break
		}
		e.iterationCount++

		tier, s, err := e.cfg.Concolic.Dequeue()
		if err != nil {
			return err
		}
		logger.Debug("concolic iteration %d: seed %d from %s tier", e.iterationCount, s.Meta.ID, tier)

		result, err := e.cfg.Executor.Execute(s)
		if err != nil {
			logger.Warn("Execution of seed %d failed: %v", s.Meta.ID, err)
			continue
		}
		s.Meta.ExecTimeUs = result.ExecTimeUs
		if !result.Interesting {
			continue
		}
		e.interesting++

		if err := e.propagate(s, result); err != nil {
			return err
		}
	}

	e.printSummary("concolic")
	return nil
}

// RunRandom re-samples the random queue, mutating each drawn seed, and
// culls the favored pool whenever it outgrows its threshold.
func (e *Engine) RunRandom() error {
	e.startTime = time.Now()
	logger.Info("Starting random loop...")

	for !e.cfg.Rand.Empty() {
		if e.cfg.MaxIterations > 0 && e.iterationCount >= e.cfg.MaxIterations {
			logger.Info("Reached max iterations (%d), stopping", e.cfg.MaxIterations)
			break
		}
		e.iterationCount++

		if e.cfg.Rand.TimeToMinimize() {
			removed, err := e.cfg.Rand.Minimize(e.cfg.Oracle)
			if err != nil {
				return err
			}
			e.culled += removed
		}

		tier, base, err := e.cfg.Rand.Dequeue()
		if err != nil {
			return err
		}
		logger.Debug("random iteration %d: seed %d from %s tier", e.iterationCount, base.Meta.ID, tier)

		result, err := e.cfg.Executor.Execute(base)
		if err != nil {
			logger.Warn("Execution of seed %d failed: %v", base.Meta.ID, err)
			continue
		}
		if result.Interesting {
			e.interesting++
		}

		if err := e.propagate(base, result); err != nil {
			return err
		}
	}

	e.printSummary("random")
	return nil
}

// propagate mutates base and enqueues the derived seeds into both
// queues with the tier the executor recommended.
func (e *Engine) propagate(base *seed.Seed, result *Result) error {
	mutants, err := e.cfg.Mutator.Mutate(base)
	if err != nil {
		logger.Warn("Mutation of seed %d failed: %v", base.Meta.ID, err)
		return nil
	}

	tier := seed.Normal
	if result.Favored {
		tier = seed.Favored
	}

	for _, m := range mutants {
		m.Meta.ParentID = base.Meta.ID
		m.Meta.Depth = base.Meta.Depth + 1
		if err := e.cfg.Concolic.Enqueue(tier, m); err != nil {
			return err
		}
		if err := e.cfg.Rand.Enqueue(tier, m); err != nil {
			return err
		}
	}
	return nil
}

// IterationCount returns the number of iterations completed.
func (e *Engine) IterationCount() int {
	return e.iterationCount
}

// InterestingCount returns the number of interesting executions seen.
func (e *Engine) InterestingCount() int {
	return e.interesting
}

// printSummary prints a summary of the loop that just finished.
func (e *Engine) printSummary(loop string) {
	logger.Info("=========================================")
	logger.Info("      %s LOOP SUMMARY", loop)
	logger.Info("=========================================")
	logger.Info("Duration:     %v", time.Since(e.startTime))
	logger.Info("Iterations:   %d", e.iterationCount)
	logger.Info("Interesting:  %d", e.interesting)
	logger.Info("Seeds culled: %d", e.culled)
	logger.Info("=========================================")
}
