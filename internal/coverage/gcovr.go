package coverage

import (
	"fmt"

	"github.com/zjy-dev/gcovr-json-util/v2/pkg/gcovr"

	"github.com/zjy-dev/hybrid-fuzz/internal/seed"
)

// ReportFunc produces the gcovr report for a single seed, typically by
// running the instrumented target on it and collecting gcov output.
type ReportFunc func(s *seed.Seed) (*gcovr.UncoveredReport, error)

// GcovrOracle derives node sets from gcovr JSON reports. A node is a
// function that executed at least one line, identified as
// "file:function". Function granularity keeps the minimizer's set
// algebra cheap while still separating seeds that exercise different
// parts of the target.
type GcovrOracle struct {
	report ReportFunc
}

// NewGcovrOracle creates an oracle backed by the given report producer.
func NewGcovrOracle(report ReportFunc) *GcovrOracle {
	return &GcovrOracle{report: report}
}

// NodeSet runs the report producer for s and extracts the covered
// function nodes.
func (o *GcovrOracle) NodeSet(s *seed.Seed) (NodeSet, error) {
	rep, err := o.report(s)
	if err != nil {
		return nil, fmt.Errorf("failed to produce coverage report for seed %d: %w", s.Meta.ID, err)
	}
	return NodesFromGcovrReport(rep), nil
}

// NodesFromGcovrReport converts a gcovr UncoveredReport into the set of
// covered function nodes.
func NodesFromGcovrReport(rep *gcovr.UncoveredReport) NodeSet {
	ns := NewNodeSet()
	if rep == nil {
		return ns
	}

	for _, file := range rep.Files {
		for _, fn := range file.UncoveredFunctions {
			if fn.CoveredLines == 0 {
				continue
			}
			name := fn.DemangledName
			if name == "" {
				name = fn.FunctionName
			}
			ns.Add(NodeID(file.FilePath + ":" + name))
		}
	}
	return ns
}
