package corpus

import (
	"fmt"

	"github.com/zjy-dev/hybrid-fuzz/internal/coverage"
	"github.com/zjy-dev/hybrid-fuzz/internal/seed"
)

// Culled pairs a redundant seed with its slot index in the favored
// durable queue at the time the minimizer ran.
type Culled struct {
	Idx  int
	Seed *seed.Seed
}

// cullRedundant runs a greedy set cover over the live seeds and returns
// the ones whose coverage is subsumed by the others. The oracle is
// consulted once per seed.
//
// Each round picks the entry with the largest remaining node set (ties
// go to the earlier slot), keeps it, and subtracts its nodes from the
// rest; entries whose sets run empty are redundant. The survivors form
// a cover with no redundancy under the oracle's node granularity.
func cullRedundant(seeds []*seed.Seed, oracle coverage.Oracle) ([]Culled, error) {
	type entry struct {
		idx   int
		s     *seed.Seed
		nodes coverage.NodeSet
	}

	work := make([]*entry, 0, len(seeds))
	for i, s := range seeds {
		nodes, err := oracle.NodeSet(s)
		if err != nil {
			return nil, fmt.Errorf("failed to compute node set for seed %d: %w", s.Meta.ID, err)
		}
		work = append(work, &entry{idx: i, s: s, nodes: nodes})
	}

	var redundant []Culled
	for len(work) > 0 {
		// Largest current node set wins; a strict comparison keeps the
		// earliest slot on ties.
		best := 0
		for i := 1; i < len(work); i++ {
			if work[i].nodes.Len() > work[best].nodes.Len() {
				best = i
			}
		}
		chosen := work[best]
		work = append(work[:best], work[best+1:]...)

		kept := work[:0]
		for _, e := range work {
			e.nodes.Subtract(chosen.nodes)
			if e.nodes.Len() == 0 {
				redundant = append(redundant, Culled{Idx: e.idx, Seed: e.s})
				continue
			}
			kept = append(kept, e)
		}
		work = kept
	}

	return redundant, nil
}
