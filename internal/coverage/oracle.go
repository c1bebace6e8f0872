// Package coverage defines the node-set oracle the seed queues consult
// during minimization, plus adapters for concrete coverage tooling.
package coverage

import (
	"sync"

	"github.com/zjy-dev/hybrid-fuzz/internal/seed"
)

// NodeID identifies a coverage unit reached by executing a seed, e.g. a
// basic block or a "file:function" pair. It supports equality and
// hashing by being a string.
type NodeID string

// NodeSet is a set of coverage nodes.
type NodeSet map[NodeID]struct{}

// NewNodeSet builds a set from the given ids.
func NewNodeSet(ids ...NodeID) NodeSet {
	ns := make(NodeSet, len(ids))
	for _, id := range ids {
		ns[id] = struct{}{}
	}
	return ns
}

// Add inserts id into the set.
func (ns NodeSet) Add(id NodeID) {
	ns[id] = struct{}{}
}

// Contains reports whether id is in the set.
func (ns NodeSet) Contains(id NodeID) bool {
	_, ok := ns[id]
	return ok
}

// Len returns the number of nodes.
func (ns NodeSet) Len() int {
	return len(ns)
}

// Clone returns an independent copy of the set.
func (ns NodeSet) Clone() NodeSet {
	out := make(NodeSet, len(ns))
	for id := range ns {
		out[id] = struct{}{}
	}
	return out
}

// Subtract removes every node of other from the set.
func (ns NodeSet) Subtract(other NodeSet) {
	for id := range other {
		delete(ns, id)
	}
}

// Oracle computes the set of coverage nodes a seed reaches. Calls may
// be expensive: the minimizer issues one call per live seed.
type Oracle interface {
	NodeSet(s *seed.Seed) (NodeSet, error)
}

// OracleFunc adapts a plain function to the Oracle interface.
type OracleFunc func(s *seed.Seed) (NodeSet, error)

// NodeSet calls f.
func (f OracleFunc) NodeSet(s *seed.Seed) (NodeSet, error) {
	return f(s)
}

// CachedOracle memoizes node sets by seed content hash, so repeated
// minimization passes over an unchanged pool pay for each seed once.
// Cached sets are cloned on the way out; callers mutate freely.
type CachedOracle struct {
	mu    sync.Mutex
	inner Oracle
	cache map[string]NodeSet
}

// NewCachedOracle wraps inner with a content-hash keyed cache.
func NewCachedOracle(inner Oracle) *CachedOracle {
	return &CachedOracle{
		inner: inner,
		cache: make(map[string]NodeSet),
	}
}

// NodeSet returns the cached node set for s, consulting the inner
// oracle on a miss.
func (o *CachedOracle) NodeSet(s *seed.Seed) (NodeSet, error) {
	key := s.Hash()

	o.mu.Lock()
	if ns, ok := o.cache[key]; ok {
		o.mu.Unlock()
		return ns.Clone(), nil
	}
	o.mu.Unlock()

	ns, err := o.inner.NodeSet(s)
	if err != nil {
		return nil, err
	}

	o.mu.Lock()
	o.cache[key] = ns.Clone()
	o.mu.Unlock()
	return ns, nil
}

// Invalidate drops the cached node set for s, forcing the next call to
// re-consult the inner oracle.
func (o *CachedOracle) Invalidate(s *seed.Seed) {
	o.mu.Lock()
	delete(o.cache, s.Hash())
	o.mu.Unlock()
}
