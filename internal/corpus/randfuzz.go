package corpus

import (
	"fmt"
	"math/rand"
	"os"
	"sort"
	"time"

	"github.com/zjy-dev/hybrid-fuzz/internal/config"
	"github.com/zjy-dev/hybrid-fuzz/internal/coverage"
	"github.com/zjy-dev/hybrid-fuzz/internal/logger"
	"github.com/zjy-dev/hybrid-fuzz/internal/queue"
	"github.com/zjy-dev/hybrid-fuzz/internal/seed"
	"github.com/zjy-dev/hybrid-fuzz/internal/state"
)

// RandFuzzQueue feeds the random mutation loop. The favored tier is a
// durable round-robin queue: fetches hand out the same seeds again and
// again, which is what sampling with replacement wants. The normal tier
// spills to disk. Once the favored tier outgrows its size at the last
// culling, a greedy set-cover pass removes seeds whose coverage is
// subsumed by the rest.
type RandFuzzQueue struct {
	favored *queue.Durable[*seed.Seed]
	normal  *queue.FileQueue
	codec   seed.Codec
	session *state.FileManager

	favoredProb   float64
	cullThreshold float64
	lastMinimized int
	removeCount   int
	rng           *rand.Rand
}

// NewRandFuzzQueue opens the queue. The favored tier is restored from
// snapshotPath when the file exists; the normal tier is the rand-seed
// file queue under queueDir. Culling counters are restored from the
// session state file in queueDir.
func NewRandFuzzQueue(queueDir, snapshotPath string, codec seed.Codec, cfg config.QueueConfig) (*RandFuzzQueue, error) {
	var favored *queue.Durable[*seed.Seed]
	if _, err := os.Stat(snapshotPath); err == nil {
		favored, err = queue.LoadDurable(snapshotPath, cfg.DurableQueueMaxSize, seed.Equal)
		if err != nil {
			return nil, fmt.Errorf("failed to load favored snapshot: %w", err)
		}
	} else if os.IsNotExist(err) {
		favored = queue.NewDurable(cfg.DurableQueueMaxSize, seed.Equal)
	} else {
		return nil, fmt.Errorf("failed to stat favored snapshot %s: %w", snapshotPath, err)
	}

	normal, err := queue.OpenFileQueue(RandSeedName, queueDir, cfg.FileQueueMaxSize)
	if err != nil {
		return nil, fmt.Errorf("failed to open normal tier: %w", err)
	}

	session := state.NewFileManager(queueDir)
	if err := session.Load(); err != nil {
		return nil, fmt.Errorf("failed to load session state: %w", err)
	}
	st := session.GetState()

	logger.Info("rand-fuzz queue ready: %d favored, %d normal, %d culled so far",
		favored.Len(), normal.Len(), st.Stats.Removed)

	return &RandFuzzQueue{
		favored:       favored,
		normal:        normal,
		codec:         codec,
		session:       session,
		favoredProb:   cfg.FavoredSeedProb,
		cullThreshold: cfg.SeedCullingThreshold,
		lastMinimized: st.LastMinimizedCount,
		removeCount:   st.Stats.Removed,
		rng:           rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

// SetRand replaces the tier-selection RNG. Tests use it to make the
// draw deterministic.
func (q *RandFuzzQueue) SetRand(rng *rand.Rand) {
	q.rng = rng
}

// Empty reports whether both tiers are empty.
func (q *RandFuzzQueue) Empty() bool {
	return q.favored.Empty() && q.normal.Empty()
}

// FavoredLen returns the favored tier size.
func (q *RandFuzzQueue) FavoredLen() int {
	return q.favored.Len()
}

// NormalLen returns the normal tier size.
func (q *RandFuzzQueue) NormalLen() int {
	return q.normal.Len()
}

// RemoveCount returns the cumulative number of culled seeds.
func (q *RandFuzzQueue) RemoveCount() int {
	return q.removeCount
}

// LastMinimizedCount returns the favored tier size at the last culling.
func (q *RandFuzzQueue) LastMinimizedCount() int {
	return q.lastMinimized
}

// Enqueue stores s in the tier selected by p. Both tiers drop silently
// when full; callers that care compare sizes before and after.
func (q *RandFuzzQueue) Enqueue(p seed.Priority, s *seed.Seed) error {
	switch p {
	case seed.Favored:
		q.favored.Enqueue(s)
	case seed.Normal:
		data, err := q.codec.Marshal(s)
		if err != nil {
			return err
		}
		if err := q.normal.Enqueue(data); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown priority %d", p)
	}
	q.session.RecordEnqueue()
	return nil
}

// Dequeue returns the next seed and the tier it came from. With both
// tiers nonempty a uniform draw picks the favored tier with probability
// FavoredSeedProb. Favored seeds are fetched round-robin and stay in
// the queue; normal seeds are consumed.
func (q *RandFuzzQueue) Dequeue() (seed.Priority, *seed.Seed, error) {
	pick := seed.Favored
	switch {
	case q.normal.Empty():
		pick = seed.Favored
	case q.favored.Empty():
		pick = seed.Normal
	case q.rng.Float64() < q.favoredProb:
		pick = seed.Favored
	default:
		pick = seed.Normal
	}

	if pick == seed.Favored {
		s, err := q.favored.Fetch()
		if err != nil {
			return seed.Favored, nil, err
		}
		q.session.RecordDequeue()
		return seed.Favored, s, nil
	}

	data, err := q.normal.Dequeue()
	if err != nil {
		return seed.Normal, nil, err
	}
	s, err := q.codec.Unmarshal(data)
	if err != nil {
		return seed.Normal, nil, err
	}
	q.session.RecordDequeue()
	return seed.Normal, s, nil
}

// TimeToMinimize reports whether the favored tier has outgrown its size
// at the last culling by the configured factor. A queue that was never
// minimized triggers as soon as any seeds exist.
func (q *RandFuzzQueue) TimeToMinimize() bool {
	return float64(q.favored.Len()) > float64(q.lastMinimized)*q.cullThreshold
}

// Minimize consults the coverage oracle for every favored seed and
// removes the ones whose node sets are subsumed by the rest. Removals
// are applied in descending index order so the left-shifts inside the
// durable queue do not invalidate pending indices. Returns the number
// of seeds removed.
func (q *RandFuzzQueue) Minimize(oracle coverage.Oracle) (int, error) {
	redundant, err := cullRedundant(q.favored.Elements(), oracle)
	if err != nil {
		return 0, err
	}

	sort.Slice(redundant, func(i, j int) bool {
		return redundant[i].Idx > redundant[j].Idx
	})
	for _, r := range redundant {
		if err := q.favored.Remove(r.Idx, r.Seed); err != nil {
			return 0, fmt.Errorf("failed to cull seed %d at slot %d: %w", r.Seed.Meta.ID, r.Idx, err)
		}
	}

	q.lastMinimized = q.favored.Len()
	q.removeCount += len(redundant)
	q.session.RecordRemovals(len(redundant), q.favored.Len())

	if len(redundant) > 0 {
		logger.Info("culled %d redundant seeds, %d survive", len(redundant), q.favored.Len())
	}
	return len(redundant), nil
}

// Save snapshots the favored tier to path and persists the session
// counters. The normal tier is already on disk.
func (q *RandFuzzQueue) Save(path string) error {
	if err := q.favored.Save(path); err != nil {
		return err
	}
	return q.session.Save()
}
