// Package corpus provides the two seed queues driving the fuzzing
// loops: a strict-priority queue for the concolic loop and a
// probabilistic, periodically minimized queue for the random loop.
package corpus

import (
	"fmt"

	"github.com/zjy-dev/hybrid-fuzz/internal/config"
	"github.com/zjy-dev/hybrid-fuzz/internal/logger"
	"github.com/zjy-dev/hybrid-fuzz/internal/queue"
	"github.com/zjy-dev/hybrid-fuzz/internal/seed"
)

const (
	// ConcolicSeedName is the entry-file prefix of the concolic normal tier.
	ConcolicSeedName = "concolic-seed"
	// RandSeedName is the entry-file prefix of the random normal tier.
	RandSeedName = "rand-seed"
)

// ConcolicQueue feeds the concolic loop. Favored seeds sit in an
// in-memory FIFO; normal seeds spill to disk and are consumed only when
// the favored tier is dry. Each seed is dequeued at most once.
type ConcolicQueue struct {
	favored *queue.FIFO[*seed.Seed]
	normal  *queue.FileQueue
	codec   seed.Codec
}

// NewConcolicQueue opens the queue: the favored tier is loaded from
// snapshotPath (empty if the file is missing) and the normal tier is
// the concolic-seed file queue under queueDir, created on first use.
func NewConcolicQueue(queueDir, snapshotPath string, codec seed.Codec, cfg config.QueueConfig) (*ConcolicQueue, error) {
	favored, err := queue.LoadFIFO[*seed.Seed](snapshotPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load favored snapshot: %w", err)
	}

	normal, err := queue.OpenFileQueue(ConcolicSeedName, queueDir, cfg.FileQueueMaxSize)
	if err != nil {
		return nil, fmt.Errorf("failed to open normal tier: %w", err)
	}

	logger.Info("concolic queue ready: %d favored, %d normal", favored.Len(), normal.Len())
	return &ConcolicQueue{favored: favored, normal: normal, codec: codec}, nil
}

// Empty reports whether both tiers are empty.
func (q *ConcolicQueue) Empty() bool {
	return q.favored.Empty() && q.normal.Empty()
}

// FavoredLen returns the favored tier size.
func (q *ConcolicQueue) FavoredLen() int {
	return q.favored.Len()
}

// NormalLen returns the normal tier size.
func (q *ConcolicQueue) NormalLen() int {
	return q.normal.Len()
}

// Enqueue stores s in the tier selected by p. Favored seeds never
// fail; a full normal tier drops silently.
func (q *ConcolicQueue) Enqueue(p seed.Priority, s *seed.Seed) error {
	switch p {
	case seed.Favored:
		q.favored.Enqueue(s)
		return nil
	case seed.Normal:
		data, err := q.codec.Marshal(s)
		if err != nil {
			return err
		}
		return q.normal.Enqueue(data)
	default:
		return fmt.Errorf("unknown priority %d", p)
	}
}

// Dequeue returns the next seed and the tier it came from. Favored
// seeds go first; the normal tier is overflow consumed only when the
// favored tier is dry. Both tiers empty yields queue.ErrEmpty.
func (q *ConcolicQueue) Dequeue() (seed.Priority, *seed.Seed, error) {
	pick := seed.Favored
	switch {
	case q.normal.Empty():
		pick = seed.Favored
	case q.favored.Empty():
		pick = seed.Normal
	}

	if pick == seed.Favored {
		s, err := q.favored.Dequeue()
		if err != nil {
			return seed.Favored, nil, err
		}
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
	return seed.Normal, s, nil
}

// Save snapshots the favored tier to path. The normal tier is already
// on disk.
func (q *ConcolicQueue) Save(path string) error {
	return q.favored.Save(path)
}
