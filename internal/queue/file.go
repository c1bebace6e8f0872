package queue

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/zjy-dev/hybrid-fuzz/internal/logger"
)

// FileQueue is a FIFO whose elements live on disk, one file per index.
// Entry k is the file "{name}-{k}"; the live window is
// [lowerIdx, upperIdx). The queue survives restarts: Load rebuilds the
// window from the file names it finds.
type FileQueue struct {
	name     string
	dir      string
	lowerIdx int
	upperIdx int
	finger   int
	maxCount int
}

// entryRegex matches a trailing decimal index, e.g. "rand-seed-42".
var entryRegex = regexp.MustCompile(`^(.+)-(\d+)$`)

// CreateFileQueue creates dir and an empty queue in it.
func CreateFileQueue(name, dir string, maxCount int) (*FileQueue, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create queue directory %s: %w", dir, err)
	}
	return &FileQueue{name: name, dir: dir, maxCount: maxCount}, nil
}

// LoadFileQueue rebuilds a queue from the entry files in dir. The live
// window spans the smallest to the largest index found, so an entry
// deleted out-of-band or a half-written straggler only widens the
// window and is surfaced lazily on dequeue. A missing dir is reported
// as ErrDirectoryNotFound.
func LoadFileQueue(name, dir string, maxCount int) (*FileQueue, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrDirectoryNotFound, dir)
		}
		return nil, fmt.Errorf("failed to read queue directory %s: %w", dir, err)
	}

	lower, upper := 0, 0
	seen := false
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		m := entryRegex.FindStringSubmatch(entry.Name())
		if m == nil || m[1] != name {
			continue
		}
		k, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		if !seen {
			lower, upper = k, k+1
			seen = true
			continue
		}
		if k < lower {
			lower = k
		}
		if k+1 > upper {
			upper = k + 1
		}
	}

	q := &FileQueue{
		name:     name,
		dir:      dir,
		lowerIdx: lower,
		upperIdx: upper,
		finger:   lower,
		maxCount: maxCount,
	}
	logger.Debug("loaded file queue %s: %d entries in [%d,%d)", name, q.Len(), lower, upper)
	return q, nil
}

// OpenFileQueue loads the queue if dir exists, else creates it.
func OpenFileQueue(name, dir string, maxCount int) (*FileQueue, error) {
	if _, err := os.Stat(dir); err != nil {
		if os.IsNotExist(err) {
			return CreateFileQueue(name, dir, maxCount)
		}
		return nil, fmt.Errorf("failed to stat queue directory %s: %w", dir, err)
	}
	return LoadFileQueue(name, dir, maxCount)
}

// Len returns the number of live entries.
func (q *FileQueue) Len() int {
	return q.upperIdx - q.lowerIdx
}

// Empty reports whether the queue holds no entries.
func (q *FileQueue) Empty() bool {
	return q.Len() == 0
}

// Name returns the entry-file prefix.
func (q *FileQueue) Name() string {
	return q.name
}

// Dir returns the owned directory.
func (q *FileQueue) Dir() string {
	return q.dir
}

// entryPath returns the file path for index k.
func (q *FileQueue) entryPath(k int) string {
	return filepath.Join(q.dir, fmt.Sprintf("%s-%d", q.name, k))
}

// Enqueue writes data as the next entry file. A full queue drops the
// entry silently. The write goes through a temp file and a rename so a
// torn write never leaves a live index behind a partial entry.
func (q *FileQueue) Enqueue(data []byte) error {
	if q.Len() >= q.maxCount {
		logger.Debug("file queue %s full (%d entries), dropping", q.name, q.Len())
		return nil
	}

	path := q.entryPath(q.upperIdx)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write queue entry %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to commit queue entry %s: %w", path, err)
	}

	q.upperIdx++
	return nil
}

// Dequeue reads and deletes the oldest entry file.
func (q *FileQueue) Dequeue() ([]byte, error) {
	if q.Empty() {
		return nil, ErrEmpty
	}
	if q.finger < q.lowerIdx || q.finger >= q.upperIdx {
		return nil, fmt.Errorf("%w: finger %d outside [%d,%d)", ErrInvalidFinger, q.finger, q.lowerIdx, q.upperIdx)
	}

	path := q.entryPath(q.lowerIdx)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read queue entry %s: %w", path, err)
	}
	if err := os.Remove(path); err != nil {
		return nil, fmt.Errorf("failed to remove queue entry %s: %w", path, err)
	}

	q.lowerIdx++
	if q.finger < q.lowerIdx {
		q.finger = q.lowerIdx
	}
	return data, nil
}
