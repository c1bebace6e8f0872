package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const (
	// StateFileName is the name of the queue session state file.
	StateFileName = "queue_state.json"
)

// QueueStats holds cumulative counters for one queue instance.
type QueueStats struct {
	Enqueued int `json:"enqueued"`
	Dequeued int `json:"dequeued"`
	Removed  int `json:"removed"` // Seeds culled by minimization
}

// SessionState is the persistent state of a fuzzing session's queues.
// It backs resume functionality and telemetry.
type SessionState struct {
	LastAllocatedID    uint64     `json:"last_allocated_id"`    // Next seed ID will be this + 1
	LastMinimizedCount int        `json:"last_minimized_count"` // Favored tier size at the last culling
	Stats              QueueStats `json:"queue_stats"`
}

// Manager handles persistence and modification of the session state.
type Manager interface {
	// Load reads the state from disk.
	Load() error

	// Save writes the state to disk.
	Save() error

	// NextID increments and returns the next unique seed ID.
	NextID() uint64

	// RecordEnqueue increments the enqueue counter.
	RecordEnqueue()

	// RecordDequeue increments the dequeue counter.
	RecordDequeue()

	// RecordRemovals adds n to the removal counter and stores the
	// favored tier size observed after the culling.
	RecordRemovals(n, newCount int)

	// GetState returns a copy of the current state.
	GetState() SessionState
}

// FileManager is a file-backed implementation of the Manager interface.
type FileManager struct {
	mu       sync.Mutex
	filePath string
	state    SessionState
}

// NewFileManager creates a FileManager for the given directory.
// The state file is stored at dir/queue_state.json.
func NewFileManager(dir string) *FileManager {
	return &FileManager{
		filePath: filepath.Join(dir, StateFileName),
	}
}

// Load reads the state from disk.
// If the file doesn't exist, it initializes with zero values.
func (m *FileManager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := os.ReadFile(m.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			m.state = SessionState{}
			return nil
		}
		return fmt.Errorf("failed to read state file %s: %w", m.filePath, err)
	}

	if err := json.Unmarshal(data, &m.state); err != nil {
		return fmt.Errorf("failed to parse state file %s: %w", m.filePath, err)
	}
	return nil
}

// Save writes the state to disk.
func (m *FileManager) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	dir := filepath.Dir(m.filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create state directory %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(m.state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	if err := os.WriteFile(m.filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write state file %s: %w", m.filePath, err)
	}
	return nil
}

// NextID increments and returns the next unique seed ID.
// IDs start from 1.
func (m *FileManager) NextID() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state.LastAllocatedID++
	return m.state.LastAllocatedID
}

// RecordEnqueue increments the enqueue counter.
func (m *FileManager) RecordEnqueue() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state.Stats.Enqueued++
}

// RecordDequeue increments the dequeue counter.
func (m *FileManager) RecordDequeue() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state.Stats.Dequeued++
}

// RecordRemovals adds n to the removal counter and stores the favored
// tier size observed after the culling.
func (m *FileManager) RecordRemovals(n, newCount int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state.Stats.Removed += n
	m.state.LastMinimizedCount = newCount
}

// GetState returns a copy of the current state.
func (m *FileManager) GetState() SessionState {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.state
}

// GetFilePath returns the path to the state file.
func (m *FileManager) GetFilePath() string {
	return m.filePath
}
