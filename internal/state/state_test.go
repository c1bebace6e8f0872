package state

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileManager(t *testing.T) {
	t.Run("load of a missing file should start from zero", func(t *testing.T) {
		m := NewFileManager(t.TempDir())
		require.NoError(t, m.Load())

		st := m.GetState()
		assert.Equal(t, uint64(0), st.LastAllocatedID)
		assert.Equal(t, 0, st.Stats.Enqueued)
	})

	t.Run("ids should start from one and increase", func(t *testing.T) {
		m := NewFileManager(t.TempDir())
		require.NoError(t, m.Load())

		assert.Equal(t, uint64(1), m.NextID())
		assert.Equal(t, uint64(2), m.NextID())
	})

	t.Run("save then load should round-trip counters", func(t *testing.T) {
		dir := t.TempDir()

		m1 := NewFileManager(dir)
		require.NoError(t, m1.Load())
		m1.NextID()
		m1.RecordEnqueue()
		m1.RecordEnqueue()
		m1.RecordDequeue()
		m1.RecordRemovals(3, 7)
		require.NoError(t, m1.Save())

		m2 := NewFileManager(dir)
		require.NoError(t, m2.Load())
		st := m2.GetState()
		assert.Equal(t, uint64(1), st.LastAllocatedID)
		assert.Equal(t, 2, st.Stats.Enqueued)
		assert.Equal(t, 1, st.Stats.Dequeued)
		assert.Equal(t, 3, st.Stats.Removed)
		assert.Equal(t, 7, st.LastMinimizedCount)
	})

	t.Run("save should create the directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "state")
		m := NewFileManager(dir)
		require.NoError(t, m.Load())
		require.NoError(t, m.Save())
		assert.FileExists(t, m.GetFilePath())
	})
}
