package queue

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFIFO(t *testing.T) {
	t.Run("should dequeue in FIFO order under interleaving", func(t *testing.T) {
		q := NewFIFO[int]()
		q.Enqueue(1)
		q.Enqueue(2)

		x, err := q.Dequeue()
		require.NoError(t, err)
		assert.Equal(t, 1, x)

		q.Enqueue(3)

		x, err = q.Dequeue()
		require.NoError(t, err)
		assert.Equal(t, 2, x)

		x, err = q.Dequeue()
		require.NoError(t, err)
		assert.Equal(t, 3, x)

		assert.True(t, q.Empty())
	})

	t.Run("should fail on empty queue", func(t *testing.T) {
		q := NewFIFO[string]()

		_, err := q.Dequeue()
		assert.ErrorIs(t, err, ErrEmpty)

		_, err = q.Peek()
		assert.ErrorIs(t, err, ErrEmpty)

		assert.ErrorIs(t, q.Drop(), ErrEmpty)
	})

	t.Run("peek should not consume", func(t *testing.T) {
		q := NewFIFO[string]()
		q.Enqueue("a")
		q.Enqueue("b")

		x, err := q.Peek()
		require.NoError(t, err)
		assert.Equal(t, "a", x)
		assert.Equal(t, 2, q.Len())

		require.NoError(t, q.Drop())
		x, err = q.Peek()
		require.NoError(t, err)
		assert.Equal(t, "b", x)
	})

	t.Run("elements should list dequeue order", func(t *testing.T) {
		q := NewFIFO[int]()
		for i := 1; i <= 4; i++ {
			q.Enqueue(i)
		}
		// Force a flip so elements span both internal slices.
		x, err := q.Dequeue()
		require.NoError(t, err)
		assert.Equal(t, 1, x)
		q.Enqueue(5)

		assert.Equal(t, []int{2, 3, 4, 5}, q.Elements())
		assert.Equal(t, 4, q.Len())
	})

	t.Run("save then load should preserve state", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "fifo.json")

		q := NewFIFO[int]()
		q.Enqueue(10)
		q.Enqueue(20)
		q.Enqueue(30)
		_, err := q.Dequeue()
		require.NoError(t, err)

		require.NoError(t, q.Save(path))

		loaded, err := LoadFIFO[int](path)
		require.NoError(t, err)
		assert.Equal(t, q.Elements(), loaded.Elements())
		assert.Equal(t, q.Len(), loaded.Len())
	})

	t.Run("load of a missing path should yield an empty queue", func(t *testing.T) {
		q, err := LoadFIFO[int](filepath.Join(t.TempDir(), "nope.json"))
		require.NoError(t, err)
		assert.True(t, q.Empty())
	})
}
