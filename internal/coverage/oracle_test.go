package coverage

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zjy-dev/gcovr-json-util/v2/pkg/gcovr"

	"github.com/zjy-dev/hybrid-fuzz/internal/seed"
)

func TestNodeSet(t *testing.T) {
	t.Run("subtract should remove shared nodes", func(t *testing.T) {
		a := NewNodeSet("1", "2", "3")
		b := NewNodeSet("2", "3", "4")

		a.Subtract(b)
		assert.Equal(t, 1, a.Len())
		assert.True(t, a.Contains("1"))
	})

	t.Run("clone should be independent", func(t *testing.T) {
		a := NewNodeSet("1")
		b := a.Clone()
		b.Add("2")

		assert.Equal(t, 1, a.Len())
		assert.Equal(t, 2, b.Len())
	})
}

func TestCachedOracle(t *testing.T) {
	t.Run("should consult the inner oracle once per payload", func(t *testing.T) {
		calls := 0
		inner := OracleFunc(func(s *seed.Seed) (NodeSet, error) {
			calls++
			return NewNodeSet("n"), nil
		})
		cached := NewCachedOracle(inner)

		s := seed.New([]byte("payload"))
		for i := 0; i < 3; i++ {
			ns, err := cached.NodeSet(s)
			require.NoError(t, err)
			assert.Equal(t, 1, ns.Len())
		}
		assert.Equal(t, 1, calls)

		// A different payload misses the cache.
		_, err := cached.NodeSet(seed.New([]byte("other")))
		require.NoError(t, err)
		assert.Equal(t, 2, calls)
	})

	t.Run("returned sets should not alias the cache", func(t *testing.T) {
		cached := NewCachedOracle(OracleFunc(func(s *seed.Seed) (NodeSet, error) {
			return NewNodeSet("n"), nil
		}))

		s := seed.New([]byte("x"))
		first, err := cached.NodeSet(s)
		require.NoError(t, err)
		first.Subtract(NewNodeSet("n"))

		second, err := cached.NodeSet(s)
		require.NoError(t, err)
		assert.Equal(t, 1, second.Len())
	})

	t.Run("invalidate should force a recompute", func(t *testing.T) {
		calls := 0
		cached := NewCachedOracle(OracleFunc(func(s *seed.Seed) (NodeSet, error) {
			calls++
			return NewNodeSet("n"), nil
		}))

		s := seed.New([]byte("x"))
		_, err := cached.NodeSet(s)
		require.NoError(t, err)
		cached.Invalidate(s)
		_, err = cached.NodeSet(s)
		require.NoError(t, err)
		assert.Equal(t, 2, calls)
	})

	t.Run("errors should not be cached", func(t *testing.T) {
		boom := errors.New("no report")
		fail := true
		cached := NewCachedOracle(OracleFunc(func(s *seed.Seed) (NodeSet, error) {
			if fail {
				return nil, boom
			}
			return NewNodeSet("n"), nil
		}))

		s := seed.New([]byte("x"))
		_, err := cached.NodeSet(s)
		assert.ErrorIs(t, err, boom)

		fail = false
		ns, err := cached.NodeSet(s)
		require.NoError(t, err)
		assert.Equal(t, 1, ns.Len())
	})
}

func TestGcovrOracle(t *testing.T) {
	t.Run("an empty report should yield an empty set", func(t *testing.T) {
		oracle := NewGcovrOracle(func(s *seed.Seed) (*gcovr.UncoveredReport, error) {
			return &gcovr.UncoveredReport{}, nil
		})

		ns, err := oracle.NodeSet(seed.New([]byte("x")))
		require.NoError(t, err)
		assert.Equal(t, 0, ns.Len())
	})

	t.Run("a nil report should yield an empty set", func(t *testing.T) {
		assert.Equal(t, 0, NodesFromGcovrReport(nil).Len())
	})

	t.Run("report failures should propagate", func(t *testing.T) {
		boom := errors.New("gcov crashed")
		oracle := NewGcovrOracle(func(s *seed.Seed) (*gcovr.UncoveredReport, error) {
			return nil, boom
		})

		_, err := oracle.NodeSet(seed.New([]byte("x")))
		assert.ErrorIs(t, err, boom)
	})
}
