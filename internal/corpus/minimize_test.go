package corpus

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjy-dev/hybrid-fuzz/internal/coverage"
	"github.com/zjy-dev/hybrid-fuzz/internal/seed"
)

// setOracle serves fixed node sets keyed by seed ID.
func setOracle(sets map[uint64]coverage.NodeSet) coverage.Oracle {
	return coverage.OracleFunc(func(s *seed.Seed) (coverage.NodeSet, error) {
		return sets[s.Meta.ID].Clone(), nil
	})
}

func TestCullRedundant(t *testing.T) {
	t.Run("should follow the greedy cover trace", func(t *testing.T) {
		seeds := []*seed.Seed{
			newSeed(1, "s1"), // {1,2}
			newSeed(2, "s2"), // {2,3}
			newSeed(3, "s3"), // {3}
			newSeed(4, "s4"), // {1}
		}
		oracle := setOracle(map[uint64]coverage.NodeSet{
			1: coverage.NewNodeSet("1", "2"),
			2: coverage.NewNodeSet("2", "3"),
			3: coverage.NewNodeSet("3"),
			4: coverage.NewNodeSet("1"),
		})

		redundant, err := cullRedundant(seeds, oracle)
		require.NoError(t, err)

		// {1,2} wins round one and empties {1}; {3} (slot 2's set, held
		// by slot 1 after subtraction) wins round two and empties the
		// remaining {3}.
		var idxs []int
		for _, r := range redundant {
			idxs = append(idxs, r.Idx)
		}
		assert.ElementsMatch(t, []int{2, 3}, idxs)
	})

	t.Run("ties should keep the earlier slot", func(t *testing.T) {
		seeds := []*seed.Seed{newSeed(1, "a"), newSeed(2, "b")}
		oracle := setOracle(map[uint64]coverage.NodeSet{
			1: coverage.NewNodeSet("x"),
			2: coverage.NewNodeSet("x"),
		})

		redundant, err := cullRedundant(seeds, oracle)
		require.NoError(t, err)
		require.Len(t, redundant, 1)
		assert.Equal(t, 1, redundant[0].Idx)
	})

	t.Run("disjoint sets should all survive", func(t *testing.T) {
		seeds := []*seed.Seed{newSeed(1, "a"), newSeed(2, "b"), newSeed(3, "c")}
		oracle := setOracle(map[uint64]coverage.NodeSet{
			1: coverage.NewNodeSet("x"),
			2: coverage.NewNodeSet("y"),
			3: coverage.NewNodeSet("z"),
		})

		redundant, err := cullRedundant(seeds, oracle)
		require.NoError(t, err)
		assert.Empty(t, redundant)
	})

	t.Run("no seeds should mean no work", func(t *testing.T) {
		redundant, err := cullRedundant(nil, setOracle(nil))
		require.NoError(t, err)
		assert.Empty(t, redundant)
	})

	t.Run("oracle failures should propagate", func(t *testing.T) {
		boom := errors.New("oracle down")
		oracle := coverage.OracleFunc(func(s *seed.Seed) (coverage.NodeSet, error) {
			return nil, boom
		})

		_, err := cullRedundant([]*seed.Seed{newSeed(1, "a")}, oracle)
		assert.ErrorIs(t, err, boom)
	})
}
