package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentStatistics(t *testing.T) {
	t.Run("Averages", func(t *testing.T) {
		var s DocumentStatistics
		require.NoError(t, s.AddObservation(2, 0.4))
		require.NoError(t, s.AddObservation(1, 0.2))
		require.NoError(t, s.AddObservation(3, 0.6))

		assert.Equal(t, 3, s.OccurrenceCount())
		assert.InDelta(t, 2.0, s.AverageRank(), 1e-12)
		assert.InDelta(t, 0.4, s.AverageDistance(), 1e-12)
	})

	t.Run("ReadOrderIndependent", func(t *testing.T) {
		var a, b DocumentStatistics
		for _, s := range []*DocumentStatistics{&a, &b} {
			require.NoError(t, s.AddObservation(1, 0.5))
			require.NoError(t, s.AddObservation(4, 0.1))
		}

		rankFirst := a.AverageRank()
		distSecond := a.AverageDistance()

		distFirst := b.AverageDistance()
		rankSecond := b.AverageRank()

		assert.Equal(t, rankFirst, rankSecond)
		assert.Equal(t, distFirst, distSecond)
		assert.InDelta(t, 2.5, rankFirst, 1e-12)
		assert.InDelta(t, 0.3, distFirst, 1e-12)
	})

	t.Run("IdempotentRead", func(t *testing.T) {
		var s DocumentStatistics
		require.NoError(t, s.AddObservation(5, 1.25))
		assert.Equal(t, s.AverageRank(), s.AverageRank())
		assert.Equal(t, s.AverageDistance(), s.AverageDistance())
	})

	t.Run("FrozenAfterRead", func(t *testing.T) {
		var s DocumentStatistics
		require.NoError(t, s.AddObservation(1, 0.1))
		assert.False(t, s.Finalized())

		_ = s.AverageDistance()
		assert.True(t, s.Finalized())

		err := s.AddObservation(2, 0.2)
		assert.ErrorIs(t, err, ErrFinalized)
		assert.Equal(t, 1, s.OccurrenceCount())
		assert.InDelta(t, 1.0, s.AverageRank(), 1e-12)
	})

	t.Run("Empty", func(t *testing.T) {
		var s DocumentStatistics
		assert.Zero(t, s.AverageRank())
		assert.Zero(t, s.AverageDistance())
	})
}

func TestCompare(t *testing.T) {
	mk := func(obs ...[2]float64) *DocumentStatistics {
		s := &DocumentStatistics{}
		for _, o := range obs {
			require.NoError(t, s.AddObservation(int(o[0]), o[1]))
		}
		return s
	}

	twice := mk([2]float64{3, 0.9}, [2]float64{3, 0.9})
	onceGood := mk([2]float64{1, 0.5})
	onceBad := mk([2]float64{2, 0.1})
	onceGoodCloser := mk([2]float64{1, 0.2})

	assert.Negative(t, Compare(twice, onceGood))
	assert.Negative(t, Compare(onceGood, onceBad))
	assert.Negative(t, Compare(onceGoodCloser, onceGood))
	assert.Positive(t, Compare(onceBad, twice))
	assert.Zero(t, Compare(onceGood, onceGood))
}
