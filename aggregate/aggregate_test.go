package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/crossrank/model"
)

func sim(target model.DocumentKey, d float64, index string) model.DocumentSimilarity {
	return model.DocumentSimilarity{Distance: d, Source: "Q", Target: target, Index: index}
}

func TestAggregate(t *testing.T) {
	a := []model.DocumentSimilarity{sim("X", 0.1, "A"), sim("Y", 0.4, "A")}
	b := []model.DocumentSimilarity{sim("Y", 0.2, "B"), sim("Z", 0.3, "B")}

	r, err := Aggregate("Q", [][]model.DocumentSimilarity{a, b})
	require.NoError(t, err)

	assert.Equal(t, model.DocumentKey("Q"), r.Query)
	assert.Equal(t, []model.DocumentSimilarity{
		sim("X", 0.1, "A"),
		sim("Y", 0.2, "B"),
		sim("Z", 0.3, "B"),
		sim("Y", 0.4, "A"),
	}, r.Ranking)

	require.Len(t, r.Statistics, 3)

	y := r.Statistics["Y"]
	assert.Equal(t, 2, y.OccurrenceCount())
	assert.InDelta(t, 1.5, y.AverageRank(), 1e-12)
	assert.InDelta(t, 0.3, y.AverageDistance(), 1e-12)

	x := r.Statistics["X"]
	assert.Equal(t, 1, x.OccurrenceCount())
	assert.InDelta(t, 1.0, x.AverageRank(), 1e-12)
	assert.InDelta(t, 0.1, x.AverageDistance(), 1e-12)

	z := r.Statistics["Z"]
	assert.Equal(t, 1, z.OccurrenceCount())
	assert.InDelta(t, 2.0, z.AverageRank(), 1e-12)
	assert.InDelta(t, 0.3, z.AverageDistance(), 1e-12)

	ranked := r.Ranked()
	require.Len(t, ranked, 3)
	assert.Equal(t, model.DocumentKey("Y"), ranked[0].Document)
	assert.Equal(t, model.DocumentKey("X"), ranked[1].Document)
	assert.Equal(t, model.DocumentKey("Z"), ranked[2].Document)

	assert.Equal(t, []string{"A", "B"}, r.IndicesOf("Y"))
	assert.Equal(t, []string{"B"}, r.IndicesOf("Z"))
	assert.Nil(t, r.IndicesOf("W"))
}

func TestAggregate_StableTiesFollowIndexOrder(t *testing.T) {
	a := []model.DocumentSimilarity{sim("P", 0.5, "A")}
	b := []model.DocumentSimilarity{sim("R", 0.5, "B")}

	r, err := Aggregate("Q", [][]model.DocumentSimilarity{a, b})
	require.NoError(t, err)
	assert.Equal(t, model.DocumentKey("P"), r.Ranking[0].Target)

	r, err = Aggregate("Q", [][]model.DocumentSimilarity{b, a})
	require.NoError(t, err)
	assert.Equal(t, model.DocumentKey("R"), r.Ranking[0].Target)
}

func TestAggregate_OnePerIndex(t *testing.T) {
	// The same key twice in one index list (duplicate records) counts once.
	a := []model.DocumentSimilarity{sim("D", 0.1, "A"), sim("D", 0.2, "A"), sim("E", 0.3, "A")}

	r, err := Aggregate("Q", [][]model.DocumentSimilarity{a})
	require.NoError(t, err)

	d := r.Statistics["D"]
	assert.Equal(t, 1, d.OccurrenceCount())
	assert.InDelta(t, 1.0, d.AverageRank(), 1e-12)

	e := r.Statistics["E"]
	assert.InDelta(t, 3.0, e.AverageRank(), 1e-12)
	assert.Len(t, r.Ranking, 3)
}

func TestAggregate_Empty(t *testing.T) {
	r, err := Aggregate("Q", [][]model.DocumentSimilarity{nil, {}})
	require.NoError(t, err)
	assert.Empty(t, r.Ranking)
	assert.Empty(t, r.Ranked())
}

func TestAggregate_NoSharedState(t *testing.T) {
	lists := [][]model.DocumentSimilarity{{sim("X", 0.1, "A")}}

	first, err := Aggregate("Q", lists)
	require.NoError(t, err)
	first.Statistics["X"].AverageRank()

	second, err := Aggregate("Q", lists)
	require.NoError(t, err)

	assert.NotSame(t, first.Statistics["X"], second.Statistics["X"])
	assert.False(t, second.Statistics["X"].Finalized())
	assert.Equal(t, 1, second.Statistics["X"].OccurrenceCount())
}

func TestRanked_TieBreakByKey(t *testing.T) {
	a := []model.DocumentSimilarity{sim("M", 0.1, "A")}
	b := []model.DocumentSimilarity{sim("K", 0.1, "B")}

	r, err := Aggregate("Q", [][]model.DocumentSimilarity{a, b})
	require.NoError(t, err)

	ranked := r.Ranked()
	assert.Equal(t, model.DocumentKey("K"), ranked[0].Document)
	assert.Equal(t, model.DocumentKey("M"), ranked[1].Document)
}
