package report

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/crossrank/aggregate"
	"github.com/hupe1980/crossrank/model"
)

func result(t *testing.T) *aggregate.Result {
	t.Helper()
	sim := func(target model.DocumentKey, d float64, index string) model.DocumentSimilarity {
		return model.DocumentSimilarity{Distance: d, Source: "c/q", Target: target, Index: index}
	}
	r, err := aggregate.Aggregate("c/q", [][]model.DocumentSimilarity{
		{sim("c/x", 0.1, "a.arff"), sim("c/y", 0.4, "a.arff")},
		{sim("c/y", 0.2, "b.arff"), sim("c/z", 0.3, "b.arff")},
	})
	require.NoError(t, err)
	return r
}

func status() Status {
	return Status{K: 2, Measure: "L1", Indices: []string{"a.arff", "b.arff"}, Queries: []model.DocumentKey{"c/q"}}
}

func TestNew(t *testing.T) {
	w, err := New("")
	require.NoError(t, err)
	assert.IsType(t, Text{}, w)

	w, err = New("TABLE")
	require.NoError(t, err)
	assert.IsType(t, Table{}, w)

	_, err = New("html")
	assert.ErrorIs(t, err, model.ErrConfiguration)
}

func TestText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, Text{}, status(), []*aggregate.Result{result(t)}))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "k                 : 2\nSimilarity Measure: L1\nUsed indices:\n\ta.arff\n\tb.arff\nDocument query:\n\tc/q\n"))
	assert.Contains(t, out, fmt.Sprintf("========================= Query: %20s ==========================", "c/q"))

	lines := strings.Split(out, "\n")
	var rows []string
	for _, l := range lines {
		if strings.HasPrefix(l, "c/") {
			rows = append(rows, strings.Join(strings.Fields(l), " "))
		}
	}
	assert.Equal(t, []string{
		"c/x 0.100 a.arff",
		"c/y 0.200 b.arff",
		"c/z 0.300 b.arff",
		"c/y 0.400 a.arff",
		"c/y 2 1.500 0.300",
		"c/x 1 1.000 0.100",
		"c/z 1 2.000 0.300",
	}, rows)

	assert.Contains(t, out, "----------------------------------------+-------+---------------+---------------")
}

func TestText_Truncates(t *testing.T) {
	long := model.DocumentKey(strings.Repeat("x", 60))
	r, err := aggregate.Aggregate(long, [][]model.DocumentSimilarity{
		{{Distance: 1, Source: long, Target: long, Index: "i"}},
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Text{}.WriteResult(&buf, r))
	assert.NotContains(t, buf.String(), strings.Repeat("x", 41))
	assert.Contains(t, buf.String(), strings.Repeat("x", 40))
}

func TestTable(t *testing.T) {
	w, err := New(FormatTable)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, w, status(), []*aggregate.Result{result(t)}))

	out := buf.String()
	for _, want := range []string{"measure", "L1", "a.arff", "Query: c/q", "document", "#occur", "avg rank", "1.500", "0.400", "c/z", "indices"} {
		assert.Contains(t, out, want)
	}

	// The statistics row of c/y names both indices that returned it.
	var row string
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "c/y") && strings.Contains(line, "1.500") {
			row = line
		}
	}
	require.NotEmpty(t, row)
	assert.Contains(t, row, "a.arff, b.arff")
}
