package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/hupe1980/crossrank/aggregate"
)

// Table renders bordered tables with lipgloss.
type Table struct {
	Styles Styles
}

// WriteStatus implements Writer.
func (t Table) WriteStatus(w io.Writer, s Status) error {
	queries := make([]string, len(s.Queries))
	for i, q := range s.Queries {
		queries[i] = string(q)
	}

	tbl := t.newTable([]int{}).
		Rows(
			[]string{"k", strconv.Itoa(s.K)},
			[]string{"measure", s.Measure},
			[]string{"indices", strings.Join(s.Indices, "\n")},
			[]string{"queries", strings.Join(queries, "\n")},
		)

	_, err := fmt.Fprintln(w, tbl.Render())
	return err
}

// WriteResult implements Writer.
func (t Table) WriteResult(w io.Writer, r *aggregate.Result) error {
	ranking := t.newTable([]int{1}).Headers("document", "distance", "index")
	for _, sim := range r.Ranking {
		ranking.Row(string(sim.Target), strconv.FormatFloat(sim.Distance, 'f', 3, 64), sim.Index)
	}

	stats := t.newTable([]int{1, 2, 3}).Headers("document", "#occur", "avg rank", "avg dist", "indices")
	for _, e := range r.Ranked() {
		s := e.Statistics
		stats.Row(
			string(e.Document),
			strconv.Itoa(s.OccurrenceCount()),
			strconv.FormatFloat(s.AverageRank(), 'f', 3, 64),
			strconv.FormatFloat(s.AverageDistance(), 'f', 3, 64),
			strings.Join(r.IndicesOf(e.Document), ", "),
		)
	}

	title := t.Styles.Title.Render("Query: " + string(r.Query))
	_, err := fmt.Fprintf(w, "\n%s\n%s\n%s\n", title, ranking.Render(), stats.Render())
	return err
}

func (t Table) newTable(numeric []int) *table.Table {
	isNumeric := make(map[int]bool, len(numeric))
	for _, c := range numeric {
		isNumeric[c] = true
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(t.Styles.Border).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return t.Styles.Header
			case isNumeric[col]:
				return t.Styles.Number
			default:
				return t.Styles.Cell
			}
		})
}
