package report

import (
	"bufio"
	"fmt"
	"io"

	"github.com/hupe1980/crossrank/aggregate"
)

// Text renders fixed-width plain text.
type Text struct{}

// WriteStatus implements Writer.
func (Text) WriteStatus(w io.Writer, s Status) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "k                 : %d\n", s.K)
	fmt.Fprintf(bw, "Similarity Measure: %s\n", s.Measure)
	fmt.Fprintln(bw, "Used indices:")
	for _, name := range s.Indices {
		fmt.Fprintf(bw, "\t%s\n", name)
	}
	fmt.Fprintln(bw, "Document query:")
	for _, q := range s.Queries {
		fmt.Fprintf(bw, "\t%s\n", q)
	}
	return bw.Flush()
}

// WriteResult implements Writer.
func (Text) WriteResult(w io.Writer, r *aggregate.Result) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "\n\n========================= Query: %20.20s ==========================\n", r.Query)

	fmt.Fprintf(bw, "%-37.37s %-8.8s %-33.33s\n", "document", "distance", "index")
	fmt.Fprintln(bw, "-------------------------------------+--------+---------------------------------")
	for _, sim := range r.Ranking {
		fmt.Fprintf(bw, "%-37.37s % 8.3f %-33.33s\n", sim.Target, sim.Distance, sim.Index)
	}

	fmt.Fprintf(bw, "\n%-40.40s %-7.7s %-15.15s %-15.15s\n", "document", "#occur", "avg rank", "avg dist")
	fmt.Fprintln(bw, "----------------------------------------+-------+---------------+---------------")
	for _, e := range r.Ranked() {
		s := e.Statistics
		fmt.Fprintf(bw, "%-40.40s %7d %15.3f %15.3f\n", e.Document, s.OccurrenceCount(), s.AverageRank(), s.AverageDistance())
	}

	return bw.Flush()
}
