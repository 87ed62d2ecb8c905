package aggregate

import (
	"cmp"
	"errors"
	"fmt"
)

// ErrFinalized is returned when an observation is added after an average
// has been read. It signals a programming defect, not an input problem.
var ErrFinalized = errors.New("aggregate: statistics already finalized")

// DocumentStatistics accumulates the ranks and distances at which one
// candidate document was returned for one query across indices.
//
// Observations are folded into running sums. Reading either average
// finalizes the record: both averages stay available, but further
// observations are rejected with ErrFinalized.
//
// DocumentStatistics is not safe for concurrent use.
type DocumentStatistics struct {
	count       int
	rankSum     int
	distanceSum float64

	finalized   bool
	avgRank     float64
	avgDistance float64
}

// AddObservation records that the document was returned at the 1-based
// rank with the given distance in one more index.
func (s *DocumentStatistics) AddObservation(rank int, distance float64) error {
	if s.finalized {
		return fmt.Errorf("%w: observation (rank %d, distance %g) rejected", ErrFinalized, rank, distance)
	}
	s.count++
	s.rankSum += rank
	s.distanceSum += distance
	return nil
}

// OccurrenceCount returns the number of observations.
func (s *DocumentStatistics) OccurrenceCount() int { return s.count }

// Finalized reports whether an average has been read.
func (s *DocumentStatistics) Finalized() bool { return s.finalized }

// AverageRank returns the mean of all recorded ranks, or 0 without observations.
func (s *DocumentStatistics) AverageRank() float64 {
	s.finalize()
	return s.avgRank
}

// AverageDistance returns the mean of all recorded distances, or 0 without observations.
func (s *DocumentStatistics) AverageDistance() float64 {
	s.finalize()
	return s.avgDistance
}

func (s *DocumentStatistics) finalize() {
	if s.finalized {
		return
	}
	s.finalized = true
	if s.count == 0 {
		return
	}
	s.avgRank = float64(s.rankSum) / float64(s.count)
	s.avgDistance = s.distanceSum / float64(s.count)
}

// Compare orders statistics for display: more occurrences first, then lower
// average rank, then lower average distance. It finalizes both arguments.
func Compare(a, b *DocumentStatistics) int {
	if c := cmp.Compare(b.OccurrenceCount(), a.OccurrenceCount()); c != 0 {
		return c
	}
	if c := cmp.Compare(a.AverageRank(), b.AverageRank()); c != 0 {
		return c
	}
	return cmp.Compare(a.AverageDistance(), b.AverageDistance())
}
