// Package lineage holds per-lineage aggregates: counters keyed by a service's
// masterID, spanning every historical row of the same logical service.
package lineage

// Stats are the aggregate counters of one lineage.
type Stats struct {
	Completed   int64 // contracts finished across all rows of the lineage
	RatingSum   int64
	RatingCount int64
}

// Rating returns the average star rating, 0 when the lineage has no reviews.
func (s Stats) Rating() float64 {
	if s.RatingCount == 0 {
		return 0
	}
	return float64(s.RatingSum) / float64(s.RatingCount)
}
