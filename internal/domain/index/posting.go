package index

// Posting is one stored (term, service) pair of the inverted index: the term
// occurs Count times in the service's combined title+description document.
// Postings are owned exclusively by the posting store and are regenerated
// wholesale on every reindex, never updated in place.
type Posting struct {
	Term      string
	ServiceID int64
	Count     int
}
