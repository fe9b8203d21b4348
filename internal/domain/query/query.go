// Package query holds the per-request listing descriptor: an optional
// full-text search, numeric range filters, and a sort spec.
package query

import (
	"fmt"

	"github.com/serviplace/searchapi/internal/domain"
)

// Recognized filter and sort keys.
const (
	KeyPrice        = "price"
	KeyCreationDate = "creation_date"
	KeyRating       = "rating"
	KeyPopularity   = "popularity"
)

// NoBound is the caller-facing sentinel meaning "this bound is absent".
const NoBound = -1

var filterKeys = map[string]bool{
	KeyPrice:        true,
	KeyCreationDate: true,
	KeyRating:       true,
	KeyPopularity:   true,
}

var sortKeys = map[string]bool{
	KeyPrice:        true,
	KeyCreationDate: true,
	KeyRating:       true,
	KeyPopularity:   true,
}

// Bounds is an optional numeric range. A nil pointer means no bound.
type Bounds struct {
	Min *float64
	Max *float64
}

// Contains reports whether v falls inside the bounds.
func (b Bounds) Contains(v float64) bool {
	if b.Min != nil && v < *b.Min {
		return false
	}
	if b.Max != nil && v > *b.Max {
		return false
	}
	return true
}

// Sort is an explicit ordering request.
type Sort struct {
	By      string
	Reverse bool
}

// Query is the ephemeral descriptor of one listing request. It is validated
// at construction, before any index or catalog access.
type Query struct {
	searchText string
	filters    map[string]Bounds
	sort       *Sort
}

// New validates and creates a Query. A bound equal to NoBound (-1) is
// normalized to "absent". Unrecognized filter or sort keys are rejected.
func New(searchText string, filters map[string]Bounds, sort *Sort) (Query, error) {
	normalized := make(map[string]Bounds, len(filters))
	for key, b := range filters {
		if !filterKeys[key] {
			return Query{}, fmt.Errorf("filter %q: %w", key, domain.ErrFilterNotSupported)
		}
		normalized[key] = Bounds{Min: dropSentinel(b.Min), Max: dropSentinel(b.Max)}
	}

	if sort != nil && !sortKeys[sort.By] {
		return Query{}, fmt.Errorf("sort by %q: %w", sort.By, domain.ErrSortNotSupported)
	}

	q := Query{searchText: searchText, filters: normalized}
	if sort != nil {
		s := *sort
		q.sort = &s
	}
	return q, nil
}

// SearchText returns the full-text query, empty when none was requested.
func (q Query) SearchText() string { return q.searchText }

// HasSearch reports whether a full-text search was requested.
func (q Query) HasSearch() bool { return q.searchText != "" }

// Filters returns the normalized range filters.
func (q Query) Filters() map[string]Bounds { return q.filters }

// Sort returns the explicit sort spec, nil when none was requested.
func (q Query) Sort() *Sort { return q.sort }

// Ranked reports whether search results keep their full TF-IDF ordering.
// An explicit sort switches search into the fuzzy-cutoff mode instead: the
// ordering is about to be overwritten, so scores only decide relevance.
func (q Query) Ranked() bool { return q.sort == nil }

func dropSentinel(v *float64) *float64 {
	if v == nil || *v == NoBound {
		return nil
	}
	c := *v
	return &c
}
