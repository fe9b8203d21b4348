// Package search implements the TF-IDF ranking engine over the inverted
// posting index.
package search

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/serviplace/searchapi/internal/domain/index"
	"github.com/serviplace/searchapi/internal/metrics"
)

// DefaultThreshold is the fuzzy-mode relevance cutoff: only services scoring
// at least this fraction of the top score are returned.
const DefaultThreshold = 0.9

// Service ranks services against a free-text query.
type Service struct {
	postings  PostingReader
	catalog   CatalogReader
	threshold float64
}

// New creates a search service.
func New(postings PostingReader, catalog CatalogReader) *Service {
	return &Service{postings: postings, catalog: catalog, threshold: DefaultThreshold}
}

// WithThreshold overrides the fuzzy-mode cutoff ratio.
func (s *Service) WithThreshold(t float64) *Service {
	if t > 0 && t <= 1 {
		s.threshold = t
	}
	return s
}

// Search returns the ids of candidate services matching the query text.
//
// In ranked mode the full result is ordered by TF-IDF score (ties broken by
// ascending id). In fuzzy mode term frequency is ignored (scores only decide
// relevance) and the result is cut at threshold*topScore.
//
// candidates is the pre-filtered eligible set; nil means unrestricted.
// Hashtag terms in the query are conjunctive: a service must carry all of
// them. A query that tokenizes to nothing matches nothing. Search performs
// no writes.
func (s *Service) Search(ctx context.Context, text string, candidates []int64, ranked bool) ([]int64, error) {
	start := time.Now()
	mode := "fuzzy"
	if ranked {
		mode = "ranked"
	}

	ids, err := s.search(ctx, text, candidates, ranked)
	if err != nil {
		return nil, err
	}

	metrics.SearchDuration.WithLabelValues(mode).Observe(time.Since(start).Seconds())
	metrics.SearchResultCount.WithLabelValues(mode).Observe(float64(len(ids)))
	return ids, nil
}

func (s *Service) search(ctx context.Context, text string, candidates []int64, ranked bool) ([]int64, error) {
	words, hashtags := index.SearchTokens(text)
	if len(words) == 0 && len(hashtags) == 0 {
		return nil, nil
	}

	tagIDs, err := s.postings.WithAllHashtags(ctx, hashtags)
	if err != nil {
		return nil, fmt.Errorf("hashtag match: %w", err)
	}

	allowed := newCandidateSet(candidates, tagIDs)

	// Hashtag-only query: membership is the whole signal, every match
	// scores alike.
	if len(words) == 0 {
		return s.hashtagOnly(tagIDs, candidates), nil
	}

	total, err := s.catalog.CountLive(ctx)
	if err != nil {
		return nil, fmt.Errorf("count catalog: %w", err)
	}

	scores := make(map[int64]float64)
	docLens := make(map[int64]int)

	for _, word := range words {
		postings, err := s.postings.Matching(ctx, word)
		if err != nil {
			return nil, fmt.Errorf("postings matching %q: %w", word, err)
		}

		matched := postings[:0]
		for _, p := range postings {
			if allowed.has(p.ServiceID) {
				matched = append(matched, p)
			}
		}
		// A term nobody matches contributes nothing.
		if len(matched) == 0 {
			continue
		}

		if err := s.fetchDocLens(ctx, matched, docLens); err != nil {
			return nil, err
		}

		// Per-service partial term frequency: occurrence density in the
		// document, discounted for substring matches by how much of the
		// stored term the query term covers.
		partials := make(map[int64]float64)
		for _, p := range matched {
			docLen := docLens[p.ServiceID]
			if docLen == 0 {
				continue
			}
			partials[p.ServiceID] += float64(p.Count) / float64(docLen) *
				float64(len(word)) / float64(len(p.Term))
		}
		if len(partials) == 0 {
			continue
		}

		// idf is weighted against the whole catalog, not the filtered
		// candidate set: term rarity does not change with query filters.
		idf := math.Log(1 + float64(total)/float64(len(partials)))

		for id, partial := range partials {
			if ranked {
				scores[id] += math.Log(1+partial) * idf
			} else {
				scores[id] += idf
			}
		}
	}

	ordered := orderByScore(scores)

	if !ranked {
		ordered = cutoff(ordered, scores, s.threshold)
	}
	return ordered, nil
}

// hashtagOnly intersects the hashtag matches with the candidate set. A nil
// tagIDs (no hashtags at all cannot reach here; nil means unconstrained)
// falls back to the candidates themselves.
func (s *Service) hashtagOnly(tagIDs, candidates []int64) []int64 {
	source := tagIDs
	if source == nil {
		source = candidates
	}

	allowed := newCandidateSet(candidates, nil)
	out := make([]int64, 0, len(source))
	for _, id := range source {
		if allowed.has(id) {
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// fetchDocLens backfills title+description lengths for services not seen yet
// in this call. One search reads each service row at most once.
func (s *Service) fetchDocLens(ctx context.Context, postings []index.Posting, docLens map[int64]int) error {
	var missing []int64
	for _, p := range postings {
		if _, ok := docLens[p.ServiceID]; !ok {
			docLens[p.ServiceID] = 0
			missing = append(missing, p.ServiceID)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	svcs, err := s.catalog.GetMulti(ctx, missing)
	if err != nil {
		return fmt.Errorf("fetch documents: %w", err)
	}
	for i := range svcs {
		docLens[svcs[i].ID()] = svcs[i].DocLength()
	}
	return nil
}

func orderByScore(scores map[int64]float64) []int64 {
	out := make([]int64, 0, len(scores))
	for id := range scores {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool {
		if scores[out[i]] != scores[out[j]] {
			return scores[out[i]] > scores[out[j]]
		}
		return out[i] < out[j]
	})
	return out
}

// cutoff keeps the prefix scoring at least threshold*topScore.
func cutoff(ordered []int64, scores map[int64]float64, threshold float64) []int64 {
	if len(ordered) == 0 {
		return ordered
	}
	top := scores[ordered[0]]
	n := 0
	for n < len(ordered) && scores[ordered[n]] >= top*threshold {
		n++
	}
	return ordered[:n]
}

// candidateSet is the intersection of the caller's candidate filter and the
// hashtag conjunction; a nil input on either side means unrestricted.
type candidateSet struct {
	candidates map[int64]bool
	tags       map[int64]bool
}

func newCandidateSet(candidates, tagIDs []int64) candidateSet {
	return candidateSet{candidates: toSet(candidates), tags: toSet(tagIDs)}
}

func (c candidateSet) has(id int64) bool {
	if c.candidates != nil && !c.candidates[id] {
		return false
	}
	if c.tags != nil && !c.tags[id] {
		return false
	}
	return true
}

func toSet(ids []int64) map[int64]bool {
	if ids == nil {
		return nil
	}
	set := make(map[int64]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
