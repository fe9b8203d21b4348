package search

import (
	"context"

	domcat "github.com/serviplace/searchapi/internal/domain/catalog"
	"github.com/serviplace/searchapi/internal/domain/index"
)

// PostingReader defines the index lookup contract.
type PostingReader interface {
	// Matching returns postings of every stored plain-word term containing
	// the fragment as a substring.
	Matching(ctx context.Context, fragment string) ([]index.Posting, error)
	// WithAllHashtags returns ids of services carrying every hashtag; nil
	// means "no hashtag constraint" (empty input), an empty slice means an
	// empty conjunction.
	WithAllHashtags(ctx context.Context, hashtags []string) ([]int64, error)
}

// CatalogReader supplies document lengths and the idf population size.
type CatalogReader interface {
	GetMulti(ctx context.Context, ids []int64) ([]domcat.Service, error)
	CountLive(ctx context.Context) (int64, error)
}
