package listing

import (
	"context"

	domcat "github.com/serviplace/searchapi/internal/domain/catalog"
	domlin "github.com/serviplace/searchapi/internal/domain/lineage"
)

// CatalogReader reads catalog rows.
type CatalogReader interface {
	List(ctx context.Context) ([]domcat.Service, error)
	ByOwner(ctx context.Context, owner string) ([]domcat.Service, error)
}

// Searcher ranks candidate services against a query text.
type Searcher interface {
	Search(ctx context.Context, text string, candidates []int64, ranked bool) ([]int64, error)
}

// LineageReader supplies per-lineage aggregates for rating and popularity.
type LineageReader interface {
	Stats(ctx context.Context, masterID int64) (domlin.Stats, error)
}
