package listing

import (
	"context"
	"time"

	domcat "github.com/serviplace/searchapi/internal/domain/catalog"
	domlin "github.com/serviplace/searchapi/internal/domain/lineage"
)

// mockCatalog implements CatalogReader for tests.
type mockCatalog struct {
	listFn    func(ctx context.Context) ([]domcat.Service, error)
	byOwnerFn func(ctx context.Context, owner string) ([]domcat.Service, error)
}

func (m *mockCatalog) List(ctx context.Context) ([]domcat.Service, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockCatalog) ByOwner(ctx context.Context, owner string) ([]domcat.Service, error) {
	if m.byOwnerFn != nil {
		return m.byOwnerFn(ctx, owner)
	}
	return nil, nil
}

// mockSearcher implements Searcher for tests.
type mockSearcher struct {
	searchFn func(ctx context.Context, text string, candidates []int64, ranked bool) ([]int64, error)
}

func (m *mockSearcher) Search(
	ctx context.Context, text string, candidates []int64, ranked bool,
) ([]int64, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, text, candidates, ranked)
	}
	return candidates, nil
}

// mockLineage implements LineageReader for tests.
type mockLineage struct {
	statsFn func(ctx context.Context, masterID int64) (domlin.Stats, error)
	calls   int
}

func (m *mockLineage) Stats(ctx context.Context, masterID int64) (domlin.Stats, error) {
	m.calls++
	if m.statsFn != nil {
		return m.statsFn(ctx, masterID)
	}
	return domlin.Stats{}, nil
}

type row struct {
	id       int64
	masterID int64
	owner    string
	price    float64
	state    domcat.State
	created  time.Time
}

func makeRows(rows ...row) []domcat.Service {
	out := make([]domcat.Service, len(rows))
	for i, r := range rows {
		out[i] = domcat.Reconstruct(
			r.id, r.masterID, r.owner, "Title", "Description",
			r.price, r.state, r.created,
		)
	}
	return out
}

func ids(services []domcat.Service) []int64 {
	out := make([]int64, len(services))
	for i := range services {
		out[i] = services[i].ID()
	}
	return out
}
