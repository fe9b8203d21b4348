package search

import (
	"context"
	"strings"
	"time"

	domcat "github.com/serviplace/searchapi/internal/domain/catalog"
	"github.com/serviplace/searchapi/internal/domain/index"
)

// mockPostings implements PostingReader for tests.
type mockPostings struct {
	matchingFn        func(ctx context.Context, fragment string) ([]index.Posting, error)
	withAllHashtagsFn func(ctx context.Context, hashtags []string) ([]int64, error)
}

func (m *mockPostings) Matching(ctx context.Context, fragment string) ([]index.Posting, error) {
	if m.matchingFn != nil {
		return m.matchingFn(ctx, fragment)
	}
	return nil, nil
}

func (m *mockPostings) WithAllHashtags(ctx context.Context, hashtags []string) ([]int64, error) {
	if m.withAllHashtagsFn != nil {
		return m.withAllHashtagsFn(ctx, hashtags)
	}
	if len(hashtags) == 0 {
		return nil, nil
	}
	return []int64{}, nil
}

// mockCatalog implements CatalogReader for tests.
type mockCatalog struct {
	getMultiFn  func(ctx context.Context, ids []int64) ([]domcat.Service, error)
	countLiveFn func(ctx context.Context) (int64, error)
}

func (m *mockCatalog) GetMulti(ctx context.Context, ids []int64) ([]domcat.Service, error) {
	if m.getMultiFn != nil {
		return m.getMultiFn(ctx, ids)
	}
	return nil, nil
}

func (m *mockCatalog) CountLive(ctx context.Context) (int64, error) {
	if m.countLiveFn != nil {
		return m.countLiveFn(ctx)
	}
	return 0, nil
}

// svcWithDocLen builds a service row whose title+description length is n.
func svcWithDocLen(id int64, n int) domcat.Service {
	return domcat.Reconstruct(
		id, id, "owner", strings.Repeat("t", n), "", 0, domcat.StateActive, time.Time{},
	)
}

// docLenCatalog serves svcWithDocLen rows from a fixed id->length table.
func docLenCatalog(total int64, lens map[int64]int) *mockCatalog {
	return &mockCatalog{
		getMultiFn: func(_ context.Context, ids []int64) ([]domcat.Service, error) {
			out := make([]domcat.Service, 0, len(ids))
			for _, id := range ids {
				if n, ok := lens[id]; ok {
					out = append(out, svcWithDocLen(id, n))
				}
			}
			return out, nil
		},
		countLiveFn: func(_ context.Context) (int64, error) { return total, nil },
	}
}
