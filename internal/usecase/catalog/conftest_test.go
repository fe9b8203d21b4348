package catalog

import (
	"context"

	"github.com/serviplace/searchapi/internal/domain"
	domcat "github.com/serviplace/searchapi/internal/domain/catalog"
)

// mockRepo implements Repository over an in-memory map.
type mockRepo struct {
	nextIDFn func(ctx context.Context) (int64, error)
	putFn    func(ctx context.Context, svc *domcat.Service) error

	seq      int64
	rows     map[int64]domcat.Service
	putCalls int
}

func newMockRepo(rows ...domcat.Service) *mockRepo {
	m := &mockRepo{rows: make(map[int64]domcat.Service)}
	for _, svc := range rows {
		m.rows[svc.ID()] = svc
		if svc.ID() > m.seq {
			m.seq = svc.ID()
		}
	}
	return m
}

func (m *mockRepo) NextID(ctx context.Context) (int64, error) {
	if m.nextIDFn != nil {
		return m.nextIDFn(ctx)
	}
	m.seq++
	return m.seq, nil
}

func (m *mockRepo) Put(ctx context.Context, svc *domcat.Service) error {
	m.putCalls++
	if m.putFn != nil {
		if err := m.putFn(ctx, svc); err != nil {
			return err
		}
	}
	m.rows[svc.ID()] = *svc
	return nil
}

func (m *mockRepo) Get(_ context.Context, id int64) (domcat.Service, error) {
	svc, ok := m.rows[id]
	if !ok {
		return domcat.Service{}, domain.ErrServiceNotFound
	}
	return svc, nil
}

// mockIndexer implements Indexer and records calls.
type mockIndexer struct {
	reindexFn func(ctx context.Context, serviceID int64, title, description string) error

	reindexed []int64
}

func (m *mockIndexer) Reindex(ctx context.Context, serviceID int64, title, description string) error {
	if m.reindexFn != nil {
		if err := m.reindexFn(ctx, serviceID, title, description); err != nil {
			return err
		}
	}
	m.reindexed = append(m.reindexed, serviceID)
	return nil
}

// mockLineage implements LineageWriter and records calls.
type mockLineage struct {
	completed []int64
	ratings   map[int64][]int
}

func (m *mockLineage) AddCompleted(_ context.Context, masterID int64) error {
	m.completed = append(m.completed, masterID)
	return nil
}

func (m *mockLineage) AddRating(_ context.Context, masterID int64, stars int) error {
	if m.ratings == nil {
		m.ratings = make(map[int64][]int)
	}
	m.ratings[masterID] = append(m.ratings[masterID], stars)
	return nil
}
