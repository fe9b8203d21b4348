// Package listing composes visibility, range filters, full-text search, and
// explicit sorting into the catalog listing operation.
package listing

import (
	"context"
	"fmt"

	"github.com/serviplace/searchapi/internal/domain"
	domcat "github.com/serviplace/searchapi/internal/domain/catalog"
	domlin "github.com/serviplace/searchapi/internal/domain/lineage"
	"github.com/serviplace/searchapi/internal/domain/query"
)

// Service handles catalog listing requests.
type Service struct {
	catalog  CatalogReader
	searcher Searcher
	lineage  LineageReader
}

// New creates a listing service.
func New(catalog CatalogReader, searcher Searcher, lineage LineageReader) *Service {
	return &Service{catalog: catalog, searcher: searcher, lineage: lineage}
}

// List returns the services visible to the actor, restricted by the query's
// filters, matched and ordered by its search text, and reordered by its
// explicit sort. owner narrows the listing to one user's catalog. The query
// was validated at construction, so no storage is touched for a bad request.
func (s *Service) List(
	ctx context.Context, actor domain.Actor, owner string, q query.Query,
) ([]domcat.Service, error) {
	var (
		services []domcat.Service
		err      error
	)
	if owner != "" {
		services, err = s.catalog.ByOwner(ctx, owner)
	} else {
		services, err = s.catalog.List(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	services = filterVisible(services, actor, owner)

	stats := s.newStatsLookup(ctx)

	services, err = applyFilters(services, q.Filters(), stats)
	if err != nil {
		return nil, err
	}

	if q.HasSearch() {
		services, err = s.searchFilter(ctx, services, q)
		if err != nil {
			return nil, err
		}
	}

	if sortSpec := q.Sort(); sortSpec != nil {
		if err := applySort(services, *sortSpec, stats); err != nil {
			return nil, err
		}
	}

	return services, nil
}

// searchFilter runs the ranking engine over the already-filtered candidates
// and maps the returned id ordering back onto the service rows.
func (s *Service) searchFilter(
	ctx context.Context, candidates []domcat.Service, q query.Query,
) ([]domcat.Service, error) {
	ids := make([]int64, len(candidates))
	byID := make(map[int64]domcat.Service, len(candidates))
	for i := range candidates {
		ids[i] = candidates[i].ID()
		byID[candidates[i].ID()] = candidates[i]
	}

	ranked, err := s.searcher.Search(ctx, q.SearchText(), ids, q.Ranked())
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", q.SearchText(), err)
	}

	out := make([]domcat.Service, 0, len(ranked))
	for _, id := range ranked {
		if svc, ok := byID[id]; ok {
			out = append(out, svc)
		}
	}
	return out, nil
}

// filterVisible applies the state visibility rule: an owner sees their own
// active and paused services, an elevated actor sees every state, everyone
// else sees active only.
func filterVisible(services []domcat.Service, actor domain.Actor, owner string) []domcat.Service {
	if actor.Elevated {
		return services
	}

	ownCatalog := owner != "" && actor.Owns(owner)

	out := services[:0]
	for _, svc := range services {
		switch svc.State() {
		case domcat.StateActive:
			out = append(out, svc)
		case domcat.StatePaused:
			if ownCatalog {
				out = append(out, svc)
			}
		case domcat.StateRetired:
			// invisible without elevation
		}
	}
	return out
}

// statsLookup memoizes lineage aggregates per masterID for one request.
type statsLookup func(masterID int64) (domlin.Stats, error)

func (s *Service) newStatsLookup(ctx context.Context) statsLookup {
	cache := make(map[int64]domlin.Stats)
	return func(masterID int64) (domlin.Stats, error) {
		if st, ok := cache[masterID]; ok {
			return st, nil
		}
		st, err := s.lineage.Stats(ctx, masterID)
		if err != nil {
			return domlin.Stats{}, fmt.Errorf("lineage stats for %d: %w", masterID, err)
		}
		cache[masterID] = st
		return st, nil
	}
}
