// Package catalog implements the service lifecycle: creation, edits,
// retirement and the contract/review events feeding lineage aggregates.
//
// A logical service is a lineage of rows sharing a masterID. Edits never
// mutate a row: the current one is retired and a fresh row is written with
// the same masterID, so history stays queryable and at most one row per
// lineage is live.
package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/serviplace/searchapi/internal/domain"
	domcat "github.com/serviplace/searchapi/internal/domain/catalog"
)

// Service implements the catalog write side.
type Service struct {
	repo    Repository
	indexer Indexer
	lineage LineageWriter

	now func() time.Time
}

// New creates a catalog service.
func New(repo Repository, indexer Indexer, lineage LineageWriter) *Service {
	return &Service{
		repo:    repo,
		indexer: indexer,
		lineage: lineage,
		now:     time.Now,
	}
}

// Create registers a new service owned by the actor and indexes it.
// The first row of a lineage is its own master: masterID == id.
func (s *Service) Create(
	ctx context.Context, actor domain.Actor,
	title, description string, price float64,
) (domcat.Service, error) {
	if actor.ID == "" {
		return domcat.Service{}, fmt.Errorf("create service: %w", domain.ErrForbidden)
	}

	svc, err := domcat.New(actor.ID, title, description, price, s.now())
	if err != nil {
		return domcat.Service{}, fmt.Errorf("create service: %v: %w", err, domain.ErrValidation)
	}

	id, err := s.repo.NextID(ctx)
	if err != nil {
		return domcat.Service{}, fmt.Errorf("create service: %w", err)
	}

	svc = svc.WithIdentity(id, id)
	if err := s.repo.Put(ctx, &svc); err != nil {
		return domcat.Service{}, fmt.Errorf("create service: %w", err)
	}
	if err := s.indexer.Reindex(ctx, svc.ID(), svc.Title(), svc.Description()); err != nil {
		return domcat.Service{}, fmt.Errorf("create service %d: %w", svc.ID(), err)
	}
	return svc, nil
}

// Update edits a service by retiring its current row and writing a new one
// under the same masterID. Only the owner or an elevated actor may edit.
func (s *Service) Update(
	ctx context.Context, actor domain.Actor, id int64,
	title, description string, price float64,
) (domcat.Service, error) {
	old, err := s.repo.Get(ctx, id)
	if err != nil {
		return domcat.Service{}, fmt.Errorf("update service %d: %w", id, err)
	}
	if err := s.authorize(actor, &old); err != nil {
		return domcat.Service{}, fmt.Errorf("update service %d: %w", id, err)
	}
	if old.State() == domcat.StateRetired {
		return domcat.Service{}, fmt.Errorf("update service %d: row is retired: %w", id, domain.ErrValidation)
	}

	next, err := domcat.New(old.Owner(), title, description, price, s.now())
	if err != nil {
		return domcat.Service{}, fmt.Errorf("update service %d: %v: %w", id, err, domain.ErrValidation)
	}
	next = next.WithState(old.State())

	newID, err := s.repo.NextID(ctx)
	if err != nil {
		return domcat.Service{}, fmt.Errorf("update service %d: %w", id, err)
	}
	next = next.WithIdentity(newID, old.MasterID())

	// Retire the old row before the new one goes in so the lineage never
	// has two live rows. Its postings stay behind; retired rows are never
	// search candidates, so the state filter keeps them invisible until
	// reconciliation removes them.
	retired := old.WithState(domcat.StateRetired)
	if err := s.repo.Put(ctx, &retired); err != nil {
		return domcat.Service{}, fmt.Errorf("retire old row of service %d: %w", id, err)
	}

	if err := s.repo.Put(ctx, &next); err != nil {
		return domcat.Service{}, fmt.Errorf("write new row of service %d: %w", id, err)
	}
	if err := s.indexer.Reindex(ctx, next.ID(), next.Title(), next.Description()); err != nil {
		return domcat.Service{}, fmt.Errorf("index new row of service %d: %w", id, err)
	}
	return next, nil
}

// Retire takes a service out of the catalog. The row stays stored so the
// lineage's history remains readable, and its postings are left stale in the
// index: the state filter excludes them from every search. Retiring an
// already retired row is a no-op.
func (s *Service) Retire(ctx context.Context, actor domain.Actor, id int64) error {
	svc, err := s.repo.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("retire service %d: %w", id, err)
	}
	if err := s.authorize(actor, &svc); err != nil {
		return fmt.Errorf("retire service %d: %w", id, err)
	}
	if svc.State() == domcat.StateRetired {
		return nil
	}

	retired := svc.WithState(domcat.StateRetired)
	if err := s.repo.Put(ctx, &retired); err != nil {
		return fmt.Errorf("retire service %d: %w", id, err)
	}
	return nil
}

// Pause hides a service from everyone but its owner. The row keeps its
// postings and still counts toward the idf population.
func (s *Service) Pause(ctx context.Context, actor domain.Actor, id int64) error {
	return s.setLiveState(ctx, actor, id, domcat.StatePaused)
}

// Resume makes a paused service publicly visible again.
func (s *Service) Resume(ctx context.Context, actor domain.Actor, id int64) error {
	return s.setLiveState(ctx, actor, id, domcat.StateActive)
}

func (s *Service) setLiveState(
	ctx context.Context, actor domain.Actor, id int64, state domcat.State,
) error {
	svc, err := s.repo.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("set service %d %s: %w", id, state, err)
	}
	if err := s.authorize(actor, &svc); err != nil {
		return fmt.Errorf("set service %d %s: %w", id, state, err)
	}
	if svc.State() == domcat.StateRetired {
		return fmt.Errorf("set service %d %s: row is retired: %w", id, state, domain.ErrValidation)
	}
	if svc.State() == state {
		return nil
	}

	updated := svc.WithState(state)
	if err := s.repo.Put(ctx, &updated); err != nil {
		return fmt.Errorf("set service %d %s: %w", id, state, err)
	}
	return nil
}

// Get returns one service row, applying the visibility rule: owners and
// elevated actors see any of their rows, everyone else sees active rows
// only. Hidden rows read as not found.
func (s *Service) Get(ctx context.Context, actor domain.Actor, id int64) (domcat.Service, error) {
	svc, err := s.repo.Get(ctx, id)
	if err != nil {
		return domcat.Service{}, fmt.Errorf("get service %d: %w", id, err)
	}
	if svc.State() == domcat.StateActive || actor.Elevated || actor.Owns(svc.Owner()) {
		return svc, nil
	}
	return domcat.Service{}, fmt.Errorf("get service %d: %w", id, domain.ErrServiceNotFound)
}

// CompleteContract counts one finished contract against the service's
// lineage, feeding the popularity aggregate.
func (s *Service) CompleteContract(ctx context.Context, id int64) error {
	svc, err := s.repo.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("complete contract on service %d: %w", id, err)
	}
	if err := s.lineage.AddCompleted(ctx, svc.MasterID()); err != nil {
		return fmt.Errorf("complete contract on service %d: %w", id, err)
	}
	return nil
}

// AddReview folds a 1..5 star rating into the service's lineage average.
func (s *Service) AddReview(ctx context.Context, id int64, stars int) error {
	if stars < 1 || stars > 5 {
		return fmt.Errorf("review on service %d: stars must be 1..5: %w", id, domain.ErrValidation)
	}
	svc, err := s.repo.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("review on service %d: %w", id, err)
	}
	if err := s.lineage.AddRating(ctx, svc.MasterID(), stars); err != nil {
		return fmt.Errorf("review on service %d: %w", id, err)
	}
	return nil
}

func (s *Service) authorize(actor domain.Actor, svc *domcat.Service) error {
	if actor.Elevated || actor.Owns(svc.Owner()) {
		return nil
	}
	return domain.ErrForbidden
}
