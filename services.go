package searchapi

import (
	"context"
	"fmt"
	"time"

	"github.com/serviplace/searchapi/internal/domain"
	domcat "github.com/serviplace/searchapi/internal/domain/catalog"
	"github.com/serviplace/searchapi/internal/domain/query"
	cataloguc "github.com/serviplace/searchapi/internal/usecase/catalog"
	listinguc "github.com/serviplace/searchapi/internal/usecase/listing"
)

// Actor is the user performing an operation. Elevated actors bypass
// ownership checks and see every service regardless of state.
type Actor struct {
	ID       string
	Elevated bool
}

// Service is one catalog row. MasterID is stable across edits: every edit
// retires the current row and creates a new one in the same lineage.
type Service struct {
	ID          int64
	MasterID    int64
	Owner       string
	Title       string
	Description string
	Price       float64
	State       string
	CreatedAt   time.Time
}

// ServiceAPI exposes the service catalog operations.
type ServiceAPI struct {
	catalog *cataloguc.Service
	listing *listinguc.Service
}

// Create registers a new service owned by the actor and indexes it.
func (a *ServiceAPI) Create(
	ctx context.Context, actor Actor, title, description string, price float64,
) (Service, error) {
	svc, err := a.catalog.Create(ctx, actorToDomain(actor), title, description, price)
	if err != nil {
		return Service{}, fmt.Errorf("searchapi: %w", err)
	}
	return serviceFromDomain(&svc), nil
}

// Update edits a service. The returned row carries a fresh id and the
// lineage's stable master id.
func (a *ServiceAPI) Update(
	ctx context.Context, actor Actor, id int64, title, description string, price float64,
) (Service, error) {
	svc, err := a.catalog.Update(ctx, actorToDomain(actor), id, title, description, price)
	if err != nil {
		return Service{}, fmt.Errorf("searchapi: %w", err)
	}
	return serviceFromDomain(&svc), nil
}

// Retire takes a service out of the catalog.
func (a *ServiceAPI) Retire(ctx context.Context, actor Actor, id int64) error {
	if err := a.catalog.Retire(ctx, actorToDomain(actor), id); err != nil {
		return fmt.Errorf("searchapi: %w", err)
	}
	return nil
}

// Pause hides a service from everyone but its owner.
func (a *ServiceAPI) Pause(ctx context.Context, actor Actor, id int64) error {
	if err := a.catalog.Pause(ctx, actorToDomain(actor), id); err != nil {
		return fmt.Errorf("searchapi: %w", err)
	}
	return nil
}

// Resume makes a paused service publicly visible again.
func (a *ServiceAPI) Resume(ctx context.Context, actor Actor, id int64) error {
	if err := a.catalog.Resume(ctx, actorToDomain(actor), id); err != nil {
		return fmt.Errorf("searchapi: %w", err)
	}
	return nil
}

// Get returns one service row, subject to the visibility rule.
func (a *ServiceAPI) Get(ctx context.Context, actor Actor, id int64) (Service, error) {
	svc, err := a.catalog.Get(ctx, actorToDomain(actor), id)
	if err != nil {
		return Service{}, fmt.Errorf("searchapi: %w", err)
	}
	return serviceFromDomain(&svc), nil
}

// CompleteContract counts one finished contract against the service's lineage.
func (a *ServiceAPI) CompleteContract(ctx context.Context, id int64) error {
	if err := a.catalog.CompleteContract(ctx, id); err != nil {
		return fmt.Errorf("searchapi: %w", err)
	}
	return nil
}

// AddReview folds a 1..5 star rating into the service's lineage average.
func (a *ServiceAPI) AddReview(ctx context.Context, id int64, stars int) error {
	if err := a.catalog.AddReview(ctx, id, stars); err != nil {
		return fmt.Errorf("searchapi: %w", err)
	}
	return nil
}

// List starts a fluent listing query for the actor.
func (a *ServiceAPI) List(actor Actor) *ListBuilder {
	return &ListBuilder{api: a, actor: actor}
}

func actorToDomain(a Actor) domain.Actor {
	return domain.Actor{ID: a.ID, Elevated: a.Elevated}
}

func serviceFromDomain(svc *domcat.Service) Service {
	return Service{
		ID:          svc.ID(),
		MasterID:    svc.MasterID(),
		Owner:       svc.Owner(),
		Title:       svc.Title(),
		Description: svc.Description(),
		Price:       svc.Price(),
		State:       svc.State().String(),
		CreatedAt:   svc.CreatedAt(),
	}
}

// ListBuilder is a fluent builder for listing queries.
type ListBuilder struct {
	api   *ServiceAPI
	actor Actor

	owner      string
	searchText string
	filters    map[string]query.Bounds
	sort       *query.Sort
}

// ByOwner narrows the listing to one user's catalog.
func (b *ListBuilder) ByOwner(owner string) *ListBuilder {
	b.owner = owner
	return b
}

// Search sets the full-text query. Plain words match by substring and rank
// by TF-IDF; #hashtags restrict results to services carrying all of them.
func (b *ListBuilder) Search(text string) *ListBuilder {
	b.searchText = text
	return b
}

// Where adds a range filter on price, creation_date, rating or popularity.
// Pass NoBound (-1) to leave a side open.
func (b *ListBuilder) Where(key string, min, max float64) *ListBuilder {
	if b.filters == nil {
		b.filters = make(map[string]query.Bounds)
	}
	b.filters[key] = query.Bounds{Min: &min, Max: &max}
	return b
}

// SortBy orders the results by the given key, ascending.
func (b *ListBuilder) SortBy(key string) *ListBuilder {
	b.sort = &query.Sort{By: key}
	return b
}

// SortByDesc orders the results by the given key, descending.
func (b *ListBuilder) SortByDesc(key string) *ListBuilder {
	b.sort = &query.Sort{By: key, Reverse: true}
	return b
}

// Do executes the listing query.
func (b *ListBuilder) Do(ctx context.Context) ([]Service, error) {
	q, err := query.New(b.searchText, b.filters, b.sort)
	if err != nil {
		return nil, fmt.Errorf("searchapi: %w", err)
	}

	services, err := b.api.listing.List(ctx, actorToDomain(b.actor), b.owner, q)
	if err != nil {
		return nil, fmt.Errorf("searchapi: %w", err)
	}

	out := make([]Service, len(services))
	for i := range services {
		out[i] = serviceFromDomain(&services[i])
	}
	return out, nil
}

// Filter and sort keys accepted by ListBuilder.
const (
	KeyPrice        = query.KeyPrice
	KeyCreationDate = query.KeyCreationDate
	KeyRating       = query.KeyRating
	KeyPopularity   = query.KeyPopularity

	// NoBound leaves one side of a range filter open.
	NoBound = query.NoBound
)
