package catalog

import (
	"context"

	domcat "github.com/serviplace/searchapi/internal/domain/catalog"
)

// Repository defines the service row persistence contract.
type Repository interface {
	NextID(ctx context.Context) (int64, error)
	Put(ctx context.Context, svc *domcat.Service) error
	Get(ctx context.Context, id int64) (domcat.Service, error)
}

// Indexer keeps the posting store in step with catalog writes.
type Indexer interface {
	Reindex(ctx context.Context, serviceID int64, title, description string) error
}

// LineageWriter records per-lineage aggregates.
type LineageWriter interface {
	AddCompleted(ctx context.Context, masterID int64) error
	AddRating(ctx context.Context, masterID int64, stars int) error
}
