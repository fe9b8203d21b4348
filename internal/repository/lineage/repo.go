// Package lineage persists per-lineage aggregates: completed-contract and
// review counters keyed by masterID, spanning every row of a logical service.
package lineage

import (
	"context"
	"fmt"
	"strconv"

	domlin "github.com/serviplace/searchapi/internal/domain/lineage"
)

// Hash field names of a lineage aggregate.
const (
	fieldCompleted   = "completed"
	fieldRatingSum   = "rating_sum"
	fieldRatingCount = "rating_count"
)

// store is the consumer interface for lineage aggregates (ISP).
type store interface {
	HIncrBy(ctx context.Context, key, field string, delta int64) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
}

// Repo implements the lineage aggregate store over the db facade.
type Repo struct {
	store  store
	prefix string
}

// New creates a lineage repository. keyPrefix namespaces every key.
func New(s store, keyPrefix string) *Repo {
	return &Repo{store: s, prefix: keyPrefix}
}

// AddCompleted counts one finished contract against the lineage.
func (r *Repo) AddCompleted(ctx context.Context, masterID int64) error {
	if err := r.store.HIncrBy(ctx, r.key(masterID), fieldCompleted, 1); err != nil {
		return fmt.Errorf("count completed contract for lineage %d: %w", masterID, err)
	}
	return nil
}

// AddRating folds one star rating into the lineage average.
func (r *Repo) AddRating(ctx context.Context, masterID int64, stars int) error {
	key := r.key(masterID)
	if err := r.store.HIncrBy(ctx, key, fieldRatingSum, int64(stars)); err != nil {
		return fmt.Errorf("add rating for lineage %d: %w", masterID, err)
	}
	if err := r.store.HIncrBy(ctx, key, fieldRatingCount, 1); err != nil {
		return fmt.Errorf("count rating for lineage %d: %w", masterID, err)
	}
	return nil
}

// Stats returns the lineage aggregates; a lineage with no history yields
// zero stats, not an error.
func (r *Repo) Stats(ctx context.Context, masterID int64) (domlin.Stats, error) {
	fields, err := r.store.HGetAll(ctx, r.key(masterID))
	if err != nil {
		return domlin.Stats{}, fmt.Errorf("read lineage %d: %w", masterID, err)
	}

	return domlin.Stats{
		Completed:   parseCounter(fields[fieldCompleted]),
		RatingSum:   parseCounter(fields[fieldRatingSum]),
		RatingCount: parseCounter(fields[fieldRatingCount]),
	}, nil
}

func (r *Repo) key(masterID int64) string {
	return r.prefix + "lineage:" + strconv.FormatInt(masterID, 10)
}

func parseCounter(s string) int64 {
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}
