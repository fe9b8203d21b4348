// Package indexer wraps the posting store's mutations with logging and
// metrics. Catalog writes go through here so every index mutation is
// observable in one place.
package indexer

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/serviplace/searchapi/internal/metrics"
)

// Service instruments posting-store mutations.
type Service struct {
	postings PostingWriter
	logger   *zap.Logger
}

// New creates an indexer service.
func New(postings PostingWriter, logger *zap.Logger) *Service {
	return &Service{postings: postings, logger: logger}
}

// Reindex regenerates the posting set for a service's document. A failure
// never leaves a partial set behind (the store applies the swap atomically);
// retrying is the caller's call.
func (s *Service) Reindex(ctx context.Context, serviceID int64, title, description string) error {
	start := time.Now()

	err := s.postings.Reindex(ctx, serviceID, title, description)

	duration := time.Since(start)
	metrics.ReindexDuration.Observe(duration.Seconds())

	if err != nil {
		metrics.ReindexTotal.WithLabelValues("error").Inc()
		s.logger.Error("reindex failed",
			zap.Int64("service_id", serviceID),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return fmt.Errorf("reindex: %w", err)
	}

	metrics.ReindexTotal.WithLabelValues("ok").Inc()
	s.logger.Debug("service reindexed",
		zap.Int64("service_id", serviceID),
		zap.Duration("duration", duration),
	)
	return nil
}

// Remove drops a service's postings (index reconciliation).
func (s *Service) Remove(ctx context.Context, serviceID int64) error {
	if err := s.postings.Remove(ctx, serviceID); err != nil {
		return fmt.Errorf("remove postings: %w", err)
	}
	return nil
}
