// Package hashtag serves the most used hashtags across the catalog.
package hashtag

import (
	"context"
	"fmt"

	"github.com/serviplace/searchapi/internal/domain"
)

// Service answers hashtag popularity queries.
type Service struct {
	postings PostingReader
}

// New creates a hashtag service.
func New(postings PostingReader) *Service {
	return &Service{postings: postings}
}

// Top returns up to n hashtags ordered by how many services carry them,
// most used first. Hashtags keep their '#' prefix, exactly as indexed.
func (s *Service) Top(ctx context.Context, n int) ([]string, error) {
	if n <= 0 {
		return nil, fmt.Errorf("top hashtags: count must be positive: %w", domain.ErrValidation)
	}
	tags, err := s.postings.TopHashtags(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("top hashtags: %w", err)
	}
	return tags, nil
}
