package hashtag

import "context"

// PostingReader exposes the hashtag cardinality view of the index.
type PostingReader interface {
	TopHashtags(ctx context.Context, n int) ([]string, error)
}
