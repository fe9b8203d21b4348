package indexer

import "context"

// PostingWriter defines the index mutation contract.
type PostingWriter interface {
	Reindex(ctx context.Context, serviceID int64, title, description string) error
	Remove(ctx context.Context, serviceID int64) error
}
