// Package searchapi embeds the services search engine as a library: the
// same catalog, index and ranking stack the HTTP server runs, wired
// directly over a Redis or Valkey store.
package searchapi

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/serviplace/searchapi/internal/db"
	dbRedis "github.com/serviplace/searchapi/internal/db/redis"
	catalogrepo "github.com/serviplace/searchapi/internal/repository/catalog"
	lineagerepo "github.com/serviplace/searchapi/internal/repository/lineage"
	postingrepo "github.com/serviplace/searchapi/internal/repository/posting"
	cataloguc "github.com/serviplace/searchapi/internal/usecase/catalog"
	hashtaguc "github.com/serviplace/searchapi/internal/usecase/hashtag"
	indexeruc "github.com/serviplace/searchapi/internal/usecase/indexer"
	listinguc "github.com/serviplace/searchapi/internal/usecase/listing"
	searchuc "github.com/serviplace/searchapi/internal/usecase/search"
)

const defaultReadinessTimeout = 10 * time.Second

// Client is the searchapi SDK entry point.
type Client struct {
	store      db.Store
	catalogSvc *cataloguc.Service
	listingSvc *listinguc.Service
	hashtagSvc *hashtaguc.Service
	indexerSvc *indexeruc.Service
}

// New creates a searchapi Client and connects to the database.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		keyPrefix: "searchapi:",
		logger:    zap.NewNop(),
	}
	for _, o := range opts {
		o(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("searchapi: database address required (use WithRedis)")
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.addrs,
		Username: cfg.username,
		Password: cfg.password,
		DB:       cfg.db,
	})
	if err != nil {
		return nil, fmt.Errorf("searchapi: create store: %w", err)
	}

	ctx := context.Background()
	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("searchapi: database not ready: %w", err)
	}

	return wireClient(store, cfg), nil
}

func wireClient(store db.Store, cfg *clientConfig) *Client {
	postingRepo := postingrepo.New(store, cfg.keyPrefix)
	catalogRepo := catalogrepo.New(store, cfg.keyPrefix)
	lineageRepo := lineagerepo.New(store, cfg.keyPrefix)

	indexerSvc := indexeruc.New(postingRepo, cfg.logger)
	catalogSvc := cataloguc.New(catalogRepo, indexerSvc, lineageRepo)
	searchSvc := searchuc.New(postingRepo, catalogRepo)
	if cfg.fuzzyThreshold > 0 {
		searchSvc = searchSvc.WithThreshold(cfg.fuzzyThreshold)
	}
	listingSvc := listinguc.New(catalogRepo, searchSvc, lineageRepo)
	hashtagSvc := hashtaguc.New(postingRepo)

	return &Client{
		store:      store,
		catalogSvc: catalogSvc,
		listingSvc: listingSvc,
		hashtagSvc: hashtagSvc,
		indexerSvc: indexerSvc,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Services returns the catalog service API.
func (c *Client) Services() *ServiceAPI {
	return &ServiceAPI{catalog: c.catalogSvc, listing: c.listingSvc}
}

// Hashtags returns up to n hashtags ordered by how many services carry them.
func (c *Client) Hashtags(ctx context.Context, n int) ([]string, error) {
	tags, err := c.hashtagSvc.Top(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("searchapi: %w", err)
	}
	return tags, nil
}

// RemoveFromIndex drops a service's postings. Retirement leaves postings
// stale on purpose; this is the reconciliation hook that cleans them up,
// meant for operator tooling rather than request handling.
func (c *Client) RemoveFromIndex(ctx context.Context, serviceID int64) error {
	if err := c.indexerSvc.Remove(ctx, serviceID); err != nil {
		return fmt.Errorf("searchapi: %w", err)
	}
	return nil
}
