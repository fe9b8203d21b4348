// Package catalog persists service rows and the membership sets the search
// core reads its candidates and idf population from.
package catalog

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/serviplace/searchapi/internal/domain"
	domcat "github.com/serviplace/searchapi/internal/domain/catalog"
)

// store is the consumer interface for service rows (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	SAdd(ctx context.Context, key string, members ...string) error
	SRem(ctx context.Context, key string, members ...string) error
	SMembers(ctx context.Context, key string) ([]string, error)
	SCard(ctx context.Context, key string) (int64, error)
	Incr(ctx context.Context, key string) (int64, error)
}

// Repo implements the service catalog over the db facade.
type Repo struct {
	store  store
	prefix string
}

// New creates a catalog repository. keyPrefix namespaces every key.
func New(s store, keyPrefix string) *Repo {
	return &Repo{store: s, prefix: keyPrefix}
}

// NextID allocates a fresh service row id.
func (r *Repo) NextID(ctx context.Context) (int64, error) {
	id, err := r.store.Incr(ctx, r.prefix+"seq:service")
	if err != nil {
		return 0, fmt.Errorf("allocate service id: %w", err)
	}
	return id, nil
}

// Put writes a service row and maintains the membership sets. A live row
// (active or paused) is part of the idf population; a retired one is not.
func (r *Repo) Put(ctx context.Context, svc *domcat.Service) error {
	key := r.svcKey(svc.ID())
	member := strconv.FormatInt(svc.ID(), 10)

	if err := r.store.HSet(ctx, key, serviceToFields(svc)); err != nil {
		return fmt.Errorf("write service %d: %w", svc.ID(), err)
	}
	if err := r.store.SAdd(ctx, r.allKey(), member); err != nil {
		return fmt.Errorf("register service %d: %w", svc.ID(), err)
	}
	if err := r.store.SAdd(ctx, r.ownerKey(svc.Owner()), member); err != nil {
		return fmt.Errorf("register service %d for owner: %w", svc.ID(), err)
	}

	if svc.State().Live() {
		if err := r.store.SAdd(ctx, r.liveKey(), member); err != nil {
			return fmt.Errorf("mark service %d live: %w", svc.ID(), err)
		}
		return nil
	}
	if err := r.store.SRem(ctx, r.liveKey(), member); err != nil {
		return fmt.Errorf("unmark service %d live: %w", svc.ID(), err)
	}
	return nil
}

// Get returns one service row by id.
func (r *Repo) Get(ctx context.Context, id int64) (domcat.Service, error) {
	fields, err := r.store.HGetAll(ctx, r.svcKey(id))
	if err != nil {
		return domcat.Service{}, fmt.Errorf("read service %d: %w", id, err)
	}
	if len(fields) == 0 {
		return domcat.Service{}, domain.ErrServiceNotFound
	}
	return serviceFromFields(fields), nil
}

// GetMulti returns the service rows for the given ids, skipping missing ones.
func (r *Repo) GetMulti(ctx context.Context, ids []int64) ([]domcat.Service, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.svcKey(id)
	}

	maps, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("read %d services: %w", len(ids), err)
	}

	out := make([]domcat.Service, 0, len(maps))
	for _, fields := range maps {
		if len(fields) == 0 {
			continue
		}
		out = append(out, serviceFromFields(fields))
	}
	return out, nil
}

// List returns every service row, all states included, ordered by id.
func (r *Repo) List(ctx context.Context) ([]domcat.Service, error) {
	return r.listSet(ctx, r.allKey())
}

// ByOwner returns every row owned by the given user, all states included.
func (r *Repo) ByOwner(ctx context.Context, owner string) ([]domcat.Service, error) {
	return r.listSet(ctx, r.ownerKey(owner))
}

// CountLive returns the number of non-retired services. This is the idf
// population: paused services still count as catalog documents, retired
// rows do not.
func (r *Repo) CountLive(ctx context.Context) (int64, error) {
	n, err := r.store.SCard(ctx, r.liveKey())
	if err != nil {
		return 0, fmt.Errorf("count live services: %w", err)
	}
	return n, nil
}

func (r *Repo) listSet(ctx context.Context, setKey string) ([]domcat.Service, error) {
	members, err := r.store.SMembers(ctx, setKey)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	if len(members) == 0 {
		return nil, nil
	}

	ids := make([]int64, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return r.GetMulti(ctx, ids)
}

func (r *Repo) svcKey(id int64) string {
	return r.prefix + "svc:" + strconv.FormatInt(id, 10)
}

func (r *Repo) allKey() string { return r.prefix + "services:all" }

func (r *Repo) liveKey() string { return r.prefix + "services:live" }

func (r *Repo) ownerKey(owner string) string { return r.prefix + "owner:" + owner }
