package catalog

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/serviplace/searchapi/internal/domain"
	domcat "github.com/serviplace/searchapi/internal/domain/catalog"
)

const prefix = "test:"

var testTime = time.Date(2025, 11, 3, 12, 0, 0, 0, time.UTC)

func makeService(t *testing.T, id, masterID int64, state domcat.State) domcat.Service {
	t.Helper()
	svc, err := domcat.New("alice", "Guitar lessons", "for beginners", 25, testTime)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	withID := svc.WithIdentity(id, masterID)
	return withID.WithState(state)
}

func TestNextID(t *testing.T) {
	repo := New(&mockStore{
		incrFn: func(_ context.Context, key string) (int64, error) {
			if key != "test:seq:service" {
				t.Errorf("key = %q", key)
			}
			return 17, nil
		},
	}, prefix)

	id, err := repo.NextID(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != 17 {
		t.Errorf("id = %d, want 17", id)
	}
}

func TestPut_LiveRowJoinsMembershipSets(t *testing.T) {
	added := map[string][]string{}
	var removed []string
	repo := New(&mockStore{
		hsetFn: func(_ context.Context, key string, fields map[string]string) error {
			if key != "test:svc:5" {
				t.Errorf("row key = %q", key)
			}
			if fields[fieldOwner] != "alice" || fields[fieldState] != "0" {
				t.Errorf("fields = %v", fields)
			}
			return nil
		},
		saddFn: func(_ context.Context, key string, members ...string) error {
			added[key] = append(added[key], members...)
			return nil
		},
		sremFn: func(_ context.Context, key string, _ ...string) error {
			removed = append(removed, key)
			return nil
		},
	}, prefix)

	svc := makeService(t, 5, 5, domcat.StateActive)
	if err := repo.Put(context.Background(), &svc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, key := range []string{"test:services:all", "test:owner:alice", "test:services:live"} {
		if !reflect.DeepEqual(added[key], []string{"5"}) {
			t.Errorf("set %q = %v, want [5]", key, added[key])
		}
	}
	if len(removed) != 0 {
		t.Errorf("unexpected SREM on %v", removed)
	}
}

func TestPut_RetiredRowLeavesLiveSet(t *testing.T) {
	var removed []string
	repo := New(&mockStore{
		sremFn: func(_ context.Context, key string, members ...string) error {
			removed = append(removed, key)
			if !reflect.DeepEqual(members, []string{"5"}) {
				t.Errorf("members = %v", members)
			}
			return nil
		},
	}, prefix)

	svc := makeService(t, 5, 5, domcat.StateRetired)
	if err := repo.Put(context.Background(), &svc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(removed, []string{"test:services:live"}) {
		t.Errorf("removed from %v", removed)
	}
}

func TestGet_RoundTrip(t *testing.T) {
	stored := makeService(t, 5, 3, domcat.StatePaused)
	repo := New(&mockStore{
		hgetAllFn: func(_ context.Context, key string) (map[string]string, error) {
			if key != "test:svc:5" {
				t.Errorf("key = %q", key)
			}
			return serviceToFields(&stored), nil
		},
	}, prefix)

	got, err := repo.Get(context.Background(), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, stored) {
		t.Errorf("got %+v, want %+v", got, stored)
	}
}

func TestGet_Missing(t *testing.T) {
	repo := New(&mockStore{}, prefix)

	_, err := repo.Get(context.Background(), 404)
	if !errors.Is(err, domain.ErrServiceNotFound) {
		t.Fatalf("expected ErrServiceNotFound, got %v", err)
	}
}

func TestGetMulti_SkipsMissing(t *testing.T) {
	svc := makeService(t, 2, 2, domcat.StateActive)
	repo := New(&mockStore{
		hgetAllMultiFn: func(_ context.Context, keys []string) ([]map[string]string, error) {
			if !reflect.DeepEqual(keys, []string{"test:svc:1", "test:svc:2"}) {
				t.Errorf("keys = %v", keys)
			}
			return []map[string]string{{}, serviceToFields(&svc)}, nil
		},
	}, prefix)

	got, err := repo.GetMulti(context.Background(), []int64{1, 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID() != 2 {
		t.Errorf("got %v", got)
	}
}

func TestList_OrdersByID(t *testing.T) {
	rows := map[int64]domcat.Service{
		3: makeService(t, 3, 3, domcat.StateActive),
		1: makeService(t, 1, 1, domcat.StateActive),
	}
	repo := New(&mockStore{
		smembersFn: func(_ context.Context, key string) ([]string, error) {
			if key != "test:services:all" {
				t.Errorf("key = %q", key)
			}
			return []string{"3", "1", "bogus"}, nil
		},
		hgetAllMultiFn: func(_ context.Context, keys []string) ([]map[string]string, error) {
			if !reflect.DeepEqual(keys, []string{"test:svc:1", "test:svc:3"}) {
				t.Errorf("keys = %v", keys)
			}
			out := make([]map[string]string, 0, len(keys))
			for _, id := range []int64{1, 3} {
				svc := rows[id]
				out = append(out, serviceToFields(&svc))
			}
			return out, nil
		},
	}, prefix)

	got, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].ID() != 1 || got[1].ID() != 3 {
		t.Errorf("got %v", got)
	}
}

func TestByOwner_UsesOwnerSet(t *testing.T) {
	var gotKey string
	repo := New(&mockStore{
		smembersFn: func(_ context.Context, key string) ([]string, error) {
			gotKey = key
			return nil, nil
		},
	}, prefix)

	got, err := repo.ByOwner(context.Background(), "bob")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotKey != "test:owner:bob" {
		t.Errorf("key = %q", gotKey)
	}
	if got != nil {
		t.Errorf("expected empty listing, got %v", got)
	}
}

func TestCountLive(t *testing.T) {
	repo := New(&mockStore{
		scardFn: func(_ context.Context, key string) (int64, error) {
			if key != "test:services:live" {
				t.Errorf("key = %q", key)
			}
			return 12, nil
		},
	}, prefix)

	n, err := repo.CountLive(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 12 {
		t.Errorf("count = %d, want 12", n)
	}
}
