package posting

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/serviplace/searchapi/internal/domain/index"
)

const prefix = "test:"

func TestReindex_BuildsScriptArgs(t *testing.T) {
	var gotKeys, gotArgs []string
	repo := New(&mockStore{
		evalFn: func(_ context.Context, script string, keys, args []string) error {
			if script != reindexScript {
				t.Error("unexpected script")
			}
			gotKeys = keys
			gotArgs = args
			return nil
		},
	}, prefix)

	err := repo.Reindex(context.Background(), 42, "Cheese board", "cheese for parties")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantKeys := []string{"test:svc:42:terms"}
	if !reflect.DeepEqual(gotKeys, wantKeys) {
		t.Errorf("keys = %v, want %v", gotKeys, wantKeys)
	}

	// Terms arrive sorted: board, cheese, for, parties.
	wantArgs := []string{
		"test:term:", "42",
		"board", "1",
		"cheese", "2",
		"for", "1",
		"parties", "1",
	}
	if !reflect.DeepEqual(gotArgs, wantArgs) {
		t.Errorf("args = %v, want %v", gotArgs, wantArgs)
	}
}

func TestReindex_HashtagDocIndexesBodyWord(t *testing.T) {
	var gotArgs []string
	repo := New(&mockStore{
		evalFn: func(_ context.Context, _ string, _, args []string) error {
			gotArgs = args
			return nil
		},
	}, prefix)

	err := repo.Reindex(context.Background(), 9, "Artisan platters", "only tagged as #cheese")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The hashtag posting and its body-word posting must both exist so a
	// plain-word search for "cheese" can find the service.
	wantArgs := []string{
		"test:term:", "9",
		"#cheese", "1",
		"artisan", "1",
		"as", "1",
		"cheese", "1",
		"only", "1",
		"platters", "1",
		"tagged", "1",
	}
	if !reflect.DeepEqual(gotArgs, wantArgs) {
		t.Errorf("args = %v, want %v", gotArgs, wantArgs)
	}
}

func TestReindex_EmptyDocumentClearsPostings(t *testing.T) {
	var gotArgs []string
	repo := New(&mockStore{
		evalFn: func(_ context.Context, _ string, _, args []string) error {
			gotArgs = args
			return nil
		},
	}, prefix)

	if err := repo.Reindex(context.Background(), 7, "!", "?"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(gotArgs) != 2 {
		t.Errorf("args = %v, want only prefix and id", gotArgs)
	}
}

func TestReindex_Error(t *testing.T) {
	repo := New(&mockStore{
		evalFn: func(_ context.Context, _ string, _, _ []string) error {
			return errors.New("boom")
		},
	}, prefix)

	if err := repo.Reindex(context.Background(), 1, "Title", "Desc"); err == nil {
		t.Fatal("expected error")
	}
}

func TestRemove_RunsScriptWithoutPairs(t *testing.T) {
	var gotKeys, gotArgs []string
	repo := New(&mockStore{
		evalFn: func(_ context.Context, _ string, keys, args []string) error {
			gotKeys = keys
			gotArgs = args
			return nil
		},
	}, prefix)

	if err := repo.Remove(context.Background(), 9); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(gotKeys, []string{"test:svc:9:terms"}) {
		t.Errorf("keys = %v", gotKeys)
	}
	if !reflect.DeepEqual(gotArgs, []string{"test:term:", "9"}) {
		t.Errorf("args = %v", gotArgs)
	}
}

func TestForTerm(t *testing.T) {
	repo := New(&mockStore{
		hgetAllFn: func(_ context.Context, key string) (map[string]string, error) {
			if key != "test:term:cheese" {
				t.Errorf("key = %q", key)
			}
			return map[string]string{"3": "2", "1": "1"}, nil
		},
	}, prefix)

	got, err := repo.ForTerm(context.Background(), "cheese")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []index.Posting{
		{Term: "cheese", ServiceID: 1, Count: 1},
		{Term: "cheese", ServiceID: 3, Count: 2},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("postings = %v, want %v", got, want)
	}
}

func TestMatching_SkipsHashtagTerms(t *testing.T) {
	var gotPattern string
	var fetched []string
	repo := New(&mockStore{
		scanFn: func(_ context.Context, pattern string) ([]string, error) {
			gotPattern = pattern
			return []string{
				"test:term:cheesecake",
				"test:term:#cheese",
				"test:term:cheese",
			}, nil
		},
		hgetAllMultiFn: func(_ context.Context, keys []string) ([]map[string]string, error) {
			fetched = keys
			return []map[string]string{
				{"1": "1"},
				{"2": "3"},
			}, nil
		},
	}, prefix)

	got, err := repo.Matching(context.Background(), "chees")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPattern != "test:term:*chees*" {
		t.Errorf("pattern = %q", gotPattern)
	}
	if !reflect.DeepEqual(fetched, []string{"test:term:cheese", "test:term:cheesecake"}) {
		t.Errorf("fetched keys = %v", fetched)
	}

	want := []index.Posting{
		{Term: "cheese", ServiceID: 1, Count: 1},
		{Term: "cheesecake", ServiceID: 2, Count: 3},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("postings = %v, want %v", got, want)
	}
}

func TestMatching_NoMatches(t *testing.T) {
	repo := New(&mockStore{
		scanFn: func(_ context.Context, _ string) ([]string, error) {
			return []string{"test:term:#only"}, nil
		},
		hgetAllMultiFn: func(_ context.Context, _ []string) ([]map[string]string, error) {
			t.Fatal("no fetch expected when every match is a hashtag")
			return nil, nil
		},
	}, prefix)

	got, err := repo.Matching(context.Background(), "only")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("postings = %v, want nil", got)
	}
}

func TestWithAllHashtags_Intersection(t *testing.T) {
	postings := map[string]map[string]string{
		"test:term:#garden": {"1": "1", "2": "1", "3": "1"},
		"test:term:#cheap":  {"2": "1", "3": "1", "4": "1"},
	}
	repo := New(&mockStore{
		hgetAllFn: func(_ context.Context, key string) (map[string]string, error) {
			return postings[key], nil
		},
	}, prefix)

	got, err := repo.WithAllHashtags(context.Background(), []string{"#garden", "#cheap"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, []int64{2, 3}) {
		t.Errorf("ids = %v, want [2 3]", got)
	}
}

func TestWithAllHashtags_NoConstraintVsEmpty(t *testing.T) {
	repo := New(&mockStore{
		hgetAllFn: func(_ context.Context, _ string) (map[string]string, error) {
			return map[string]string{}, nil
		},
	}, prefix)

	got, err := repo.WithAllHashtags(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("no hashtags should mean no constraint (nil), got %v", got)
	}

	got, err = repo.WithAllHashtags(context.Background(), []string{"#nobody"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("unmatched conjunction should be empty non-nil, got %v", got)
	}
}

func TestTopHashtags(t *testing.T) {
	lens := map[string]int64{
		"test:term:#garden": 3,
		"test:term:#cheap":  5,
		"test:term:#alpha":  3,
	}
	repo := New(&mockStore{
		scanFn: func(_ context.Context, pattern string) ([]string, error) {
			if pattern != "test:term:#*" {
				t.Errorf("pattern = %q", pattern)
			}
			return []string{"test:term:#garden", "test:term:#cheap", "test:term:#alpha"}, nil
		},
		hlenFn: func(_ context.Context, key string) (int64, error) {
			return lens[key], nil
		},
	}, prefix)

	got, err := repo.TopHashtags(context.Background(), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// #cheap leads on count; #alpha beats #garden alphabetically on the tie.
	if !reflect.DeepEqual(got, []string{"#cheap", "#alpha"}) {
		t.Errorf("tags = %v", got)
	}
}

func TestTopHashtags_NLargerThanStored(t *testing.T) {
	repo := New(&mockStore{
		scanFn: func(_ context.Context, _ string) ([]string, error) {
			return []string{"test:term:#one"}, nil
		},
		hlenFn: func(_ context.Context, _ string) (int64, error) { return 1, nil },
	}, prefix)

	got, err := repo.TopHashtags(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"#one"}) {
		t.Errorf("tags = %v", got)
	}
}
