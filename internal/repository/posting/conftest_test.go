package posting

import "context"

// mockStore implements the consumer interface for tests.
type mockStore struct {
	hgetAllFn      func(ctx context.Context, key string) (map[string]string, error)
	hgetAllMultiFn func(ctx context.Context, keys []string) ([]map[string]string, error)
	hlenFn         func(ctx context.Context, key string) (int64, error)
	scanFn         func(ctx context.Context, pattern string) ([]string, error)
	evalFn         func(ctx context.Context, script string, keys, args []string) error
}

func (m *mockStore) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	if m.hgetAllFn != nil {
		return m.hgetAllFn(ctx, key)
	}
	return map[string]string{}, nil
}

func (m *mockStore) HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error) {
	if m.hgetAllMultiFn != nil {
		return m.hgetAllMultiFn(ctx, keys)
	}
	return make([]map[string]string, len(keys)), nil
}

func (m *mockStore) HLen(ctx context.Context, key string) (int64, error) {
	if m.hlenFn != nil {
		return m.hlenFn(ctx, key)
	}
	return 0, nil
}

func (m *mockStore) Scan(ctx context.Context, pattern string) ([]string, error) {
	if m.scanFn != nil {
		return m.scanFn(ctx, pattern)
	}
	return nil, nil
}

func (m *mockStore) Eval(ctx context.Context, script string, keys, args []string) error {
	if m.evalFn != nil {
		return m.evalFn(ctx, script, keys, args)
	}
	return nil
}
