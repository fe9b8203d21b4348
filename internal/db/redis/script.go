package redis

import (
	"context"

	"github.com/serviplace/searchapi/internal/db"
)

// Incr atomically increments a counter and returns the new value.
func (s *Store) Incr(ctx context.Context, key string) (int64, error) {
	cmd := s.b().Incr().Key(key).Build()
	n, err := s.do(ctx, cmd).AsInt64()
	if err != nil {
		return 0, &db.Error{Op: db.OpIncr, Err: err}
	}
	return n, nil
}

// Eval runs a Lua script. The server executes the whole script as one atomic
// unit, which is what the posting reindex relies on.
func (s *Store) Eval(ctx context.Context, script string, keys, args []string) error {
	cmd := s.b().Eval().Script(script).Numkeys(int64(len(keys))).Key(keys...).Arg(args...).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpEval, Err: err}
	}
	return nil
}
