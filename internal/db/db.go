// Package db defines the storage facade the repositories are built on.
package db

import (
	"context"
	"time"
)

// Store is the main database facade combining all sub-interfaces.
// Consumers declare narrow sub-interfaces of it (ISP); only the composition
// root sees the whole thing.
type Store interface {
	Pinger
	HashStore
	SetStore
	Sequencer
	ScriptRunner
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HashStore provides hash-based key-value operations.
type HashStore interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	HIncrBy(ctx context.Context, key, field string, delta int64) error
	HLen(ctx context.Context, key string) (int64, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// SetStore provides set membership operations.
type SetStore interface {
	SAdd(ctx context.Context, key string, members ...string) error
	SRem(ctx context.Context, key string, members ...string) error
	SMembers(ctx context.Context, key string) ([]string, error)
	SCard(ctx context.Context, key string) (int64, error)
}

// Sequencer allocates monotonically increasing ids.
type Sequencer interface {
	Incr(ctx context.Context, key string) (int64, error)
}

// ScriptRunner evaluates a server-side script as one atomic unit.
type ScriptRunner interface {
	Eval(ctx context.Context, script string, keys, args []string) error
}
