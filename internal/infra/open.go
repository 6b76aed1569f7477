package infra

import (
	"context"
	"fmt"
)

const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
)

// OpenBackend returns the named backend and a function releasing it. The
// postgres backend creates its table on first use.
func OpenBackend(ctx context.Context, kind, dataDir, dsn string) (Backend, func(), error) {
	switch kind {
	case BackendFile:
		return NewFileBackend(dataDir), func() {}, nil
	case BackendPostgres:
		pool, err := NewDB(ctx, dsn)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		b := NewPostgresBackend(pool)
		if err := b.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("create documents table: %w", err)
		}
		return b, pool.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", kind)
	}
}
