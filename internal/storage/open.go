package storage

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

type Options struct {
	LocalPath string
	Remote    RemoteConfig
}

// Open picks the backend for this process. The local SQLite file is always
// opened because it holds the overlay state. When a remote URL is configured it
// is tried once; any failure falls back to LocalStore until restart.
func Open(ctx context.Context, opts Options, logger *zap.Logger) (Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("storage")

	db, err := OpenSQLite(opts.LocalPath)
	if err != nil {
		return nil, err
	}
	if err := Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	kv := NewKV(db)

	if opts.Remote.URL == "" {
		logger.Info("using local store", zap.String("path", opts.LocalPath))
		return NewLocalStore(db, kv, logger), nil
	}

	pool, err := ConnectRemote(ctx, opts.Remote)
	if err != nil {
		logger.Warn("remote store unavailable, falling back to local", zap.Error(err), zap.String("path", opts.LocalPath))
		return NewLocalStore(db, kv, logger), nil
	}
	logger.Info("using remote store")
	return NewRemoteStore(pool, db, kv, logger), nil
}

// OpenLocal opens a LocalStore at path, for tools and tests that never touch the
// network.
func OpenLocal(ctx context.Context, path string, logger *zap.Logger) (*LocalStore, error) {
	db, err := OpenSQLite(path)
	if err != nil {
		return nil, err
	}
	if err := Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open local store: %w", err)
	}
	return NewLocalStore(db, NewKV(db), logger), nil
}
