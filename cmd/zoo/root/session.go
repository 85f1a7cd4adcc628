package root

import (
	"context"

	"zootopia/internal/config"
	"zootopia/internal/engine"
	"zootopia/internal/logging"
	"zootopia/internal/storage"
)

type session struct {
	svc   *engine.Service
	close func()
}

type opener func(ctx context.Context) (*session, error)

// openSession loads the config, picks the store backend and bootstraps the
// owner's companions.
func openSession(ctx context.Context, configPath string) (*session, error) {
	if configPath == "" {
		p, err := config.ResolvePath()
		if err != nil {
			return nil, err
		}
		configPath = p
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}

	store, err := storage.Open(ctx, cfg.StorageOptions(), logger)
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}

	var seed *storage.APIConfig
	if cfg.LLM.Endpoint != "" && cfg.LLM.APIKey != "" {
		seed = &storage.APIConfig{EndpointURL: cfg.LLM.Endpoint, APIKey: cfg.LLM.APIKey, ModelName: cfg.LLM.Model}
	}
	svc := engine.NewService(store, engine.Options{
		OwnerID:          cfg.OwnerID,
		Debug:            cfg.Debug,
		DefaultAPIConfig: seed,
		Logger:           logger,
	})
	cleanup := func() {
		_ = store.Close()
		_ = logger.Sync()
	}
	if _, err := svc.Bootstrap(ctx); err != nil {
		cleanup()
		return nil, err
	}
	return &session{svc: svc, close: cleanup}, nil
}
