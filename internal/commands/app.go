package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/colonyops/clarity/internal/article"
	"github.com/colonyops/clarity/internal/cache"
	"github.com/colonyops/clarity/internal/core/config"
	"github.com/colonyops/clarity/internal/core/kv"
	"github.com/colonyops/clarity/internal/core/styles"
	"github.com/colonyops/clarity/internal/data/db"
	"github.com/colonyops/clarity/internal/data/stores"
	"github.com/colonyops/clarity/internal/remote"
)

// App holds the services shared by commands. It is populated in the root
// command's Before hook; commands keep a pointer to it.
type App struct {
	Config  *config.Config
	DB      *db.DB
	KV      kv.KV
	Remote  *remote.Client
	Cache   *cache.Service
	Loader  *article.Loader
	History *stores.HistoryStore // nil when the cache is not persisted
}

// Open wires every service from cfg. The database is only opened when
// responses are persisted; a corrupt database file is moved aside once and
// recreated.
func Open(ctx context.Context, cfg *config.Config) (*App, error) {
	palette, _ := styles.GetPalette(cfg.Theme)
	styles.SetTheme(palette)

	client, err := remote.New(cfg.ServerOrigin, cfg.TokenCount, cfg.RequestTimeout)
	if err != nil {
		return nil, fmt.Errorf("create remote client: %w", err)
	}

	app := &App{
		Config: cfg,
		Remote: client,
		Loader: article.NewLoader(cfg.RequestTimeout),
	}

	if !cfg.Cache.Persist {
		app.KV = stores.NewMemoryKV()
		app.Cache = cache.New(client, app.KV)
		return app, nil
	}

	database, err := openDB(cfg)
	if err != nil {
		return nil, err
	}

	app.DB = database
	app.KV = stores.NewKVStore(database)
	app.History = stores.NewHistoryStore(database)
	app.Cache = cache.New(client, app.KV)

	log.Debug().Ctx(ctx).Str("data_dir", cfg.DataDir).Msg("cache database opened")
	return app, nil
}

func openDB(cfg *config.Config) (*db.DB, error) {
	opts := db.OpenOptions{
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
		BusyTimeout:  cfg.Database.BusyTimeout,
	}

	database, err := db.Open(cfg.DataDir, opts)
	if err == nil {
		return database, nil
	}
	if !stores.IsCorruptionError(err) {
		return nil, fmt.Errorf("open database: %w", err)
	}

	backup, rerr := stores.RecoverFromCorruption(cfg.DataDir)
	if rerr != nil {
		return nil, errors.Join(fmt.Errorf("open database: %w", err), rerr)
	}
	log.Warn().Err(err).Str("backup", backup).Msg("cache database is corrupt, starting a fresh one")

	database, err = db.Open(cfg.DataDir, opts)
	if err != nil {
		return nil, fmt.Errorf("open database after recovery: %w", err)
	}
	return database, nil
}

// Close releases the database, if one was opened.
func (a *App) Close() error {
	if a == nil || a.DB == nil {
		return nil
	}
	return a.DB.Close()
}
