package app

import (
	"context"
	"fmt"
	"time"

	"github.com/five82/subdeck/internal/api"
	"github.com/five82/subdeck/internal/config"
	"github.com/five82/subdeck/internal/crud"
	"github.com/five82/subdeck/internal/diskcache"
	"github.com/five82/subdeck/internal/logging"
	"github.com/five82/subdeck/internal/prefs"
	"github.com/five82/subdeck/internal/state"
	"github.com/five82/subdeck/internal/ui"
)

// Options configure the subdeck application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/subdeck/prefs.toml
	PollEvery  int    // seconds; zero uses the config value
}

// Run boots the subdeck TUI until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, closer, err := logging.Setup(logging.Options{Path: cfg.LogPath(), Level: cfg.LogLevel})
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer func() { _ = closer.Close() }()
	logging.SetDefault(logger)
	ctx = logging.WithLogger(ctx, &logger)

	prefsFile, err := prefs.Open(opts.PrefsPath)
	if err != nil {
		return err
	}
	userPrefs, err := prefsFile.Load()
	if err != nil {
		logger.Warn().Err(err).Str("path", prefsFile.Path()).Msg("ignoring unreadable prefs")
	}
	userPrefs = userPrefs.Normalize(ui.ThemeNames())

	client, err := api.NewClient(cfg.APIBind, cfg.APIToken)
	if err != nil {
		return fmt.Errorf("init api client: %w", err)
	}

	store := state.NewStore()
	svcOpts := []crud.Option{crud.WithLogger(&logger)}
	if cfg.CacheEnabled() {
		cache, err := diskcache.Open(cfg.CacheDir)
		if err != nil {
			return fmt.Errorf("open cache: %w", err)
		}
		seedFromCache(ctx, store, cache)
		svcOpts = append(svcOpts, crud.WithCache(cache))
	}
	svc := crud.New(client, store, svcOpts...)

	interval := cfg.PollInterval()
	if opts.PollEvery > 0 {
		interval = time.Duration(opts.PollEvery) * time.Second
	}

	logger.Info().
		Str("api", client.BaseURL()).
		Dur("poll", interval).
		Bool("cache", cfg.CacheEnabled()).
		Msg("subdeck starting")

	StartPoller(ctx, svc, interval)

	uiOpts := ui.Options{
		Context:   ctx,
		Service:   svc,
		Config:    &cfg,
		ThemeName: userPrefs.Theme,
		ShowLogs:  userPrefs.ShowLogs,
		Search:    userPrefs.Search,
		Prefs:     prefsFile,
	}
	return ui.Run(uiOpts)
}

// seedFromCache fills the store with the last persisted collection. Cache
// problems are logged and otherwise ignored.
func seedFromCache(ctx context.Context, store *state.Store, cache *diskcache.Cache) {
	log := logging.FromContext(ctx)
	subs, err := cache.Load(ctx)
	if err != nil {
		log.Warn().Err(err).Str("dir", cache.Path()).Msg("cache read failed")
	}
	if len(subs) == 0 {
		return
	}
	store.Seed(subs)
	log.Debug().Int("count", len(subs)).Msg("seeded from cache")
}
