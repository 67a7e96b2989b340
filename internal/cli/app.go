package cli

import (
	"fmt"
	"log/slog"

	"github.com/mmcdole/mosaic/internal/adapter"
	"github.com/mmcdole/mosaic/internal/adapter/source"
	"github.com/mmcdole/mosaic/internal/service"
	"github.com/mmcdole/mosaic/internal/store"
)

// app holds the services shared by the browser and the layout command
type app struct {
	feeds *service.FeedService
	sizer service.Sizer
	store *store.PageStore
}

// loadConfig reads the config file and applies command-line overrides
func loadConfig(flags globalFlags) (*adapter.Config, error) {
	cfg, err := adapter.LoadConfigFrom(flags.configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if flags.feedFile != "" {
		cfg.Source.Type = adapter.SourceTypeFixture
		cfg.Source.FeedFile = flags.feedFile
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func newApp(cfg *adapter.Config, logger *slog.Logger) (*app, error) {
	repo, err := source.New(&cfg.Source, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create feed source: %w", err)
	}

	pages, err := store.NewPageStore(cfg.Cache.Dir, sourceID(cfg))
	if err != nil {
		// The browser still works without a disk cache
		logger.Warn("page cache unavailable, using memory", "dir", cfg.Cache.Dir, "error", err)
		pages, _ = store.NewPageStore("", "")
	}

	return &app{
		feeds: service.NewFeedService(repo, pages, cfg.Layout.PageSize, cfg.Cache.TTL, logger),
		sizer: service.Sizer{CellAspect: cfg.Layout.CellAspect, CaptionRows: cfg.Layout.CaptionRows},
		store: pages,
	}, nil
}

// sourceID names the source whose pages share one cache database
func sourceID(cfg *adapter.Config) string {
	if cfg.Source.Type == adapter.SourceTypeFixture {
		return "fixture:" + cfg.Source.FeedFile
	}
	return cfg.Source.BaseURL
}

func (a *app) Close() error {
	return a.store.Close()
}
