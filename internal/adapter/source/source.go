package source

import (
	"fmt"
	"log/slog"

	"github.com/mmcdole/mosaic/internal/adapter"
	"github.com/mmcdole/mosaic/internal/adapter/source/fixture"
	"github.com/mmcdole/mosaic/internal/adapter/source/linkdraw"
	"github.com/mmcdole/mosaic/internal/domain"
)

// New creates a feed repository based on the configured source type.
// This factory function abstracts away the specific backend implementation.
func New(cfg *adapter.SourceConfig, logger *slog.Logger) (domain.FeedRepository, error) {
	if cfg == nil {
		return nil, fmt.Errorf("source config is nil")
	}

	switch cfg.Type {
	case adapter.SourceTypeHTTP:
		if cfg.BaseURL == "" {
			return nil, fmt.Errorf("source base URL is required")
		}
		return linkdraw.NewClient(cfg.BaseURL, cfg.Timeout, logger), nil

	case adapter.SourceTypeFixture:
		if cfg.FeedFile == "" {
			return nil, fmt.Errorf("feed file is required for the fixture source")
		}
		src, err := fixture.Load(cfg.FeedFile)
		if err != nil {
			return nil, err
		}
		return src, nil

	default:
		return nil, fmt.Errorf("unknown source type: %s", cfg.Type)
	}
}
