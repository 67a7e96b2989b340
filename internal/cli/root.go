// Package cli wires configuration, the feed source and the page cache into
// the mosaic commands.
package cli

import (
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/mmcdole/mosaic/internal/adapter"
	"github.com/mmcdole/mosaic/internal/domain"
	"github.com/mmcdole/mosaic/internal/tui"
)

// globalFlags are shared by every subcommand
type globalFlags struct {
	configFile string
	feedFile   string
}

// NewRootCmd creates the mosaic command tree. Running it without a
// subcommand starts the browser.
func NewRootCmd(version string) *cobra.Command {
	var (
		flags    globalFlags
		kind     string
		listType string
		category string
	)

	cmd := &cobra.Command{
		Use:   "mosaic",
		Short: "Browse picture feeds as a masonry wall in the terminal",
		Long: `mosaic shows the draw and photo feeds as a waterfall of cards and loads
more posts as you scroll.`,
		Example: `  # Browse the hot illustration feed
  mosaic

  # Open the newest cosplay photos
  mosaic --kind photo --type new --category cos

  # Browse offline from a fixture file
  mosaic --feed-file ./feed.yaml`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			q, err := parseQuery(kind, listType, category)
			if err != nil {
				return err
			}
			return runBrowser(cmd, flags, q)
		},
	}

	cmd.PersistentFlags().StringVar(&flags.configFile, "config", "", "config file (default ~/.config/mosaic/config.yaml)")
	cmd.PersistentFlags().StringVar(&flags.feedFile, "feed-file", "", "serve pages from a YAML fixture instead of the network")

	cmd.Flags().StringVarP(&kind, "kind", "k", string(domain.FeedKindDraw), "feed to open: draw or photo")
	cmd.Flags().StringVarP(&listType, "type", "t", string(domain.ListTypeHot), "ordering: hot or new")
	cmd.Flags().StringVarP(&category, "category", "c", "", "category, fuzzy matched (default depends on the feed)")

	cmd.AddCommand(
		NewLayoutCmd(&flags),
		NewCacheCmd(&flags),
		NewConfigCmd(&flags),
		NewFixtureCmd(),
		NewVersionCmd(version),
	)

	return cmd
}

func parseQuery(kind, listType, category string) (domain.Query, error) {
	k, err := domain.ParseFeedKind(kind)
	if err != nil {
		return domain.Query{}, err
	}
	lt, err := domain.ParseListType(listType)
	if err != nil {
		return domain.Query{}, err
	}
	c, err := domain.ResolveCategory(k, category)
	if err != nil {
		return domain.Query{}, err
	}
	return domain.Query{Kind: k, ListType: lt, Category: c}, nil
}

func runBrowser(cmd *cobra.Command, flags globalFlags, q domain.Query) error {
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}

	logger, err := adapter.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = adapter.NullLogger()
	}
	slog.SetDefault(logger)
	logger.Info("starting mosaic", "query", q.Key(), "source", cfg.Source.Type)

	a, err := newApp(cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	model, err := tui.NewModel(tui.Options{
		Service:   a.feeds,
		Opener:    adapter.NewLauncher(cfg.Viewer.Command, cfg.Viewer.Args, logger),
		Sizer:     a.sizer,
		Columns:   cfg.Layout.Columns,
		Gap:       cfg.Layout.Gap,
		Buffer:    cfg.Layout.Buffer,
		LoadAhead: cfg.Layout.LoadAhead,
		Initial:   q,
		Logger:    logger,
	})
	if err != nil {
		return err
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(cmd.Context()),
	)

	logger.Info("starting TUI")
	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}
