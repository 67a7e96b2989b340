package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmcdole/mosaic/internal/adapter"
	"github.com/mmcdole/mosaic/internal/store"
)

// NewCacheCmd creates the cache command group
func NewCacheCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the page cache",
	}
	cmd.AddCommand(newCacheClearCmd(flags))
	return cmd
}

func newCacheClearCmd(flags *globalFlags) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete the cached pages of the configured source",
		Long: `Delete the cached pages of the configured source. With --all the whole
cache directory is removed, including pages of other sources.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := adapter.LoadConfigFrom(flags.configFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if flags.feedFile != "" {
				cfg.Source.Type = adapter.SourceTypeFixture
				cfg.Source.FeedFile = flags.feedFile
			}
			dir := cfg.Cache.Dir
			if dir == "" {
				dir = adapter.GetCachePath()
			}

			if all {
				if err := adapter.ClearCache(dir); err != nil {
					return err
				}
				cmd.Printf("Cleared page cache at %s\n", dir)
				return nil
			}

			id := sourceID(cfg)
			pages, err := store.NewPageStore(dir, id)
			if err != nil {
				return fmt.Errorf("failed to open page cache: %w", err)
			}
			pages.InvalidateAll()
			if err := pages.Close(); err != nil {
				return err
			}
			cmd.Printf("Cleared cached pages of %s\n", id)
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "remove the cache of every source")
	return cmd
}
