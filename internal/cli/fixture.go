package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmcdole/mosaic/internal/adapter/source/fixture"
)

// NewFixtureCmd creates the fixture command group
func NewFixtureCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fixture",
		Short: "Work with offline feed files",
	}
	cmd.AddCommand(newFixtureGenerateCmd())
	return cmd
}

func newFixtureGenerateCmd() *cobra.Command {
	var (
		count int
		seed  uint64
		out   string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a deterministic feed file for offline browsing",
		Example: `  mosaic fixture generate --count 200 --out feed.yaml
  mosaic --feed-file feed.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if count <= 0 {
				return fmt.Errorf("--count must be at least 1, got %d", count)
			}
			if err := fixture.Save(out, fixture.Generate(count, seed)); err != nil {
				return err
			}
			cmd.Printf("Wrote %d draw and %d photo posts to %s\n", count, count, out)
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 100, "posts per feed")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "random seed")
	cmd.Flags().StringVarP(&out, "out", "o", "feed.yaml", "output file")

	return cmd
}
