package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mmcdole/mosaic/internal/adapter"
	"github.com/mmcdole/mosaic/internal/domain"
	"github.com/mmcdole/mosaic/internal/tui/styles"
	"github.com/mmcdole/mosaic/internal/waterfall"
)

const fallbackWidth = 80

// NewLayoutCmd creates the layout command, which prints the column placement
// of the first pages of a listing without starting the browser.
func NewLayoutCmd(flags *globalFlags) *cobra.Command {
	var (
		kind     string
		listType string
		category string
		pages    int
		width    int
	)

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Print how the first pages of a feed are laid out",
		Example: `  # Lay out three pages at the current terminal width
  mosaic layout --pages 3

  # Lay out the photo feed for a 120-cell wide terminal
  mosaic layout --kind photo --width 120`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			q, err := parseQuery(kind, listType, category)
			if err != nil {
				return err
			}
			if width <= 0 {
				width = terminalWidth()
			}
			return runLayout(cmd, *flags, q, pages, width)
		},
	}

	cmd.Flags().StringVarP(&kind, "kind", "k", string(domain.FeedKindDraw), "feed: draw or photo")
	cmd.Flags().StringVarP(&listType, "type", "t", string(domain.ListTypeHot), "ordering: hot or new")
	cmd.Flags().StringVarP(&category, "category", "c", "", "category, fuzzy matched")
	cmd.Flags().IntVarP(&pages, "pages", "p", 1, "number of pages to fetch")
	cmd.Flags().IntVarP(&width, "width", "w", 0, "container width in cells (default terminal width)")

	return cmd
}

func terminalWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return fallbackWidth
	}
	return w
}

func runLayout(cmd *cobra.Command, flags globalFlags, q domain.Query, pages, width int) error {
	if pages <= 0 {
		return fmt.Errorf("--pages must be at least 1, got %d", pages)
	}

	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}
	a, err := newApp(cfg, adapter.NullLogger())
	if err != nil {
		return err
	}
	defer a.Close()

	fetched, err := a.feeds.FetchPages(cmd.Context(), q, pages)
	if err != nil {
		return err
	}

	wf, err := waterfall.New[domain.Post](waterfall.Options{
		Columns: cfg.Layout.Columns,
		Gap:     float64(cfg.Layout.Gap),
	}, waterfall.Callbacks{})
	if err != nil {
		return err
	}
	wf.Measure(float64(width), 0)

	colWidth, err := wf.ColumnWidth()
	if err != nil {
		return err
	}
	cw := float64(int(colWidth))

	total := 0
	for _, page := range fetched {
		sizes := a.sizer.Sizes(page.Items, cw)
		items := make([]waterfall.ItemInfo[domain.Post], len(page.Items))
		for i, p := range page.Items {
			items[i] = waterfall.ItemInfo[domain.Post]{Item: p, Size: sizes[i]}
		}
		if err := wf.Append(wf.Generation(), items); err != nil {
			return err
		}
		total = page.TotalCount
	}

	printLayout(cmd.OutOrStdout(), q, wf, int(cw), total)
	return nil
}

func printLayout(w io.Writer, q domain.Query, wf *waterfall.Waterfall[domain.Post], colWidth, total int) {
	fmt.Fprintf(w, "%s: %d of %d posts, %d columns of %d cells\n",
		q, wf.Len(), total, wf.Options().Columns, colWidth)

	items := wf.Items()
	for _, col := range wf.Columns() {
		fmt.Fprintf(w, "\ncolumn %d  height %.0f  posts %d\n", col.Index, col.CumulativeHeight, len(col.Assigned))
		for _, p := range col.Assigned {
			post := items[p.ItemIndex].Item
			fmt.Fprintf(w, "  %4d  top %5.0f  h %3.0f  #%d %s\n",
				p.ItemIndex, p.Top, items[p.ItemIndex].Size, post.DocID, styles.Truncate(post.DisplayTitle(), 32))
		}
	}
	fmt.Fprintf(w, "\ncontent height %.0f\n", wf.ContentHeight())
}
