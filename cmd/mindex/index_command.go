package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/TestProjects-Sigma/music-indexer/internal/catalog"
	"github.com/TestProjects-Sigma/music-indexer/internal/config"
	"github.com/TestProjects-Sigma/music-indexer/internal/indexer"
	"github.com/TestProjects-Sigma/music-indexer/internal/progress"
)

func newIndexCommand(ctx *commandContext) *cobra.Command {
	var fast bool
	var full bool

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Scan configured directories and update the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			if fast && full {
				return errors.New("--fast and --full are mutually exclusive")
			}
			return ctx.withStore(func(cfg *config.Config, logger *slog.Logger, store *catalog.Store) error {
				if fast {
					cfg.Index.FullTags = false
				}
				if full {
					cfg.Index.FullTags = true
				}

				ix := indexer.New(store, cfg, logger)
				summary, err := runWithProgress(cmd.Context(), cmd.ErrOrStderr(), "Indexing",
					func(ctx context.Context, events chan<- progress.Event) (*indexer.Summary, error) {
						return ix.Run(ctx, events)
					})
				if err != nil {
					if errors.Is(err, indexer.ErrLocked) {
						return errors.New("another indexing run is in progress")
					}
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Scanned %d files in %s\n", summary.Scanned, summary.Duration.Round(time.Millisecond))
				fmt.Fprintf(out, "  indexed:   %d\n", summary.Indexed)
				fmt.Fprintf(out, "  unchanged: %d\n", summary.Unchanged)
				if summary.Failed > 0 {
					fmt.Fprintf(out, "  failed:    %d\n", summary.Failed)
				}
				for _, diag := range summary.Diagnostics {
					fmt.Fprintf(out, "  warning: %s: %s\n", diag.Path, diag.Reason)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&fast, "fast", false, "Filename-only extraction, skip tag reading")
	cmd.Flags().BoolVar(&full, "full", false, "Force tag-reading extraction")
	return cmd
}
