package main

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/TestProjects-Sigma/music-indexer/internal/catalog"
	"github.com/TestProjects-Sigma/music-indexer/internal/config"
	"github.com/TestProjects-Sigma/music-indexer/internal/indexer"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Catalog database utilities",
	}

	cacheCmd.AddCommand(newCacheStatsCommand(ctx))
	cacheCmd.AddCommand(newCachePruneCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))

	return cacheCmd
}

func newCacheStatsCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show catalog size and composition",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, logger *slog.Logger, store *catalog.Store) error {
				stats, err := store.Stats(cmd.Context())
				if err != nil {
					return err
				}

				if jsonOut {
					return writeJSON(cmd, map[string]any{
						"database":       store.Path(),
						"files":          stats.Files,
						"fully_indexed":  stats.FullyIndexed,
						"avg_bitrate":    stats.AvgBitrate,
						"total_duration": stats.TotalDuration,
						"size_on_disk":   stats.SizeOnDisk,
						"formats":        stats.Formats,
					})
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Database: %s\n\n", store.Path())

				rows := []table.Row{
					{"Files", fmt.Sprintf("%d", stats.Files)},
					{"Fully indexed", fmt.Sprintf("%d", stats.FullyIndexed)},
					{"Average bitrate", formatBitrate(int(stats.AvgBitrate))},
					{"Total duration", formatDuration(stats.TotalDuration)},
					{"Size on disk", formatSize(stats.SizeOnDisk)},
				}
				for _, format := range catalog.Formats {
					if count := stats.Formats[format]; count > 0 {
						rows = append(rows, table.Row{string(format) + " files", fmt.Sprintf("%d", count)})
					}
				}
				writeTable(out, table.Row{"Metric", "Value"}, rows, 2)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit stats as JSON")
	return cmd
}

func newCachePruneCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Remove catalog rows whose files no longer exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, logger *slog.Logger, store *catalog.Store) error {
				removed, err := indexer.Prune(cmd.Context(), store, logger)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d stale rows\n", removed)
				return nil
			})
		},
	}
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every row from the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				return errors.New("refusing to clear the catalog without --force")
			}
			return ctx.withStore(func(cfg *config.Config, logger *slog.Logger, store *catalog.Store) error {
				if err := store.Clear(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Catalog cleared")
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Confirm clearing the catalog")
	return cmd
}

func formatDuration(seconds float64) string {
	if seconds <= 0 {
		return "-"
	}
	return time.Duration(seconds * float64(time.Second)).Round(time.Second).String()
}

func formatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
