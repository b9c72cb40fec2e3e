package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/TestProjects-Sigma/music-indexer/internal/catalog"
	"github.com/TestProjects-Sigma/music-indexer/internal/config"
	"github.com/TestProjects-Sigma/music-indexer/internal/copier"
	"github.com/TestProjects-Sigma/music-indexer/internal/progress"
	"github.com/TestProjects-Sigma/music-indexer/internal/search"
	"github.com/TestProjects-Sigma/music-indexer/internal/selector"
)

func newMatchCommand(ctx *commandContext) *cobra.Command {
	var csvPath string
	var copyDest string
	var noSelect bool

	cmd := &cobra.Command{
		Use:   "match FILE",
		Short: "Match every line of a track list against the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, logger *slog.Logger, store *catalog.Store) error {
				entries, diagnostics, err := search.LoadEntries(args[0], cfg.Matching.SwappedFilenameOrder)
				if err != nil {
					return err
				}
				if len(entries) == 0 {
					return errors.New("match file contains no usable entries")
				}

				engine := search.NewEngine(store, newMatcher(cfg), cfg, logger)
				result, err := runWithProgress(cmd.Context(), cmd.ErrOrStderr(), "Matching",
					func(ctx context.Context, events chan<- progress.Event) (*search.Result, error) {
						return engine.Search(ctx, entries, events)
					})
				if err != nil {
					return err
				}
				result.Diagnostics = diagnostics

				if cfg.Selection.Enabled && !noSelect {
					selector.New(cfg.Selection, logger).SelectAll(result)
				}

				out := cmd.OutOrStdout()
				if err := result.WriteReport(out); err != nil {
					return err
				}

				if csvPath != "" {
					target, err := resolveCSVPath(csvPath, result.RunID)
					if err != nil {
						return err
					}
					if err := writeCSVFile(result, target); err != nil {
						return err
					}
					fmt.Fprintf(out, "\nWrote CSV to %s\n", target)
				}

				if copyDest != "" {
					summary, err := runWithProgress(cmd.Context(), cmd.ErrOrStderr(), "Copying",
						func(ctx context.Context, events chan<- progress.Event) (*copier.Summary, error) {
							return copier.New(logger).CopySelected(ctx, result, copyDest, events)
						})
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "\nCopied %d files to %s\n", summary.Copied, copyDest)
					for _, failure := range summary.Failed {
						fmt.Fprintf(out, "  failed: %s: %v\n", failure.Path, failure.Err)
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&csvPath, "csv", "", "Write results as CSV (a directory resolves to <run-id>.csv inside it)")
	cmd.Flags().StringVar(&copyDest, "copy-to", "", "Copy selected files into this directory")
	cmd.Flags().BoolVar(&noSelect, "no-select", false, "Skip automatic best-candidate selection")
	return cmd
}

// resolveCSVPath expands the --csv argument. A directory (or a path with a
// trailing separator) gets a run-scoped filename appended.
func resolveCSVPath(arg, runID string) (string, error) {
	path, err := config.ExpandPath(arg)
	if err != nil {
		return "", err
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return filepath.Join(path, runID+".csv"), nil
	}
	return path, nil
}

func writeCSVFile(result *search.Result, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	defer f.Close()

	if err := result.WriteCSV(f); err != nil {
		return err
	}
	return f.Close()
}
