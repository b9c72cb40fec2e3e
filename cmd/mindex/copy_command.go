package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/TestProjects-Sigma/music-indexer/internal/copier"
	"github.com/TestProjects-Sigma/music-indexer/internal/progress"
)

func newCopyCommand(ctx *commandContext) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "copy CSV DEST",
		Short: "Copy files from an exported match CSV into a directory",
		Long: "Copy reads a CSV produced by `mindex match --csv` and copies the " +
			"selected candidate of each entry into DEST. With --all every listed " +
			"candidate is copied instead.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			paths, err := readCSVPaths(args[0], all)
			if err != nil {
				return err
			}
			if len(paths) == 0 {
				return errors.New("no selected candidates in CSV (re-run match without --no-select, or pass --all)")
			}

			summary, err := runWithProgress(cmd.Context(), cmd.ErrOrStderr(), "Copying",
				func(ctx context.Context, events chan<- progress.Event) (*copier.Summary, error) {
					return copier.New(logger).CopyFiles(ctx, paths, args[1], events)
				})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Copied %d files to %s\n", summary.Copied, args[1])
			for _, failure := range summary.Failed {
				fmt.Fprintf(out, "  failed: %s: %v\n", failure.Path, failure.Err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Copy every candidate, not just selected ones")
	return cmd
}

// readCSVPaths extracts candidate paths from a match export. The column
// layout must match search.WriteCSV.
func readCSVPaths(csvPath string, all bool) ([]string, error) {
	f, err := os.Open(csvPath)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	pathCol, selectedCol := -1, -1
	for i, name := range header {
		switch name {
		case "path":
			pathCol = i
		case "selected":
			selectedCol = i
		}
	}
	if pathCol < 0 || selectedCol < 0 {
		return nil, errors.New("csv is not a match export (missing path/selected columns)")
	}

	var paths []string
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		path := record[pathCol]
		if path == "" {
			continue
		}
		if all || record[selectedCol] == "true" {
			paths = append(paths, path)
		}
	}
	return paths, nil
}
