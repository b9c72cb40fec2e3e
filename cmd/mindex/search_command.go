package main

import (
	"fmt"
	"log/slog"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/TestProjects-Sigma/music-indexer/internal/catalog"
	"github.com/TestProjects-Sigma/music-indexer/internal/config"
	"github.com/TestProjects-Sigma/music-indexer/internal/search"
)

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "search QUERY",
		Short: "Match a single free-text query against the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, logger *slog.Logger, store *catalog.Store) error {
				engine := search.NewEngine(store, newMatcher(cfg), cfg, logger)
				group, err := engine.SearchOne(cmd.Context(), args[0], cfg.Matching.SwappedFilenameOrder)
				if err != nil {
					return err
				}

				if jsonOut {
					return writeSearchJSON(cmd, group)
				}

				out := cmd.OutOrStdout()
				if group.Status == search.StatusMissing {
					fmt.Fprintf(out, "No matches at or above threshold %d\n", cfg.Matching.Threshold)
					return nil
				}

				rows := make([]table.Row, 0, len(group.Candidates))
				for i, c := range group.Candidates {
					rows = append(rows, table.Row{
						i + 1, c.Score, c.File.Artist, c.File.Title,
						string(c.File.Format), formatBitrate(c.File.Bitrate), c.File.Path,
					})
				}
				writeTable(out, table.Row{"#", "Score", "Artist", "Title", "Format", "Bitrate", "Path"}, rows, 1, 2, 6)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit results as JSON")
	return cmd
}

func writeSearchJSON(cmd *cobra.Command, group *search.Group) error {
	type jsonCandidate struct {
		Score   int      `json:"score"`
		Artist  string   `json:"artist"`
		Title   string   `json:"title"`
		Format  string   `json:"format"`
		Bitrate int      `json:"bitrate"`
		Path    string   `json:"path"`
		Reasons []string `json:"reasons,omitempty"`
	}
	candidates := make([]jsonCandidate, 0, len(group.Candidates))
	for _, c := range group.Candidates {
		candidates = append(candidates, jsonCandidate{
			Score:   c.Score,
			Artist:  c.File.Artist,
			Title:   c.File.Title,
			Format:  string(c.File.Format),
			Bitrate: c.File.Bitrate,
			Path:    c.File.Path,
			Reasons: c.Reasons,
		})
	}
	return writeJSON(cmd, map[string]any{
		"status":     string(group.Status),
		"candidates": candidates,
	})
}

func formatBitrate(kbps int) string {
	if kbps <= 0 {
		return "-"
	}
	return fmt.Sprintf("%d kbps", kbps)
}
