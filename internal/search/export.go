package search

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// WriteCSV exports the run as CSV: one row per candidate, one row per
// missing entry.
func (r *Result) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	header := []string{"line", "entry", "status", "score", "artist", "title", "path", "format", "bitrate", "selected"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, group := range r.Groups {
		if len(group.Candidates) == 0 {
			row := []string{
				strconv.Itoa(group.Entry.Line), group.Entry.Raw, string(group.Status),
				"", "", "", "", "", "", "",
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("write csv row: %w", err)
			}
			continue
		}
		for _, c := range group.Candidates {
			row := []string{
				strconv.Itoa(group.Entry.Line),
				group.Entry.Raw,
				string(group.Status),
				strconv.Itoa(c.Score),
				c.File.Artist,
				c.File.Title,
				c.File.Path,
				string(c.File.Format),
				strconv.Itoa(c.File.Bitrate),
				strconv.FormatBool(c.Selected),
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("write csv row: %w", err)
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteReport exports a human-readable plain-text summary of the run.
func (r *Result) WriteReport(w io.Writer) error {
	missing, found, multiple := r.Counts()
	if _, err := fmt.Fprintf(w, "Search run %s\n%d entries: %d found, %d multiple, %d missing\n\n",
		r.RunID, len(r.Groups), found, multiple, missing); err != nil {
		return err
	}

	for _, group := range r.Groups {
		if _, err := fmt.Fprintf(w, "[%s] line %d: %s\n", group.Status, group.Entry.Line, group.Entry.Raw); err != nil {
			return err
		}
		for _, c := range group.Candidates {
			marker := " "
			if c.Selected {
				marker = "*"
			}
			if _, err := fmt.Fprintf(w, "  %s %3d  %s (%s, %d kbps)\n",
				marker, c.Score, c.File.Path, c.File.Format, c.File.Bitrate); err != nil {
				return err
			}
		}
	}

	if len(r.Diagnostics) > 0 {
		if _, err := fmt.Fprintf(w, "\nSkipped lines:\n"); err != nil {
			return err
		}
		for _, d := range r.Diagnostics {
			if _, err := fmt.Fprintf(w, "  line %d: %s (%s)\n", d.Line, d.Raw, d.Reason); err != nil {
				return err
			}
		}
	}
	return nil
}
