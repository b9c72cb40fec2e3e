package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

const fileColumns = `id, path, filename, size, mod_time_unix, format, artist, title, album,
bitrate, duration_seconds, sample_rate, fully_indexed, last_scanned`

// Upsert inserts the file or replaces the existing row for the same path.
func (s *Store) Upsert(ctx context.Context, file *File) error {
	return s.UpsertBatch(ctx, []*File{file})
}

// UpsertBatch writes a batch of files in a single transaction. Either every
// row in the batch lands or none do.
func (s *Store) UpsertBatch(ctx context.Context, files []*File) error {
	if len(files) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin batch: %v", ErrWrite, err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO files (path, filename, size, mod_time_unix, format, artist, title, album,
    bitrate, duration_seconds, sample_rate, fully_indexed, last_scanned)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(path) DO UPDATE SET
    filename = excluded.filename,
    size = excluded.size,
    mod_time_unix = excluded.mod_time_unix,
    format = excluded.format,
    artist = excluded.artist,
    title = excluded.title,
    album = excluded.album,
    bitrate = excluded.bitrate,
    duration_seconds = excluded.duration_seconds,
    sample_rate = excluded.sample_rate,
    fully_indexed = excluded.fully_indexed,
    last_scanned = excluded.last_scanned`)
	if err != nil {
		return fmt.Errorf("%w: prepare upsert: %v", ErrWrite, err)
	}
	defer stmt.Close()

	for _, file := range files {
		if file.LastScanned.IsZero() {
			file.LastScanned = time.Now()
		}
		_, err := stmt.ExecContext(ctx,
			file.Path, file.Filename, file.Size, file.ModTime.UnixNano(), string(file.Format),
			file.Artist, file.Title, file.Album,
			file.Bitrate, file.DurationSeconds, file.SampleRate,
			boolToInt(file.FullyIndexed), file.LastScanned.UTC().Format(time.RFC3339Nano))
		if err != nil {
			return fmt.Errorf("%w: upsert %s: %v", ErrWrite, file.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit batch: %v", ErrWrite, err)
	}
	return nil
}

// Fingerprint returns the stored staleness fingerprint for the path, or
// (nil, nil) when the path is not in the catalog.
func (s *Store) Fingerprint(ctx context.Context, path string) (*Fingerprint, error) {
	var (
		size        int64
		modUnixNano int64
		fullInt     int
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT size, mod_time_unix, fully_indexed FROM files WHERE path = ?", path,
	).Scan(&size, &modUnixNano, &fullInt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query fingerprint: %w", err)
	}
	return &Fingerprint{
		Size:         size,
		ModTime:      time.Unix(0, modUnixNano),
		FullyIndexed: fullInt != 0,
	}, nil
}

// Get returns the catalog row for the path, or (nil, nil) when absent.
func (s *Store) Get(ctx context.Context, path string) (*File, error) {
	row := s.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT %s FROM files WHERE path = ?", fileColumns), path)
	file, err := scanFile(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query file: %w", err)
	}
	return file, nil
}

// Prefilter returns every file whose artist, title, or filename contains at
// least one of the keywords (case-insensitive substring match). The result is
// a superset of the real matches; scoring narrows it down. limit caps the
// result size; zero or negative means no cap.
func (s *Store) Prefilter(ctx context.Context, keywords []string, limit int) ([]*File, error) {
	if len(keywords) == 0 {
		return nil, nil
	}

	var (
		clauses []string
		args    []any
	)
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		pattern := "%" + escapeLike(kw) + "%"
		clauses = append(clauses,
			"LOWER(artist) LIKE ? ESCAPE '\\' OR LOWER(title) LIKE ? ESCAPE '\\' OR LOWER(filename) LIKE ? ESCAPE '\\'")
		args = append(args, pattern, pattern, pattern)
	}
	if len(clauses) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf("SELECT %s FROM files WHERE (%s) ORDER BY path",
		fileColumns, strings.Join(clauses, ") OR ("))
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("prefilter query: %w", err)
	}
	defer rows.Close()

	return collectFiles(rows)
}

// All returns every file in the catalog ordered by path.
func (s *Store) All(ctx context.Context) ([]*File, error) {
	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf("SELECT %s FROM files ORDER BY path", fileColumns))
	if err != nil {
		return nil, fmt.Errorf("query all files: %w", err)
	}
	defer rows.Close()

	return collectFiles(rows)
}

// Count returns the number of files in the catalog.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM files").Scan(&count); err != nil {
		return 0, fmt.Errorf("count files: %w", err)
	}
	return count, nil
}

// Paths returns every indexed path ordered lexically. Used by cache prune to
// stat entries without loading full rows.
func (s *Store) Paths(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT path FROM files ORDER BY path")
	if err != nil {
		return nil, fmt.Errorf("query paths: %w", err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("scan path: %w", err)
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}

// Remove deletes the rows for the given paths. Returns the number removed.
func (s *Store) Remove(ctx context.Context, paths []string) (int, error) {
	if len(paths) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: begin remove: %v", ErrWrite, err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, "DELETE FROM files WHERE path = ?")
	if err != nil {
		return 0, fmt.Errorf("%w: prepare remove: %v", ErrWrite, err)
	}
	defer stmt.Close()

	removed := 0
	for _, p := range paths {
		res, err := stmt.ExecContext(ctx, p)
		if err != nil {
			return 0, fmt.Errorf("%w: remove %s: %v", ErrWrite, p, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			removed += int(n)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%w: commit remove: %v", ErrWrite, err)
	}
	return removed, nil
}

// Clear deletes every row from the catalog.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM files"); err != nil {
		return fmt.Errorf("%w: clear catalog: %v", ErrWrite, err)
	}
	return nil
}

// Stats aggregates per-format counts, average bitrate, and total duration.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{Formats: make(map[Format]int)}

	err := s.db.QueryRowContext(ctx, `
SELECT COUNT(1),
       COALESCE(SUM(fully_indexed), 0),
       COALESCE(AVG(CASE WHEN bitrate > 0 THEN bitrate END), 0),
       COALESCE(SUM(duration_seconds), 0)
FROM files`).Scan(&stats.Files, &stats.FullyIndexed, &stats.AvgBitrate, &stats.TotalDuration)
	if err != nil {
		return nil, fmt.Errorf("query stats: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, "SELECT format, COUNT(1) FROM files GROUP BY format")
	if err != nil {
		return nil, fmt.Errorf("query format counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			format string
			count  int
		)
		if err := rows.Scan(&format, &count); err != nil {
			return nil, fmt.Errorf("scan format count: %w", err)
		}
		stats.Formats[Format(format)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	stats.SizeOnDisk = s.SizeOnDisk()
	return stats, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFile(row rowScanner) (*File, error) {
	var (
		file        File
		format      string
		modUnixNano int64
		fullInt     int
		lastScanned string
	)
	err := row.Scan(&file.ID, &file.Path, &file.Filename, &file.Size, &modUnixNano,
		&format, &file.Artist, &file.Title, &file.Album,
		&file.Bitrate, &file.DurationSeconds, &file.SampleRate, &fullInt, &lastScanned)
	if err != nil {
		return nil, err
	}
	file.ModTime = time.Unix(0, modUnixNano)
	file.Format = Format(format)
	file.FullyIndexed = fullInt != 0
	if ts, parseErr := time.Parse(time.RFC3339Nano, lastScanned); parseErr == nil {
		file.LastScanned = ts
	}
	return &file, nil
}

func collectFiles(rows *sql.Rows) ([]*File, error) {
	var files []*File
	for rows.Next() {
		file, err := scanFile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		files = append(files, file)
	}
	return files, rows.Err()
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
