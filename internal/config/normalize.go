package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeScan(); err != nil {
		return err
	}
	c.normalizeIndex()
	c.normalizeMatching()
	c.normalizeSelection()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.CacheDir) == "" {
		c.Paths.CacheDir = defaultCacheDir
	}
	if c.Paths.CacheDir, err = expandPath(c.Paths.CacheDir); err != nil {
		return fmt.Errorf("paths.cache_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.ExportDir) == "" {
		c.Paths.ExportDir = defaultExportDir
	}
	if c.Paths.ExportDir, err = expandPath(c.Paths.ExportDir); err != nil {
		return fmt.Errorf("paths.export_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeScan() error {
	cleaned := make([]string, 0, len(c.Scan.Directories))
	seen := make(map[string]struct{}, len(c.Scan.Directories))
	for _, dir := range c.Scan.Directories {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		expanded, err := expandPath(dir)
		if err != nil {
			return fmt.Errorf("scan.directories: %w", err)
		}
		if _, ok := seen[expanded]; ok {
			continue
		}
		seen[expanded] = struct{}{}
		cleaned = append(cleaned, expanded)
	}
	c.Scan.Directories = cleaned
	return nil
}

func (c *Config) normalizeIndex() {
	if c.Index.Workers <= 0 {
		c.Index.Workers = defaultWorkers
	}
	if c.Index.BatchSize <= 0 {
		c.Index.BatchSize = defaultBatchSize
	}
}

func (c *Config) normalizeMatching() {
	if c.Matching.MaxCandidates <= 0 {
		c.Matching.MaxCandidates = defaultMaxCandidates
	}
	if c.Matching.PrefilterLimit <= 0 {
		c.Matching.PrefilterLimit = defaultPrefilterLimit
	}
	if c.Matching.PrefilterMinRows < 0 {
		c.Matching.PrefilterMinRows = defaultPrefilterMinRows
	}
	suffixes := make([]string, 0, len(c.Matching.IgnoredSuffixes))
	for _, suffix := range c.Matching.IgnoredSuffixes {
		suffix = strings.ToLower(strings.TrimSpace(suffix))
		if suffix != "" {
			suffixes = append(suffixes, suffix)
		}
	}
	c.Matching.IgnoredSuffixes = suffixes
}

func (c *Config) normalizeSelection() {
	formats := make([]string, 0, len(c.Selection.FormatPreference))
	for _, format := range c.Selection.FormatPreference {
		format = strings.ToLower(strings.TrimSpace(format))
		if format != "" {
			formats = append(formats, format)
		}
	}
	if len(formats) == 0 {
		formats = append(formats, defaultFormatPreference...)
	}
	c.Selection.FormatPreference = formats
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
