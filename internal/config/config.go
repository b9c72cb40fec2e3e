package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	CacheDir  string `toml:"cache_dir"`
	LogDir    string `toml:"log_dir"`
	ExportDir string `toml:"export_dir"`
}

// Scan controls which directories are enumerated for audio files.
type Scan struct {
	Directories []string `toml:"directories"`
	Recursive   bool     `toml:"recursive"`
}

// Index controls metadata capture during indexing runs.
type Index struct {
	// FullTags selects full tag-reading extraction; when false only
	// filesystem stat and filename parsing are used.
	FullTags  bool `toml:"full_tags"`
	Workers   int  `toml:"workers"`
	BatchSize int  `toml:"batch_size"`
}

// Matching controls similarity scoring and candidate filtering.
type Matching struct {
	Threshold            int      `toml:"threshold"`
	Electronic           bool     `toml:"electronic"`
	IgnoredSuffixes      []string `toml:"ignored_suffixes"`
	SwappedFilenameOrder bool     `toml:"swapped_filename_order"`
	MaxCandidates        int      `toml:"max_candidates"`
	PrefilterLimit       int      `toml:"prefilter_limit"`
	// PrefilterMinRows is the catalog size above which searches use the
	// keyword pre-filter. At or below it every row is scored, so keyword
	// misspellings cannot hide a match on small collections.
	PrefilterMinRows int `toml:"prefilter_min_rows"`
}

// Selection controls automatic best-candidate selection.
type Selection struct {
	Enabled             bool     `toml:"enabled"`
	MinScore            int      `toml:"min_score"`
	ScoreTolerance      int      `toml:"score_tolerance"`
	FormatPreference    []string `toml:"format_preference"`
	PreferHigherBitrate bool     `toml:"prefer_higher_bitrate"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for the indexer.
//
// Sections by subsystem:
//   - Paths: cache, log, and export directories
//   - Scan: collection roots and recursion
//   - Index: fast/full extraction mode, worker count, write batch size
//   - Matching: similarity threshold and electronic-music options
//   - Selection: auto-select scoring preferences
//   - Logging: log format and level
type Config struct {
	Paths     Paths     `toml:"paths"`
	Scan      Scan      `toml:"scan"`
	Index     Index     `toml:"index"`
	Matching  Matching  `toml:"matching"`
	Selection Selection `toml:"selection"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/mindex/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. The boolean reports
// whether a config file was found at the resolved path.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("mindex.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories the indexer writes to.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.CacheDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if strings.TrimSpace(c.Paths.ExportDir) != "" {
		if err := os.MkdirAll(c.Paths.ExportDir, 0o755); err != nil {
			return fmt.Errorf("create export directory %q: %w", c.Paths.ExportDir, err)
		}
	}
	return nil
}

// DatabasePath returns the location of the persisted catalog database.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Paths.CacheDir, "catalog.db")
}

// LockPath returns the location of the indexing run lock file.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.CacheDir, "index.lock")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
