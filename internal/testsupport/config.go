package testsupport

import (
	"path/filepath"
	"testing"

	"github.com/TestProjects-Sigma/music-indexer/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.CacheDir = filepath.Join(base, "cache")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.ExportDir = filepath.Join(base, "exports")
	cfg.Scan.Directories = []string{filepath.Join(base, "music")}

	for _, opt := range opts {
		opt(&cfg)
	}

	return &cfg
}

// WithScanDirs overrides the scan roots on the test config.
func WithScanDirs(dirs ...string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Scan.Directories = dirs
	}
}

// WithElectronic enables electronic music scoring on the test config.
func WithElectronic() ConfigOption {
	return func(cfg *config.Config) {
		cfg.Matching.Electronic = true
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.CacheDir)
}
