package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/TestProjects-Sigma/music-indexer/internal/testsupport"
)

type cliTestEnv struct {
	baseDir    string
	musicDir   string
	configPath string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	musicDir := filepath.Join(base, "music")
	if err := os.MkdirAll(musicDir, 0o755); err != nil {
		t.Fatalf("create music dir: %v", err)
	}

	configPath := filepath.Join(base, "config.toml")
	content := fmt.Sprintf(`[paths]
cache_dir = %q
log_dir = %q
export_dir = %q

[scan]
directories = [%q]
recursive = true

[logging]
level = "error"
`,
		filepath.Join(base, "cache"),
		filepath.Join(base, "logs"),
		filepath.Join(base, "exports"),
		musicDir,
	)
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	return &cliTestEnv{baseDir: base, musicDir: musicDir, configPath: configPath}
}

func runCLI(t *testing.T, configPath string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q, got:\n%s", needle, haystack)
	}
}

func TestCLIIndexSearchAndMatch(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteFile(t, filepath.Join(env.musicDir, "Daft Punk - One More Time.mp3"), 2048)
	testsupport.WriteFile(t, filepath.Join(env.musicDir, "Deadmau5 - Strobe.mp3"), 4096)

	out, _, err := runCLI(t, env.configPath, "index")
	if err != nil {
		t.Fatalf("index: %v", err)
	}
	requireContains(t, out, "Scanned 2 files")
	requireContains(t, out, "indexed:   2")

	out, _, err = runCLI(t, env.configPath, "search", "Daft Punk - One More Time")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	requireContains(t, out, "One More Time")

	batchPath := filepath.Join(env.baseDir, "batch.txt")
	batch := strings.Join([]string{
		"# wanted tracks",
		"Daft Punk - One More Time",
		"Nobody - Nothing Ever Written",
	}, "\n")
	if err := os.WriteFile(batchPath, []byte(batch), 0o644); err != nil {
		t.Fatalf("write batch: %v", err)
	}

	csvPath := filepath.Join(env.baseDir, "out.csv")
	copyDir := filepath.Join(env.baseDir, "picked")
	out, _, err = runCLI(t, env.configPath, "match", batchPath, "--csv", csvPath, "--copy-to", copyDir)
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	requireContains(t, out, "1 found")
	requireContains(t, out, "1 missing")
	requireContains(t, out, "Copied 1 files")

	if _, err := os.Stat(csvPath); err != nil {
		t.Fatalf("expected csv export: %v", err)
	}
	if _, err := os.Stat(filepath.Join(copyDir, "Daft Punk - One More Time.mp3")); err != nil {
		t.Fatalf("expected copied file: %v", err)
	}

	replayDir := filepath.Join(env.baseDir, "replayed")
	out, _, err = runCLI(t, env.configPath, "copy", csvPath, replayDir)
	if err != nil {
		t.Fatalf("copy: %v", err)
	}
	requireContains(t, out, "Copied 1 files")
	if _, err := os.Stat(filepath.Join(replayDir, "Daft Punk - One More Time.mp3")); err != nil {
		t.Fatalf("expected replayed copy: %v", err)
	}

	if err := os.Remove(filepath.Join(env.musicDir, "Deadmau5 - Strobe.mp3")); err != nil {
		t.Fatalf("remove track: %v", err)
	}
	out, _, err = runCLI(t, env.configPath, "cache", "prune")
	if err != nil {
		t.Fatalf("cache prune: %v", err)
	}
	requireContains(t, out, "Removed 1 stale rows")

	out, _, err = runCLI(t, env.configPath, "cache", "stats")
	if err != nil {
		t.Fatalf("cache stats: %v", err)
	}
	requireContains(t, out, "Files")

	out, _, err = runCLI(t, env.configPath, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, "Threshold")

	if _, _, err := runCLI(t, env.configPath, "cache", "clear"); err == nil {
		t.Fatal("cache clear without --force should fail")
	}
	out, _, err = runCLI(t, env.configPath, "cache", "clear", "--force")
	if err != nil {
		t.Fatalf("cache clear --force: %v", err)
	}
	requireContains(t, out, "Catalog cleared")
}

func TestCLIIndexReportsMissingRoot(t *testing.T) {
	env := setupCLITestEnv(t)
	if err := os.Remove(env.musicDir); err != nil {
		t.Fatalf("remove music dir: %v", err)
	}

	out, _, err := runCLI(t, env.configPath, "index")
	if err != nil {
		t.Fatalf("index: %v", err)
	}
	requireContains(t, out, "warning")
}
