package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pacdump/pacdump/pkg/cache"
	"github.com/pacdump/pacdump/pkg/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
backend = "files"
dbpath = "/tmp/pacman-db"
repos = ["core", "extra"]
no_cache = true
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if cfg.Backend != "files" || cfg.DBPath != "/tmp/pacman-db" || !cfg.NoCache {
		t.Errorf("cfg = %+v", cfg)
	}
	if len(cfg.Repos) != 2 || cfg.Repos[1] != "extra" {
		t.Errorf("Repos = %v", cfg.Repos)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nonexistent.toml"))
	if err != nil {
		t.Fatalf("a missing config file must not be an error, got %v", err)
	}
	if cfg != (Config{}) {
		t.Errorf("cfg = %+v, want zero value", cfg)
	}
}

func TestLoadConfigMalformed(t *testing.T) {
	path := writeConfig(t, "backend = [broken")
	if _, err := LoadConfig(path); !errors.Is(err, errors.ErrCodeConfig) {
		t.Fatalf("error = %v, want CONFIG_ERROR", err)
	}
}

func TestLoadConfigBadBackend(t *testing.T) {
	path := writeConfig(t, `backend = "sqlite"`)
	if _, err := LoadConfig(path); !errors.Is(err, errors.ErrCodeInvalidBackend) {
		t.Fatalf("error = %v, want INVALID_BACKEND", err)
	}
}

func TestStoreOptsPrecedence(t *testing.T) {
	c := &CLI{Config: Config{Backend: "files", Root: "/custom", NoCache: false}}

	// The flag wins over the config file.
	opts := c.storeOpts("alpm", true)
	if opts.backend != "alpm" {
		t.Errorf("backend = %q, want the flag value", opts.backend)
	}
	if !opts.noCache {
		t.Error("noCache flag must win")
	}

	// Without a flag the config file wins, then the built-in default.
	if opts := c.storeOpts("", false); opts.backend != "files" {
		t.Errorf("backend = %q, want the config value", opts.backend)
	}
	empty := &CLI{}
	if opts := empty.storeOpts("", false); opts.backend != "alpm" {
		t.Errorf("backend = %q, want the default", opts.backend)
	}
}

func TestNewCacheUsesConfiguredDir(t *testing.T) {
	dir := t.TempDir()
	c := &CLI{Config: Config{CacheDir: dir}}
	cch := c.newCache(false)
	defer cch.Close()

	fc, ok := cch.(*cache.FileCache)
	if !ok {
		t.Fatalf("cache = %T, want a file cache", cch)
	}
	if fc.Dir() != dir {
		t.Errorf("Dir = %q, want %q", fc.Dir(), dir)
	}
}

func TestNewCacheDisabled(t *testing.T) {
	c := &CLI{Config: Config{NoCache: true}}
	if _, ok := c.newCache(false).(*cache.NullCache); !ok {
		t.Error("no_cache in the config must disable caching")
	}
	c = &CLI{}
	if _, ok := c.newCache(true).(*cache.NullCache); !ok {
		t.Error("the flag must disable caching")
	}
}
