package cli

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/pacdump/pacdump/pkg/errors"
)

// Config is the optional on-disk configuration. Every field has a working
// default: an absent file configures nothing, and command-line flags win
// over anything set here. Values not set here fall back to pacman-conf
// discovery.
type Config struct {
	// Backend selects the database backend: "alpm" (libalpm) or "files"
	// (pure-Go reader).
	Backend string `toml:"backend"`
	// Root overrides pacman's filesystem root.
	Root string `toml:"root"`
	// DBPath overrides pacman's database directory.
	DBPath string `toml:"dbpath"`
	// Repos overrides the sync repository list.
	Repos []string `toml:"repos"`
	// CacheDir overrides the reverse-index cache location.
	CacheDir string `toml:"cache_dir"`
	// NoCache disables the reverse-index cache entirely.
	NoCache bool `toml:"no_cache"`
}

// configPath returns the default config file location
// (~/.config/pacdump/config.toml, honoring XDG_CONFIG_HOME).
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// LoadConfig reads the TOML config at path, or the default location when
// path is empty. A missing file is not an error; a malformed one is.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	if path == "" {
		var err error
		if path, err = configPath(); err != nil {
			return cfg, nil
		}
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeConfig, err, "parse %s", path)
	}
	if cfg.Backend != "" {
		if err := errors.ValidateBackend(cfg.Backend); err != nil {
			return Config{}, err
		}
	}
	return cfg, nil
}
