package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

type Config struct {
	ExportsRoot string `toml:"exports_root"`
	DBPath      string `toml:"db_path"`
	Self        string `toml:"self"`  // "" = "You" if present, else first sender
	Addr        string `toml:"addr"`  // listen address for serve
	Width       int    `toml:"width"` // terminal wrap width, 0 = detect
	UploadCache int    `toml:"upload_cache"`
	// JoinContinuations keeps wrapped lines of multi-line messages instead of
	// dropping them.
	JoinContinuations bool `toml:"join_continuations"`
}

// Load returns the defaults overlaid with ~/.config/chatview/config.toml if
// that file exists.
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return LoadFrom(filepath.Join(home, ".config", "chatview", "config.toml"), home)
}

// LoadFrom is Load with an explicit config path and home directory.
func LoadFrom(cfgPath, home string) (*Config, error) {
	cfg := &Config{
		ExportsRoot: filepath.Join(home, "WhatsApp"),
		DBPath:      filepath.Join(home, ".config", "chatview", "chatview.db"),
		Addr:        "127.0.0.1:8080",
		UploadCache: 64,
	}

	if _, err := os.Stat(cfgPath); err == nil {
		if _, err := toml.DecodeFile(cfgPath, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", cfgPath, err)
		}
	}

	// expand ~ in paths
	cfg.ExportsRoot = expandHome(cfg.ExportsRoot, home)
	cfg.DBPath = expandHome(cfg.DBPath, home)

	if cfg.UploadCache <= 0 {
		cfg.UploadCache = 64
	}

	return cfg, nil
}

func expandHome(path, home string) string {
	if len(path) > 1 && path[0] == '~' && path[1] == '/' {
		return filepath.Join(home, path[2:])
	}
	return path
}
